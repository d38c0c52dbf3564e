package config

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ReviewDB is the global review store connection
var ReviewDB *sqlx.DB

// ConnectReviewStore opens the Postgres database that holds reviews
func ConnectReviewStore(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.ReviewStore.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to review store: %w", err)
	}

	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ReviewDB = db

	log.Println("✅ Review store connected successfully")
	return db, nil
}

// CloseReviewStore closes the review store connection
func CloseReviewStore() error {
	if ReviewDB == nil {
		return nil
	}
	return ReviewDB.Close()
}
