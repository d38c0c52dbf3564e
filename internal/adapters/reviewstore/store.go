// Package reviewstore keeps guest reviews in a separate Postgres database.
// Listing ids are stored as text; there is no foreign key to the primary store.
package reviewstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"homyhive/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Review is one stored review
type Review struct {
	ID         string    `db:"id" json:"id"`
	ListingID  string    `db:"listing_id" json:"listingId"`
	AuthorID   string    `db:"author_id" json:"authorId"`
	AuthorName string    `db:"author_name" json:"authorName"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Stats is the rating aggregate of one listing
type Stats struct {
	Average float64 `db:"average"`
	Count   int     `db:"count"`
}

// Store defines review store operations
type Store interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	ListByListing(ctx context.Context, listingID string) ([]Review, error)
	Delete(ctx context.Context, id string) error
	DeleteByListing(ctx context.Context, listingID string) (int64, error)
	DeleteByListings(ctx context.Context, listingIDs []string) (int64, error)
	ListListingIDs(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, listingID string) (Stats, error)
}

type store struct {
	db *sqlx.DB
}

// NewStore creates a review store over db
func NewStore(db *sqlx.DB) Store {
	return &store{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
	id          TEXT PRIMARY KEY,
	listing_id  TEXT NOT NULL,
	author_id   TEXT NOT NULL,
	author_name TEXT NOT NULL DEFAULT '',
	rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_reviews_listing_id ON reviews (listing_id, created_at DESC);
`

// EnsureSchema creates the reviews table when missing
func (s *store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("review schema: %w", err)
	}
	return nil
}

// Create inserts review, assigning its id and timestamp when empty
func (s *store) Create(ctx context.Context, review *Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO reviews (id, listing_id, author_id, author_name, rating, comment, created_at)
		VALUES (:id, :listing_id, :author_id, :author_name, :rating, :comment, :created_at)`, review)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *store) GetByID(ctx context.Context, id string) (*Review, error) {
	var review Review
	err := s.db.GetContext(ctx, &review, `
		SELECT id, listing_id, author_id, author_name, rating, comment, created_at
		FROM reviews WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &review, nil
}

// ListByListing returns the reviews of a listing, newest first
func (s *store) ListByListing(ctx context.Context, listingID string) ([]Review, error) {
	reviews := []Review{}
	err := s.db.SelectContext(ctx, &reviews, `
		SELECT id, listing_id, author_id, author_name, rating, comment, created_at
		FROM reviews WHERE listing_id = $1
		ORDER BY created_at DESC`, listingID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByListing removes every review of a listing
func (s *store) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE listing_id = $1`, listingID)
	if err != nil {
		return 0, fmt.Errorf("delete listing reviews: %w", err)
	}
	return result.RowsAffected()
}

// DeleteByListings removes the reviews of several listings at once
func (s *store) DeleteByListings(ctx context.Context, listingIDs []string) (int64, error) {
	if len(listingIDs) == 0 {
		return 0, nil
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE listing_id = ANY($1)`, pq.Array(listingIDs))
	if err != nil {
		return 0, fmt.Errorf("delete listing reviews: %w", err)
	}
	return result.RowsAffected()
}

// ListListingIDs returns every listing id referenced by a review
func (s *store) ListListingIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := s.db.SelectContext(ctx, &ids, `SELECT DISTINCT listing_id FROM reviews`); err != nil {
		return nil, fmt.Errorf("list review listings: %w", err)
	}
	return ids, nil
}

func (s *store) Stats(ctx context.Context, listingID string) (Stats, error) {
	var stats Stats
	err := s.db.GetContext(ctx, &stats, `
		SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count
		FROM reviews WHERE listing_id = $1`, listingID)
	if err != nil {
		return Stats{}, fmt.Errorf("review stats: %w", err)
	}
	return stats, nil
}
