package services

import (
	"context"
	"time"

	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// Schedules of the maintenance jobs
const (
	PruneReviewsSchedule     = "@every 1h"
	ExpirePromotionsSchedule = "0 3 * * *"

	jobTimeout = 5 * time.Minute
)

// ReviewPruner removes reviews of deleted listings
type ReviewPruner interface {
	PruneOrphans(ctx context.Context) (int64, error)
}

// PromotionSweeper clears expired promotions
type PromotionSweeper interface {
	ClearExpiredPromotions(ctx context.Context) (int64, error)
}

// CronService runs the maintenance jobs
type CronService struct {
	cron       *cron.Cron
	reviews    ReviewPruner
	promotions PromotionSweeper
	log        logger.Logger
}

// NewCronService creates a new cron service
func NewCronService(reviews ReviewPruner, promotions PromotionSweeper, log logger.Logger) *CronService {
	return &CronService{
		cron:       cron.New(),
		reviews:    reviews,
		promotions: promotions,
		log:        log,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(PruneReviewsSchedule, s.PruneReviews); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(ExpirePromotionsSchedule, s.ExpirePromotions); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", map[string]interface{}{"jobs": len(s.cron.Entries())})
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped", nil)
}

// PruneReviews deletes orphan reviews
func (s *CronService) PruneReviews() {
	s.run("prune_reviews", s.reviews.PruneOrphans)
}

// ExpirePromotions clears promotions past their expiry
func (s *CronService) ExpirePromotions() {
	s.run("expire_promotions", s.promotions.ClearExpiredPromotions)
}

func (s *CronService) run(job string, fn func(ctx context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := fn(ctx)
	metrics.RecordJobRun(job, err == nil)
	if err != nil {
		s.log.Error("scheduled job failed", map[string]interface{}{"job": job, "error": err.Error()})
		return
	}
	s.log.Info("scheduled job finished", map[string]interface{}{"job": job, "affected": n})
}
