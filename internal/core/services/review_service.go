package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/adapters/reviewstore"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/validator"
)

// ReviewInput is a new review
type ReviewInput struct {
	Rating  int    `json:"rating" form:"rating"`
	Comment string `json:"comment" form:"comment"`
}

// ReviewNotifier is told about new reviews
type ReviewNotifier interface {
	NotifyReviewReceived(ctx context.Context, listing *models.Listing, authorName string, rating int)
}

// ReviewService manages reviews kept in the review store
type ReviewService struct {
	reviews  reviewstore.Store
	listings repositories.ListingRepository
	notifier ReviewNotifier
	validate *validator.Validator
	log      logger.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	reviews reviewstore.Store,
	listings repositories.ListingRepository,
	notifier ReviewNotifier,
	validate *validator.Validator,
	log logger.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		listings: listings,
		notifier: notifier,
		validate: validate,
		log:      log,
	}
}

// Create stores a review of listingID by auth
func (s *ReviewService) Create(ctx context.Context, auth domain.AuthContext, listingID uint, input *ReviewInput) (*reviewstore.Review, error) {
	if !auth.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}

	input.Comment = strings.TrimSpace(input.Comment)
	if err := s.validate.ValidateReview(input); err != nil {
		return nil, err
	}

	// reviews live in another store, so the listing is checked here
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	author := auth.DisplayName
	if author == "" {
		author = strings.SplitN(auth.Email, "@", 2)[0]
	}
	review := &reviewstore.Review{
		ListingID:  listingKey(listingID),
		AuthorID:   auth.Principal.String(),
		AuthorName: author,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.refreshRating(ctx, listingID)
	s.notifier.NotifyReviewReceived(ctx, listing, author, review.Rating)
	return review, nil
}

// Delete removes a review. Only its author may do so.
func (s *ReviewService) Delete(ctx context.Context, auth domain.AuthContext, listingID uint, reviewID string) error {
	if !auth.IsAuthenticated() {
		return domain.ErrUnauthenticated
	}
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.AuthorID != auth.Principal.String() {
		return domain.ErrUnauthorized
	}
	if listingID != 0 && review.ListingID != listingKey(listingID) {
		return domain.ErrNotFound
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	if id, err := strconv.ParseUint(review.ListingID, 10, 64); err == nil {
		s.refreshRating(ctx, uint(id))
	}
	return nil
}

// PruneOrphans deletes reviews whose listing no longer exists
func (s *ReviewService) PruneOrphans(ctx context.Context) (int64, error) {
	reviewed, err := s.reviews.ListListingIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reviewed listings: %w", err)
	}
	if len(reviewed) == 0 {
		return 0, nil
	}

	ids, err := s.listings.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list listings: %w", err)
	}
	live := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		live[listingKey(id)] = struct{}{}
	}

	var orphans []string
	for _, id := range reviewed {
		if _, ok := live[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	n, err := s.reviews.DeleteByListings(ctx, orphans)
	if err != nil {
		return 0, fmt.Errorf("delete orphan reviews: %w", err)
	}
	s.log.Info("orphan reviews pruned", map[string]interface{}{"listings": len(orphans), "reviews": n})
	return n, nil
}

func (s *ReviewService) refreshRating(ctx context.Context, listingID uint) {
	stats, err := s.reviews.Stats(ctx, listingKey(listingID))
	if err == nil {
		rating := math.Round(stats.Average*10) / 10
		err = s.listings.UpdateRating(ctx, listingID, rating, stats.Count)
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn("listing rating not refreshed", map[string]interface{}{
			"listingId": listingID,
			"error":     err.Error(),
		})
	}
}
