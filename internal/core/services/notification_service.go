package services

import (
	"context"
	"fmt"
	"strings"

	"homyhive/internal/adapters/external/mailer"
	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/validator"

	"gorm.io/datatypes"
)

// Notification list limits
const (
	DefaultNotificationLimit = 10
	MaxNotificationLimit     = 50
)

// NotificationService stores in-app notifications and dispatches
// email and SMS on a best-effort basis.
type NotificationService struct {
	repo     repositories.NotificationRepository
	users    repositories.UserRepository
	mail     EmailSender
	sms      SMSSender
	validate *validator.Validator
	log      logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	repo repositories.NotificationRepository,
	users repositories.UserRepository,
	mail EmailSender,
	sms SMSSender,
	validate *validator.Validator,
	log logger.Logger,
) *NotificationService {
	return &NotificationService{
		repo:     repo,
		users:    users,
		mail:     mail,
		sms:      sms,
		validate: validate,
		log:      log,
	}
}

// CreateNotificationInput represents a new in-app notification
type CreateNotificationInput struct {
	UserID    string                 `json:"userId" validate:"required"`
	Type      string                 `json:"type" validate:"required,oneof=booking review message system promotion"`
	Title     string                 `json:"title" validate:"required,max=100"`
	Message   string                 `json:"message" validate:"required,max=500"`
	Priority  string                 `json:"priority" validate:"omitempty,oneof=low medium high"`
	ActionURL string                 `json:"actionUrl" validate:"omitempty,max=255"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// Create validates and stores a notification
func (s *NotificationService) Create(ctx context.Context, input *CreateNotificationInput) (*models.Notification, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	n := &models.Notification{
		UserID:    input.UserID,
		Type:      input.Type,
		Title:     input.Title,
		Message:   input.Message,
		Priority:  input.Priority,
		ActionURL: input.ActionURL,
	}
	if n.Priority == "" {
		n.Priority = "medium"
	}
	if len(input.Metadata) > 0 {
		n.Metadata = datatypes.JSONMap(input.Metadata)
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// List returns the newest notifications of principal. limit is clamped to [1, 50].
func (s *NotificationService) List(ctx context.Context, principal domain.PrincipalID, limit int) ([]*models.Notification, error) {
	if principal.IsZero() {
		return nil, domain.ErrUnauthenticated
	}
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}
	return s.repo.ListByUser(ctx, principal.String(), limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, principal domain.PrincipalID) (int64, error) {
	if principal.IsZero() {
		return 0, domain.ErrUnauthenticated
	}
	return s.repo.CountUnread(ctx, principal.String())
}

// MarkRead marks ids as read. The id list must not be empty.
func (s *NotificationService) MarkRead(ctx context.Context, principal domain.PrincipalID, ids []uint) (int64, error) {
	if principal.IsZero() {
		return 0, domain.ErrUnauthenticated
	}
	if len(ids) == 0 {
		return 0, domain.NewValidationError("notification ids are required", "notificationIds")
	}
	return s.repo.MarkRead(ctx, principal.String(), ids)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, principal domain.PrincipalID) (int64, error) {
	if principal.IsZero() {
		return 0, domain.ErrUnauthenticated
	}
	return s.repo.MarkAllRead(ctx, principal.String())
}

// ============================================================
// Dispatch helpers. Failures are logged and never returned.
// ============================================================

// NotifyHostApproved tells an applicant that the application was approved
func (s *NotificationService) NotifyHostApproved(ctx context.Context, app *models.HostApplication, listing *models.Listing) {
	info := app.PersonalInfo.Data()
	name := info.FullName()
	if name == "" {
		name = "there"
	}

	if app.PrincipalID != "" {
		meta := map[string]interface{}{"applicationId": app.ApplicationID}
		actionURL := "/host/status/" + app.ApplicationID
		if listing != nil {
			meta["listingId"] = listing.ID
			actionURL = fmt.Sprintf("/listings/%d", listing.ID)
		}
		s.createBestEffort(ctx, &CreateNotificationInput{
			UserID:    app.PrincipalID,
			Type:      models.NotificationSystem,
			Title:     "Your host application was approved",
			Message:   "Congratulations! You can now publish and manage your property on HomyHive.",
			Priority:  "high",
			ActionURL: actionURL,
			Metadata:  meta,
		})
	}

	s.emailBestEffort(ctx, mailer.Message{
		To:      app.Email,
		Subject: "Welcome to HomyHive hosting",
		Text: fmt.Sprintf("Hi %s,\n\nYour host application %s has been approved. Your property is now visible to guests.\n\nThe HomyHive team",
			name, app.ApplicationID),
	})
}

// NotifyHostRejected tells an applicant that the application was rejected
func (s *NotificationService) NotifyHostRejected(ctx context.Context, app *models.HostApplication, reason string) {
	if app.PrincipalID != "" {
		s.createBestEffort(ctx, &CreateNotificationInput{
			UserID:   app.PrincipalID,
			Type:     models.NotificationSystem,
			Title:    "Update on your host application",
			Message:  truncate("Your host application was not approved. "+reason, 500),
			Priority: "medium",
		})
	}
	s.emailBestEffort(ctx, mailer.Message{
		To:      app.Email,
		Subject: "Your HomyHive host application",
		Text:    "Your host application was not approved.\n\n" + reason,
	})
}

// NotifyBookingConfirmed informs the guest and the host of a paid booking
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *models.Booking, listing *models.Listing, guest domain.AuthContext) {
	summary := fmt.Sprintf("%s, %s to %s, %d night(s), INR %.2f",
		listing.Title,
		booking.CheckIn.Format("02 Jan 2006"),
		booking.CheckOut.Format("02 Jan 2006"),
		booking.Nights,
		booking.TotalAmount,
	)
	meta := map[string]interface{}{"bookingId": booking.ID, "listingId": listing.ID, "paymentId": booking.PaymentID}

	s.createBestEffort(ctx, &CreateNotificationInput{
		UserID:    booking.UserID,
		Type:      models.NotificationBooking,
		Title:     "Booking confirmed",
		Message:   truncate(summary, 500),
		Priority:  "high",
		ActionURL: "/user/bookings",
		Metadata:  meta,
	})
	s.emailBestEffort(ctx, mailer.Message{
		To:      guest.Email,
		Subject: "Your HomyHive booking is confirmed",
		Text:    "Thank you for booking with HomyHive.\n\n" + summary,
	})

	if booking.HostID == "" || booking.HostID == booking.UserID {
		return
	}
	s.createBestEffort(ctx, &CreateNotificationInput{
		UserID:    booking.HostID,
		Type:      models.NotificationBooking,
		Title:     "New booking received",
		Message:   truncate(summary+fmt.Sprintf(", your payout INR %.2f", booking.HostAmount), 500),
		Priority:  "high",
		ActionURL: fmt.Sprintf("/listings/%d", listing.ID),
		Metadata:  meta,
	})

	host, err := s.users.GetByExternalID(ctx, booking.HostID)
	if err != nil {
		s.log.Warn("booking host lookup failed", map[string]interface{}{"host": booking.HostID, "error": err.Error()})
		return
	}
	s.emailBestEffort(ctx, mailer.Message{
		To:      host.Email,
		Subject: "New booking for " + listing.Title,
		Text:    "You have a new confirmed booking.\n\n" + summary,
	})
	if host.Phone != "" {
		if err := s.sms.Send(ctx, host.Phone, "HomyHive: new booking for "+listing.Title); err != nil {
			s.log.Warn("booking sms failed", map[string]interface{}{"host": booking.HostID, "error": err.Error()})
		}
	}
}

// NotifyReviewReceived informs the listing owner of a new review
func (s *NotificationService) NotifyReviewReceived(ctx context.Context, listing *models.Listing, authorName string, rating int) {
	if listing.OwnerID == "" {
		return
	}
	s.createBestEffort(ctx, &CreateNotificationInput{
		UserID:    listing.OwnerID,
		Type:      models.NotificationReview,
		Title:     "New review on " + truncate(listing.Title, 80),
		Message:   fmt.Sprintf("%s rated your property %d/5.", authorName, rating),
		Priority:  "low",
		ActionURL: fmt.Sprintf("/listings/%d", listing.ID),
		Metadata:  map[string]interface{}{"listingId": listing.ID},
	})
}

// NotifyPromotionActive confirms a paid promotion to the listing owner
func (s *NotificationService) NotifyPromotionActive(ctx context.Context, listing *models.Listing) {
	if listing.OwnerID == "" || listing.PromotionExpiresAt == nil {
		return
	}
	s.createBestEffort(ctx, &CreateNotificationInput{
		UserID:    listing.OwnerID,
		Type:      models.NotificationPromotion,
		Title:     "Promotion active",
		Message:   truncate(fmt.Sprintf("%s is promoted until %s.", listing.Title, listing.PromotionExpiresAt.Format("02 Jan 2006")), 500),
		Priority:  "medium",
		ActionURL: fmt.Sprintf("/listings/%d", listing.ID),
	})
}

func (s *NotificationService) createBestEffort(ctx context.Context, input *CreateNotificationInput) {
	input.Title = truncate(input.Title, 100)
	if _, err := s.Create(ctx, input); err != nil {
		s.log.Warn("in-app notification failed", map[string]interface{}{
			"user":  input.UserID,
			"type":  input.Type,
			"error": err.Error(),
		})
	}
}

func (s *NotificationService) emailBestEffort(ctx context.Context, msg mailer.Message) {
	if strings.TrimSpace(msg.To) == "" {
		return
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.log.Warn("email notification failed", map[string]interface{}{
			"to":    msg.To,
			"error": err.Error(),
		})
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
