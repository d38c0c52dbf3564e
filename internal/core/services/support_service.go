package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homyhive/internal/adapters/external/mailer"
	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/validator"
)

const supportDomain = "homyhive.com"

var supportInboxes = map[string]string{
	"general":     "guest-support",
	"booking":     "guest-support",
	"payment":     "payments",
	"hosting":     "host-support",
	"partnership": "partnerships",
	"press":       "press",
	"safety":      "trust-safety",
	"emergency":   "emergency",
}

// SupportInbox returns the address that handles category
func SupportInbox(category string) string {
	inbox, ok := supportInboxes[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		inbox = supportInboxes["general"]
	}
	return inbox + "@" + supportDomain
}

// ContactInput is a support request
type ContactInput struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Phone    string `json:"phone" form:"phone"`
	Category string `json:"category" form:"category"`
	Subject  string `json:"subject" form:"subject" validate:"required"`
	Message  string `json:"message" form:"message" validate:"required"`
}

// NewsletterInput is a newsletter signup
type NewsletterInput struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// SupportService routes contact requests and newsletter signups
type SupportService struct {
	newsletter repositories.NewsletterRepository
	mail       EmailSender
	validate   *validator.Validator
	log        logger.Logger
}

// NewSupportService creates a new support service
func NewSupportService(newsletter repositories.NewsletterRepository, mail EmailSender, validate *validator.Validator, log logger.Logger) *SupportService {
	return &SupportService{newsletter: newsletter, mail: mail, validate: validate, log: log}
}

// Contact forwards a support request to the inbox for its category and
// returns that inbox.
func (s *SupportService) Contact(ctx context.Context, input *ContactInput) (string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = NormalizeEmail(input.Email)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)
	if err := s.validate.Struct(input); err != nil {
		return "", err
	}

	inbox := SupportInbox(input.Category)
	body := fmt.Sprintf("From: %s <%s>\nPhone: %s\nCategory: %s\n\n%s",
		input.Name, input.Email, input.Phone, input.Category, input.Message)

	if err := s.mail.Send(ctx, mailer.Message{
		To:      inbox,
		Subject: "[Support] " + input.Subject,
		Text:    body,
	}); err != nil {
		return "", fmt.Errorf("forward support request: %w", err)
	}

	s.log.Info("support request forwarded", map[string]interface{}{"inbox": inbox, "category": input.Category})
	return inbox, nil
}

// Subscribe adds email to the newsletter
func (s *SupportService) Subscribe(ctx context.Context, input *NewsletterInput) (*models.NewsletterSubscription, error) {
	input.Email = NormalizeEmail(input.Email)
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	exists, err := s.newsletter.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: already subscribed", domain.ErrDuplicateEntry)
	}

	sub := &models.NewsletterSubscription{Email: input.Email}
	if err := s.newsletter.Create(ctx, sub); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: already subscribed", domain.ErrDuplicateEntry)
		}
		return nil, err
	}
	return sub, nil
}
