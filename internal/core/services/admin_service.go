package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
)

// HostMarker flags a principal as a host once approved
type HostMarker interface {
	MarkHost(ctx context.Context, principal domain.PrincipalID) error
}

// HostNotifier is told about application decisions
type HostNotifier interface {
	NotifyHostApproved(ctx context.Context, app *models.HostApplication, listing *models.Listing)
	NotifyHostRejected(ctx context.Context, app *models.HostApplication, reason string)
}

// AdminService drives the host application workflow from the admin side
type AdminService struct {
	apps     repositories.HostApplicationRepository
	listings repositories.ListingRepository
	hosts    HostMarker
	notifier HostNotifier
	geocoder Geocoder
	log      logger.Logger
	now      func() time.Time
}

// NewAdminService creates a new admin service
func NewAdminService(
	apps repositories.HostApplicationRepository,
	listings repositories.ListingRepository,
	hosts HostMarker,
	notifier HostNotifier,
	geocoder Geocoder,
	log logger.Logger,
) *AdminService {
	return &AdminService{
		apps:     apps,
		listings: listings,
		hosts:    hosts,
		notifier: notifier,
		geocoder: geocoder,
		log:      log,
		now:      time.Now,
	}
}

// UpdateStatus moves an application to status and appends note to its history
func (s *AdminService) UpdateStatus(ctx context.Context, applicationID, status, note string, admin domain.AuthContext) (*models.HostApplication, error) {
	app, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	target, ok := domain.ParseApplicationStatus(status)
	if !ok {
		return nil, domain.NewValidationError("unknown application status", "status")
	}
	return s.transition(ctx, app, target, note, admin)
}

func (s *AdminService) transition(ctx context.Context, app *models.HostApplication, target domain.ApplicationStatus, note string, admin domain.AuthContext) (*models.HostApplication, error) {
	from := app.Status
	if !domain.CanTransition(from, target) {
		return nil, domain.NewValidationError(
			fmt.Sprintf("%s: %s to %s", domain.ErrInvalidTransition, from, target), "status")
	}

	app.ApplyStatus(target, s.now())
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}

	recordStatusEvent(ctx, s.apps, s.log, app, from, target, strings.TrimSpace(note), admin.Principal.String())
	s.log.Info("application status changed", map[string]interface{}{
		"applicationId": app.ApplicationID,
		"from":          string(from),
		"to":            string(target),
		"admin":         admin.Principal.String(),
	})
	return app, nil
}

// ApproveResult carries the approved application and its published listing
type ApproveResult struct {
	Application *models.HostApplication `json:"application"`
	Listing     *models.Listing         `json:"listing"`
}

// ApproveAndPublish approves an application and publishes its listing.
// Running it twice never produces a second listing.
func (s *AdminService) ApproveAndPublish(ctx context.Context, applicationID string, admin domain.AuthContext) (*ApproveResult, error) {
	app, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if app.Status != domain.StatusApproved {
		if app, err = s.transition(ctx, app, domain.StatusApproved, "approved and published", admin); err != nil {
			return nil, err
		}
	}

	listing, err := s.listings.UpsertFromApplication(ctx, BuildListingFromApplication(ctx, app, s.geocoder, s.log))
	if err != nil {
		return nil, fmt.Errorf("publish listing: %w", err)
	}

	if err := s.hosts.MarkHost(ctx, domain.PrincipalID(app.PrincipalID)); err != nil {
		s.log.Warn("host flag not set", map[string]interface{}{
			"applicationId": app.ApplicationID,
			"error":         err.Error(),
		})
	}

	s.notifier.NotifyHostApproved(ctx, app, listing)
	return &ApproveResult{Application: app, Listing: listing}, nil
}

// RejectApplication rejects an application with reason
func (s *AdminService) RejectApplication(ctx context.Context, applicationID, reason string, admin domain.AuthContext) (*models.HostApplication, error) {
	app, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	app, err = s.transition(ctx, app, domain.StatusRejected, reason, admin)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyHostRejected(ctx, app, strings.TrimSpace(reason))
	return app, nil
}

// EnablePropertyCreation restores an approved host's right to list
// properties without changing its status.
func (s *AdminService) EnablePropertyCreation(ctx context.Context, applicationID string, admin domain.AuthContext) (*models.HostApplication, error) {
	app, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if allowed, _ := app.Status.GrantsPropertyCreation(); !allowed {
		return nil, domain.NewValidationError(
			fmt.Sprintf("property creation requires an approved application, this one is %s", app.Status),
			"status",
		)
	}
	if app.CanCreateProperty {
		return app, nil
	}

	app.CanCreateProperty = true
	app.LastUpdatedAt = s.now()
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("enable property creation: %w", err)
	}
	s.addNote(ctx, app, "property creation enabled", admin)
	return app, nil
}

// AddNote appends an admin note to an application's history
func (s *AdminService) AddNote(ctx context.Context, applicationID, note string, admin domain.AuthContext) (*models.HostApplicationEvent, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, domain.NewValidationError("note is required", "note")
	}
	app, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	event := &models.HostApplicationEvent{
		ApplicationID: app.ID,
		Kind:          models.EventNote,
		Note:          note,
		AddedBy:       admin.Principal.String(),
	}
	if err := s.apps.AddEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return event, nil
}

func (s *AdminService) addNote(ctx context.Context, app *models.HostApplication, note string, admin domain.AuthContext) {
	err := s.apps.AddEvent(ctx, &models.HostApplicationEvent{
		ApplicationID: app.ID,
		Kind:          models.EventNote,
		Note:          note,
		AddedBy:       admin.Principal.String(),
	})
	if err != nil {
		s.log.Warn("application note not recorded", map[string]interface{}{"error": err.Error()})
	}
}
