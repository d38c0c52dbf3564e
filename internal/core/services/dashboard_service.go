package services

import (
	"context"
	"fmt"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/pagination"
)

// Dashboard page sizes
const (
	HostRequestsPageSize = 10
	RecentApplications   = 5
)

// DashboardStats is the admin overview
type DashboardStats struct {
	Applications       map[string]int64          `json:"applications"`
	RecentApplications []*models.HostApplication `json:"recentApplications"`
	TotalListings      int64                     `json:"totalListings"`
	TotalBookings      int64                     `json:"totalBookings"`
	TotalUsers         int64                     `json:"totalUsers"`
}

// HostRequestsPage is one page of host applications
type HostRequestsPage struct {
	Applications []*models.HostApplication `json:"applications"`
	Status       string                    `json:"status,omitempty"`
	Meta         *pagination.Meta          `json:"meta"`
}

// ApplicationDetails is an application with its history
type ApplicationDetails struct {
	Application *models.HostApplication        `json:"application"`
	Events      []*models.HostApplicationEvent `json:"events"`
	Completion  int                            `json:"completionPercentage"`
	Targets     []domain.ApplicationStatus     `json:"allowedTransitions"`
}

// DashboardService aggregates data for the admin pages
type DashboardService struct {
	apps     repositories.HostApplicationRepository
	listings repositories.ListingRepository
	bookings repositories.BookingRepository
	users    repositories.UserRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	apps repositories.HostApplicationRepository,
	listings repositories.ListingRepository,
	bookings repositories.BookingRepository,
	users repositories.UserRepository,
) *DashboardService {
	return &DashboardService{apps: apps, listings: listings, bookings: bookings, users: users}
}

// Dashboard returns the admin overview
func (s *DashboardService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.apps.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	apps := map[string]int64{"total": 0}
	for _, st := range []domain.ApplicationStatus{
		domain.StatusSubmitted,
		domain.StatusUnderReview,
		domain.StatusApproved,
		domain.StatusRejected,
		domain.StatusPendingApproval,
		domain.StatusVerificationPending,
	} {
		apps[string(st)] = counts[st]
	}
	for _, n := range counts {
		apps["total"] += n
	}

	recent, err := s.apps.Recent(ctx, RecentApplications)
	if err != nil {
		return nil, fmt.Errorf("recent applications: %w", err)
	}

	stats := &DashboardStats{Applications: apps, RecentApplications: recent}
	if stats.TotalListings, err = s.listings.Count(ctx); err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	if stats.TotalBookings, err = s.bookings.Count(ctx); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return stats, nil
}

// HostRequests pages through applications, optionally by status
func (s *DashboardService) HostRequests(ctx context.Context, status string, page int) (*HostRequestsPage, error) {
	params := pagination.New(page, HostRequestsPageSize, HostRequestsPageSize)
	filter := repositories.ApplicationFilter{Offset: params.Offset, Limit: params.Limit}

	if status != "" && status != "all" {
		st, ok := domain.ParseApplicationStatus(status)
		if !ok {
			return nil, domain.NewValidationError("unknown application status", "status")
		}
		filter.Statuses = []domain.ApplicationStatus{st}
		status = string(st)
	}

	items, total, err := s.apps.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return &HostRequestsPage{Applications: items, Status: status, Meta: pagination.GetMeta(params, total)}, nil
}

// ApplicationDetails returns one application and its event history
func (s *DashboardService) ApplicationDetails(ctx context.Context, applicationID string) (*ApplicationDetails, error) {
	app, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	events, err := s.apps.ListEvents(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &ApplicationDetails{
		Application: app,
		Events:      events,
		Completion:  app.Progress.Data().Percentage(),
		Targets:     app.Status.Targets(),
	}, nil
}

// PendingApprovals returns applications awaiting an admin decision
func (s *DashboardService) PendingApprovals(ctx context.Context) ([]*models.HostApplication, error) {
	items, _, err := s.apps.List(ctx, repositories.ApplicationFilter{
		Statuses: []domain.ApplicationStatus{domain.StatusPendingApproval, domain.StatusVerificationPending},
		Limit:    pagination.MaxLimit,
	})
	return items, err
}
