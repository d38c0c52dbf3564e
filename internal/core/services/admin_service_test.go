package services

import (
	"context"
	"errors"
	"testing"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func withProperty(app *models.HostApplication, price float64, guests int) {
	lon, lat := 73.7125, 24.5854
	app.PropertyDetails = datatypes.NewJSONType(&models.PropertyDetails{
		Title:     "Haveli suite",
		Guests:    guests,
		Price:     price,
		Location:  "Udaipur, Rajasthan",
		Country:   "India",
		Longitude: &lon,
		Latitude:  &lat,
	})
}

func TestApproveAndPublish(t *testing.T) {
	env := newTestEnv(t)
	app := submit(t, env, validApplication())
	withProperty(app, 1500, 4)
	require.NoError(t, env.users.Create(context.Background(), &models.User{
		ExternalID: "user-1",
		Email:      "asha@example.com",
		Status:     models.UserStatusActive,
	}))

	result, err := env.adminService().ApproveAndPublish(context.Background(), app.ApplicationID, testAdmin)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, result.Application.Status)
	assert.NotNil(t, result.Application.ApprovedAt)
	assert.Nil(t, result.Application.RejectedAt)
	assert.True(t, result.Application.CanCreateProperty)

	listing := result.Listing
	assert.Equal(t, float64(1500), listing.Price)
	assert.Equal(t, 4, listing.Guests)
	assert.Equal(t, "Haveli suite", listing.Title)
	assert.Equal(t, [2]float64{73.7125, 24.5854}, listing.Geometry().Coordinates)
	require.NotNil(t, listing.HostID)
	assert.Equal(t, app.ID, *listing.HostID)

	user, err := env.users.GetByExternalID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, user.IsHost)

	// the approval is visible in search and the applicant was notified
	page, err := env.listingService().Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Len(t, page.Regular, 1)
	require.Len(t, env.notifications.items, 1)
	assert.Equal(t, "user-1", env.notifications.items[0].UserID)
}

func TestApproveTwiceCreatesOneListing(t *testing.T) {
	env := newTestEnv(t)
	app := submit(t, env, validApplication())
	svc := env.adminService()

	first, err := svc.ApproveAndPublish(context.Background(), app.ApplicationID, testAdmin)
	require.NoError(t, err)
	second, err := svc.ApproveAndPublish(context.Background(), app.ApplicationID, testAdmin)
	require.NoError(t, err)

	assert.Equal(t, first.Listing.ID, second.Listing.ID)
	assert.Len(t, env.listings.items, 1)
}

func TestApproveSurvivesNotificationFailure(t *testing.T) {
	env := newTestEnv(t)
	env.notifications.fail = errors.New("notifications down")
	env.mail.fail = errors.New("ses down")
	app := submit(t, env, validApplication())

	result, err := env.adminService().ApproveAndPublish(context.Background(), app.ApplicationID, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, result.Application.Status)
	assert.Len(t, env.listings.items, 1)
}

func TestRejectAfterApprovalIsInvalid(t *testing.T) {
	env := newTestEnv(t)
	app := submit(t, env, validApplication())
	svc := env.adminService()

	_, err := svc.ApproveAndPublish(context.Background(), app.ApplicationID, testAdmin)
	require.NoError(t, err)

	_, err = svc.RejectApplication(context.Background(), app.ApplicationID, "incomplete", testAdmin)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, domain.StatusApproved, app.Status)
}

func TestRejectApplication(t *testing.T) {
	env := newTestEnv(t)
	app := submit(t, env, validApplication())

	rejected, err := env.adminService().RejectApplication(context.Background(), app.ApplicationID, "documents unreadable", testAdmin)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.NotNil(t, rejected.RejectedAt)
	assert.Nil(t, rejected.ApprovedAt)
	assert.False(t, rejected.CanCreateProperty)

	events, err := env.apps.ListEvents(context.Background(), app.ID)
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, string(domain.StatusRejected), last.ToStatus)
	assert.Equal(t, "documents unreadable", last.Note)
	assert.Equal(t, "admin-1", last.AddedBy)
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	app := submit(t, env, validApplication())
	svc := env.adminService()
	ctx := context.Background()

	updated, err := svc.UpdateStatus(ctx, app.ApplicationID, "under-review", "looking", testAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, updated.Status)

	_, err = svc.UpdateStatus(ctx, app.ApplicationID, "archived", "", testAdmin)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.UpdateStatus(ctx, app.ApplicationID, "draft", "", testAdmin)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.UpdateStatus(ctx, "missing", "approved", "", testAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnablePropertyCreationAndNotes(t *testing.T) {
	env := newTestEnv(t)
	app := submit(t, env, validApplication())
	svc := env.adminService()
	ctx := context.Background()

	_, err := svc.EnablePropertyCreation(ctx, app.ApplicationID, testAdmin)
	assert.True(t, domain.IsValidation(err))
	assert.False(t, app.CanCreateProperty)

	_, err = svc.ApproveAndPublish(ctx, app.ApplicationID, testAdmin)
	require.NoError(t, err)
	app.CanCreateProperty = false

	enabled, err := svc.EnablePropertyCreation(ctx, app.ApplicationID, testAdmin)
	require.NoError(t, err)
	assert.True(t, enabled.CanCreateProperty)
	assert.Equal(t, domain.StatusApproved, enabled.Status)

	note, err := svc.AddNote(ctx, app.ApplicationID, "called the applicant", testAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.EventNote, note.Kind)

	_, err = svc.AddNote(ctx, app.ApplicationID, "  ", testAdmin)
	assert.True(t, domain.IsValidation(err))
}

func TestEnablePropertyCreationRefusedAfterRejection(t *testing.T) {
	env := newTestEnv(t)
	app := submit(t, env, validApplication())
	svc := env.adminService()
	ctx := context.Background()

	_, err := svc.RejectApplication(ctx, app.ApplicationID, "documents unreadable", testAdmin)
	require.NoError(t, err)

	_, err = svc.EnablePropertyCreation(ctx, app.ApplicationID, testAdmin)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"status"}, verr.Fields)

	stored, err := env.apps.GetByApplicationID(ctx, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, stored.Status)
	assert.False(t, stored.CanCreateProperty)
	assert.NotNil(t, stored.RejectedAt)
}
