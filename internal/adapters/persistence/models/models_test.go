package models

import (
	"testing"
	"time"

	"homyhive/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestApplyStatusTimestamps(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	app := &HostApplication{Status: domain.StatusSubmitted}

	app.ApplyStatus(domain.StatusApproved, now)
	assert.True(t, app.CanCreateProperty)
	assert.NotNil(t, app.ApprovedAt)
	assert.Nil(t, app.RejectedAt)

	later := now.Add(time.Hour)
	app.ApplyStatus(domain.StatusApproved, later)
	assert.Equal(t, now, *app.ApprovedAt)

	app.ApplyStatus(domain.StatusSuspended, later)
	assert.False(t, app.CanCreateProperty)
	assert.NotNil(t, app.ApprovedAt)

	app.ApplyStatus(domain.StatusRejected, later)
	assert.False(t, app.CanCreateProperty)
	assert.NotNil(t, app.RejectedAt)
	assert.Nil(t, app.ApprovedAt)
	assert.Equal(t, later, app.LastUpdatedAt)
}

func TestApplyStatusLeavesFlagForReview(t *testing.T) {
	app := &HostApplication{Status: domain.StatusRejected, CanCreateProperty: false}
	app.ApplyStatus(domain.StatusUnderReview, time.Now())
	assert.False(t, app.CanCreateProperty)
	assert.Equal(t, domain.StatusUnderReview, app.Status)
}

func TestDocumentsComplete(t *testing.T) {
	var docs Documents
	file := DocumentFile{Filename: "a.png", VerificationStatus: domain.VerificationPending}

	docs.Put(domain.DocProfilePhoto, file)
	docs.Put(domain.DocGovernmentID, file)
	docs.Put(domain.DocBankStatement, file)
	assert.False(t, docs.Complete())

	docs.Put(domain.DocAddressProof, file)
	assert.True(t, docs.Complete())

	docs.Put(domain.DocPropertyImages, file)
	docs.Put(domain.DocPropertyImages, file)
	assert.Len(t, docs.PropertyImages, 2)
}

func TestProgressPercentage(t *testing.T) {
	p := VerificationProgress{PersonalInfo: true, Identification: true}
	assert.Equal(t, 40, p.Percentage())
	assert.Equal(t, 0, VerificationProgress{}.Percentage())
}

func TestSetGeometryFallback(t *testing.T) {
	var l Listing
	l.SetGeometry(nil)
	assert.Equal(t, domain.FallbackPoint(), l.Geometry())

	g := domain.NewPoint(72.8, 19.0)
	l.SetGeometry(&g)
	assert.Equal(t, [2]float64{72.8, 19.0}, l.Geometry().Coordinates)
}

func TestUserRole(t *testing.T) {
	assert.Equal(t, domain.RoleAdmin, (&User{IsAdmin: true, IsHost: true}).Role())
	assert.Equal(t, domain.RoleHost, (&User{IsHost: true}).Role())
	assert.Equal(t, domain.RoleGuest, (&User{}).Role())
}
