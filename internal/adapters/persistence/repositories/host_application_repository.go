package repositories

import (
	"context"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/core/domain"

	"gorm.io/gorm"
)

// hostApplicationRepository implements HostApplicationRepository interface
type hostApplicationRepository struct {
	db *gorm.DB
}

// NewHostApplicationRepository creates a new host application repository
func NewHostApplicationRepository(db *gorm.DB) HostApplicationRepository {
	return &hostApplicationRepository{db: db}
}

// Create creates a new application
func (r *hostApplicationRepository) Create(ctx context.Context, app *models.HostApplication) error {
	return translate(r.db.WithContext(ctx).Create(app).Error)
}

// GetByID gets an application by primary key
func (r *hostApplicationRepository) GetByID(ctx context.Context, id uint) (*models.HostApplication, error) {
	var app models.HostApplication
	if err := r.db.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// GetByApplicationID gets an application by its public id
func (r *hostApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*models.HostApplication, error) {
	var app models.HostApplication
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&app).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// GetByPrincipal gets the most recent application of a principal
func (r *hostApplicationRepository) GetByPrincipal(ctx context.Context, principal string) (*models.HostApplication, error) {
	var app models.HostApplication
	err := r.db.WithContext(ctx).
		Where("principal_id = ?", principal).
		Order("id DESC").
		First(&app).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// FindByEmailOrPhone returns an application matching either contact detail
func (r *hostApplicationRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.HostApplication, error) {
	var app models.HostApplication
	err := r.db.WithContext(ctx).
		Where("email = ? OR phone = ?", email, phone).
		First(&app).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// ExistsByEmail checks if an application uses email
func (r *hostApplicationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.HostApplication{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByPhone checks if an application uses phone
func (r *hostApplicationRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.HostApplication{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}

// Update saves every column of the application
func (r *hostApplicationRepository) Update(ctx context.Context, app *models.HostApplication) error {
	return translate(r.db.WithContext(ctx).Save(app).Error)
}

// List lists applications newest first, optionally filtered by status
func (r *hostApplicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]*models.HostApplication, int64, error) {
	var apps []*models.HostApplication
	var total int64

	query := r.db.WithContext(ctx).Model(&models.HostApplication{})
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// CountByStatus returns application totals per status
func (r *hostApplicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	var rows []struct {
		Status domain.ApplicationStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.HostApplication{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// Recent returns the newest applications
func (r *hostApplicationRepository) Recent(ctx context.Context, limit int) ([]*models.HostApplication, error) {
	var apps []*models.HostApplication
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&apps).Error
	return apps, err
}

// AddEvent appends a history entry
func (r *hostApplicationRepository) AddEvent(ctx context.Context, event *models.HostApplicationEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListEvents returns the history of an application, oldest first
func (r *hostApplicationRepository) ListEvents(ctx context.Context, applicationID uint) ([]*models.HostApplicationEvent, error) {
	var events []*models.HostApplicationEvent
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	return events, err
}
