package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository defines the interface for notification preference operations
type PreferenceRepository interface {
	// FindByUserID returns nil, nil when the user has no preference row.
	FindByUserID(ctx context.Context, userID uint) (*models.NotificationPreference, error)
	GetOrCreate(ctx context.Context, userID uint) (*models.NotificationPreference, error)
	Update(ctx context.Context, pref *models.NotificationPreference) error
}

// PostgresPreferenceRepository implements PreferenceRepository for PostgreSQL
type PostgresPreferenceRepository struct {
	db *gorm.DB
}

// NewPostgresPreferenceRepository creates a new PostgresPreferenceRepository
func NewPostgresPreferenceRepository(db *gorm.DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

func (r *PostgresPreferenceRepository) FindByUserID(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// GetOrCreate returns the user's preferences, inserting the defaults first if
// no row exists. Concurrent first reads race on the unique user_id and the
// loser's insert is a no-op.
func (r *PostgresPreferenceRepository) GetOrCreate(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(models.DefaultNotificationPreference(userID)).Error; err != nil {
		return nil, err
	}

	var pref models.NotificationPreference
	if err := db.Where("user_id = ?", userID).First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

// Update persists all columns of pref. Zero-valued booleans are written too.
func (r *PostgresPreferenceRepository) Update(ctx context.Context, pref *models.NotificationPreference) error {
	return r.db.WithContext(ctx).Save(pref).Error
}
