package repositories

import (
	"context"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushSubscriptionRepository defines the interface for push subscription operations
type PushSubscriptionRepository interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	ListByUserID(ctx context.Context, userID uint) ([]models.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, userID uint, endpoint string) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

// PostgresPushSubscriptionRepository implements PushSubscriptionRepository for PostgreSQL
type PostgresPushSubscriptionRepository struct {
	db *gorm.DB
}

// NewPostgresPushSubscriptionRepository creates a new PostgresPushSubscriptionRepository
func NewPostgresPushSubscriptionRepository(db *gorm.DB) *PostgresPushSubscriptionRepository {
	return &PostgresPushSubscriptionRepository{db: db}
}

// Upsert inserts the subscription or, when (user_id, endpoint) already exists,
// replaces its keys.
func (r *PostgresPushSubscriptionRepository) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh_key", "auth_key"}),
	}).Create(sub).Error
}

func (r *PostgresPushSubscriptionRepository) ListByUserID(ctx context.Context, userID uint) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&subs).Error
	return subs, err
}

func (r *PostgresPushSubscriptionRepository) DeleteByEndpoint(ctx context.Context, userID uint, endpoint string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.PushSubscription{})
	return res.RowsAffected, res.Error
}

// DeleteByIDs removes the given subscriptions in one statement. Missing rows
// are ignored, so concurrent deletes of the same subscription are harmless.
func (r *PostgresPushSubscriptionRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.PushSubscription{})
	return res.RowsAffected, res.Error
}
