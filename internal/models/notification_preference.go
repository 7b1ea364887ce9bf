package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationPreference holds per-user notification settings (PostgreSQL).
// A key missing from EventPreferences means the event type is enabled.
type NotificationPreference struct {
	ID                   uint                                `json:"id" gorm:"primaryKey"`
	UserID               uint                                `json:"user_id" gorm:"uniqueIndex;not null"`
	NotificationsEnabled bool                                `json:"notifications_enabled" gorm:"not null;default:true"`
	BrowserEnabled       bool                                `json:"browser_enabled" gorm:"not null;default:true"`
	EmailEnabled         bool                                `json:"email_enabled" gorm:"not null;default:false"` // reserved
	EventPreferences     datatypes.JSONType[map[string]bool] `json:"event_preferences" gorm:"not null"`
	CreatedAt            time.Time                           `json:"created_at"`
	UpdatedAt            time.Time                           `json:"updated_at"`
}

// DefaultNotificationPreference is the row created lazily for a user without one.
func DefaultNotificationPreference(userID uint) *NotificationPreference {
	return &NotificationPreference{
		UserID:               userID,
		NotificationsEnabled: true,
		BrowserEnabled:       true,
		EventPreferences:     datatypes.NewJSONType(map[string]bool{}),
	}
}

// EventEnabled reports whether the given event type is enabled.
func (p *NotificationPreference) EventEnabled(t NotificationType) bool {
	enabled, ok := p.EventPreferences.Data()[string(t)]
	return !ok || enabled
}

// UpdatePreferencesRequest defines the request body for updating preferences.
// Nil fields are left untouched; EventPreferences entries are merged.
type UpdatePreferencesRequest struct {
	NotificationsEnabled *bool           `json:"notifications_enabled,omitempty"`
	BrowserEnabled       *bool           `json:"browser_enabled,omitempty"`
	EmailEnabled         *bool           `json:"email_enabled,omitempty"`
	EventPreferences     map[string]bool `json:"event_preferences,omitempty" validate:"omitempty,max=64"`
}
