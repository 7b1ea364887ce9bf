package models

import "time"

// PushSubscription is one browser/device endpoint registered for Web Push.
// A user may have several; (user_id, endpoint) is unique.
type PushSubscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_push_subscriptions_user_endpoint,priority:1"`
	Endpoint  string    `json:"endpoint" gorm:"not null;uniqueIndex:idx_push_subscriptions_user_endpoint,priority:2"`
	P256dhKey string    `json:"p256dh_key" gorm:"column:p256dh_key;not null"`
	AuthKey   string    `json:"auth_key" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// SavePushSubscriptionRequest defines the request body sent by a client after subscribing.
type SavePushSubscriptionRequest struct {
	Endpoint  string `json:"endpoint" validate:"required,url,max=2048"`
	P256dhKey string `json:"p256dh_key" validate:"required,max=256"`
	AuthKey   string `json:"auth_key" validate:"required,max=256"`
}

// RemovePushSubscriptionRequest defines the request body for unsubscribing a device.
type RemovePushSubscriptionRequest struct {
	Endpoint string `json:"endpoint" query:"endpoint" validate:"required"`
}
