package models

import (
	"fmt"
	"strconv"
	"time"
)

// NotificationType is the event that produced a notification. It doubles as
// the key of NotificationPreference.EventPreferences.
type NotificationType string

const (
	NotificationMention           NotificationType = "mention"
	NotificationCommentOnAssigned NotificationType = "comment_on_assigned"
	NotificationAssignment        NotificationType = "assignment"
)

// Notification is one stored notification for one recipient (PostgreSQL).
// Rows are immutable apart from ReadAt moving from nil to a timestamp.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"not null;index:idx_notifications_recipient_created,priority:1"`
	Type        NotificationType `json:"notification_type" gorm:"column:notification_type;size:32;not null"`
	Title       string           `json:"title" gorm:"not null"`
	Body        *string          `json:"body"`
	EntityType  EntityKind       `json:"entity_type" gorm:"size:32;not null"`
	EntityID    uint             `json:"entity_id" gorm:"not null"`
	CommentID   *uint            `json:"comment_id"`
	ActorID     uint             `json:"actor_id" gorm:"not null"`
	ReadAt      *time.Time       `json:"read_at" gorm:"index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index:idx_notifications_recipient_created,priority:2,sort:desc"`
}

// Entity returns the validated subject reference of the notification.
func (n *Notification) Entity() (EntityRef, error) {
	kind, err := ParseEntityKind(string(n.EntityType))
	if err != nil {
		return EntityRef{}, err
	}
	return EntityRef{Kind: kind, ID: n.EntityID}, nil
}

// IsRead reports whether the notification has been read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// EntityKind is the closed set of subjects a notification can point at.
type EntityKind string

const (
	EntityContentItem EntityKind = "content_item"
	EntityProduct     EntityKind = "product"
)

// ParseEntityKind validates a stored or user supplied entity type.
func ParseEntityKind(s string) (EntityKind, error) {
	switch k := EntityKind(s); k {
	case EntityContentItem, EntityProduct:
		return k, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

// EntityRef is the polymorphic subject of a notification.
type EntityRef struct {
	Kind EntityKind
	ID   uint
}

// ContentItemRef is a shorthand for a content item reference.
func ContentItemRef(id uint) EntityRef {
	return EntityRef{Kind: EntityContentItem, ID: id}
}

// URL is the dashboard path a push click should open.
func (e EntityRef) URL() string {
	switch e.Kind {
	case EntityContentItem:
		return "/content/" + strconv.FormatUint(uint64(e.ID), 10)
	case EntityProduct:
		return "/products/" + strconv.FormatUint(uint64(e.ID), 10)
	default:
		return "/notifications"
	}
}
