package models

import "time"

// ContentItem is the slice of a content item document (MongoDB) this service
// reads: its title and the assignment roster.
type ContentItem struct {
	ID          uint         `json:"id" bson:"_id"`
	Title       string       `json:"title" bson:"title"`
	Assignments []Assignment `json:"assignments" bson:"assignments"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// Assignment is one user holding a role (author, editor, reviewer...) on a content item.
type Assignment struct {
	UserID     uint      `json:"user_id" bson:"user_id"`
	Role       string    `json:"role" bson:"role"`
	AssignedBy uint      `json:"assigned_by" bson:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at" bson:"assigned_at"`
}

// AssignRequest defines the request body for assigning a user to a content item.
type AssignRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=author editor reviewer designer"`
}
