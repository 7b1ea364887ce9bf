package models

import "gorm.io/gorm"

// Comment is a comment on a content item (PostgreSQL)
type Comment struct {
	gorm.Model
	ContentItemID uint   `json:"content_item_id" gorm:"index"`
	UserID        uint   `json:"user_id" gorm:"index"`
	Body          string `json:"body" validate:"required,min=1,max=5000"`
}

// CreateCommentRequest defines the request body for posting a comment
type CreateCommentRequest struct {
	Body             string `json:"body" validate:"required,min=1,max=5000"`
	MentionedUserIDs []uint `json:"mentioned_user_ids" validate:"omitempty,max=50,dive,required"`
}
