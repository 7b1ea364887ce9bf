package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Notifier is the notification entry point content actions call; *notify.Notifier implements it.
type Notifier interface {
	NotifyComment(ctx context.Context, contentItemID uint, title, commentBody string, commentID, actorID uint, mentionedUserIDs []uint)
	NotifyAssignment(ctx context.Context, assignedUserID, contentItemID uint, title, role string, assignedByID uint)
}

// CommentHandler handles comments on content items
type CommentHandler struct {
	commentRepository     repositories.CommentRepository
	contentItemRepository repositories.ContentItemRepository
	notifier              Notifier
	log                   logrus.FieldLogger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, itemRepo repositories.ContentItemRepository, notifier Notifier, log logrus.FieldLogger) *CommentHandler {
	return &CommentHandler{
		commentRepository:     commentRepo,
		contentItemRepository: itemRepo,
		notifier:              notifier,
		log:                   log,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/content-items/:id/comments", h.CreateComment)
	g.GET("/content-items/:id/comments", h.GetComments)
}

// CreateComment posts a comment and notifies mentioned and assigned users
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return unauthenticated(c)
	}

	itemID, err := parseContentItemID(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	item, err := h.loadContentItem(ctx, itemID)
	if err != nil {
		return err
	}

	comment := &models.Comment{
		ContentItemID: item.ID,
		UserID:        currentUserID,
		Body:          req.Body,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		h.log.WithError(err).WithField("content_item_id", item.ID).Error("Failed to create comment")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create comment")
	}

	h.notifier.NotifyComment(ctx, item.ID, item.Title, comment.Body, comment.ID, currentUserID, req.MentionedUserIDs)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// GetComments lists the comments of a content item
func (h *CommentHandler) GetComments(c echo.Context) error {
	itemID, err := parseContentItemID(c)
	if err != nil {
		return err
	}

	comments, err := h.commentRepository.GetCommentsByContentItemID(c.Request().Context(), itemID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": comments})
}

func (h *CommentHandler) loadContentItem(ctx context.Context, id uint) (*models.ContentItem, error) {
	item, err := h.contentItemRepository.GetContentItem(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrContentItemNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Content item not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return item, nil
}

func parseContentItemID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid content item ID")
	}
	return uint(id), nil
}
