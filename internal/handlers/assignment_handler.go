package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AssignmentHandler assigns users to content items
type AssignmentHandler struct {
	contentItemRepository repositories.ContentItemRepository
	notifier              Notifier
	log                   logrus.FieldLogger
}

// NewAssignmentHandler creates a new AssignmentHandler
func NewAssignmentHandler(itemRepo repositories.ContentItemRepository, notifier Notifier, log logrus.FieldLogger) *AssignmentHandler {
	return &AssignmentHandler{
		contentItemRepository: itemRepo,
		notifier:              notifier,
		log:                   log,
	}
}

// RegisterAssignmentRoutes registers assignment routes
func (h *AssignmentHandler) RegisterAssignmentRoutes(g *echo.Group) {
	g.POST("/content-items/:id/assignments", h.Assign)
}

// Assign adds a user with a role to the roster and notifies them. Repeating an
// existing assignment is a no-op and sends nothing.
func (h *AssignmentHandler) Assign(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return unauthenticated(c)
	}

	itemID, err := parseContentItemID(c)
	if err != nil {
		return err
	}

	var req models.AssignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	item, err := h.contentItemRepository.GetContentItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrContentItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Content item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	added, err := h.contentItemRepository.AddAssignment(ctx, item.ID, models.Assignment{
		UserID:     req.UserID,
		Role:       req.Role,
		AssignedBy: currentUserID,
	})
	if err != nil {
		h.log.WithError(err).WithField("content_item_id", item.ID).Error("Failed to add assignment")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to assign user")
	}

	if added {
		h.notifier.NotifyAssignment(ctx, req.UserID, item.ID, item.Title, req.Role, currentUserID)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"assigned": added}})
}
