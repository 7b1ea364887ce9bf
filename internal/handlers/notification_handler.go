package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/studio-dashboard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	log                    logrus.FieldLogger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, log logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		log:                    log,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
}

// GetNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return unauthenticated(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit < 1 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := h.notificationRepository.ListByRecipient(c.Request().Context(), currentUserID, limit, offset)
	if err != nil {
		h.log.WithError(err).WithField("user_id", currentUserID).Error("Failed to list notifications")
		return fail(c, http.StatusInternalServerError, "Failed to load notifications")
	}

	// Rows whose entity reference is outside the known kinds are never shown.
	valid := notifications[:0]
	for _, n := range notifications {
		if _, err := n.Entity(); err != nil {
			h.log.WithError(err).WithField("notification_id", n.ID).Warn("Skipping notification with invalid entity reference")
			continue
		}
		valid = append(valid, n)
	}
	notifications = valid

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": notifications,
		},
		"meta": echo.Map{
			"limit":  limit,
			"offset": offset,
		},
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return unauthenticated(c)
	}

	count, err := h.notificationRepository.CountUnread(c.Request().Context(), currentUserID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", currentUserID).Error("Failed to count unread notifications")
		return fail(c, http.StatusInternalServerError, "Failed to count unread notifications")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}

// MarkAsRead marks one of the caller's notifications as read. Marking an
// already read notification succeeds without changing it.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return unauthenticated(c)
	}

	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || notifID == 0 {
		return fail(c, http.StatusBadRequest, "Invalid notification ID")
	}

	ctx := c.Request().Context()
	updated, err := h.notificationRepository.MarkAsRead(ctx, currentUserID, uint(notifID))
	if err != nil {
		h.log.WithError(err).WithField("notification_id", notifID).Error("Failed to mark notification as read")
		return fail(c, http.StatusInternalServerError, "Failed to mark notification as read")
	}
	if updated == 0 {
		exists, err := h.notificationRepository.Exists(ctx, currentUserID, uint(notifID))
		if err != nil {
			h.log.WithError(err).WithField("notification_id", notifID).Error("Failed to look up notification")
			return fail(c, http.StatusInternalServerError, "Failed to mark notification as read")
		}
		if !exists {
			return fail(c, http.StatusNotFound, "Notification not found")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all of the caller's unread notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return unauthenticated(c)
	}

	updated, err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), currentUserID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", currentUserID).Error("Failed to mark all notifications as read")
		return fail(c, http.StatusInternalServerError, "Failed to mark notifications as read")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"updated": updated}})
}
