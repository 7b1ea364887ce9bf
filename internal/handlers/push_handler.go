package handlers

import (
	"net/http"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PushHandler lets client devices register for Web Push
type PushHandler struct {
	subscriptionRepository repositories.PushSubscriptionRepository
	vapidPublicKey         string
	log                    logrus.FieldLogger
}

// NewPushHandler creates a new PushHandler. An empty public key means push
// is not configured.
func NewPushHandler(subRepo repositories.PushSubscriptionRepository, vapidPublicKey string, log logrus.FieldLogger) *PushHandler {
	return &PushHandler{
		subscriptionRepository: subRepo,
		vapidPublicKey:         vapidPublicKey,
		log:                    log,
	}
}

// RegisterPushRoutes registers push subscription routes
func (h *PushHandler) RegisterPushRoutes(g *echo.Group) {
	g.GET("/push/vapid-public-key", h.GetVapidPublicKey)
	g.POST("/push/subscriptions", h.SaveSubscription)
	g.DELETE("/push/subscriptions", h.RemoveSubscription)
}

// GetVapidPublicKey exposes the application server key the browser needs to
// subscribe, or null when push is disabled
func (h *PushHandler) GetVapidPublicKey(c echo.Context) error {
	var key *string
	if h.vapidPublicKey != "" {
		key = &h.vapidPublicKey
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"publicKey": key}})
}

// SaveSubscription stores the caller's subscription, replacing the keys of an
// existing one with the same endpoint
func (h *PushHandler) SaveSubscription(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return unauthenticated(c)
	}

	var req models.SavePushSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid push subscription")
	}

	sub := &models.PushSubscription{
		UserID:    currentUserID,
		Endpoint:  req.Endpoint,
		P256dhKey: req.P256dhKey,
		AuthKey:   req.AuthKey,
	}
	if err := h.subscriptionRepository.Upsert(c.Request().Context(), sub); err != nil {
		h.log.WithError(err).WithField("user_id", currentUserID).Error("Failed to save push subscription")
		return fail(c, http.StatusInternalServerError, "Failed to save push subscription")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// RemoveSubscription deletes the caller's subscription for an endpoint.
// Removing an unknown endpoint succeeds.
func (h *PushHandler) RemoveSubscription(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return unauthenticated(c)
	}

	var req models.RemovePushSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Endpoint is required")
	}

	if _, err := h.subscriptionRepository.DeleteByEndpoint(c.Request().Context(), currentUserID, req.Endpoint); err != nil {
		h.log.WithError(err).WithField("user_id", currentUserID).Error("Failed to remove push subscription")
		return fail(c, http.StatusInternalServerError, "Failed to remove push subscription")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
