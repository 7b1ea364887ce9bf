package handlers

import (
	"maps"
	"net/http"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// PreferenceHandler serves the notification settings screen
type PreferenceHandler struct {
	preferenceRepository repositories.PreferenceRepository
	log                  logrus.FieldLogger
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(prefRepo repositories.PreferenceRepository, log logrus.FieldLogger) *PreferenceHandler {
	return &PreferenceHandler{preferenceRepository: prefRepo, log: log}
}

// RegisterPreferenceRoutes registers notification preference routes
func (h *PreferenceHandler) RegisterPreferenceRoutes(g *echo.Group) {
	g.GET("/notification-preferences", h.GetPreferences)
	g.PUT("/notification-preferences", h.UpdatePreferences)
}

// GetPreferences returns the caller's preferences, creating the defaults on first read
func (h *PreferenceHandler) GetPreferences(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return unauthenticated(c)
	}

	pref, err := h.preferenceRepository.GetOrCreate(c.Request().Context(), currentUserID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", currentUserID).Error("Failed to load notification preferences")
		return fail(c, http.StatusInternalServerError, "Failed to load notification preferences")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": pref})
}

// UpdatePreferences applies the provided toggles. Event preferences are merged
// into the stored map, so omitted event types keep their current value.
func (h *PreferenceHandler) UpdatePreferences(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return unauthenticated(c)
	}

	var req models.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid notification preferences")
	}

	ctx := c.Request().Context()
	pref, err := h.preferenceRepository.GetOrCreate(ctx, currentUserID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", currentUserID).Error("Failed to load notification preferences")
		return fail(c, http.StatusInternalServerError, "Failed to update notification preferences")
	}

	if req.NotificationsEnabled != nil {
		pref.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.BrowserEnabled != nil {
		pref.BrowserEnabled = *req.BrowserEnabled
	}
	if req.EmailEnabled != nil {
		pref.EmailEnabled = *req.EmailEnabled
	}
	if len(req.EventPreferences) > 0 {
		events := maps.Clone(pref.EventPreferences.Data())
		if events == nil {
			events = map[string]bool{}
		}
		maps.Copy(events, req.EventPreferences)
		pref.EventPreferences = datatypes.NewJSONType(events)
	}

	if err := h.preferenceRepository.Update(ctx, pref); err != nil {
		h.log.WithError(err).WithField("user_id", currentUserID).Error("Failed to update notification preferences")
		return fail(c, http.StatusInternalServerError, "Failed to update notification preferences")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": pref})
}
