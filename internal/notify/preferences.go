package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
)

// PreferenceStore reads a user's preference row; nil, nil means no row.
type PreferenceStore interface {
	FindByUserID(ctx context.Context, userID uint) (*models.NotificationPreference, error)
}

// Decision is the outcome of a preference check for one user and event type.
type Decision struct {
	ShouldNotify   bool
	BrowserAllowed bool
}

var allowAll = Decision{ShouldNotify: true, BrowserAllowed: true}

// Resolver evaluates notification preferences. It only reads and never
// creates rows, and fails open: missing rows and lookup errors allow
// everything.
type Resolver struct {
	store PreferenceStore
	log   logrus.FieldLogger
}

func NewResolver(store PreferenceStore, log logrus.FieldLogger) *Resolver {
	return &Resolver{store: store, log: log}
}

func (r *Resolver) Resolve(ctx context.Context, userID uint, eventType models.NotificationType) Decision {
	pref, err := r.store.FindByUserID(ctx, userID)
	if err != nil {
		r.log.WithError(fmt.Errorf("%w: %w", ErrPreferenceLookup, err)).
			WithFields(logrus.Fields{"user_id": userID, "event_type": eventType}).
			Warn("Falling back to default notification preferences")
		return allowAll
	}
	if pref == nil {
		return allowAll
	}
	return Evaluate(pref, eventType)
}

// Evaluate applies the preference rules to a loaded row:
// notifications_enabled gates everything, an absent event key counts as
// enabled, and browser push additionally needs browser_enabled.
func Evaluate(pref *models.NotificationPreference, eventType models.NotificationType) Decision {
	should := pref.NotificationsEnabled && pref.EventEnabled(eventType)
	return Decision{
		ShouldNotify:   should,
		BrowserAllowed: should && pref.BrowserEnabled,
	}
}
