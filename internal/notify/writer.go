package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/push"
)

// MaxBodyLength is the number of characters of a comment kept in a notification body.
const MaxBodyLength = 100

// NotificationStore persists notification rows.
type NotificationStore interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error
}

// BatchSender delivers push payloads; push.Dispatcher implements it.
type BatchSender interface {
	SendBatch(ctx context.Context, deliveries []push.Delivery) push.Result
}

// Submitter runs detached jobs; push.Pool implements it.
type Submitter interface {
	Submit(name string, job push.Job) bool
}

// Event is one batch of candidate recipients for a single notification type.
type Event struct {
	Recipients []uint
	Type       models.NotificationType
	Title      string
	Body       string // already truncated, empty for none
	Entity     models.EntityRef
	CommentID  *uint
	ActorID    uint
}

// Writer filters candidates by preference, stores one row per remaining
// recipient and hands the push-eligible ones to the pool.
type Writer struct {
	store    NotificationStore
	resolver *Resolver
	pusher   BatchSender
	pool     Submitter
	log      logrus.FieldLogger
}

func NewWriter(store NotificationStore, resolver *Resolver, pusher BatchSender, pool Submitter, log logrus.FieldLogger) *Writer {
	return &Writer{
		store:    store,
		resolver: resolver,
		pusher:   pusher,
		pool:     pool,
		log:      log,
	}
}

// Write stores the event's notifications and schedules their push delivery
// without waiting for it. It returns the stored rows; on any failure it logs
// and returns nil.
func (w *Writer) Write(ctx context.Context, ev Event) []models.Notification {
	log := w.log.WithFields(logrus.Fields{
		"event_type":  ev.Type,
		"entity_type": ev.Entity.Kind,
		"entity_id":   ev.Entity.ID,
		"actor_id":    ev.ActorID,
	})
	if _, err := models.ParseEntityKind(string(ev.Entity.Kind)); err != nil {
		log.WithError(err).Error("Refusing notification with invalid entity reference")
		return nil
	}

	recipients := make([]uint, 0, len(ev.Recipients))
	for _, id := range dedupe(ev.Recipients) {
		if id != ev.ActorID && id != 0 {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return nil
	}

	decisions := make([]Decision, len(recipients))
	var wg sync.WaitGroup
	for i, id := range recipients {
		wg.Go(func() {
			decisions[i] = w.resolver.Resolve(ctx, id, ev.Type)
		})
	}
	wg.Wait()

	var body *string
	if ev.Body != "" {
		body = &ev.Body
	}
	rows := make([]models.Notification, 0, len(recipients))
	browser := make([]bool, 0, len(recipients))
	for i, id := range recipients {
		if !decisions[i].ShouldNotify {
			continue
		}
		rows = append(rows, models.Notification{
			RecipientID: id,
			Type:        ev.Type,
			Title:       ev.Title,
			Body:        body,
			EntityType:  ev.Entity.Kind,
			EntityID:    ev.Entity.ID,
			CommentID:   ev.CommentID,
			ActorID:     ev.ActorID,
		})
		browser = append(browser, decisions[i].BrowserAllowed)
	}
	if len(rows) == 0 {
		return nil
	}

	if err := w.store.CreateBatch(ctx, rows); err != nil {
		log.WithError(fmt.Errorf("%w: %w", ErrPersistence, err)).
			WithField("recipients", len(rows)).
			Error("Dropping notifications")
		return nil
	}

	var deliveries []push.Delivery
	for i := range rows {
		if !browser[i] {
			continue
		}
		deliveries = append(deliveries, push.Delivery{
			UserID: rows[i].RecipientID,
			Payload: push.Payload{
				Title:          ev.Title,
				Body:           ev.Body,
				URL:            ev.Entity.URL(),
				Tag:            push.Tag(string(ev.Type), &ev.Entity.ID),
				NotificationID: &rows[i].ID,
			},
		})
	}
	if len(deliveries) > 0 {
		w.schedulePush(ev.Type, deliveries, log)
	}
	return rows
}

func (w *Writer) schedulePush(eventType models.NotificationType, deliveries []push.Delivery, log logrus.FieldLogger) {
	name := fmt.Sprintf("%s:%d", eventType, len(deliveries))
	w.pool.Submit(name, func(ctx context.Context) {
		res := w.pusher.SendBatch(ctx, deliveries)
		log.WithFields(logrus.Fields{
			"recipients": len(deliveries),
			"sent":       res.Sent,
			"failed":     res.Failed,
		}).Debug("Push batch settled")
	})
}

// TruncateBody shortens s to limit characters followed by "..." when longer.
func TruncateBody(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRight(string(runes[:limit]), " ") + "..."
}
