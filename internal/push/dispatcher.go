package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
)

// SubscriptionStore is the slice of the subscription repository the dispatcher needs.
type SubscriptionStore interface {
	ListByUserID(ctx context.Context, userID uint) ([]models.PushSubscription, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

// Dispatcher fans a payload out to every subscription of a user.
type Dispatcher struct {
	subs   SubscriptionStore
	sender Sender
	log    logrus.FieldLogger

	warnOnce sync.Once
}

// NewDispatcher returns a dispatcher. A nil sender means push is not
// configured: every send is a no-op and a warning is logged once.
func NewDispatcher(subs SubscriptionStore, sender Sender, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		subs:   subs,
		sender: sender,
		log:    log.WithField("component", "push"),
	}
}

// Enabled reports whether a sender is configured.
func (d *Dispatcher) Enabled() bool {
	return d.sender != nil
}

// Send delivers payload to every subscription of userID concurrently and
// waits for all of them to settle. Gone subscriptions are deleted afterwards.
func (d *Dispatcher) Send(ctx context.Context, userID uint, payload Payload) Result {
	if !d.Enabled() {
		d.warnDisabled()
		return Result{}
	}

	subs, err := d.subs.ListByUserID(ctx, userID)
	if err != nil {
		d.log.WithError(err).WithField("user_id", userID).Warn("Failed to load push subscriptions")
		return Result{}
	}
	if len(subs) == 0 {
		return Result{}
	}

	message, err := json.Marshal(payload)
	if err != nil {
		d.log.WithError(err).WithField("user_id", userID).Error("Failed to encode push payload")
		return Result{}
	}

	errs := make([]error, len(subs))
	var wg sync.WaitGroup
	for i := range subs {
		wg.Go(func() {
			errs[i] = d.sendOne(ctx, &subs[i], message)
		})
	}
	wg.Wait()

	var res Result
	var invalid []uint
	for i, err := range errs {
		if err == nil {
			res.Sent++
			continue
		}
		res.Failed++
		entry := d.log.WithError(err).WithFields(logrus.Fields{
			"user_id":         userID,
			"subscription_id": subs[i].ID,
		})
		if IsGone(err) {
			invalid = append(invalid, subs[i].ID)
			entry.Info("Push subscription expired, scheduling removal")
			continue
		}
		entry.Warn("Push delivery failed")
	}

	if len(invalid) > 0 {
		removed, err := d.subs.DeleteByIDs(ctx, invalid)
		if err != nil {
			d.log.WithError(err).WithField("user_id", userID).Warn("Failed to remove expired push subscriptions")
		} else {
			d.log.WithFields(logrus.Fields{"user_id": userID, "removed": removed}).Info("Removed expired push subscriptions")
		}
	}
	return res
}

// sendOne isolates a single send so a panicking transport only fails its own subscription.
func (d *Dispatcher) sendOne(ctx context.Context, sub *models.PushSubscription, message []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrTransport, r)
		}
	}()
	return d.sender.Send(ctx, sub, message)
}

// SendToMany sends the same payload to several users concurrently and sums the results.
func (d *Dispatcher) SendToMany(ctx context.Context, userIDs []uint, payload Payload) Result {
	deliveries := make([]Delivery, 0, len(userIDs))
	for _, id := range userIDs {
		deliveries = append(deliveries, Delivery{UserID: id, Payload: payload})
	}
	return d.SendBatch(ctx, deliveries)
}

// SendBatch runs Send for every delivery concurrently and sums the results.
func (d *Dispatcher) SendBatch(ctx context.Context, deliveries []Delivery) Result {
	if !d.Enabled() {
		d.warnDisabled()
		return Result{}
	}

	results := make([]Result, len(deliveries))
	var wg sync.WaitGroup
	for i, dl := range deliveries {
		wg.Go(func() {
			results[i] = d.Send(ctx, dl.UserID, dl.Payload)
		})
	}
	wg.Wait()

	var total Result
	for _, r := range results {
		total = total.Add(r)
	}
	return total
}

func (d *Dispatcher) warnDisabled() {
	d.warnOnce.Do(func() {
		d.log.Warn("VAPID keys not configured, push notifications are disabled")
	})
}
