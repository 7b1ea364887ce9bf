package push

import (
	"context"
	"fmt"
	"io"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/pkg/config"
)

// Sender performs one encrypted send to one subscription.
type Sender interface {
	Send(ctx context.Context, sub *models.PushSubscription, message []byte) error
}

// WebPushSender sends VAPID-signed, RFC 8291 encrypted messages.
type WebPushSender struct {
	options webpush.Options
}

// NewWebPushSender returns ErrConfigurationMissing when either VAPID key is empty.
func NewWebPushSender(cfg config.PushConfig, client *http.Client) (*WebPushSender, error) {
	if !cfg.Enabled() {
		return nil, ErrConfigurationMissing
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &WebPushSender{options: webpush.Options{
		HTTPClient:      client,
		Subscriber:      cfg.VAPIDSubject,
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		TTL:             cfg.TTL,
		Urgency:         webpush.UrgencyNormal,
	}}, nil
}

func (s *WebPushSender) Send(ctx context.Context, sub *models.PushSubscription, message []byte) error {
	opts := s.options
	resp, err := webpush.SendNotificationWithContext(ctx, message, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}, &opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
}
