package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/pkg/config"
)

func newTestSender(t *testing.T) *WebPushSender {
	t.Helper()

	private, public, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}
	sender, err := NewWebPushSender(config.PushConfig{
		VAPIDPublicKey:  public,
		VAPIDPrivateKey: private,
		VAPIDSubject:    "mailto:ops@example.com",
		Timeout:         5 * time.Second,
		TTL:             60,
	}, nil)
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	return sender
}

func browserSubscription(t *testing.T, endpoint string) *models.PushSubscription {
	t.Helper()

	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		t.Fatal(err)
	}
	return &models.PushSubscription{
		UserID:    1,
		Endpoint:  endpoint,
		P256dhKey: base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		AuthKey:   base64.RawURLEncoding.EncodeToString(secret),
	}
}

func TestNewWebPushSenderRequiresKeys(t *testing.T) {
	t.Parallel()

	_, err := NewWebPushSender(config.PushConfig{VAPIDPublicKey: "pub"}, nil)
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Errorf("got %v, want ErrConfigurationMissing", err)
	}
}

func TestWebPushSenderSend(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		if got := r.Header.Get("Content-Encoding"); got != "aes128gcm" {
			t.Errorf("content encoding: got %q", got)
		}
		if got := r.Header.Get("TTL"); got != "60" {
			t.Errorf("ttl: got %q", got)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "vapid ") {
			t.Errorf("authorization: got %q", r.Header.Get("Authorization"))
		}
		switch r.URL.Path {
		case "/gone":
			w.WriteHeader(http.StatusGone)
			_, _ = w.Write([]byte("subscription expired"))
		case "/busy":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	sender := newTestSender(t)
	message := []byte(`{"title":"hi"}`)
	ctx := context.Background()

	if err := sender.Send(ctx, browserSubscription(t, server.URL+"/ok"), message); err != nil {
		t.Errorf("ok endpoint: %v", err)
	}

	err := sender.Send(ctx, browserSubscription(t, server.URL+"/gone"), message)
	if !IsGone(err) {
		t.Errorf("gone endpoint: got %v, want invalid subscription", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Body != "subscription expired" {
		t.Errorf("gone endpoint: got %#v", err)
	}

	err = sender.Send(ctx, browserSubscription(t, server.URL+"/busy"), message)
	if !errors.Is(err, ErrTransport) || IsGone(err) {
		t.Errorf("busy endpoint: got %v, want transport failure", err)
	}

	if got := requests.Load(); got != 3 {
		t.Errorf("requests: got %d, want 3", got)
	}
}

func TestWebPushSenderUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL + "/closed"
	server.Close()

	err := newTestSender(t).Send(context.Background(), browserSubscription(t, endpoint), []byte("{}"))
	if !errors.Is(err, ErrTransport) {
		t.Errorf("got %v, want transport failure", err)
	}
}
