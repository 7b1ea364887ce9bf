package notify

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/push"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakePreferences serves preference rows from memory.
type fakePreferences struct {
	mu    sync.Mutex
	rows  map[uint]*models.NotificationPreference
	err   error
	reads int
}

func newFakePreferences() *fakePreferences {
	return &fakePreferences{rows: map[uint]*models.NotificationPreference{}}
}

func (f *fakePreferences) set(userID uint, enabled, browser bool, events map[string]bool) {
	if events == nil {
		events = map[string]bool{}
	}
	f.rows[userID] = &models.NotificationPreference{
		UserID:               userID,
		NotificationsEnabled: enabled,
		BrowserEnabled:       browser,
		EventPreferences:     datatypes.NewJSONType(events),
	}
}

func (f *fakePreferences) FindByUserID(_ context.Context, userID uint) (*models.NotificationPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[userID], nil
}

// fakeStore records inserted notifications and assigns sequential IDs.
type fakeStore struct {
	mu     sync.Mutex
	rows   []models.Notification
	err    error
	nextID uint
	calls  int
}

func (f *fakeStore) CreateBatch(_ context.Context, notifications []models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	for i := range notifications {
		f.nextID++
		notifications[i].ID = f.nextID
	}
	f.rows = append(f.rows, notifications...)
	return nil
}

func (f *fakeStore) byRecipient(id uint) []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.rows {
		if n.RecipientID == id {
			out = append(out, n)
		}
	}
	return out
}

// fakePusher records every delivery handed to it.
type fakePusher struct {
	mu         sync.Mutex
	deliveries []push.Delivery
}

func (f *fakePusher) SendBatch(_ context.Context, deliveries []push.Delivery) push.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = append(f.deliveries, deliveries...)
	return push.Result{Sent: len(deliveries)}
}

func (f *fakePusher) userIDs() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint, 0, len(f.deliveries))
	for _, d := range f.deliveries {
		ids = append(ids, d.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// inlinePool runs submitted jobs immediately so tests can observe them.
type inlinePool struct {
	mu        sync.Mutex
	submitted []string
	reject    bool
}

func (p *inlinePool) Submit(name string, job push.Job) bool {
	p.mu.Lock()
	p.submitted = append(p.submitted, name)
	reject := p.reject
	p.mu.Unlock()
	if reject {
		return false
	}
	job(context.Background())
	return true
}

// fakeRoster serves assignment rosters from memory.
type fakeRoster struct {
	rosters map[uint][]uint
	err     error
}

func (f *fakeRoster) GetAssignedUserIDs(_ context.Context, id uint) ([]uint, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids, ok := f.rosters[id]
	if !ok {
		return nil, errors.New("content item not found")
	}
	return ids, nil
}

type fixture struct {
	prefs  *fakePreferences
	store  *fakeStore
	pusher *fakePusher
	pool   *inlinePool
	writer *Writer
}

func newFixture() *fixture {
	f := &fixture{
		prefs:  newFakePreferences(),
		store:  &fakeStore{},
		pusher: &fakePusher{},
		pool:   &inlinePool{},
	}
	log := discardLogger()
	f.writer = NewWriter(f.store, NewResolver(f.prefs, log), f.pusher, f.pool, log)
	return f
}
