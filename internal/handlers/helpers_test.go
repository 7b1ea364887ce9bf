package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/studio-dashboard/backend/internal/middleware"
	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/repositories"
	"github.com/anonto42/studio-dashboard/backend/validators"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// headerAuth trusts X-User-ID so handler tests can act as any user.
func headerAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id, err := strconv.ParseUint(c.Request().Header.Get("X-User-ID"), 10, 32); err == nil {
			c.Set(middleware.UserIDKey, uint(id))
		}
		return next(c)
	}
}

func newTestServer(t *testing.T, register func(g *echo.Group)) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()
	g := e.Group("/api/v1", headerAuth)
	register(g)
	return e
}

type response struct {
	Code int
	Body map[string]any
}

func do(t *testing.T, e *echo.Echo, method, path string, userID uint, body string) response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != 0 {
		req.Header.Set("X-User-ID", strconv.FormatUint(uint64(userID), 10))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	res := response{Code: rec.Code}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &res.Body); err != nil {
			t.Fatalf("%s %s: invalid JSON %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return res
}

func (r response) data(t *testing.T) map[string]any {
	t.Helper()
	d, ok := r.Body["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", r.Body)
	}
	return d
}

func expectStatus(t *testing.T, r response, want int) {
	t.Helper()
	if r.Code != want {
		t.Fatalf("status: got %d, want %d (body %v)", r.Code, want, r.Body)
	}
}

// memoryContentItems is an in-memory ContentItemRepository.
type memoryContentItems struct {
	mu    sync.Mutex
	items map[uint]*models.ContentItem
}

func newMemoryContentItems(items ...models.ContentItem) *memoryContentItems {
	m := &memoryContentItems{items: map[uint]*models.ContentItem{}}
	for i := range items {
		m.items[items[i].ID] = &items[i]
	}
	return m
}

func (m *memoryContentItems) GetContentItem(_ context.Context, id uint) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrContentItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *memoryContentItems) GetAssignedUserIDs(ctx context.Context, id uint) ([]uint, error) {
	item, err := m.GetContentItem(ctx, id)
	if err != nil {
		return nil, err
	}
	var ids []uint
	for _, a := range item.Assignments {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}

func (m *memoryContentItems) AddAssignment(_ context.Context, id uint, a models.Assignment) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return false, repositories.ErrContentItemNotFound
	}
	for _, existing := range item.Assignments {
		if existing.UserID == a.UserID && existing.Role == a.Role {
			return false, nil
		}
	}
	item.Assignments = append(item.Assignments, a)
	return true, nil
}

type commentCall struct {
	ContentItemID uint
	Title         string
	Body          string
	CommentID     uint
	ActorID       uint
	Mentioned     []uint
}

type assignmentCall struct {
	UserID        uint
	ContentItemID uint
	Title         string
	Role          string
	AssignedBy    uint
}

// recordingNotifier captures notification triggers.
type recordingNotifier struct {
	mu          sync.Mutex
	comments    []commentCall
	assignments []assignmentCall
}

func (r *recordingNotifier) NotifyComment(_ context.Context, contentItemID uint, title, commentBody string, commentID, actorID uint, mentionedUserIDs []uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, commentCall{contentItemID, title, commentBody, commentID, actorID, mentionedUserIDs})
}

func (r *recordingNotifier) NotifyAssignment(_ context.Context, assignedUserID, contentItemID uint, title, role string, assignedByID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = append(r.assignments, assignmentCall{assignedUserID, contentItemID, title, role, assignedByID})
}

