package handlers

import (
	"net/http"
	"slices"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/repositories"
	"github.com/anonto42/studio-dashboard/backend/internal/testutil"
)

func newContentServer(t *testing.T) (*echo.Echo, *memoryContentItems, *recordingNotifier) {
	t.Helper()

	items := newMemoryContentItems(models.ContentItem{
		ID:    42,
		Title: "Launch Plan",
		Assignments: []models.Assignment{
			{UserID: 1, Role: "author"},
			{UserID: 2, Role: "editor"},
		},
	})
	notifier := &recordingNotifier{}
	comments := repositories.NewPostgresCommentRepository(testutil.NewDB(t))
	log := quietLogger()

	e := newTestServer(t, func(g *echo.Group) {
		NewCommentHandler(comments, items, notifier, log).RegisterCommentRoutes(g)
		NewAssignmentHandler(items, notifier, log).RegisterAssignmentRoutes(g)
	})
	return e, items, notifier
}

func TestCreateCommentTriggersNotification(t *testing.T) {
	t.Parallel()

	e, _, notifier := newContentServer(t)

	res := do(t, e, http.MethodPost, "/api/v1/content-items/42/comments", 1,
		`{"body":"Please review","mentioned_user_ids":[2,3]}`)
	expectStatus(t, res, http.StatusCreated)
	commentID := res.data(t)["ID"].(float64)

	if len(notifier.comments) != 1 {
		t.Fatalf("notify calls: got %d, want 1", len(notifier.comments))
	}
	call := notifier.comments[0]
	if call.ContentItemID != 42 || call.Title != "Launch Plan" || call.ActorID != 1 {
		t.Errorf("call: got %+v", call)
	}
	if call.CommentID != uint(commentID) || call.Body != "Please review" {
		t.Errorf("comment: got id %d body %q", call.CommentID, call.Body)
	}
	if !slices.Equal(call.Mentioned, []uint{2, 3}) {
		t.Errorf("mentioned: got %v", call.Mentioned)
	}

	res = do(t, e, http.MethodGet, "/api/v1/content-items/42/comments", 1, "")
	expectStatus(t, res, http.StatusOK)
	if list := res.Body["data"].([]any); len(list) != 1 {
		t.Errorf("comments: got %d", len(list))
	}
}

func TestCreateCommentErrors(t *testing.T) {
	t.Parallel()

	e, _, notifier := newContentServer(t)

	expectStatus(t, do(t, e, http.MethodPost, "/api/v1/content-items/7/comments", 1, `{"body":"hi"}`), http.StatusNotFound)
	expectStatus(t, do(t, e, http.MethodPost, "/api/v1/content-items/x/comments", 1, `{"body":"hi"}`), http.StatusBadRequest)
	expectStatus(t, do(t, e, http.MethodPost, "/api/v1/content-items/42/comments", 1, `{"body":""}`), http.StatusBadRequest)
	expectStatus(t, do(t, e, http.MethodPost, "/api/v1/content-items/42/comments", 0, `{"body":"hi"}`), http.StatusUnauthorized)

	if len(notifier.comments) != 0 {
		t.Errorf("failed requests must not notify, got %d calls", len(notifier.comments))
	}
}

func TestAssignNotifiesOnlyOnChange(t *testing.T) {
	t.Parallel()

	e, items, notifier := newContentServer(t)

	res := do(t, e, http.MethodPost, "/api/v1/content-items/42/assignments", 1, `{"user_id":5,"role":"reviewer"}`)
	expectStatus(t, res, http.StatusOK)
	if res.data(t)["assigned"] != true {
		t.Errorf("assigned: got %v", res.Body)
	}

	res = do(t, e, http.MethodPost, "/api/v1/content-items/42/assignments", 1, `{"user_id":5,"role":"reviewer"}`)
	expectStatus(t, res, http.StatusOK)
	if res.data(t)["assigned"] != false {
		t.Errorf("repeat assignment: got %v", res.Body)
	}

	if len(notifier.assignments) != 1 {
		t.Fatalf("notify calls: got %d, want 1", len(notifier.assignments))
	}
	want := assignmentCall{UserID: 5, ContentItemID: 42, Title: "Launch Plan", Role: "reviewer", AssignedBy: 1}
	if notifier.assignments[0] != want {
		t.Errorf("call: got %+v, want %+v", notifier.assignments[0], want)
	}

	ids, _ := items.GetAssignedUserIDs(t.Context(), 42)
	if !slices.Contains(ids, 5) {
		t.Errorf("roster: got %v", ids)
	}
}

func TestAssignValidation(t *testing.T) {
	t.Parallel()

	e, _, notifier := newContentServer(t)

	expectStatus(t, do(t, e, http.MethodPost, "/api/v1/content-items/42/assignments", 1, `{"user_id":5,"role":"owner"}`), http.StatusBadRequest)
	expectStatus(t, do(t, e, http.MethodPost, "/api/v1/content-items/42/assignments", 1, `{"role":"editor"}`), http.StatusBadRequest)
	expectStatus(t, do(t, e, http.MethodPost, "/api/v1/content-items/404/assignments", 1, `{"user_id":5,"role":"editor"}`), http.StatusNotFound)

	if len(notifier.assignments) != 0 {
		t.Errorf("failed requests must not notify, got %d calls", len(notifier.assignments))
	}
}
