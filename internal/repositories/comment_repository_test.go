package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/testutil"
)

func TestCommentRepository(t *testing.T) {
	t.Parallel()

	repo := NewPostgresCommentRepository(testutil.NewDB(t))
	ctx := context.Background()

	for _, body := range []string{"first", "second"} {
		c := &models.Comment{ContentItemID: 42, UserID: 1, Body: body}
		if err := repo.CreateComment(ctx, c); err != nil {
			t.Fatal(err)
		}
		if c.ID == 0 {
			t.Fatal("comment ID not set")
		}
	}
	if err := repo.CreateComment(ctx, &models.Comment{ContentItemID: 7, UserID: 1, Body: "elsewhere"}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetCommentsByContentItemID(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Body != "first" {
		t.Errorf("comments: got %+v", got)
	}
}
