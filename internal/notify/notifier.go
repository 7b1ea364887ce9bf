package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"github.com/anonto42/studio-dashboard/backend/internal/repositories"
)

// RosterReader loads the users assigned to a content item.
type RosterReader interface {
	GetAssignedUserIDs(ctx context.Context, contentItemID uint) ([]uint, error)
}

// Notifier is the entry point domain actions call after a comment or an
// assignment has been committed.
type Notifier struct {
	roster  RosterReader
	breaker *gobreaker.CircuitBreaker
	writer  *Writer
	log     logrus.FieldLogger
}

func NewNotifier(roster RosterReader, writer *Writer, log logrus.FieldLogger) *Notifier {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "roster-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, repositories.ErrContentItemNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("Circuit breaker changed state")
		},
	})
	return &Notifier{
		roster:  roster,
		breaker: breaker,
		writer:  writer,
		log:     log,
	}
}

// NotifyComment notifies everyone involved in a new comment on a content
// item: mentioned users get a mention, other assignees a comment_on_assigned
// notification. Each user gets at most one, the actor none.
func (n *Notifier) NotifyComment(ctx context.Context, contentItemID uint, title, commentBody string, commentID, actorID uint, mentionedUserIDs []uint) {
	log := n.log.WithFields(logrus.Fields{"content_item_id": contentItemID, "comment_id": commentID})
	defer n.guard(log)
	ctx = context.WithoutCancel(ctx)

	assigned, err := n.assignedUsers(ctx, contentItemID)
	if err != nil {
		log.WithError(err).Warn("Failed to load assignment roster, notifying mentions only")
	}

	mentions, comments := Consolidate(assigned, mentionedUserIDs, actorID)
	entity := models.ContentItemRef(contentItemID)
	body := TruncateBody(commentBody, MaxBodyLength)
	cid := commentID

	if len(mentions) > 0 {
		n.writer.Write(ctx, Event{
			Recipients: mentions,
			Type:       models.NotificationMention,
			Title:      fmt.Sprintf("You were mentioned in %q", title),
			Body:       body,
			Entity:     entity,
			CommentID:  &cid,
			ActorID:    actorID,
		})
	}
	if len(comments) > 0 {
		n.writer.Write(ctx, Event{
			Recipients: comments,
			Type:       models.NotificationCommentOnAssigned,
			Title:      fmt.Sprintf("New comment on %q", title),
			Body:       body,
			Entity:     entity,
			CommentID:  &cid,
			ActorID:    actorID,
		})
	}
}

// NotifyAssignment tells a user they were given a role on a content item.
// Self-assignment produces nothing.
func (n *Notifier) NotifyAssignment(ctx context.Context, assignedUserID, contentItemID uint, title, role string, assignedByID uint) {
	log := n.log.WithFields(logrus.Fields{"content_item_id": contentItemID, "user_id": assignedUserID})
	defer n.guard(log)

	if assignedUserID == assignedByID {
		return
	}
	n.writer.Write(context.WithoutCancel(ctx), Event{
		Recipients: []uint{assignedUserID},
		Type:       models.NotificationAssignment,
		Title:      fmt.Sprintf("You were assigned as %s on %q", role, title),
		Entity:     models.ContentItemRef(contentItemID),
		ActorID:    assignedByID,
	})
}

func (n *Notifier) assignedUsers(ctx context.Context, contentItemID uint) ([]uint, error) {
	out, err := n.breaker.Execute(func() (interface{}, error) {
		return n.roster.GetAssignedUserIDs(ctx, contentItemID)
	})
	if err != nil {
		return nil, err
	}
	return out.([]uint), nil
}

// guard keeps a panic inside notification code from reaching the caller.
func (n *Notifier) guard(log logrus.FieldLogger) {
	if r := recover(); r != nil {
		log.WithField("panic", r).Error("Notification trigger panicked")
	}
}
