package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/studio-dashboard/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrContentItemNotFound is returned when no content item has the given ID.
var ErrContentItemNotFound = errors.New("content item not found")

// ContentItemRepository reads content items and maintains their assignment roster
type ContentItemRepository interface {
	GetContentItem(ctx context.Context, id uint) (*models.ContentItem, error)
	GetAssignedUserIDs(ctx context.Context, id uint) ([]uint, error)
	AddAssignment(ctx context.Context, id uint, assignment models.Assignment) (bool, error)
}

// MongoContentItemRepository implements ContentItemRepository for MongoDB
type MongoContentItemRepository struct {
	collection *mongo.Collection
}

// NewMongoContentItemRepository creates a new MongoContentItemRepository
func NewMongoContentItemRepository(db *mongo.Database) *MongoContentItemRepository {
	return &MongoContentItemRepository{collection: db.Collection("content_items")}
}

// GetContentItem retrieves a content item by ID from MongoDB
func (r *MongoContentItemRepository) GetContentItem(ctx context.Context, id uint) (*models.ContentItem, error) {
	var item models.ContentItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrContentItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetAssignedUserIDs returns the user IDs on the roster in roster order. A user
// holding several roles appears once per role; callers dedupe.
func (r *MongoContentItemRepository) GetAssignedUserIDs(ctx context.Context, id uint) ([]uint, error) {
	opts := options.FindOne().SetProjection(bson.M{"assignments.user_id": 1})
	var item models.ContentItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrContentItemNotFound
		}
		return nil, err
	}

	ids := make([]uint, 0, len(item.Assignments))
	for _, a := range item.Assignments {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}

// AddAssignment appends the assignment unless the user already holds that role.
// It reports whether the roster changed.
func (r *MongoContentItemRepository) AddAssignment(ctx context.Context, id uint, assignment models.Assignment) (bool, error) {
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now()
	}
	filter := bson.M{
		"_id": id,
		"assignments": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"user_id": assignment.UserID,
			"role":    assignment.Role,
		}}},
	}
	update := bson.M{
		"$push": bson.M{"assignments": assignment},
		"$set":  bson.M{"updated_at": assignment.AssignedAt},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount > 0 {
		return true, nil
	}

	// Nothing matched: either the item is missing or the assignment exists.
	if _, err := r.GetContentItem(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
