package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

const collectionActivity = "activity_log"

type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

// Insert appends an audit entry, assigning an id when absent.
func (r *ActivityRepository) Insert(ctx context.Context, entry *domain.ActivityEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	_, err := r.col.InsertOne(ctx, entry)
	return err
}

// ListByUser returns a page of the user's audit entries, newest first.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]*domain.ActivityEntry, int64, error) {
	return r.list(ctx, bson.M{"user_id": userID}, skip, limit)
}

// ListByEntity returns a page of audit entries for one entity, newest first.
func (r *ActivityRepository) ListByEntity(ctx context.Context, entityType, entityID string, skip, limit int) ([]*domain.ActivityEntry, int64, error) {
	return r.list(ctx, bson.M{"entity_type": entityType, "entity_id": entityID}, skip, limit)
}

// ListRecent returns a page of the most recent audit entries system-wide.
func (r *ActivityRepository) ListRecent(ctx context.Context, skip, limit int) ([]*domain.ActivityEntry, int64, error) {
	return r.list(ctx, bson.M{}, skip, limit)
}

func (r *ActivityRepository) list(ctx context.Context, filter bson.M, skip, limit int) ([]*domain.ActivityEntry, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var entries []*domain.ActivityEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// EnsureIndexes creates necessary indexes on the activity_log collection.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
