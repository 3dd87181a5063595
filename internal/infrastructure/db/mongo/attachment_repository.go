package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

const collectionAttachments = "attachments"

type AttachmentRepository struct {
	col *mongo.Collection
}

func NewAttachmentRepository(db *mongo.Database) *AttachmentRepository {
	return &AttachmentRepository{col: db.Collection(collectionAttachments)}
}

// Create inserts a new attachment document, assigning an id when absent.
func (r *AttachmentRepository) Create(ctx context.Context, a *domain.Attachment) (*domain.Attachment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// FindByID retrieves an attachment by id.
func (r *AttachmentRepository) FindByID(ctx context.Context, id string) (*domain.Attachment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Attachment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Delete removes an attachment document.
func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrAttachmentNotFound
	}
	return nil
}

// ListByTask returns every attachment of a task, newest first.
func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.Attachment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"task_id": taskID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var attachments []*domain.Attachment
	if err := cur.All(ctx, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// EnsureIndexes creates necessary indexes on the attachments collection.
func (r *AttachmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "task_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
