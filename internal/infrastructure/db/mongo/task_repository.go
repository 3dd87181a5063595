package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

const collectionTasks = "tasks"

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

// Create inserts a new task document, assigning an id when absent.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// FindByID retrieves a task by id.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Task
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update replaces an existing task document.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	task.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Archive soft-deletes a task by setting its archived flag.
func (r *TaskRepository) Archive(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_archived": true,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// List returns a page of tasks matching filter plus the total count of the
// matching set. The viewer scope, when present, is applied as part of the
// query so counts and pages reflect only visible tasks.
func (r *TaskRepository) List(ctx context.Context, filter ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildTaskQuery(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	skip := 0
	if filter.Page > 1 {
		skip = (filter.Page - 1) * filter.Limit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(filter.Limit))
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var tasks []*domain.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func buildTaskQuery(filter ports.ListTasksFilter) bson.M {
	query := bson.M{"is_archived": filter.Archived}

	if filter.ViewerID != "" {
		visibility := []bson.M{
			{"owner_id": filter.ViewerID},
			{"assigned_to_id": filter.ViewerID},
		}
		if len(filter.ViewerTeamIDs) > 0 {
			visibility = append(visibility, bson.M{"team_id": bson.M{"$in": filter.ViewerTeamIDs}})
		}
		query["$or"] = visibility
	}

	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.AssignedToID != "" {
		query["assigned_to_id"] = filter.AssignedToID
	}
	if filter.TeamID != "" {
		query["team_id"] = filter.TeamID
	}

	due := bson.M{}
	if !filter.DueDateFrom.IsZero() {
		due["$gte"] = filter.DueDateFrom
	}
	if !filter.DueDateTo.IsZero() {
		due["$lte"] = filter.DueDateTo
	}
	if len(due) > 0 {
		query["due_date"] = due
	}

	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$and"] = []bson.M{{"$or": []bson.M{
			{"title": pattern},
			{"description": pattern},
		}}}
	}

	return query
}

// ListByTeam returns a page of tasks scoped to one team plus the total count.
func (r *TaskRepository) ListByTeam(ctx context.Context, teamID string, includeArchived bool, skip, limit int) ([]*domain.Task, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"team_id": teamID}
	if !includeArchived {
		query["is_archived"] = false
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var tasks []*domain.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// CountByStatus aggregates non-archived task counts per status.
func (r *TaskRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_archived": false}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Count returns the total number of non-archived tasks.
func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"is_archived": false})
}

// EnsureIndexes creates necessary indexes on the tasks collection.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to_id", Value: 1}}},
		{Keys: bson.D{{Key: "team_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
