package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

const activityCollection = "task_activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	coll *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) ports.ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

// Insert persists an activity record to the task_activity audit collection.
func (r *ActivityRepository) Insert(ctx context.Context, a *domain.Activity) error {
	doc := bson.M{
		"task_id":      a.TaskID,
		"owner_id":     a.OwnerID,
		"action":       a.Action,
		"timestamp":    a.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if a.FromStatus != "" {
		doc["from_status"] = string(a.FromStatus)
	}
	if a.ToStatus != "" {
		doc["to_status"] = string(a.ToStatus)
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
