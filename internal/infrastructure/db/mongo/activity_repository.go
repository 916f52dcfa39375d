package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

const activityCollection = "activity_events"

// activityDoc is the stored shape of a domain.Activity.
type activityDoc struct {
	Type       string         `bson:"type"`
	SurveyorID int64          `bson:"surveyor_id,omitempty"`
	Email      string         `bson:"email,omitempty"`
	Details    map[string]any `bson:"details,omitempty"`
	OccurredAt time.Time      `bson:"occurred_at"`
	RecordedAt time.Time      `bson:"recorded_at"`
}

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		coll: db.Collection(activityCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the lookup index used to read a surveyor's history.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "surveyor_id", Value: 1}, {Key: "occurred_at", Value: -1}},
		Options: options.Index().SetName("surveyor_occurred_at"),
	})
	if err != nil {
		return fmt.Errorf("activity indexes: %w", err)
	}
	return nil
}

// Insert appends an event to the activity_events collection.
func (r *ActivityRepository) Insert(ctx context.Context, a *domain.Activity) error {
	doc := activityDoc{
		Type:       string(a.Type),
		SurveyorID: a.SurveyorID,
		Email:      a.Email,
		Details:    a.Details,
		OccurredAt: a.OccurredAt.UTC(),
		RecordedAt: r.now(),
	}
	if a.OccurredAt.IsZero() {
		doc.OccurredAt = doc.RecordedAt
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListBySurveyor returns the most recent events for a surveyor, newest first.
func (r *ActivityRepository) ListBySurveyor(ctx context.Context, surveyorID int64, limit int64) ([]domain.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"surveyor_id": surveyorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer cur.Close(ctx)

	var docs []activityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	out := make([]domain.Activity, len(docs))
	for i, d := range docs {
		out[i] = domain.Activity{
			Type:       domain.ActivityType(d.Type),
			SurveyorID: d.SurveyorID,
			Email:      d.Email,
			Details:    d.Details,
			OccurredAt: d.OccurredAt,
		}
	}
	return out, nil
}
