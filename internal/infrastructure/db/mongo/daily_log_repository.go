package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

const collectionDailyLogs = "daily_logs"

type DailyLogRepository struct {
	col *mongo.Collection
}

func NewDailyLogRepository(db *mongo.Database) *DailyLogRepository {
	return &DailyLogRepository{col: db.Collection(collectionDailyLogs)}
}

func (r *DailyLogRepository) Create(ctx context.Context, l *domain.DailyLog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert daily log: %w", err)
	}
	return nil
}

func (r *DailyLogRepository) FindByID(ctx context.Context, id string) (*domain.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var l domain.DailyLog
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDailyLogNotFound
		}
		return nil, fmt.Errorf("find daily log: %w", err)
	}
	return &l, nil
}

// List returns logs newest first. Ids break timestamp ties since they sort by
// creation time.
func (r *DailyLogRepository) List(ctx context.Context, filter ports.DailyLogFilter) ([]*domain.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.WorkerName != "" {
		q["workerName"] = filter.WorkerName
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: -1},
		{Key: "_id", Value: -1},
	})

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}

	logs := []*domain.DailyLog{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("decode daily logs: %w", err)
	}
	return logs, nil
}

func (r *DailyLogRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete daily log: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDailyLogNotFound
	}
	return nil
}

func (r *DailyLogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "workerName", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
