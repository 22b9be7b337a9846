package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goldline/production-tracker/internal/core/domain"
)

const collectionJobs = "jobs"

// JobRepository stores jobs as single documents with the history embedded,
// so every history change is one atomic document update.
type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

// Create inserts a new job document.
func (r *JobRepository) Create(ctx context.Context, j *domain.Job) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if j.History == nil {
		j.History = []domain.JobLog{}
	}
	if _, err := r.col.InsertOne(ctx, j); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateJob
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var j domain.Job
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&j); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	if j.History == nil {
		j.History = []domain.JobLog{}
	}
	return &j, nil
}

// List returns every job, newest first.
func (r *JobRepository) List(ctx context.Context) ([]*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer cur.Close(ctx)

	jobs := []*domain.Job{}
	for cur.Next(ctx) {
		var j domain.Job
		if err := cur.Decode(&j); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		if j.History == nil {
			j.History = []domain.JobLog{}
		}
		jobs = append(jobs, &j)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// AppendLog pushes entry and moves currentStage in one update, guarded on the
// entry id being absent. It reports false when the id was already recorded.
func (r *JobRepository) AppendLog(ctx context.Context, jobID string, entry domain.JobLog) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, update := appendLogWrite(jobID, entry)
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("append log: %w", err)
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	if err := r.exists(ctx, jobID); err != nil {
		return false, err
	}
	return false, nil
}

// AppendHistory pushes entries in order and sets currentStage, provided none
// of their ids is in the stored history yet. Otherwise it returns
// domain.ErrHistoryConflict and writes nothing.
func (r *JobRepository) AppendHistory(ctx context.Context, jobID string, entries []domain.JobLog, stage string) error {
	if len(entries) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, update := appendHistoryWrite(jobID, entries, stage)
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if err := r.exists(ctx, jobID); err != nil {
		return err
	}
	return domain.ErrHistoryConflict
}

// appendLogWrite matches the job only while entry.ID is absent from its
// history, so the push and the stage move happen together or not at all.
func appendLogWrite(jobID string, entry domain.JobLog) (filter, update bson.M) {
	filter = bson.M{"_id": jobID, "history.id": bson.M{"$ne": entry.ID}}
	update = bson.M{
		"$push": bson.M{"history": entry},
		"$set":  bson.M{"currentStage": entry.StageName},
	}
	return filter, update
}

func appendHistoryWrite(jobID string, entries []domain.JobLog, stage string) (filter, update bson.M) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	filter = bson.M{"_id": jobID, "history.id": bson.M{"$nin": ids}}
	update = bson.M{
		"$push": bson.M{"history": bson.M{"$each": entries}},
		"$set":  bson.M{"currentStage": stage},
	}
	return filter, update
}

// SetStage overwrites currentStage without touching the history.
func (r *JobRepository) SetStage(ctx context.Context, jobID, stage string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": jobID}, bson.M{"$set": bson.M{"currentStage": stage}})
	if err != nil {
		return fmt.Errorf("set stage: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) exists(ctx context.Context, jobID string) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": jobID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("count job: %w", err)
	}
	if n == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes used by the job queries. history.id is
// not unique: a unique multikey index would treat every empty history as the
// same key.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "history.id", Value: 1}}},
		{Keys: bson.D{{Key: "currentStage", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
