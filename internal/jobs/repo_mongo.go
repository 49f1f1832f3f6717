package jobs

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongostore "jobboard-backend/internal/shared/storage/mongo"
)

type MongoRepo struct {
	Coll *mongo.Collection
}

var _ Repo = (*MongoRepo)(nil)

func NewMongoRepo(store *mongostore.Store) *MongoRepo {
	return &MongoRepo{Coll: store.Collection(mongostore.CollectionJobs)}
}

func (r *MongoRepo) Create(ctx context.Context, job Job) error {
	if _, err := r.Coll.InsertOne(ctx, job); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (Job, error) {
	var job Job
	if err := r.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		if mongostore.IsNoDocuments(err) {
			return Job{}, ErrNotFound
		}
		return Job{}, fmt.Errorf("find job: %w", err)
	}
	return job, nil
}

func (r *MongoRepo) ListByStatus(ctx context.Context, status string) ([]Job, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *MongoRepo) ListByCompany(ctx context.Context, companyID string) ([]Job, error) {
	return r.find(ctx, bson.M{"companyId": companyID})
}

func (r *MongoRepo) find(ctx context.Context, filter bson.M) ([]Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.Coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	out := []Job{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) Update(ctx context.Context, job Job) error {
	set := bson.M{
		"title":        job.Title,
		"description":  job.Description,
		"requirements": job.Requirements,
		"company":      job.Company,
		"location":     job.Location,
		"jobType":      job.JobType,
		"sector":       job.Sector,
		"salary":       job.Salary,
		"deadline":     job.Deadline,
		"status":       job.Status,
		"updatedAt":    job.UpdatedAt,
	}
	res, err := r.Coll.UpdateOne(ctx, bson.M{"_id": job.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.Coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
