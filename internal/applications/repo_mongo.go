package applications

import (
	"context"
	"fmt"
	"time"

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
	return &MongoRepo{Coll: store.Collection(mongostore.CollectionApplications)}
}

func (r *MongoRepo) Create(ctx context.Context, app Application) error {
	if _, err := r.Coll.InsertOne(ctx, app); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (Application, error) {
	var app Application
	if err := r.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&app); err != nil {
		if mongostore.IsNoDocuments(err) {
			return Application{}, ErrNotFound
		}
		return Application{}, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

func (r *MongoRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	return r.find(ctx, bson.M{"jobId": jobID})
}

func (r *MongoRepo) ListByJobs(ctx context.Context, jobIDs []string) ([]Application, error) {
	if len(jobIDs) == 0 {
		return []Application{}, nil
	}
	return r.find(ctx, bson.M{"jobId": bson.M{"$in": jobIDs}})
}

func (r *MongoRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *MongoRepo) find(ctx context.Context, filter bson.M) ([]Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "appliedAt", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.Coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	out := []Application{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": at}}
	res, err := r.Coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
