// Package mongo wraps the MongoDB client used as the document-store primary.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionUsers        = "users"
	CollectionCompanies    = "companies"
	CollectionJobs         = "jobs"
	CollectionApplications = "applications"
)

// Store holds a connected client and the application database.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Open configures a client for uri. The driver connects lazily, so Open
// succeeds while the server is down; use Ping to check reachability.
func Open(ctx context.Context, uri, database string, connectTimeout time.Duration) (*Store, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, errors.New("MONGODB_URI is empty")
	}
	if strings.TrimSpace(database) == "" {
		return nil, errors.New("mongo database name is empty")
	}
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return &Store{Client: client, DB: client.Database(database)}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func (s *Store) Collection(name string) *mongo.Collection {
	return s.DB.Collection(name)
}

// EnsureIndexes creates the unique email indexes and the listing indexes.
// Creating an existing index is a no-op.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
		},
		CollectionCompanies: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
		},
		CollectionJobs: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "companyId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollectionApplications: {
			{Keys: bson.D{{Key: "jobId", Value: 1}, {Key: "appliedAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "appliedAt", Value: -1}}},
		},
	}
	for coll, models := range specs {
		if _, err := s.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// IsDuplicateKey reports a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNoDocuments reports a lookup miss.
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
