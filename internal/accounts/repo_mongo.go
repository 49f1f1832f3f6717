package accounts

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	mongostore "jobboard-backend/internal/shared/storage/mongo"
)

// MongoRepo keeps users and companies in separate collections, each with a
// unique email index.
type MongoRepo struct {
	Users     *mongo.Collection
	Companies *mongo.Collection
}

var _ Repo = (*MongoRepo)(nil)

func NewMongoRepo(store *mongostore.Store) *MongoRepo {
	return &MongoRepo{
		Users:     store.Collection(mongostore.CollectionUsers),
		Companies: store.Collection(mongostore.CollectionCompanies),
	}
}

func (r *MongoRepo) CreateUser(ctx context.Context, u User) error {
	if _, err := r.Users.InsertOne(ctx, u.clone()); err != nil {
		if mongostore.IsDuplicateKey(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MongoRepo) CreateCompany(ctx context.Context, c Company) error {
	if _, err := r.Companies.InsertOne(ctx, c.clone()); err != nil {
		if mongostore.IsDuplicateKey(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *MongoRepo) GetUserByID(ctx context.Context, id string) (User, error) {
	return r.findUser(ctx, bson.M{"_id": id})
}

func (r *MongoRepo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return r.findUser(ctx, bson.M{"email": email})
}

func (r *MongoRepo) findUser(ctx context.Context, filter bson.M) (User, error) {
	var u User
	if err := r.Users.FindOne(ctx, filter).Decode(&u); err != nil {
		if mongostore.IsNoDocuments(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u.clone(), nil
}

func (r *MongoRepo) GetCompanyByID(ctx context.Context, id string) (Company, error) {
	return r.findCompany(ctx, bson.M{"_id": id})
}

func (r *MongoRepo) GetCompanyByEmail(ctx context.Context, email string) (Company, error) {
	return r.findCompany(ctx, bson.M{"email": email})
}

func (r *MongoRepo) findCompany(ctx context.Context, filter bson.M) (Company, error) {
	var c Company
	if err := r.Companies.FindOne(ctx, filter).Decode(&c); err != nil {
		if mongostore.IsNoDocuments(err) {
			return Company{}, ErrCompanyNotFound
		}
		return Company{}, fmt.Errorf("find company: %w", err)
	}
	return c.clone(), nil
}

func (r *MongoRepo) UpdateUser(ctx context.Context, u User) error {
	set, err := setDocument(u.UserProfile, bson.M{"name": u.Name, "updatedAt": u.UpdatedAt})
	if err != nil {
		return err
	}
	res, err := r.Users.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *MongoRepo) UpdateCompany(ctx context.Context, c Company) error {
	set, err := setDocument(c.CompanyProfile, bson.M{
		"name":        c.Name,
		"companyName": c.CompanyName,
		"updatedAt":   c.UpdatedAt,
	})
	if err != nil {
		return err
	}
	res, err := r.Companies.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// setDocument flattens profile into a $set document so email and password
// are never touched by an update.
func setDocument(profile any, extra bson.M) (bson.M, error) {
	raw, err := bson.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	for k, v := range extra {
		set[k] = v
	}
	return set, nil
}
