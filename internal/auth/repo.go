package auth

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/geotrace/geotrace/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// MongoRepository implements Repository on the users collection.
type MongoRepository struct {
	c *mongo.Collection
}

// NewRepository constructs a MongoDB repository.
func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_users_email").SetUnique(true),
	})
	return err
}

// FindByEmail fetches a user by exact email match.
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.c.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a user by its ObjectID hex string.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	var user User
	err = r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

var _ Repository = (*MongoRepository)(nil)
