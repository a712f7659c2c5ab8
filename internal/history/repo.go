package history

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/geotrace/geotrace/internal/shared"
)

// Repository defines persistence operations for history entries.
// Bulk operations are scoped to the owning user at the query level;
// only FindByID crosses user boundaries, and the service layer guards it.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	ListByOwner(ctx context.Context, userID string, limit int64) ([]Entry, error)
	FindByID(ctx context.Context, id string) (*Entry, error)
	DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error)
	DeleteAllByOwner(ctx context.Context, userID string) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// MongoRepository implements Repository on the histories collection.
type MongoRepository struct {
	c *mongo.Collection
}

// NewRepository constructs a MongoDB repository.
func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{c: db.Collection("histories")}
}

// EnsureIndexes creates indexes for efficient querying.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Per-user history, newest first
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "searched_at", Value: -1}},
			Options: options.Index().SetName("idx_history_user_searched"),
		},
		{
			Keys:    bson.D{{Key: "searched_at", Value: -1}},
			Options: options.Index().SetName("idx_history_searched"),
		},
	}
	_, err := r.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts an Entry. If SearchedAt is zero, it is set to now.
func (r *MongoRepository) Create(ctx context.Context, entry *Entry) error {
	if entry.SearchedAt.IsZero() {
		entry.SearchedAt = time.Now().UTC()
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := r.c.InsertOne(ctx, entry)
	return err
}

// ListByOwner retrieves a user's entries, newest first.
func (r *MongoRepository) ListByOwner(ctx context.Context, userID string, limit int64) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "searched_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByID fetches a single entry regardless of owner.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Entry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	var entry Entry
	err = r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// DeleteByIDs removes the given entries that belong to userID and
// reports how many were deleted. IDs owned by other users simply do
// not match the filter.
func (r *MongoRepository) DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return 0, nil
	}
	res, err := r.c.DeleteMany(ctx, bson.M{
		"_id":     bson.M{"$in": oids},
		"user_id": userID,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteAllByOwner removes every entry belonging to userID.
func (r *MongoRepository) DeleteAllByOwner(ctx context.Context, userID string) (int64, error) {
	res, err := r.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteOlderThan removes entries searched before cutoff, across all
// users. Used by the retention job.
func (r *MongoRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.c.DeleteMany(ctx, bson.M{
		"searched_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var _ Repository = (*MongoRepository)(nil)
