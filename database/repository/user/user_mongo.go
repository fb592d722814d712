package userRepo

import (
	"context"
	"fmt"
	"time"

	"afrimobile/database"
	"afrimobile/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	coll := database.MongoClient.Database("afrimobile").Collection("users")
	repo := &MongoUserRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "kycStatus", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByIDWithProjection retrieves a user by its unique ID using a projection.
// Pass nil for projection to retrieve the full document.
func (r *MongoUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &user, nil
}

// GetByID retrieves a user by its unique ID (full document).
func (r *MongoUserRepo) GetByID(id string) (*models.User, error) {
	return r.GetByIDWithProjection(id, nil)
}

// UpdateKYC sets the user's KYC fields in one atomic document update. The
// storage layer's document-level semantics serialize concurrent webhooks for
// the same user; there is no separate lock. Non-verified writes carry a
// filter guard so a success that landed between the caller's read and this
// write is never demoted.
func (r *MongoUserRepo) UpdateKYC(userID string, status models.KYCStatus, verified bool, data *models.KYCData) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{
		"kycStatus":  status,
		"isVerified": verified,
		"updatedAt":  time.Now(),
	}
	if data != nil {
		set["kycData"] = data
	}

	filter := bson.M{"id": userID}
	if status != models.KYCStatusVerified {
		filter["kycStatus"] = bson.M{"$ne": models.KYCStatusVerified}
	}

	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update kyc state for user %s: %w", userID, err)
	}
	if result.MatchedCount == 0 && status == models.KYCStatusVerified {
		return fmt.Errorf("user with id %s not found", userID)
	}
	// An unmatched non-verified write means the guard filtered the document:
	// the user verified concurrently and the stale write is dropped.
	return nil
}

// TouchKYCReminder stamps the last pending-verification reminder time.
func (r *MongoUserRepo) TouchKYCReminder(userID string, at time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx, bson.M{"id": userID}, bson.M{"$set": bson.M{"kycRemindedAt": at}})
	if err != nil {
		return fmt.Errorf("failed to stamp kyc reminder for user %s: %w", userID, err)
	}
	return nil
}
