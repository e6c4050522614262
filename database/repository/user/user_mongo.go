package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glowhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo implements LoyaltyLedger on the "users" collection.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection("users")}
}

// GetUserPoints reads only the loyalty balance of a user.
func (r *MongoUserRepo) GetUserPoints(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"loyaltyPoints": 1})

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": userID}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch points for user %s: %w", userID, err)
	}
	if user.LoyaltyPoints < 0 {
		return 0, nil
	}
	return user.LoyaltyPoints, nil
}

// EnsureIndexes creates the unique id index.
func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
