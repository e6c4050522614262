package resourceRepo

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

// MongoResourceRepo implements ResourceRepository using MongoDB.
type MongoResourceRepo struct {
	coll *mongo.Collection
}

// NewMongoResourceRepo constructs a repository on the "resources" collection of db.
func NewMongoResourceRepo(db *mongo.Database) *MongoResourceRepo {
	return &MongoResourceRepo{coll: db.Collection("resources")}
}

func (r *MongoResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Resource
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching resource with id %s: %w", id, err)
	}
	return &res, nil
}

func (r *MongoResourceRepo) List(ctx context.Context) ([]models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing resources: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Resource
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding resources: %w", err)
	}
	return out, nil
}

// Upsert replaces or inserts a resource document keyed by id.
func (r *MongoResourceRepo) Upsert(ctx context.Context, res models.Resource) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": res.ID}, res, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error upserting resource %s: %w", res.ID, err)
	}
	return nil
}

// EnsureIndexes creates the unique id index.
func (r *MongoResourceRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create resource indexes: %w", err)
	}
	return nil
}
