package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"glowhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the bookings indexes. The partial unique index on
// slotKey is what makes Create a compare-and-set.
func (r *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{{Key: "slotKey", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_confirmed_slot").
				SetPartialFilterExpression(bson.M{"status": models.BookingConfirmed}),
		},
		{
			Keys:    bson.D{{Key: "resourceId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("resource_date_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
