package transactionRepo

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

// MongoTransactionRepo implements TransactionRepository using MongoDB.
type MongoTransactionRepo struct {
	coll *mongo.Collection
}

// NewMongoTransactionRepo constructs a repository on the "transactions" collection of db.
func NewMongoTransactionRepo(db *mongo.Database) *MongoTransactionRepo {
	return &MongoTransactionRepo{coll: db.Collection("transactions")}
}

func (r *MongoTransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("error inserting transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (r *MongoTransactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tx models.Transaction
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching transaction with id %s: %w", id, err)
	}
	return &tx, nil
}

func (r *MongoTransactionRepo) UpdateStatus(ctx context.Context, id string, from, to models.PaymentStatus, receiptURL string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to, "updatedAt": time.Now()}
	if receiptURL != "" {
		set["receiptUrl"] = receiptURL
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("error updating transaction %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoTransactionRepo) SetGatewayRef(ctx context.Context, id, ref string) error {
	return r.set(ctx, id, bson.M{"gatewayRef": ref})
}

func (r *MongoTransactionRepo) LinkBooking(ctx context.Context, id, bookingID string) error {
	return r.set(ctx, id, bson.M{"bookingId": bookingID})
}

func (r *MongoTransactionRepo) set(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("error updating transaction %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the transactions indexes.
func (r *MongoTransactionRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "bookingRef", Value: 1}},
			Options: options.Index().SetName("booking_ref_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create transaction indexes: %w", err)
	}
	return nil
}
