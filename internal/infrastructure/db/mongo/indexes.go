package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the lookup indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collDependents: {
			{Keys: bson.D{{Key: "parent_id", Value: 1}}},
		},
		collEnrollments: {
			{Keys: bson.D{{Key: "dependent_id", Value: 1}, {Key: "slot_id", Value: 1}}},
			{Keys: bson.D{{Key: "slot_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		collPayments: {
			{Keys: bson.D{{Key: "client_id", Value: 1}}},
			{Keys: bson.D{{Key: "payment_date", Value: 1}}},
		},
		collCosts: {
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
		collVenues: {
			{Keys: bson.D{{Key: "supplier_id", Value: 1}}},
		},
		authCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}
