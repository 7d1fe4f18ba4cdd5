// FILE: database/repository/scheduler/indexes.go
package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the slots and bookings
// collections. The unique (date, timeLabel) index backs the booking
// check-and-set: at most one record per slot can ever exist.
func (repo *MongoSchedulerRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slotIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "timeLabel", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_date_label"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("status_date_idx"),
		},
	}
	if _, err := repo.slotColl.Indexes().CreateMany(ctx, slotIndexes); err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}

	bookingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("customer_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "time_label", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("slot_status_idx"),
		},
	}
	if _, err := repo.bookingColl.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
