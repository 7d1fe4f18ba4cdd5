package schedulerRepo

import (
	"context"
	"errors"
	"fmt"

	"swiftmotors/config"
	"swiftmotors/database"
	"swiftmotors/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSchedulerRepo implements SchedulerRepository using MongoDB.
type MongoSchedulerRepo struct {
	slotColl    *mongo.Collection
	bookingColl *mongo.Collection
}

// NewMongoSchedulerRepo constructs a new instance of MongoSchedulerRepo.
func NewMongoSchedulerRepo() *MongoSchedulerRepo {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoSchedulerRepo{
		slotColl:    db.Collection("slots"),
		bookingColl: db.Collection("bookings"),
	}
}

// GetStatus retrieves the persisted status of a slot. Absent records are FREE.
func (repo *MongoSchedulerRepo) GetStatus(ctx context.Context, date, timeLabel string) (models.SlotStatus, error) {
	var slot models.Slot
	filter := bson.M{"date": date, "timeLabel": timeLabel}
	err := repo.slotColl.FindOne(ctx, filter).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SlotFree, nil
	}
	if err != nil {
		return "", fmt.Errorf("error fetching slot %s %s: %w", date, timeLabel, err)
	}
	return slot.Status, nil
}

// SetStatus upserts a slot status record. Used by the administrative
// mark-busy path and by cancellation; bookings go through BookSlot.
func (repo *MongoSchedulerRepo) SetStatus(ctx context.Context, date, timeLabel string, status models.SlotStatus) error {
	filter := bson.M{"date": date, "timeLabel": timeLabel}
	update := bson.M{"$set": bson.M{"status": status}}
	if _, err := repo.slotColl.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("error setting slot %s %s to %s: %w", date, timeLabel, status, err)
	}
	return nil
}

// MarkBusy blocks out a slot with the same conditional upsert BookSlot uses,
// so the unique (date, timeLabel) index backstops concurrent markers across
// processes. No booking record is written.
func (repo *MongoSchedulerRepo) MarkBusy(ctx context.Context, date, timeLabel string) error {
	filter := bson.M{
		"date":      date,
		"timeLabel": timeLabel,
		"status":    bson.M{"$ne": models.SlotBusy},
	}
	update := bson.M{"$set": bson.M{"status": models.SlotBusy}}
	res, err := repo.slotColl.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("error marking slot %s %s busy: %w", date, timeLabel, err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrSlotTaken
	}
	return nil
}

// ListBusy returns busy slots in the date range ordered by (date, timeLabel).
// Zero-padded time labels make the lexicographic sort the canonical one.
func (repo *MongoSchedulerRepo) ListBusy(ctx context.Context, from, to string) ([]models.Slot, error) {
	filter := bson.M{
		"status": models.SlotBusy,
		"date":   bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "timeLabel", Value: 1}})
	cursor, err := repo.slotColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing busy slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding busy slots: %w", err)
	}
	return slots, nil
}

// GetBookingBySlot returns the confirmed booking occupying a slot, if any.
func (repo *MongoSchedulerRepo) GetBookingBySlot(ctx context.Context, date, timeLabel string) (*models.Booking, error) {
	var booking models.Booking
	filter := bson.M{"date": date, "time_label": timeLabel, "status": models.BookingConfirmed}
	err := repo.bookingColl.FindOne(ctx, filter).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking for slot %s %s: %w", date, timeLabel, err)
	}
	return &booking, nil
}

// GetBookingsByCustomer returns a customer's bookings, newest first.
func (repo *MongoSchedulerRepo) GetBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	filter := bson.M{"customer_id": customerID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings for customer %s: %w", customerID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
