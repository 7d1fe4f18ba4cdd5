package schedulerRepo

import (
	"context"
	"fmt"

	"swiftmotors/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookSlot transitions the slot FREE->BUSY and inserts the booking record as
// a single transaction. The conditional upsert is the check-and-set: if the
// slot record already says BUSY the filter matches nothing and the upsert
// trips the unique (date, timeLabel) index, so exactly one concurrent caller
// can win.
func (repo *MongoSchedulerRepo) BookSlot(ctx context.Context, date, timeLabel string, booking *models.Booking) error {
	client := repo.slotColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{
			"date":      date,
			"timeLabel": timeLabel,
			"status":    bson.M{"$ne": models.SlotBusy},
		}
		update := bson.M{"$set": bson.M{"status": models.SlotBusy}}
		res, err := repo.slotColl.UpdateOne(sc, filter, update, options.Update().SetUpsert(true))
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlotTaken
		}
		if err != nil {
			return nil, fmt.Errorf("slot check-and-set failed: %w", err)
		}
		if res.MatchedCount == 0 && res.UpsertedCount == 0 {
			return nil, ErrSlotTaken
		}

		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		return err
	}
	return nil
}

// CancelBooking voids a confirmed booking and frees its slot in one
// transaction. The booking record stays in the collection, marked Canceled.
func (repo *MongoSchedulerRepo) CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	client := repo.slotColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"id": bookingID, "status": models.BookingConfirmed}
		update := bson.M{"$set": bson.M{"status": models.BookingCanceled}}
		var booking models.Booking
		err := repo.bookingColl.FindOneAndUpdate(sc, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&booking)
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("void booking failed: %w", err)
		}

		slotFilter := bson.M{"date": booking.Date, "timeLabel": booking.TimeLabel}
		slotUpdate := bson.M{"$set": bson.M{"status": models.SlotFree}}
		if _, err := repo.slotColl.UpdateOne(sc, slotFilter, slotUpdate); err != nil {
			return nil, fmt.Errorf("free slot failed: %w", err)
		}
		return &booking, nil
	}

	res, err := sess.WithTransaction(ctx, txnFn)
	if err != nil {
		return nil, err
	}
	return res.(*models.Booking), nil
}
