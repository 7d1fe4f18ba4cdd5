package schedulerRepo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiftmotors/models"
)

func testBooking(id, customerID, date, label string, createdAt time.Time) *models.Booking {
	return &models.Booking{
		ID:           id,
		CustomerID:   customerID,
		CustomerName: "Test Customer",
		Date:         date,
		TimeLabel:    label,
		Status:       models.BookingConfirmed,
		CreatedAt:    createdAt,
	}
}

func TestGetStatusDefaultsToFree(t *testing.T) {
	repo := NewMemorySchedulerRepo()

	status, err := repo.GetStatus(context.Background(), "2026-09-07", "09:00")
	require.NoError(t, err)
	assert.Equal(t, models.SlotFree, status)
}

func TestSetStatusRoundTrip(t *testing.T) {
	repo := NewMemorySchedulerRepo()
	ctx := context.Background()

	require.NoError(t, repo.SetStatus(ctx, "2026-09-07", "09:00", models.SlotBusy))
	status, err := repo.GetStatus(ctx, "2026-09-07", "09:00")
	require.NoError(t, err)
	assert.Equal(t, models.SlotBusy, status)

	require.NoError(t, repo.SetStatus(ctx, "2026-09-07", "09:00", models.SlotFree))
	status, err = repo.GetStatus(ctx, "2026-09-07", "09:00")
	require.NoError(t, err)
	assert.Equal(t, models.SlotFree, status)
}

func TestListBusyOrderingAndRange(t *testing.T) {
	repo := NewMemorySchedulerRepo()
	ctx := context.Background()

	require.NoError(t, repo.SetStatus(ctx, "2026-09-08", "14:00", models.SlotBusy))
	require.NoError(t, repo.SetStatus(ctx, "2026-09-07", "15:30", models.SlotBusy))
	require.NoError(t, repo.SetStatus(ctx, "2026-09-07", "09:00", models.SlotBusy))
	require.NoError(t, repo.SetStatus(ctx, "2026-09-20", "09:00", models.SlotBusy)) // out of range

	busy, err := repo.ListBusy(ctx, "2026-09-07", "2026-09-10")
	require.NoError(t, err)
	require.Len(t, busy, 3)
	assert.Equal(t, "2026-09-07|09:00", busy[0].Key())
	assert.Equal(t, "2026-09-07|15:30", busy[1].Key())
	assert.Equal(t, "2026-09-08|14:00", busy[2].Key())
}

func TestMarkBusyConditional(t *testing.T) {
	repo := NewMemorySchedulerRepo()
	ctx := context.Background()

	require.NoError(t, repo.MarkBusy(ctx, "2026-09-07", "09:00"))
	assert.ErrorIs(t, repo.MarkBusy(ctx, "2026-09-07", "09:00"), ErrSlotTaken)

	// A booked slot can't be administratively re-marked either.
	require.NoError(t, repo.BookSlot(ctx, "2026-09-08", "14:00", testBooking("b1", "cust-a", "2026-09-08", "14:00", time.Now())))
	assert.ErrorIs(t, repo.MarkBusy(ctx, "2026-09-08", "14:00"), ErrSlotTaken)
}

func TestMarkBusyConcurrentMarkersOneWinner(t *testing.T) {
	repo := NewMemorySchedulerRepo()
	ctx := context.Background()

	const markers = 8
	var wg sync.WaitGroup
	results := make(chan error, markers)
	for i := 0; i < markers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.MarkBusy(ctx, "2026-09-07", "12:00")
		}()
	}
	wg.Wait()
	close(results)

	var wins, taken int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, markers-1, taken)
}

func TestBookSlotConflict(t *testing.T) {
	repo := NewMemorySchedulerRepo()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.BookSlot(ctx, "2026-09-07", "09:00", testBooking("b1", "cust-a", "2026-09-07", "09:00", now)))

	err := repo.BookSlot(ctx, "2026-09-07", "09:00", testBooking("b2", "cust-b", "2026-09-07", "09:00", now))
	assert.ErrorIs(t, err, ErrSlotTaken)

	status, err := repo.GetStatus(ctx, "2026-09-07", "09:00")
	require.NoError(t, err)
	assert.Equal(t, models.SlotBusy, status)

	booking, err := repo.GetBookingBySlot(ctx, "2026-09-07", "09:00")
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, "b1", booking.ID)
	assert.Equal(t, "cust-a", booking.CustomerID)
}

func TestCancelBookingFreesSlot(t *testing.T) {
	repo := NewMemorySchedulerRepo()
	ctx := context.Background()

	require.NoError(t, repo.BookSlot(ctx, "2026-09-07", "09:00", testBooking("b1", "cust-a", "2026-09-07", "09:00", time.Now())))

	canceled, err := repo.CancelBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCanceled, canceled.Status)

	status, err := repo.GetStatus(ctx, "2026-09-07", "09:00")
	require.NoError(t, err)
	assert.Equal(t, models.SlotFree, status)

	// Voided, not deleted: a second cancel finds nothing to void.
	_, err = repo.CancelBooking(ctx, "b1")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	booking, err := repo.GetBookingBySlot(ctx, "2026-09-07", "09:00")
	require.NoError(t, err)
	assert.Nil(t, booking, "canceled booking no longer occupies the slot")
}

func TestGetBookingsByCustomerNewestFirst(t *testing.T) {
	repo := NewMemorySchedulerRepo()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, repo.BookSlot(ctx, "2026-09-07", "09:00", testBooking("b1", "cust-a", "2026-09-07", "09:00", base)))
	require.NoError(t, repo.BookSlot(ctx, "2026-09-08", "14:00", testBooking("b2", "cust-a", "2026-09-08", "14:00", base.Add(time.Minute))))
	require.NoError(t, repo.BookSlot(ctx, "2026-09-08", "09:00", testBooking("b3", "cust-b", "2026-09-08", "09:00", base)))

	bookings, err := repo.GetBookingsByCustomer(ctx, "cust-a")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "b2", bookings[0].ID)
	assert.Equal(t, "b1", bookings[1].ID)
}
