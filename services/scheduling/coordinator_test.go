package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schedulerRepo "swiftmotors/database/repository/scheduler"
	"swiftmotors/models"
)

// 2026-09-07 is a Monday, so a short horizon hits no Sunday.
func testHorizon(days int) models.Horizon {
	return models.NewHorizon(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), days)
}

func newCoordinator(days int) (*DefaultBookingCoordinator, *schedulerRepo.MemorySchedulerRepo) {
	repo := schedulerRepo.NewMemorySchedulerRepo()
	return &DefaultBookingCoordinator{Repo: repo, Horizon: testHorizon(days)}, repo
}

func bookingRequest(customerID, date, label string) BookingRequest {
	return BookingRequest{
		CustomerID:   customerID,
		CustomerName: "Customer " + customerID,
		Date:         date,
		TimeLabel:    label,
	}
}

func TestBookSlotSuccess(t *testing.T) {
	coordinator, repo := newCoordinator(3)
	ctx := context.Background()

	booking, err := coordinator.BookSlot(ctx, bookingRequest("cust-a", "2026-09-07", "09:00"))
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.False(t, booking.CreatedAt.IsZero())

	status, err := repo.GetStatus(ctx, "2026-09-07", "09:00")
	require.NoError(t, err)
	assert.Equal(t, models.SlotBusy, status)

	stored, err := repo.GetBookingBySlot(ctx, "2026-09-07", "09:00")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, booking.ID, stored.ID)
}

func TestBookSlotConflictNeverOverwrites(t *testing.T) {
	coordinator, repo := newCoordinator(3)
	ctx := context.Background()

	first, err := coordinator.BookSlot(ctx, bookingRequest("cust-a", "2026-09-07", "09:00"))
	require.NoError(t, err)

	_, err = coordinator.BookSlot(ctx, bookingRequest("cust-b", "2026-09-07", "09:00"))
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	stored, err := repo.GetBookingBySlot(ctx, "2026-09-07", "09:00")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.ID, stored.ID, "loser must never overwrite the winner")
	assert.Equal(t, "cust-a", stored.CustomerID)
}

func TestBookSlotOutsideHorizon(t *testing.T) {
	coordinator, _ := newCoordinator(3)
	ctx := context.Background()

	_, err := coordinator.BookSlot(ctx, bookingRequest("cust-a", "2027-01-01", "09:00"))
	assert.True(t, IsInvalidSlot(err))

	_, err = coordinator.BookSlot(ctx, bookingRequest("cust-a", "2026-09-07", "23:59"))
	assert.True(t, IsInvalidSlot(err), "unknown time label is invalid")
}

func TestConcurrentBookingExactlyOneWinner(t *testing.T) {
	coordinator, repo := newCoordinator(3)
	ctx := context.Background()

	const callers = 10
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := coordinator.BookSlot(ctx, bookingRequest(
				"cust-"+string(rune('a'+n)), "2026-09-07", "12:00"))
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)

	status, err := repo.GetStatus(ctx, "2026-09-07", "12:00")
	require.NoError(t, err)
	assert.Equal(t, models.SlotBusy, status)

	booking, err := repo.GetBookingBySlot(ctx, "2026-09-07", "12:00")
	require.NoError(t, err)
	require.NotNil(t, booking, "exactly one booking backs the busy slot")
}

func TestMarkBusy(t *testing.T) {
	coordinator, repo := newCoordinator(3)
	ctx := context.Background()

	require.NoError(t, coordinator.MarkBusy(ctx, "2026-09-08", "14:00"))

	status, err := repo.GetStatus(ctx, "2026-09-08", "14:00")
	require.NoError(t, err)
	assert.Equal(t, models.SlotBusy, status)

	err = coordinator.MarkBusy(ctx, "2026-09-08", "14:00")
	assert.True(t, IsConflict(err))

	err = coordinator.MarkBusy(ctx, "2026-09-08", "07:00")
	assert.True(t, IsInvalidSlot(err))

	// Administrative blocks carry no booking record.
	booking, err := repo.GetBookingBySlot(ctx, "2026-09-08", "14:00")
	require.NoError(t, err)
	assert.Nil(t, booking)
}

func TestCancelFreesSlotForRebooking(t *testing.T) {
	coordinator, _ := newCoordinator(3)
	ctx := context.Background()

	booking, err := coordinator.BookSlot(ctx, bookingRequest("cust-a", "2026-09-07", "09:00"))
	require.NoError(t, err)

	canceled, err := coordinator.Cancel(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCanceled, canceled.Status)

	_, err = coordinator.Cancel(ctx, booking.ID)
	assert.True(t, IsNotFound(err))

	// The freed slot is bookable again.
	rebooked, err := coordinator.BookSlot(ctx, bookingRequest("cust-b", "2026-09-07", "09:00"))
	require.NoError(t, err)
	assert.NotEqual(t, booking.ID, rebooked.ID)
}
