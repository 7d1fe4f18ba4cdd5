package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schedulerRepo "swiftmotors/database/repository/scheduler"
	"swiftmotors/models"
	memoryService "swiftmotors/services/memory"
	"swiftmotors/services/scheduling"
)

type fakeMemory struct {
	entries  []models.MemoryEntry
	mu       sync.Mutex
	recorded []string
}

func (f *fakeMemory) RetrieveContext(ctx context.Context, customerID, query string, k int) []models.MemoryEntry {
	return f.entries
}

func (f *fakeMemory) RecordInteraction(customerID, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, content)
}

func (f *fakeMemory) recordedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recorded)
}

// 2026-09-07 is a Monday.
func newFacade(days int, mem memoryService.ContextProvider) (*DefaultSchedulingFacade, *schedulerRepo.MemorySchedulerRepo) {
	repo := schedulerRepo.NewMemorySchedulerRepo()
	horizon := models.NewHorizon(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), days)
	facade := &DefaultSchedulingFacade{
		Memory:       mem,
		Availability: &scheduling.DefaultAvailabilityService{Repo: repo, Horizon: horizon},
		Coordinator:  &scheduling.DefaultBookingCoordinator{Repo: repo, Horizon: horizon},
		Repo:         repo,
		Horizon:      horizon,
		TopK:         5,
	}
	return facade, repo
}

func intent(customerID, date, label string) models.IntentRequest {
	return models.IntentRequest{
		CustomerID:   customerID,
		CustomerName: "Customer " + customerID,
		Date:         date,
		TimeLabel:    label,
	}
}

func TestHandleIntentBooksFreeSlot(t *testing.T) {
	mem := &fakeMemory{}
	facade, repo := newFacade(3, mem)

	outcome := facade.HandleIntent(context.Background(), intent("cust-a", "2026-09-07", "09:00"))

	assert.Equal(t, models.OutcomeBooked, outcome.Status)
	require.NotNil(t, outcome.Booking)
	assert.Equal(t, "cust-a", outcome.Booking.CustomerID)

	status, err := repo.GetStatus(context.Background(), "2026-09-07", "09:00")
	require.NoError(t, err)
	assert.Equal(t, models.SlotBusy, status)

	assert.Equal(t, 1, mem.recordedCount(), "successful booking is written back to memory")
}

func TestHandleIntentConflictOffersNearestAlternatives(t *testing.T) {
	facade, _ := newFacade(3, &fakeMemory{})
	ctx := context.Background()

	first := facade.HandleIntent(ctx, intent("cust-a", "2026-09-07", "09:00"))
	require.Equal(t, models.OutcomeBooked, first.Status)

	second := facade.HandleIntent(ctx, intent("cust-b", "2026-09-07", "09:00"))
	assert.Equal(t, models.OutcomeConflict, second.Status)
	assert.Nil(t, second.Booking)
	require.NotEmpty(t, second.Alternatives)
	assert.LessOrEqual(t, len(second.Alternatives), 3)
	assert.Equal(t, "2026-09-07|10:30", second.Alternatives[0].Key(),
		"nearest free slot on the same day comes first")
}

func TestHandleIntentInvalidSlot(t *testing.T) {
	facade, _ := newFacade(3, &fakeMemory{})

	outcome := facade.HandleIntent(context.Background(), intent("cust-a", "2026-09-07", "06:00"))
	assert.Equal(t, models.OutcomeInvalidSlot, outcome.Status)
	assert.Nil(t, outcome.Booking)

	outcome = facade.HandleIntent(context.Background(), intent("cust-a", "2030-01-01", "09:00"))
	assert.Equal(t, models.OutcomeInvalidSlot, outcome.Status)
}

func TestHandleIntentDoesNotRebookOwnSlot(t *testing.T) {
	facade, _ := newFacade(3, &fakeMemory{})
	ctx := context.Background()

	first := facade.HandleIntent(ctx, intent("cust-a", "2026-09-07", "09:00"))
	require.Equal(t, models.OutcomeBooked, first.Status)

	again := facade.HandleIntent(ctx, intent("cust-a", "2026-09-07", "09:00"))
	assert.Equal(t, models.OutcomeBooked, again.Status)
	require.NotNil(t, again.Booking)
	assert.Equal(t, first.Booking.ID, again.Booking.ID, "same appointment, not a duplicate")
}

func TestHandleIntentCarModelRecalledFromMemory(t *testing.T) {
	mem := &fakeMemory{entries: []models.MemoryEntry{
		{Content: "Customer was interested in the hybrid last week", Score: 0.9},
	}}
	facade, _ := newFacade(3, mem)

	outcome := facade.HandleIntent(context.Background(), intent("cust-a", "2026-09-07", "09:00"))
	require.Equal(t, models.OutcomeBooked, outcome.Status)
	assert.Equal(t, "hybrid", outcome.Booking.CarModel)
	assert.True(t, outcome.MemoryUsed)
}

func TestHandleIntentEmptyMemoryForNewCustomer(t *testing.T) {
	facade, _ := newFacade(3, &fakeMemory{})

	outcome := facade.HandleIntent(context.Background(), intent("brand-new", "2026-09-08", "14:00"))
	assert.Equal(t, models.OutcomeBooked, outcome.Status)
	assert.False(t, outcome.MemoryUsed)
	assert.Empty(t, outcome.Context)
}

// slowSearcher blocks until the retrieval timeout fires.
type slowSearcher struct{}

func (s *slowSearcher) Search(ctx context.Context, userID, query string, limit int) ([]models.MemoryEntry, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestHandleIntentBoundedWhenMemoryServiceHangs(t *testing.T) {
	provider := &memoryService.DefaultContextProvider{
		Client:  &slowSearcher{},
		Timeout: 50 * time.Millisecond,
	}
	facade, _ := newFacade(3, provider)

	start := time.Now()
	outcome := facade.HandleIntent(context.Background(), intent("cust-a", "2026-09-07", "09:00"))
	elapsed := time.Since(start)

	assert.Equal(t, models.OutcomeBooked, outcome.Status,
		"a hanging memory service must never fail a booking")
	assert.Less(t, elapsed, 2*time.Second)
}

func TestHandleIntentConcurrentCallersOneWinner(t *testing.T) {
	facade, repo := newFacade(3, &fakeMemory{})
	ctx := context.Background()

	const callers = 10
	var wg sync.WaitGroup
	outcomes := make(chan *models.SchedulingOutcome, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			outcomes <- facade.HandleIntent(ctx, intent(
				"cust-"+string(rune('a'+n)), "2026-09-09", "15:30"))
		}(i)
	}
	wg.Wait()
	close(outcomes)

	var booked, conflicts int
	for o := range outcomes {
		switch o.Status {
		case models.OutcomeBooked:
			booked++
		case models.OutcomeConflict:
			conflicts++
		default:
			t.Fatalf("unexpected outcome: %s", o.Status)
		}
	}
	assert.Equal(t, 1, booked)
	assert.Equal(t, callers-1, conflicts)

	booking, err := repo.GetBookingBySlot(ctx, "2026-09-09", "15:30")
	require.NoError(t, err)
	require.NotNil(t, booking)
}
