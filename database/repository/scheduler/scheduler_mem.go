package schedulerRepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"swiftmotors/models"
)

// MemorySchedulerRepo is a mutex-guarded in-memory SchedulerRepository.
// It backs tests and single-node deployments that don't need Mongo; the
// check-and-set semantics are identical.
type MemorySchedulerRepo struct {
	mu       sync.RWMutex
	slots    map[string]models.SlotStatus // key: "date|label"
	bookings map[string]models.Booking    // key: booking id
}

// NewMemorySchedulerRepo constructs an empty in-memory repository.
func NewMemorySchedulerRepo() *MemorySchedulerRepo {
	return &MemorySchedulerRepo{
		slots:    make(map[string]models.SlotStatus),
		bookings: make(map[string]models.Booking),
	}
}

func slotKey(date, timeLabel string) string {
	return date + "|" + timeLabel
}

func (repo *MemorySchedulerRepo) GetStatus(ctx context.Context, date, timeLabel string) (models.SlotStatus, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	if status, ok := repo.slots[slotKey(date, timeLabel)]; ok {
		return status, nil
	}
	return models.SlotFree, nil
}

func (repo *MemorySchedulerRepo) SetStatus(ctx context.Context, date, timeLabel string, status models.SlotStatus) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.slots[slotKey(date, timeLabel)] = status
	return nil
}

func (repo *MemorySchedulerRepo) MarkBusy(ctx context.Context, date, timeLabel string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	key := slotKey(date, timeLabel)
	if repo.slots[key] == models.SlotBusy {
		return ErrSlotTaken
	}
	repo.slots[key] = models.SlotBusy
	return nil
}

func (repo *MemorySchedulerRepo) ListBusy(ctx context.Context, from, to string) ([]models.Slot, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var busy []models.Slot
	for key, status := range repo.slots {
		if status != models.SlotBusy {
			continue
		}
		date, label, ok := strings.Cut(key, "|")
		if !ok || date < from || date > to {
			continue
		}
		busy = append(busy, models.Slot{Date: date, TimeLabel: label, Status: models.SlotBusy})
	}
	sort.Slice(busy, func(i, j int) bool {
		if busy[i].Date != busy[j].Date {
			return busy[i].Date < busy[j].Date
		}
		return busy[i].TimeLabel < busy[j].TimeLabel
	})
	return busy, nil
}

func (repo *MemorySchedulerRepo) BookSlot(ctx context.Context, date, timeLabel string, booking *models.Booking) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	key := slotKey(date, timeLabel)
	if repo.slots[key] == models.SlotBusy {
		return ErrSlotTaken
	}
	repo.slots[key] = models.SlotBusy
	repo.bookings[booking.ID] = *booking
	return nil
}

func (repo *MemorySchedulerRepo) CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	booking, ok := repo.bookings[bookingID]
	if !ok || booking.Status != models.BookingConfirmed {
		return nil, ErrBookingNotFound
	}
	booking.Status = models.BookingCanceled
	repo.bookings[bookingID] = booking
	repo.slots[booking.SlotKey()] = models.SlotFree
	return &booking, nil
}

func (repo *MemorySchedulerRepo) GetBookingBySlot(ctx context.Context, date, timeLabel string) (*models.Booking, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, booking := range repo.bookings {
		if booking.Date == date && booking.TimeLabel == timeLabel && booking.Status == models.BookingConfirmed {
			b := booking
			return &b, nil
		}
	}
	return nil, nil
}

func (repo *MemorySchedulerRepo) GetBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var bookings []models.Booking
	for _, booking := range repo.bookings {
		if booking.CustomerID == customerID {
			bookings = append(bookings, booking)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}
