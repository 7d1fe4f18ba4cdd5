package scheduling

import (
	"context"
	"fmt"

	schedulerRepo "swiftmotors/database/repository/scheduler"
	"swiftmotors/models"
)

// AvailabilityService defines the read-side projections over the slot store.
type AvailabilityService interface {
	AvailableSlots(ctx context.Context, from, to string) ([]models.Slot, error)
	BusySlots(ctx context.Context, from, to string) ([]models.BusySlotView, error)
}

// DefaultAvailabilityService is a concrete implementation. It holds no
// state of its own; every call reflects the store at call time.
type DefaultAvailabilityService struct {
	Repo    schedulerRepo.SchedulerRepository
	Horizon models.Horizon
}

// AvailableSlots enumerates the horizon's slots in canonical (date, label)
// order minus the persisted busy set. Empty from/to default to the full
// horizon.
func (s *DefaultAvailabilityService) AvailableSlots(ctx context.Context, from, to string) ([]models.Slot, error) {
	from, to = s.clampRange(from, to)

	busy, err := s.Repo.ListBusy(ctx, from, to)
	if err != nil {
		return nil, NewStoreError(fmt.Sprintf("failed to list busy slots: %v", err))
	}
	busySet := make(map[string]bool, len(busy))
	for _, slot := range busy {
		busySet[slot.Key()] = true
	}

	var available []models.Slot
	for _, slot := range s.Horizon.Slots() {
		if slot.Date < from || slot.Date > to {
			continue
		}
		if !busySet[slot.Key()] {
			available = append(available, slot)
		}
	}
	return available, nil
}

// BusySlots returns busy slots in the range, each joined with its confirmed
// booking when one exists (administrative blocks have none).
func (s *DefaultAvailabilityService) BusySlots(ctx context.Context, from, to string) ([]models.BusySlotView, error) {
	from, to = s.clampRange(from, to)

	busy, err := s.Repo.ListBusy(ctx, from, to)
	if err != nil {
		return nil, NewStoreError(fmt.Sprintf("failed to list busy slots: %v", err))
	}

	views := make([]models.BusySlotView, 0, len(busy))
	for _, slot := range busy {
		booking, err := s.Repo.GetBookingBySlot(ctx, slot.Date, slot.TimeLabel)
		if err != nil {
			return nil, NewStoreError(fmt.Sprintf("failed to join booking for slot %s: %v", slot.Key(), err))
		}
		views = append(views, models.BusySlotView{Slot: slot, Booking: booking})
	}
	return views, nil
}

func (s *DefaultAvailabilityService) clampRange(from, to string) (string, string) {
	dates := s.Horizon.Dates()
	if len(dates) == 0 {
		return from, to
	}
	if from == "" {
		from = dates[0]
	}
	if to == "" {
		to = dates[len(dates)-1]
	}
	return from, to
}
