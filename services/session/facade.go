package session

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	schedulerRepo "swiftmotors/database/repository/scheduler"
	"swiftmotors/models"
	memoryService "swiftmotors/services/memory"
	"swiftmotors/services/scheduling"
	"swiftmotors/utils"
)

// maxAlternatives caps how many nearby FREE slots a failed intent offers.
const maxAlternatives = 3

// SchedulingFacade is the single entry point the conversational driver
// calls. One HandleIntent call is one scheduling turn.
type SchedulingFacade interface {
	HandleIntent(ctx context.Context, req models.IntentRequest) *models.SchedulingOutcome
}

// DefaultSchedulingFacade composes memory context, availability, and the
// booking coordinator.
type DefaultSchedulingFacade struct {
	Memory       memoryService.ContextProvider
	Availability scheduling.AvailabilityService
	Coordinator  scheduling.BookingCoordinator
	Repo         schedulerRepo.SchedulerRepository
	Horizon      models.Horizon
	TopK         int
}

// HandleIntent runs one scheduling intent end-to-end: fetch memory context
// (best-effort), check availability, book with a single retry on a lost
// race, then record the outcome back to memory asynchronously.
func (f *DefaultSchedulingFacade) HandleIntent(ctx context.Context, req models.IntentRequest) *models.SchedulingOutcome {
	logger := utils.GetLogger()

	query := fmt.Sprintf("test drive appointment on %s at %s", req.Date, req.TimeLabel)
	entries := f.Memory.RetrieveContext(ctx, req.CustomerID, query, f.TopK)

	outcome := &models.SchedulingOutcome{
		MemoryUsed: len(entries) > 0,
		Context:    entries,
	}

	if !f.Horizon.ContainsSlot(req.Date, req.TimeLabel) {
		outcome.Status = models.OutcomeInvalidSlot
		outcome.Message = fmt.Sprintf("%s at %s is outside the bookable range.", req.Date, req.TimeLabel)
		return outcome
	}

	// Memory-informed guard: don't re-book a slot the customer already holds.
	if existing, err := f.Repo.GetBookingBySlot(ctx, req.Date, req.TimeLabel); err == nil &&
		existing != nil && existing.CustomerID == req.CustomerID {
		outcome.Status = models.OutcomeBooked
		outcome.Booking = existing
		outcome.Message = fmt.Sprintf("You already have this appointment on %s at %s.", req.Date, req.TimeLabel)
		return outcome
	}

	// A car model mentioned in a past conversation carries over when the
	// current request doesn't name one.
	if req.CarModel == "" {
		req.CarModel = carModelFromContext(entries)
	}

	bookReq := scheduling.BookingRequest{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Date:         req.Date,
		TimeLabel:    req.TimeLabel,
		CarModel:     req.CarModel,
	}

	booking, err := f.bookWithRetry(ctx, bookReq)
	switch {
	case err == nil:
		outcome.Status = models.OutcomeBooked
		outcome.Booking = booking
		outcome.Message = fmt.Sprintf("Appointment booked for %s on %s at %s.", req.CustomerName, req.Date, req.TimeLabel)
		f.Memory.RecordInteraction(req.CustomerID, fmt.Sprintf(
			"Booked a test drive for %s on %s at %s (car model: %s)",
			req.CustomerName, req.Date, req.TimeLabel, orUnspecified(req.CarModel)))
	case scheduling.IsConflict(err):
		outcome.Status = models.OutcomeConflict
		outcome.Alternatives = f.nearestAlternatives(ctx, req.Date, req.TimeLabel)
		outcome.Message = fmt.Sprintf("%s at %s is no longer available.", req.Date, req.TimeLabel)
	case scheduling.IsInvalidSlot(err):
		outcome.Status = models.OutcomeInvalidSlot
		outcome.Message = err.Error()
	default:
		logger.Error("Booking failed on store error",
			zap.String("customerId", req.CustomerID), zap.Error(err))
		outcome.Status = models.OutcomeStoreUnavailable
		outcome.Message = "We couldn't confirm the appointment right now. Please try again shortly."
	}
	return outcome
}

// bookWithRetry retries the read-compute-book cycle once against fresh
// availability after a lost race, then surfaces the conflict.
func (f *DefaultSchedulingFacade) bookWithRetry(ctx context.Context, req scheduling.BookingRequest) (*models.Booking, error) {
	booking, err := f.Coordinator.BookSlot(ctx, req)
	if err == nil || !scheduling.IsConflict(err) {
		return booking, err
	}

	available, availErr := f.Availability.AvailableSlots(ctx, req.Date, req.Date)
	if availErr != nil {
		return nil, err
	}
	for _, slot := range available {
		if slot.Date == req.Date && slot.TimeLabel == req.TimeLabel {
			return f.Coordinator.BookSlot(ctx, req)
		}
	}
	return nil, err
}

// nearestAlternatives returns up to maxAlternatives FREE slots ranked by
// distance from the requested slot in the horizon's canonical sequence.
func (f *DefaultSchedulingFacade) nearestAlternatives(ctx context.Context, date, timeLabel string) []models.Slot {
	available, err := f.Availability.AvailableSlots(ctx, "", "")
	if err != nil || len(available) == 0 {
		return nil
	}

	target := f.slotOrdinal(date, timeLabel)
	best := make([]models.Slot, 0, len(available))
	best = append(best, available...)
	// Stable selection sort by ordinal distance; availability lists are
	// horizon-sized, so this stays tiny.
	for i := 0; i < len(best) && i < maxAlternatives; i++ {
		min := i
		for j := i + 1; j < len(best); j++ {
			if abs(f.slotOrdinal(best[j].Date, best[j].TimeLabel)-target) <
				abs(f.slotOrdinal(best[min].Date, best[min].TimeLabel)-target) {
				min = j
			}
		}
		best[i], best[min] = best[min], best[i]
	}
	if len(best) > maxAlternatives {
		best = best[:maxAlternatives]
	}
	return best
}

// slotOrdinal maps a slot to its position in the horizon's canonical
// (date, label) sequence.
func (f *DefaultSchedulingFacade) slotOrdinal(date, timeLabel string) int {
	labelIdx := models.LabelIndex(timeLabel)
	if labelIdx < 0 {
		labelIdx = 0
	}
	for i, d := range f.Horizon.Dates() {
		if d == date {
			return i*len(models.TimeLabels) + labelIdx
		}
	}
	return 0
}

func carModelFromContext(entries []models.MemoryEntry) string {
	for _, entry := range entries {
		lower := strings.ToLower(entry.Content)
		for _, model := range models.CarModels() {
			if strings.Contains(lower, model) {
				return model
			}
		}
	}
	return ""
}

func orUnspecified(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
