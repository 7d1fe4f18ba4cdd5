package schedulerRepo

import (
	"context"
	"errors"

	"swiftmotors/models"
)

// ErrSlotTaken is returned when a check-and-set loses to an existing BUSY
// record. Callers translate it to a business-level Conflict.
var ErrSlotTaken = errors.New("slot already busy")

// ErrBookingNotFound is returned by cancel/lookup when no matching active
// booking exists.
var ErrBookingNotFound = errors.New("booking not found")

// SchedulerRepository is the durable slot + booking store. Only explicit
// statuses are persisted; a slot with no record is FREE.
type SchedulerRepository interface {
	// GetStatus reports the persisted status of a slot, defaulting to FREE.
	GetStatus(ctx context.Context, date, timeLabel string) (models.SlotStatus, error)
	// SetStatus upserts a slot status. The write is durable before return.
	SetStatus(ctx context.Context, date, timeLabel string, status models.SlotStatus) error
	// ListBusy returns busy slots in [from, to] ordered by (date, timeLabel).
	ListBusy(ctx context.Context, from, to string) ([]models.Slot, error)
	// MarkBusy atomically transitions a slot FREE->BUSY with no booking
	// attached. Returns ErrSlotTaken if the slot is already BUSY.
	MarkBusy(ctx context.Context, date, timeLabel string) error
	// BookSlot atomically transitions the slot FREE->BUSY and inserts the
	// booking as one unit. Returns ErrSlotTaken if the slot is already BUSY.
	BookSlot(ctx context.Context, date, timeLabel string, booking *models.Booking) error
	// CancelBooking voids a confirmed booking and frees its slot in one unit.
	CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	// GetBookingBySlot returns the confirmed booking occupying a slot, if any.
	GetBookingBySlot(ctx context.Context, date, timeLabel string) (*models.Booking, error)
	// GetBookingsByCustomer returns a customer's bookings, newest first.
	GetBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
}
