package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	schedulerRepo "swiftmotors/database/repository/scheduler"
	"swiftmotors/models"
	"swiftmotors/utils"
)

// BookingRequest carries everything needed to commit one appointment.
type BookingRequest struct {
	CustomerID   string
	CustomerName string
	Phone        string
	Date         string
	TimeLabel    string
	CarModel     string
}

// BookingCoordinator is the only component allowed to transition a slot
// FREE->BUSY.
type BookingCoordinator interface {
	BookSlot(ctx context.Context, req BookingRequest) (*models.Booking, error)
	MarkBusy(ctx context.Context, date, timeLabel string) error
	Cancel(ctx context.Context, bookingID string) (*models.Booking, error)
}

// slotLockStore holds a map of slot keys to their mutexes, so concurrent
// bookings of unrelated slots never serialize against each other.
type slotLockStore struct {
	locks map[string]*sync.Mutex
	mu    sync.Mutex
}

// getLock returns the mutex for a given slot key, creating one if it
// doesn't exist. Lock entries are bounded by the horizon size, so the map
// is never evicted.
func (s *slotLockStore) getLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[key]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// DefaultBookingCoordinator implements BookingCoordinator over the
// scheduler repository with per-slot-key mutual exclusion. The repository's
// transactional check-and-set is the durable backstop; the mutex keeps
// same-process racers from burning transaction retries.
type DefaultBookingCoordinator struct {
	Repo    schedulerRepo.SchedulerRepository
	Horizon models.Horizon

	lockStore slotLockStore
	initOnce  sync.Once
}

func (c *DefaultBookingCoordinator) init() {
	c.initOnce.Do(func() {
		c.lockStore.locks = make(map[string]*sync.Mutex)
	})
}

// BookSlot validates the request against the horizon, then performs the
// atomic FREE->BUSY transition plus booking insert. First success wins;
// every loser gets a conflict, never a silent overwrite.
func (c *DefaultBookingCoordinator) BookSlot(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	c.init()
	logger := utils.GetLogger()

	if !c.Horizon.ContainsSlot(req.Date, req.TimeLabel) {
		return nil, NewInvalidSlotError(fmt.Sprintf("slot %s %s is outside the scheduling horizon", req.Date, req.TimeLabel))
	}

	booking := &models.Booking{
		ID:           uuid.New().String(),
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Date:         req.Date,
		TimeLabel:    req.TimeLabel,
		CarModel:     req.CarModel,
		Status:       models.BookingConfirmed,
		CreatedAt:    time.Now(),
	}

	key := req.Date + "|" + req.TimeLabel
	lock := c.lockStore.getLock(key)
	lock.Lock()
	defer lock.Unlock()

	status, err := c.Repo.GetStatus(ctx, req.Date, req.TimeLabel)
	if err != nil {
		return nil, NewStoreError(fmt.Sprintf("status read failed: %v", err))
	}
	if status == models.SlotBusy {
		logger.Info("Booking lost to existing reservation",
			zap.String("slot", key), zap.String("customerId", req.CustomerID))
		return nil, NewConflictError(fmt.Sprintf("slot %s %s is already taken", req.Date, req.TimeLabel))
	}

	if err := c.Repo.BookSlot(ctx, req.Date, req.TimeLabel, booking); err != nil {
		if errors.Is(err, schedulerRepo.ErrSlotTaken) {
			return nil, NewConflictError(fmt.Sprintf("slot %s %s is already taken", req.Date, req.TimeLabel))
		}
		return nil, NewStoreError(fmt.Sprintf("booking transaction failed: %v", err))
	}

	logger.Info("Booking committed",
		zap.String("bookingId", booking.ID),
		zap.String("slot", key),
		zap.String("customerId", req.CustomerID))
	return booking, nil
}

// MarkBusy blocks out a slot without a customer, e.g. for holidays. Same
// atomicity rules as BookSlot.
func (c *DefaultBookingCoordinator) MarkBusy(ctx context.Context, date, timeLabel string) error {
	c.init()

	if !c.Horizon.ContainsSlot(date, timeLabel) {
		return NewInvalidSlotError(fmt.Sprintf("slot %s %s is outside the scheduling horizon", date, timeLabel))
	}

	key := date + "|" + timeLabel
	lock := c.lockStore.getLock(key)
	lock.Lock()
	defer lock.Unlock()

	if err := c.Repo.MarkBusy(ctx, date, timeLabel); err != nil {
		if errors.Is(err, schedulerRepo.ErrSlotTaken) {
			return NewConflictError(fmt.Sprintf("slot %s %s is already busy", date, timeLabel))
		}
		return NewStoreError(fmt.Sprintf("mark busy failed: %v", err))
	}

	utils.GetLogger().Info("Slot marked busy", zap.String("slot", key))
	return nil
}

// Cancel voids a booking and frees its slot. Bookings are voided, never
// deleted.
func (c *DefaultBookingCoordinator) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	c.init()

	booking, err := c.Repo.CancelBooking(ctx, bookingID)
	if errors.Is(err, schedulerRepo.ErrBookingNotFound) {
		return nil, NewNotFoundError(fmt.Sprintf("no confirmed booking with id %s", bookingID))
	}
	if err != nil {
		return nil, NewStoreError(fmt.Sprintf("cancel transaction failed: %v", err))
	}

	utils.GetLogger().Info("Booking canceled",
		zap.String("bookingId", booking.ID), zap.String("slot", booking.SlotKey()))
	return booking, nil
}
