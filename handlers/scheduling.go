package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	schedulerRepo "swiftmotors/database/repository/scheduler"
	"swiftmotors/models"
	"swiftmotors/services/scheduling"
	"swiftmotors/services/session"
	"swiftmotors/utils"
)

// SchedulingHandler exposes the scheduling engine to the conversational
// driver over HTTP.
type SchedulingHandler struct {
	Facade       session.SchedulingFacade
	Availability scheduling.AvailabilityService
	Coordinator  scheduling.BookingCoordinator
	Repo         schedulerRepo.SchedulerRepository
	Horizon      models.Horizon
	Logger       *zap.Logger
}

// NewSchedulingHandler constructs the handler set.
func NewSchedulingHandler(
	facade session.SchedulingFacade,
	availability scheduling.AvailabilityService,
	coordinator scheduling.BookingCoordinator,
	repo schedulerRepo.SchedulerRepository,
	horizon models.Horizon,
	logger *zap.Logger,
) *SchedulingHandler {
	return &SchedulingHandler{
		Facade:       facade,
		Availability: availability,
		Coordinator:  coordinator,
		Repo:         repo,
		Horizon:      horizon,
		Logger:       logger,
	}
}

// Today anchors the conversational driver's relative-date talk ("tomorrow",
// "next Tuesday") to the server's calendar and bookable window.
func (h *SchedulingHandler) Today(c *gin.Context) {
	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"today":         now.Format(models.DateLayout),
		"weekday":       now.Weekday().String(),
		"bookableDates": h.Horizon.Dates(),
	})
}

// HandleIntent runs one scheduling intent end-to-end.
func (h *SchedulingHandler) HandleIntent(c *gin.Context) {
	var req models.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	outcome := h.Facade.HandleIntent(c.Request.Context(), req)
	c.JSON(outcomeStatusCode(outcome.Status), outcome)
}

// GetAvailability lists FREE slots, defaulting to the full horizon.
func (h *SchedulingHandler) GetAvailability(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")

	slots, err := h.Availability.AvailableSlots(c.Request.Context(), from, to)
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to compute availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": slots})
}

// GetBusySlots lists BUSY slots joined with their booking metadata.
func (h *SchedulingHandler) GetBusySlots(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")

	views, err := h.Availability.BusySlots(c.Request.Context(), from, to)
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to list busy slots", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"busy": views})
}

// MarkBusy administratively blocks out a slot (holidays, walk-ins).
func (h *SchedulingHandler) MarkBusy(c *gin.Context) {
	var input struct {
		Date      string `json:"date" binding:"required"`
		TimeLabel string `json:"timeLabel" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	err := h.Coordinator.MarkBusy(c.Request.Context(), input.Date, input.TimeLabel)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"date": input.Date, "timeLabel": input.TimeLabel, "status": models.SlotBusy})
	case scheduling.IsInvalidSlot(err):
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid slot", err.Error())
	case scheduling.IsConflict(err):
		utils.JSONError(c, http.StatusConflict, "slot already busy", err.Error())
	default:
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to mark slot busy", err.Error())
	}
}

// CancelBooking voids a booking and frees its slot.
func (h *SchedulingHandler) CancelBooking(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	booking, err := h.Coordinator.Cancel(c.Request.Context(), input.BookingID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"canceled": booking})
	case scheduling.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
	default:
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to cancel booking", err.Error())
	}
}

// GetCustomerBookings returns a customer's booking history, newest first.
func (h *SchedulingHandler) GetCustomerBookings(c *gin.Context) {
	customerID := c.Param("customerId")

	bookings, err := h.Repo.GetBookingsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to fetch bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func outcomeStatusCode(status models.OutcomeStatus) int {
	switch status {
	case models.OutcomeBooked:
		return http.StatusOK
	case models.OutcomeConflict:
		return http.StatusConflict
	case models.OutcomeInvalidSlot:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}
