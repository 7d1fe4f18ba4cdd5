package models

// OutcomeStatus classifies the result of one scheduling intent.
type OutcomeStatus string

const (
	OutcomeBooked           OutcomeStatus = "booked"
	OutcomeConflict         OutcomeStatus = "conflict"
	OutcomeInvalidSlot      OutcomeStatus = "invalid_slot"
	OutcomeStoreUnavailable OutcomeStatus = "store_unavailable"
)

// IntentRequest is one scheduling intent from the conversational driver.
type IntentRequest struct {
	CustomerID   string `json:"customerId" binding:"required"`
	CustomerName string `json:"customerName" binding:"required"`
	Phone        string `json:"phone,omitempty"`
	Date         string `json:"date" binding:"required"`      // "YYYY-MM-DD"
	TimeLabel    string `json:"timeLabel" binding:"required"` // one of TimeLabels
	CarModel     string `json:"carModel,omitempty"`
}

// SchedulingOutcome is the structured result the driver renders into speech.
type SchedulingOutcome struct {
	Status       OutcomeStatus `json:"status"`
	Booking      *Booking      `json:"booking,omitempty"`
	Alternatives []Slot        `json:"alternatives,omitempty"` // nearest FREE slots when the request failed
	MemoryUsed   bool          `json:"memoryUsed"`             // whether customer context informed the decision
	Context      []MemoryEntry `json:"context,omitempty"`      // ranked snippets for the conversational layer
	Message      string        `json:"message,omitempty"`
}

// BusySlotView joins a busy slot with its booking metadata for display.
type BusySlotView struct {
	Slot    Slot     `json:"slot"`
	Booking *Booking `json:"booking,omitempty"` // nil for administratively blocked slots
}
