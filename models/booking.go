package models

import "time"

// Booking statuses.
const (
	BookingConfirmed = "Confirmed"
	BookingCanceled  = "Canceled"
)

// Booking represents a confirmed appointment record.
type Booking struct {
	ID           string    `bson:"id" json:"id"`                                   // Unique booking identifier (UUID)
	CustomerID   string    `bson:"customer_id" json:"customer_id"`                 // Stable per-caller identity
	CustomerName string    `bson:"customer_name" json:"customer_name"`             // Display name given on the call
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`         // Callback number, if captured
	Date         string    `bson:"date" json:"date"`                               // Appointment date in "YYYY-MM-DD" format
	TimeLabel    string    `bson:"time_label" json:"time_label"`                   // One of models.TimeLabels
	CarModel     string    `bson:"car_model,omitempty" json:"car_model,omitempty"` // Model discussed for the test drive
	Status       string    `bson:"status" json:"status"`                           // "Confirmed" or "Canceled"
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`                   // Timestamp when booking was created
}

// SlotKey returns the key of the slot this booking occupies.
func (b Booking) SlotKey() string {
	return b.Date + "|" + b.TimeLabel
}
