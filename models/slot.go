package models

import "time"

// SlotStatus is the persisted state of a scheduling slot.
type SlotStatus string

const (
	SlotFree SlotStatus = "FREE"
	SlotBusy SlotStatus = "BUSY"
)

// DateLayout is the calendar-date format used across the scheduling engine.
const DateLayout = "2006-01-02"

// TimeLabels is the fixed set of daily appointment buckets, in canonical
// order. Zero-padded clock times sort lexicographically, so this order is
// also the storage sort order.
var TimeLabels = []string{"09:00", "10:30", "12:00", "14:00", "15:30", "17:00"}

// Slot represents one bookable (date, time label) unit.
type Slot struct {
	Date      string     `bson:"date" json:"date"`           // e.g., "2026-09-01"
	TimeLabel string     `bson:"timeLabel" json:"timeLabel"` // one of TimeLabels
	Status    SlotStatus `bson:"status" json:"status"`
}

// Key returns the canonical slot key used for locking and lookups.
func (s Slot) Key() string {
	return s.Date + "|" + s.TimeLabel
}

// LabelIndex returns the canonical position of a time label, or -1 if the
// label is not part of the daily enum.
func LabelIndex(label string) int {
	for i, l := range TimeLabels {
		if l == label {
			return i
		}
	}
	return -1
}

// Horizon is the bounded forward-looking range of bookable dates. Sundays
// are excluded; the dealership is closed.
type Horizon struct {
	Start time.Time
	Days  int
}

// NewHorizon builds a horizon of n open days starting from the given day.
func NewHorizon(start time.Time, days int) Horizon {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	return Horizon{Start: day, Days: days}
}

// Dates enumerates the horizon's open dates in ascending order.
func (h Horizon) Dates() []string {
	dates := make([]string, 0, h.Days)
	day := h.Start
	for len(dates) < h.Days {
		if day.Weekday() != time.Sunday {
			dates = append(dates, day.Format(DateLayout))
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

// Contains reports whether the given date is a bookable day inside the
// horizon.
func (h Horizon) Contains(date string) bool {
	for _, d := range h.Dates() {
		if d == date {
			return true
		}
	}
	return false
}

// ContainsSlot reports whether (date, label) names a slot the engine is
// allowed to book.
func (h Horizon) ContainsSlot(date, label string) bool {
	return LabelIndex(label) >= 0 && h.Contains(date)
}

// Slots enumerates every slot in the horizon, all FREE; callers overlay
// persisted busy records on top.
func (h Horizon) Slots() []Slot {
	dates := h.Dates()
	slots := make([]Slot, 0, len(dates)*len(TimeLabels))
	for _, d := range dates {
		for _, l := range TimeLabels {
			slots = append(slots, Slot{Date: d, TimeLabel: l, Status: SlotFree})
		}
	}
	return slots
}
