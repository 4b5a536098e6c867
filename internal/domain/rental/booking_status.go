package rental

import (
	"fmt"
	"time"
)

// BookingStatus represents the stored state of a booking in its lifecycle.
//
// "pending" and "booked" are both accepted as the initial state: older
// records use pending, the booking form writes booked. "completed" is never
// written by any flow; it is derived at read time from the end date (see
// EffectiveStatusAt) but remains a recognized value so historical records
// carrying it still parse.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusBooked    BookingStatus = "booked"
	StatusApproved  BookingStatus = "approved"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// validTransitions defines the state machine for stored status transitions.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusApproved, StatusCancelled},
	StatusBooked:    {StatusApproved, StatusCancelled},
	StatusApproved:  {StatusCancelled},
	StatusCancelled: {},
	StatusCompleted: {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CanBeCancelled returns true if the booking can be cancelled from this status.
func (s BookingStatus) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// EffectiveStatusAt returns the status a reader should display at the given
// instant: a booked rental whose end date has passed reads as completed.
// Pending and approved bookings keep their stored status regardless of date.
func EffectiveStatusAt(stored BookingStatus, endDate, now time.Time) BookingStatus {
	if (stored == StatusBooked) && !endDate.After(now) {
		return StatusCompleted
	}
	return stored
}
