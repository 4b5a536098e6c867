package vehicle

import "fmt"

// AvailabilityStatus represents the tri-state availability of a vehicle.
//
// available and rented flip back and forth as bookings are created and
// cancelled. maintenance is a side state entered and exited only by
// administrative action (admin API or fleet-ops events), never by booking
// logic.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusRented      AvailabilityStatus = "rented"
	StatusMaintenance AvailabilityStatus = "maintenance"
)

// availabilityTransitions defines the legal availability flips.
var availabilityTransitions = map[AvailabilityStatus][]AvailabilityStatus{
	StatusAvailable:   {StatusRented, StatusMaintenance},
	StatusRented:      {StatusAvailable, StatusMaintenance},
	StatusMaintenance: {StatusAvailable},
}

// IsValid returns true if the status is a recognized availability status.
func (s AvailabilityStatus) IsValid() bool {
	_, exists := availabilityTransitions[s]
	return exists
}

// CanTransitionTo returns true if a flip from this status to the target is allowed.
func (s AvailabilityStatus) CanTransitionTo(target AvailabilityStatus) bool {
	allowed, exists := availabilityTransitions[s]
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

// String returns the string representation of the status.
func (s AvailabilityStatus) String() string {
	return string(s)
}

// ParseAvailabilityStatus converts a string to an AvailabilityStatus.
func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	status := AvailabilityStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid availability status: %s", s)
	}
	return status, nil
}
