package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics used by the rental service.
const (
	TopicRentalEvents = "rental.events"
	TopicFleetEvents  = "fleet.events"
)

// Event types published on rental.events.
const (
	BookingCreated   = "rental.booking.created"
	BookingApproved  = "rental.booking.approved"
	BookingCancelled = "rental.booking.cancelled"
)

// Event types consumed from fleet.events.
const (
	MaintenanceStarted = "fleet.maintenance.started"
	MaintenanceEnded   = "fleet.maintenance.ended"
)

// BookingCreatedEvent is published after a booking is persisted and the
// vehicle is flipped to rented.
type BookingCreatedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingApprovedEvent is published when an admin approves a pending booking.
type BookingApprovedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled by its
// owner or rejected by an admin.
type BookingCancelledEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	UserID      uuid.UUID `json:"user_id"`
	VehicleID   uuid.UUID `json:"vehicle_id"`
	CancelledBy uuid.UUID `json:"cancelled_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// MaintenanceStartedEvent signals that fleet ops took a vehicle out of service.
type MaintenanceStartedEvent struct {
	VehicleID  uuid.UUID `json:"vehicle_id"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MaintenanceEndedEvent signals that a vehicle returned to service.
type MaintenanceEndedEvent struct {
	VehicleID  uuid.UUID `json:"vehicle_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
