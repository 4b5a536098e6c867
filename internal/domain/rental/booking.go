package rental

import (
	"time"

	"github.com/google/uuid"

	"github.com/driveline-rentals/service-rental/internal/domain"
)

// Booking is the aggregate root for a vehicle rental.
//
// The total price is frozen at creation time and never recomputed, even if
// the vehicle's daily rate changes later. The vehicle reference is an
// unvalidated foreign key; the pairing of booking status and vehicle
// availability is maintained by the application service, not by the store.
type Booking struct {
	id               uuid.UUID
	userID           uuid.UUID
	vehicleID        uuid.UUID
	startDate        time.Time
	endDate          time.Time
	pickupLocation   string
	dropoffLocation  string
	days             int
	dailyRate        float64
	insuranceOption  string
	insuranceDaily   float64
	totalPrice       float64
	status           BookingStatus
	cancelledAt      *time.Time
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

// NewBooking creates a new Booking with status=booked.
func NewBooking(
	userID, vehicleID uuid.UUID,
	startDate, endDate time.Time,
	pickupLocation, dropoffLocation string,
	quote Quote,
	dailyRate float64,
	insuranceOption string,
	insuranceDaily float64,
) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, domain.NewUnauthorizedError("a signed-in user is required to book")
	}
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, domain.NewValidationError("start and end dates are required")
	}
	if !endDate.After(startDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}
	if pickupLocation == "" {
		return nil, domain.NewValidationError("pickup location is required")
	}
	if dropoffLocation == "" {
		return nil, domain.NewValidationError("dropoff location is required")
	}
	if quote.Days <= 0 {
		return nil, domain.NewValidationError("rental must span at least one day")
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		userID:          userID,
		vehicleID:       vehicleID,
		startDate:       startDate,
		endDate:         endDate,
		pickupLocation:  pickupLocation,
		dropoffLocation: dropoffLocation,
		days:            quote.Days,
		dailyRate:       dailyRate,
		insuranceOption: insuranceOption,
		insuranceDaily:  insuranceDaily,
		totalPrice:      quote.Total,
		status:          StatusBooked,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, userID, vehicleID uuid.UUID,
	startDate, endDate time.Time,
	pickupLocation, dropoffLocation string,
	days int,
	dailyRate float64,
	insuranceOption string,
	insuranceDaily float64,
	totalPrice float64,
	status BookingStatus,
	cancelledAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		userID:          userID,
		vehicleID:       vehicleID,
		startDate:       startDate,
		endDate:         endDate,
		pickupLocation:  pickupLocation,
		dropoffLocation: dropoffLocation,
		days:            days,
		dailyRate:       dailyRate,
		insuranceOption: insuranceOption,
		insuranceDaily:  insuranceDaily,
		totalPrice:      totalPrice,
		status:          status,
		cancelledAt:     cancelledAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// UserID returns the booking owner's user ID.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// VehicleID returns the referenced vehicle's ID.
func (b *Booking) VehicleID() uuid.UUID { return b.vehicleID }

// StartDate returns the rental start date.
func (b *Booking) StartDate() time.Time { return b.startDate }

// EndDate returns the rental end date.
func (b *Booking) EndDate() time.Time { return b.endDate }

// PickupLocation returns where the vehicle is collected.
func (b *Booking) PickupLocation() string { return b.pickupLocation }

// DropoffLocation returns where the vehicle is returned.
func (b *Booking) DropoffLocation() string { return b.dropoffLocation }

// Days returns the billed day count.
func (b *Booking) Days() int { return b.days }

// DailyRate returns the vehicle's daily rate snapshot taken at creation.
func (b *Booking) DailyRate() float64 { return b.dailyRate }

// InsuranceOption returns the selected insurance option name, if any.
func (b *Booking) InsuranceOption() string { return b.insuranceOption }

// InsuranceDaily returns the insurance daily rate snapshot taken at creation.
func (b *Booking) InsuranceDaily() float64 { return b.insuranceDaily }

// TotalPrice returns the price fixed at creation time.
func (b *Booking) TotalPrice() float64 { return b.totalPrice }

// Status returns the stored booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// CancelledAt returns the time the booking was cancelled, or nil.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// EffectiveStatus returns the status a reader should display at the given
// instant; see EffectiveStatusAt.
func (b *Booking) EffectiveStatus(now time.Time) BookingStatus {
	return EffectiveStatusAt(b.status, b.endDate, now)
}

// --- Behavior ---

// Approve transitions the booking to approved. The paired vehicle record is
// not touched; an approved booking already holds the vehicle.
func (b *Booking) Approve() error {
	if !b.status.CanTransitionTo(StatusApproved) {
		return domain.NewInvalidStateError(string(b.status), string(StatusApproved))
	}
	b.status = StatusApproved
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal state.
func (b *Booking) Cancel() error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
