package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// SortOption orders vehicle listings.
type SortOption string

const (
	SortPriceAsc   SortOption = "price_asc"
	SortPriceDesc  SortOption = "price_desc"
	SortYearDesc   SortOption = "year_desc"
	SortRatingDesc SortOption = "rating_desc"
)

// Filter narrows vehicle listings. Zero values mean "no constraint".
type Filter struct {
	BodyType BodyType
	Location string
	MinRate  float64
	MaxRate  float64
	// Search matches case-insensitively against make and model.
	Search string
	// AvailableOnly limits results to vehicles accepting bookings.
	AvailableOnly bool
	Sort          SortOption
}

// VehicleRepository defines the persistence contract for vehicles.
type VehicleRepository interface {
	// FindByID retrieves a vehicle by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// List retrieves vehicles matching the filter with pagination.
	List(ctx context.Context, filter Filter, page, limit int) ([]*Vehicle, int64, error)

	// Locations returns the distinct locations across the fleet.
	Locations(ctx context.Context) ([]string, error)

	// Save persists a new vehicle.
	Save(ctx context.Context, v *Vehicle) error

	// Update persists changes to an existing vehicle with optimistic locking.
	Update(ctx context.Context, v *Vehicle) error

	// UpdateAvailability writes only the availability column, last write
	// wins. This is the flip paired with booking creation/cancellation and
	// deliberately bypasses the version check.
	UpdateAvailability(ctx context.Context, id uuid.UUID, status AvailabilityStatus) error

	// UpdateRatingSummary writes only the denormalized rating fields.
	UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary RatingSummary) error

	// Delete removes a vehicle (admin CRUD).
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewRepository defines the persistence contract for vehicle reviews.
type ReviewRepository interface {
	// Save persists a new review.
	Save(ctx context.Context, r *Review) error

	// FindByVehicleID retrieves all reviews for a vehicle, newest first.
	FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*Review, error)
}
