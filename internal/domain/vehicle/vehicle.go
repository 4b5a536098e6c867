package vehicle

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/driveline-rentals/service-rental/internal/domain"
)

// BodyType classifies a vehicle's body style.
type BodyType string

const (
	BodyTypeSUV         BodyType = "SUV"
	BodyTypeSedan       BodyType = "Sedan"
	BodyTypeCoupe       BodyType = "Coupe"
	BodyTypeTruck       BodyType = "Truck"
	BodyTypeVan         BodyType = "Van"
	BodyTypeConvertible BodyType = "Convertible"
)

var bodyTypes = map[BodyType]struct{}{
	BodyTypeSUV:         {},
	BodyTypeSedan:       {},
	BodyTypeCoupe:       {},
	BodyTypeTruck:       {},
	BodyTypeVan:         {},
	BodyTypeConvertible: {},
}

// IsValid returns true if the body type is recognized.
func (t BodyType) IsValid() bool {
	_, ok := bodyTypes[t]
	return ok
}

// InsuranceOption is a daily-rate add-on offered on a vehicle.
type InsuranceOption struct {
	Name      string  `json:"name"`
	DailyRate float64 `json:"daily_rate"`
}

// Specifications bundles free-form technical details.
type Specifications struct {
	Engine      string `json:"engine,omitempty"`
	Horsepower  int    `json:"horsepower,omitempty"`
	Drivetrain  string `json:"drivetrain,omitempty"`
	FuelEconomy string `json:"fuel_economy,omitempty"`
}

// Vehicle is the aggregate root for a rentable car.
//
// Availability is single-writer-last-wins: nothing enforces that rented
// implies an existing non-cancelled booking referencing this vehicle. That
// linkage is maintained only by the booking service.
type Vehicle struct {
	id             uuid.UUID
	make_          string
	model          string
	year           int
	bodyType       BodyType
	dailyRate      float64
	images         []string
	availability   AvailabilityStatus
	location       string
	description    string
	seats          int
	transmission   string
	fuelType       string
	features       []string
	rating         float64
	reviewCount    int
	insuranceOpts  []InsuranceOption
	specifications *Specifications
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

// NewVehicle creates a new available vehicle with validated fields.
func NewVehicle(
	make_, model string,
	year int,
	bodyType BodyType,
	dailyRate float64,
	images []string,
	location string,
	description string,
	seats int,
	transmission, fuelType string,
	features []string,
	insuranceOpts []InsuranceOption,
	specifications *Specifications,
) (*Vehicle, error) {
	if make_ == "" || model == "" {
		return nil, domain.NewValidationError("make and model are required")
	}
	if !bodyType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid body type: %s", bodyType))
	}
	if dailyRate < 0 {
		return nil, domain.NewValidationError("daily rate cannot be negative")
	}
	if len(images) == 0 {
		return nil, domain.NewValidationError("at least one image is required")
	}
	if location == "" {
		return nil, domain.NewValidationError("location is required")
	}

	now := time.Now().UTC()
	return &Vehicle{
		id:             uuid.New(),
		make_:          make_,
		model:          model,
		year:           year,
		bodyType:       bodyType,
		dailyRate:      dailyRate,
		images:         images,
		availability:   StatusAvailable,
		location:       location,
		description:    description,
		seats:          seats,
		transmission:   transmission,
		fuelType:       fuelType,
		features:       features,
		insuranceOpts:  insuranceOpts,
		specifications: specifications,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstruct rebuilds a Vehicle from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	make_, model string,
	year int,
	bodyType BodyType,
	dailyRate float64,
	images []string,
	availability AvailabilityStatus,
	location, description string,
	seats int,
	transmission, fuelType string,
	features []string,
	rating float64,
	reviewCount int,
	insuranceOpts []InsuranceOption,
	specifications *Specifications,
	version int64,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:             id,
		make_:          make_,
		model:          model,
		year:           year,
		bodyType:       bodyType,
		dailyRate:      dailyRate,
		images:         images,
		availability:   availability,
		location:       location,
		description:    description,
		seats:          seats,
		transmission:   transmission,
		fuelType:       fuelType,
		features:       features,
		rating:         rating,
		reviewCount:    reviewCount,
		insuranceOpts:  insuranceOpts,
		specifications: specifications,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// --- Getters ---

func (v *Vehicle) ID() uuid.UUID                     { return v.id }
func (v *Vehicle) Make() string                      { return v.make_ }
func (v *Vehicle) Model() string                     { return v.model }
func (v *Vehicle) Year() int                         { return v.year }
func (v *Vehicle) BodyType() BodyType                { return v.bodyType }
func (v *Vehicle) DailyRate() float64                { return v.dailyRate }
func (v *Vehicle) Images() []string                  { return v.images }
func (v *Vehicle) Availability() AvailabilityStatus  { return v.availability }
func (v *Vehicle) Location() string                  { return v.location }
func (v *Vehicle) Description() string               { return v.description }
func (v *Vehicle) Seats() int                        { return v.seats }
func (v *Vehicle) Transmission() string              { return v.transmission }
func (v *Vehicle) FuelType() string                  { return v.fuelType }
func (v *Vehicle) Features() []string                { return v.features }
func (v *Vehicle) Rating() float64                   { return v.rating }
func (v *Vehicle) ReviewCount() int                  { return v.reviewCount }
func (v *Vehicle) InsuranceOptions() []InsuranceOption { return v.insuranceOpts }
func (v *Vehicle) Specifications() *Specifications   { return v.specifications }
func (v *Vehicle) Version() int64                    { return v.version }
func (v *Vehicle) CreatedAt() time.Time              { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time              { return v.updatedAt }

// IsAvailable returns true if the vehicle can accept a new booking.
func (v *Vehicle) IsAvailable() bool {
	return v.availability == StatusAvailable
}

// InsuranceOption returns the named insurance option, if offered.
func (v *Vehicle) InsuranceOption(name string) (InsuranceOption, bool) {
	for _, opt := range v.insuranceOpts {
		if opt.Name == name {
			return opt, true
		}
	}
	return InsuranceOption{}, false
}

// --- Behavior ---

// MarkRented flips the vehicle from available to rented.
func (v *Vehicle) MarkRented() error {
	if !v.availability.CanTransitionTo(StatusRented) {
		return domain.NewInvalidStateError(string(v.availability), string(StatusRented))
	}
	v.availability = StatusRented
	v.updatedAt = time.Now().UTC()
	return nil
}

// Release flips the vehicle back to available after a booking ends or is
// cancelled. Releasing an already-available vehicle is a no-op so that
// cancel flows stay idempotent.
func (v *Vehicle) Release() error {
	if v.availability == StatusAvailable {
		return nil
	}
	if !v.availability.CanTransitionTo(StatusAvailable) {
		return domain.NewInvalidStateError(string(v.availability), string(StatusAvailable))
	}
	v.availability = StatusAvailable
	v.updatedAt = time.Now().UTC()
	return nil
}

// EnterMaintenance takes the vehicle out of service (administrative action).
func (v *Vehicle) EnterMaintenance() error {
	if v.availability == StatusMaintenance {
		return nil
	}
	if !v.availability.CanTransitionTo(StatusMaintenance) {
		return domain.NewInvalidStateError(string(v.availability), string(StatusMaintenance))
	}
	v.availability = StatusMaintenance
	v.updatedAt = time.Now().UTC()
	return nil
}

// ExitMaintenance returns the vehicle to service (administrative action).
func (v *Vehicle) ExitMaintenance() error {
	if v.availability != StatusMaintenance {
		return domain.NewInvalidStateError(string(v.availability), string(StatusAvailable))
	}
	v.availability = StatusAvailable
	v.updatedAt = time.Now().UTC()
	return nil
}

// UpdateDetails replaces the editable attributes (admin CRUD).
func (v *Vehicle) UpdateDetails(
	make_, model string,
	year int,
	bodyType BodyType,
	dailyRate float64,
	images []string,
	location, description string,
	seats int,
	transmission, fuelType string,
	features []string,
	insuranceOpts []InsuranceOption,
	specifications *Specifications,
) error {
	if make_ == "" || model == "" {
		return domain.NewValidationError("make and model are required")
	}
	if !bodyType.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid body type: %s", bodyType))
	}
	if dailyRate < 0 {
		return domain.NewValidationError("daily rate cannot be negative")
	}
	if len(images) == 0 {
		return domain.NewValidationError("at least one image is required")
	}

	v.make_ = make_
	v.model = model
	v.year = year
	v.bodyType = bodyType
	v.dailyRate = dailyRate
	v.images = images
	v.location = location
	v.description = description
	v.seats = seats
	v.transmission = transmission
	v.fuelType = fuelType
	v.features = features
	v.insuranceOpts = insuranceOpts
	v.specifications = specifications
	v.updatedAt = time.Now().UTC()
	return nil
}

// SetRatingSummary overwrites the denormalized review aggregate fields.
// Last write wins; concurrent submissions are not summed.
func (v *Vehicle) SetRatingSummary(rating float64, reviewCount int) {
	v.rating = rating
	v.reviewCount = reviewCount
	v.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (v *Vehicle) IncrementVersion() {
	v.version++
	v.updatedAt = time.Now().UTC()
}
