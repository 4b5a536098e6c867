package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveline-rentals/service-rental/internal/domain"
	vehicleDomain "github.com/driveline-rentals/service-rental/internal/domain/vehicle"
)

// VehicleRequest is the request DTO for creating or replacing a vehicle (admin).
type VehicleRequest struct {
	Make           string                          `json:"make" binding:"required"`
	Model          string                          `json:"model" binding:"required"`
	Year           int                             `json:"year" binding:"required"`
	BodyType       string                          `json:"body_type" binding:"required"`
	DailyRate      float64                         `json:"daily_rate"`
	Images         []string                        `json:"images" binding:"required"`
	Location       string                          `json:"location" binding:"required"`
	Description    string                          `json:"description"`
	Seats          int                             `json:"seats"`
	Transmission   string                          `json:"transmission"`
	FuelType       string                          `json:"fuel_type"`
	Features       []string                        `json:"features"`
	InsuranceOpts  []vehicleDomain.InsuranceOption `json:"insurance_options"`
	Specifications *vehicleDomain.Specifications   `json:"specifications"`
}

// ListVehiclesQuery carries the storefront filter and sort parameters.
type ListVehiclesQuery struct {
	BodyType      string
	Location      string
	MinRate       float64
	MaxRate       float64
	Search        string
	AvailableOnly bool
	Sort          string
	Page          int
	Limit         int
}

// VehicleDTO is the API response representation of a vehicle.
type VehicleDTO struct {
	ID               uuid.UUID                       `json:"id"`
	Make             string                          `json:"make"`
	Model            string                          `json:"model"`
	Year             int                             `json:"year"`
	BodyType         string                          `json:"body_type"`
	DailyRate        float64                         `json:"daily_rate"`
	Images           []string                        `json:"images"`
	Availability     string                          `json:"availability_status"`
	Location         string                          `json:"location"`
	Description      string                          `json:"description,omitempty"`
	Seats            int                             `json:"seats,omitempty"`
	Transmission     string                          `json:"transmission,omitempty"`
	FuelType         string                          `json:"fuel_type,omitempty"`
	Features         []string                        `json:"features,omitempty"`
	Rating           float64                         `json:"rating"`
	ReviewCount      int                             `json:"review_count"`
	InsuranceOptions []vehicleDomain.InsuranceOption `json:"insurance_options,omitempty"`
	Specifications   *vehicleDomain.Specifications   `json:"specifications,omitempty"`
	CreatedAt        time.Time                       `json:"created_at"`
	UpdatedAt        time.Time                       `json:"updated_at"`
}

// VehicleService implements catalog browsing and fleet administration.
type VehicleService struct {
	vehicles vehicleDomain.VehicleRepository
	logger   *zap.Logger
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicles vehicleDomain.VehicleRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, logger: logger}
}

// GetVehicle retrieves a single vehicle by ID.
func (s *VehicleService) GetVehicle(ctx context.Context, id uuid.UUID) (*VehicleDTO, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toVehicleDTO(v)
	return &result, nil
}

// ListVehicles returns vehicles matching the storefront filters.
func (s *VehicleService) ListVehicles(ctx context.Context, q ListVehiclesQuery) (*domain.PaginatedResult[VehicleDTO], error) {
	filter := vehicleDomain.Filter{
		Location:      q.Location,
		MinRate:       q.MinRate,
		MaxRate:       q.MaxRate,
		Search:        q.Search,
		AvailableOnly: q.AvailableOnly,
		Sort:          vehicleDomain.SortOption(q.Sort),
	}
	if q.BodyType != "" {
		bt := vehicleDomain.BodyType(q.BodyType)
		if !bt.IsValid() {
			return nil, domain.NewValidationError(fmt.Sprintf("invalid body type: %s", q.BodyType))
		}
		filter.BodyType = bt
	}

	vehicles, total, err := s.vehicles.List(ctx, filter, q.Page, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	dtos := make([]VehicleDTO, len(vehicles))
	for i, v := range vehicles {
		dtos[i] = toVehicleDTO(v)
	}
	result := domain.NewPaginatedResult(dtos, total, q.Page, q.Limit)
	return &result, nil
}

// ListLocations returns the distinct pickup locations across the fleet.
func (s *VehicleService) ListLocations(ctx context.Context) ([]string, error) {
	return s.vehicles.Locations(ctx)
}

// CreateVehicle adds a vehicle to the fleet (admin).
func (s *VehicleService) CreateVehicle(ctx context.Context, req VehicleRequest) (*VehicleDTO, error) {
	v, err := vehicleDomain.NewVehicle(
		req.Make, req.Model, req.Year,
		vehicleDomain.BodyType(req.BodyType),
		req.DailyRate,
		req.Images,
		req.Location,
		req.Description,
		req.Seats,
		req.Transmission, req.FuelType,
		req.Features,
		req.InsuranceOpts,
		req.Specifications,
	)
	if err != nil {
		return nil, err
	}

	if err := s.vehicles.Save(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to save vehicle: %w", err)
	}

	s.logger.Info("vehicle added to fleet",
		zap.String("vehicle_id", v.ID().String()),
		zap.String("make", v.Make()),
		zap.String("model", v.Model()),
	)
	result := toVehicleDTO(v)
	return &result, nil
}

// UpdateVehicle replaces a vehicle's editable attributes (admin).
func (s *VehicleService) UpdateVehicle(ctx context.Context, id uuid.UUID, req VehicleRequest) (*VehicleDTO, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := v.UpdateDetails(
		req.Make, req.Model, req.Year,
		vehicleDomain.BodyType(req.BodyType),
		req.DailyRate,
		req.Images,
		req.Location,
		req.Description,
		req.Seats,
		req.Transmission, req.FuelType,
		req.Features,
		req.InsuranceOpts,
		req.Specifications,
	); err != nil {
		return nil, err
	}

	v.IncrementVersion()
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}

	result := toVehicleDTO(v)
	return &result, nil
}

// DeleteVehicle removes a vehicle from the fleet (admin).
func (s *VehicleService) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	if _, err := s.vehicles.FindByID(ctx, id); err != nil {
		return err
	}
	return s.vehicles.Delete(ctx, id)
}

// SetMaintenance moves a vehicle in or out of maintenance. This is the
// administrative side entrance to the availability state machine; booking
// logic never touches the maintenance state.
func (s *VehicleService) SetMaintenance(ctx context.Context, id uuid.UUID, inMaintenance bool, reason string) error {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if inMaintenance {
		err = v.EnterMaintenance()
	} else {
		err = v.ExitMaintenance()
	}
	if err != nil {
		return err
	}

	if err := s.vehicles.UpdateAvailability(ctx, id, v.Availability()); err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}

	s.logger.Info("vehicle maintenance state changed",
		zap.String("vehicle_id", id.String()),
		zap.Bool("in_maintenance", inMaintenance),
		zap.String("reason", reason),
	)
	return nil
}

func toVehicleDTO(v *vehicleDomain.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:               v.ID(),
		Make:             v.Make(),
		Model:            v.Model(),
		Year:             v.Year(),
		BodyType:         string(v.BodyType()),
		DailyRate:        v.DailyRate(),
		Images:           v.Images(),
		Availability:     string(v.Availability()),
		Location:         v.Location(),
		Description:      v.Description(),
		Seats:            v.Seats(),
		Transmission:     v.Transmission(),
		FuelType:         v.FuelType(),
		Features:         v.Features(),
		Rating:           v.Rating(),
		ReviewCount:      v.ReviewCount(),
		InsuranceOptions: v.InsuranceOptions(),
		Specifications:   v.Specifications(),
		CreatedAt:        v.CreatedAt(),
		UpdatedAt:        v.UpdatedAt(),
	}
}
