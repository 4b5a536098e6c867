package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/driveline-rentals/service-rental/internal/domain"
	vehicleDomain "github.com/driveline-rentals/service-rental/internal/domain/vehicle"
)

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Make             string          `gorm:"not null;size:100;index"`
	Model            string          `gorm:"not null;size:100;index"`
	Year             int             `gorm:"not null"`
	BodyType         string          `gorm:"not null;size:30;index"`
	DailyRate        float64         `gorm:"not null;index"`
	Images           json.RawMessage `gorm:"type:jsonb;not null"`
	Availability     string          `gorm:"not null;size:20;index"`
	Location         string          `gorm:"not null;size:200;index"`
	Description      string          `gorm:"type:text"`
	Seats            int             `gorm:""`
	Transmission     string          `gorm:"size:30"`
	FuelType         string          `gorm:"size:30"`
	Features         json.RawMessage `gorm:"type:jsonb"`
	Rating           float64         `gorm:"not null;default:0"`
	ReviewCount      int             `gorm:"not null;default:0"`
	InsuranceOptions json.RawMessage `gorm:"type:jsonb"`
	Specifications   json.RawMessage `gorm:"type:jsonb"`
	Version          int64           `gorm:"not null;default:1"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// GormVehicleRepository is the GORM-based implementation of VehicleRepository.
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID retrieves a vehicle by its unique identifier.
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", id.String())
		}
		return nil, fmt.Errorf("failed to find vehicle by ID: %w", err)
	}
	return toDomainVehicle(&model)
}

// List retrieves vehicles matching the filter with pagination.
func (r *GormVehicleRepository) List(ctx context.Context, filter vehicleDomain.Filter, page, limit int) ([]*vehicleDomain.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&VehicleModel{})

	if filter.BodyType != "" {
		query = query.Where("body_type = ?", string(filter.BodyType))
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if filter.MinRate > 0 {
		query = query.Where("daily_rate >= ?", filter.MinRate)
	}
	if filter.MaxRate > 0 {
		query = query.Where("daily_rate <= ?", filter.MaxRate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("make ILIKE ? OR model ILIKE ?", pattern, pattern)
	}
	if filter.AvailableOnly {
		query = query.Where("availability = ?", string(vehicleDomain.StatusAvailable))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	switch filter.Sort {
	case vehicleDomain.SortPriceAsc:
		query = query.Order("daily_rate ASC")
	case vehicleDomain.SortPriceDesc:
		query = query.Order("daily_rate DESC")
	case vehicleDomain.SortYearDesc:
		query = query.Order("year DESC")
	case vehicleDomain.SortRatingDesc:
		query = query.Order("rating DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var models []VehicleModel
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list vehicles: %w", err)
	}

	vehicles := make([]*vehicleDomain.Vehicle, len(models))
	for i, m := range models {
		v, err := toDomainVehicle(&m)
		if err != nil {
			return nil, 0, err
		}
		vehicles[i] = v
	}
	return vehicles, total, nil
}

// Locations returns the distinct locations across the fleet.
func (r *GormVehicleRepository) Locations(ctx context.Context) ([]string, error) {
	var locations []string
	if err := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Distinct("location").
		Order("location ASC").
		Pluck("location", &locations).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// Save persists a new vehicle.
func (r *GormVehicleRepository) Save(ctx context.Context, v *vehicleDomain.Vehicle) error {
	model, err := toVehicleModel(v)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save vehicle: %w", err)
	}
	return nil
}

// Update persists changes to an existing vehicle with optimistic locking.
func (r *GormVehicleRepository) Update(ctx context.Context, v *vehicleDomain.Vehicle) error {
	model, err := toVehicleModel(v)
	if err != nil {
		return err
	}

	expectedVersion := v.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"make":              model.Make,
			"model":             model.Model,
			"year":              model.Year,
			"body_type":         model.BodyType,
			"daily_rate":        model.DailyRate,
			"images":            model.Images,
			"location":          model.Location,
			"description":       model.Description,
			"seats":             model.Seats,
			"transmission":      model.Transmission,
			"fuel_type":         model.FuelType,
			"features":          model.Features,
			"insurance_options": model.InsuranceOptions,
			"specifications":    model.Specifications,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("vehicle was modified by another transaction")
	}
	return nil
}

// UpdateAvailability writes only the availability column. Last write wins:
// the version check is bypassed so that booking-driven flips never fail on
// a concurrent detail edit.
func (r *GormVehicleRepository) UpdateAvailability(ctx context.Context, id uuid.UUID, status vehicleDomain.AvailabilityStatus) error {
	result := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"availability": string(status),
			"updated_at":   time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	return nil
}

// UpdateRatingSummary writes only the denormalized rating fields.
func (r *GormVehicleRepository) UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary vehicleDomain.RatingSummary) error {
	result := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       summary.Average,
			"review_count": summary.Count,
			"updated_at":   time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update rating summary: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	return nil
}

// Delete removes a vehicle.
func (r *GormVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&VehicleModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	return nil
}

// --- Mappers ---

func toVehicleModel(v *vehicleDomain.Vehicle) (*VehicleModel, error) {
	imagesJSON, err := json.Marshal(v.Images())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal images: %w", err)
	}

	featuresJSON, err := json.Marshal(v.Features())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal features: %w", err)
	}

	insuranceJSON, err := json.Marshal(v.InsuranceOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal insurance options: %w", err)
	}

	var specsJSON json.RawMessage
	if v.Specifications() != nil {
		data, err := json.Marshal(v.Specifications())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal specifications: %w", err)
		}
		specsJSON = data
	}

	return &VehicleModel{
		ID:               v.ID(),
		Make:             v.Make(),
		Model:            v.Model(),
		Year:             v.Year(),
		BodyType:         string(v.BodyType()),
		DailyRate:        v.DailyRate(),
		Images:           imagesJSON,
		Availability:     string(v.Availability()),
		Location:         v.Location(),
		Description:      v.Description(),
		Seats:            v.Seats(),
		Transmission:     v.Transmission(),
		FuelType:         v.FuelType(),
		Features:         featuresJSON,
		Rating:           v.Rating(),
		ReviewCount:      v.ReviewCount(),
		InsuranceOptions: insuranceJSON,
		Specifications:   specsJSON,
		Version:          v.Version(),
		CreatedAt:        v.CreatedAt(),
		UpdatedAt:        v.UpdatedAt(),
	}, nil
}

func toDomainVehicle(m *VehicleModel) (*vehicleDomain.Vehicle, error) {
	var images []string
	if len(m.Images) > 0 {
		if err := json.Unmarshal(m.Images, &images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal images: %w", err)
		}
	}

	var features []string
	if len(m.Features) > 0 {
		if err := json.Unmarshal(m.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
	}

	var insuranceOpts []vehicleDomain.InsuranceOption
	if len(m.InsuranceOptions) > 0 {
		if err := json.Unmarshal(m.InsuranceOptions, &insuranceOpts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal insurance options: %w", err)
		}
	}

	var specs *vehicleDomain.Specifications
	if len(m.Specifications) > 0 {
		specs = &vehicleDomain.Specifications{}
		if err := json.Unmarshal(m.Specifications, specs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal specifications: %w", err)
		}
	}

	availability, err := vehicleDomain.ParseAvailabilityStatus(m.Availability)
	if err != nil {
		return nil, fmt.Errorf("corrupt vehicle record %s: %w", m.ID, err)
	}

	return vehicleDomain.Reconstruct(
		m.ID,
		m.Make,
		m.Model,
		m.Year,
		vehicleDomain.BodyType(m.BodyType),
		m.DailyRate,
		images,
		availability,
		m.Location,
		m.Description,
		m.Seats,
		m.Transmission,
		m.FuelType,
		features,
		m.Rating,
		m.ReviewCount,
		insuranceOpts,
		specs,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
