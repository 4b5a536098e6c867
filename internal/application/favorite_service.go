package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	userDomain "github.com/driveline-rentals/service-rental/internal/domain/user"
	vehicleDomain "github.com/driveline-rentals/service-rental/internal/domain/vehicle"
)

// FavoriteService implements per-user saved vehicles.
type FavoriteService struct {
	favorites userDomain.FavoriteRepository
	vehicles  vehicleDomain.VehicleRepository
	logger    *zap.Logger
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(
	favorites userDomain.FavoriteRepository,
	vehicles vehicleDomain.VehicleRepository,
	logger *zap.Logger,
) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		vehicles:  vehicles,
		logger:    logger,
	}
}

// AddFavorite saves a vehicle for the user. Saving twice is a no-op.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, vehicleID uuid.UUID) error {
	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		return err
	}
	if err := s.favorites.Add(ctx, userID, vehicleID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes a saved vehicle if present.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, vehicleID uuid.UUID) error {
	if err := s.favorites.Remove(ctx, userID, vehicleID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListFavorites returns the user's saved vehicles, newest first. Vehicles
// deleted from the fleet since being saved are skipped.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]VehicleDTO, error) {
	ids, err := s.favorites.ListVehicleIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	dtos := make([]VehicleDTO, 0, len(ids))
	for _, id := range ids {
		v, err := s.vehicles.FindByID(ctx, id)
		if err != nil {
			s.logger.Debug("skipping favorite for missing vehicle",
				zap.String("vehicle_id", id.String()),
			)
			continue
		}
		dtos = append(dtos, toVehicleDTO(v))
	}
	return dtos, nil
}

// IsFavorite reports whether the user has saved the vehicle.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error) {
	return s.favorites.Exists(ctx, userID, vehicleID)
}
