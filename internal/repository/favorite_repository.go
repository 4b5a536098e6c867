package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteModel is the GORM model for the favorites table.
type FavoriteModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	VehicleID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (FavoriteModel) TableName() string {
	return "favorites"
}

// GormFavoriteRepository is the GORM-based implementation of FavoriteRepository.
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GormFavoriteRepository.
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add saves a favorite. Adding the same pair twice is a no-op.
func (r *GormFavoriteRepository) Add(ctx context.Context, userID, vehicleID uuid.UUID) error {
	model := &FavoriteModel{
		UserID:    userID,
		VehicleID: vehicleID,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error; err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove deletes a favorite if present. Removing an absent pair is a no-op.
func (r *GormFavoriteRepository) Remove(ctx context.Context, userID, vehicleID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND vehicle_id = ?", userID, vehicleID).
		Delete(&FavoriteModel{}).Error; err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListVehicleIDs returns the vehicle IDs saved by the user, newest first.
func (r *GormFavoriteRepository) ListVehicleIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&FavoriteModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("vehicle_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return ids, nil
}

// Exists reports whether the user has saved the vehicle.
func (r *GormFavoriteRepository) Exists(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&FavoriteModel{}).
		Where("user_id = ? AND vehicle_id = ?", userID, vehicleID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}
