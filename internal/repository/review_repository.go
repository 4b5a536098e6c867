package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	vehicleDomain "github.com/driveline-rentals/service-rental/internal/domain/vehicle"
)

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	VehicleID   uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	UserName    string    `gorm:"not null;size:100"`
	Rating      int       `gorm:"not null"`
	Comment     string    `gorm:"type:text"`
	SubmittedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of ReviewRepository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Save persists a new review.
func (r *GormReviewRepository) Save(ctx context.Context, review *vehicleDomain.Review) error {
	model := &ReviewModel{
		ID:          review.ID(),
		VehicleID:   review.VehicleID(),
		UserID:      review.UserID(),
		UserName:    review.UserName(),
		Rating:      review.Rating(),
		Comment:     review.Comment(),
		SubmittedAt: review.SubmittedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// FindByVehicleID retrieves all reviews for a vehicle, newest first.
func (r *GormReviewRepository) FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*vehicleDomain.Review, error) {
	var models []ReviewModel
	if err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("submitted_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	reviews := make([]*vehicleDomain.Review, len(models))
	for i, m := range models {
		reviews[i] = vehicleDomain.ReconstructReview(
			m.ID, m.VehicleID, m.UserID, m.UserName, m.Rating, m.Comment, m.SubmittedAt,
		)
	}
	return reviews, nil
}
