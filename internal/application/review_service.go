package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	userDomain "github.com/driveline-rentals/service-rental/internal/domain/user"
	vehicleDomain "github.com/driveline-rentals/service-rental/internal/domain/vehicle"
)

// SubmitReviewRequest is the request DTO for posting a review.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewDTO is the API response representation of a review.
type ReviewDTO struct {
	ID          uuid.UUID `json:"id"`
	VehicleID   uuid.UUID `json:"vehicle_id"`
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ReviewService implements review submission and rating aggregation.
type ReviewService struct {
	reviews  vehicleDomain.ReviewRepository
	vehicles vehicleDomain.VehicleRepository
	users    userDomain.UserRepository
	logger   *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviews vehicleDomain.ReviewRepository,
	vehicles vehicleDomain.VehicleRepository,
	users userDomain.UserRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		vehicles: vehicles,
		users:    users,
		logger:   logger,
	}
}

// SubmitReview appends a review and recomputes the vehicle's rating summary
// over the full review set re-read from the store.
//
// The summary write is last-write-wins: two concurrent submissions can each
// compute a stale average with the second write winning. A failed summary
// write does not fail the submission; the review is already persisted.
func (s *ReviewService) SubmitReview(ctx context.Context, vehicleID, userID uuid.UUID, req SubmitReviewRequest) (*ReviewDTO, error) {
	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The author name is snapshotted onto the review and not kept in sync
	// with later profile changes.
	review, err := vehicleDomain.NewReview(vehicleID, userID, author.Name(), req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	// Reject before any write: a missing vehicle must not accumulate reviews.
	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	s.refreshRatingSummary(ctx, vehicleID)

	result := toReviewDTO(review)
	return &result, nil
}

// ListReviews returns all reviews for a vehicle, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, vehicleID uuid.UUID) ([]ReviewDTO, error) {
	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.FindByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		dtos[i] = toReviewDTO(r)
	}
	return dtos, nil
}

// refreshRatingSummary re-reads the full review set and writes the
// denormalized average and count back onto the vehicle. Errors are logged
// and swallowed; the next submission recomputes from scratch anyway.
func (s *ReviewService) refreshRatingSummary(ctx context.Context, vehicleID uuid.UUID) {
	reviews, err := s.reviews.FindByVehicleID(ctx, vehicleID)
	if err != nil {
		s.logger.Error("failed to re-read reviews for aggregation",
			zap.String("vehicle_id", vehicleID.String()),
			zap.Error(err),
		)
		return
	}

	summary := vehicleDomain.AggregateRatings(reviews)
	if err := s.vehicles.UpdateRatingSummary(ctx, vehicleID, summary); err != nil {
		s.logger.Error("failed to write rating summary",
			zap.String("vehicle_id", vehicleID.String()),
			zap.Error(err),
		)
	}
}

func toReviewDTO(r *vehicleDomain.Review) ReviewDTO {
	return ReviewDTO{
		ID:          r.ID(),
		VehicleID:   r.VehicleID(),
		UserID:      r.UserID(),
		UserName:    r.UserName(),
		Rating:      r.Rating(),
		Comment:     r.Comment(),
		SubmittedAt: r.SubmittedAt(),
	}
}
