package vehicle

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/driveline-rentals/service-rental/internal/domain"
)

// Review is a customer's star rating and comment for a vehicle.
// The author name is a denormalized snapshot and is not kept in sync with
// later profile changes. Reviews are never edited or deleted.
type Review struct {
	id          uuid.UUID
	vehicleID   uuid.UUID
	userID      uuid.UUID
	userName    string
	rating      int
	comment     string
	submittedAt time.Time
}

// NewReview creates a validated review.
func NewReview(vehicleID, userID uuid.UUID, userName string, rating int, comment string) (*Review, error) {
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if userID == uuid.Nil {
		return nil, domain.NewUnauthorizedError("a signed-in user is required to review")
	}
	if rating < 1 || rating > 5 {
		return nil, domain.NewValidationError("rating must be between 1 and 5")
	}

	return &Review{
		id:          uuid.New(),
		vehicleID:   vehicleID,
		userID:      userID,
		userName:    userName,
		rating:      rating,
		comment:     comment,
		submittedAt: time.Now().UTC(),
	}, nil
}

// ReconstructReview rebuilds a Review from persistence data.
func ReconstructReview(id, vehicleID, userID uuid.UUID, userName string, rating int, comment string, submittedAt time.Time) *Review {
	return &Review{
		id:          id,
		vehicleID:   vehicleID,
		userID:      userID,
		userName:    userName,
		rating:      rating,
		comment:     comment,
		submittedAt: submittedAt,
	}
}

func (r *Review) ID() uuid.UUID          { return r.id }
func (r *Review) VehicleID() uuid.UUID   { return r.vehicleID }
func (r *Review) UserID() uuid.UUID      { return r.userID }
func (r *Review) UserName() string       { return r.userName }
func (r *Review) Rating() int            { return r.rating }
func (r *Review) Comment() string        { return r.comment }
func (r *Review) SubmittedAt() time.Time { return r.submittedAt }

// RatingSummary is the denormalized aggregate written back to the vehicle.
type RatingSummary struct {
	Average float64
	Count   int
}

// AggregateRatings computes the mean rating rounded to one decimal over the
// full review set. It is recomputed from scratch on every submission, not
// incrementally, so the cost is linear in review count.
func AggregateRatings(reviews []*Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}

	var sum int
	for _, r := range reviews {
		sum += r.rating
	}
	avg := float64(sum) / float64(len(reviews))
	return RatingSummary{
		Average: math.Round(avg*10) / 10,
		Count:   len(reviews),
	}
}
