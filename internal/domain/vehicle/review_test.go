package vehicle

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveline-rentals/service-rental/internal/domain"
)

func TestNewReview_ValidatesRating(t *testing.T) {
	for _, rating := range []int{0, -1, 6} {
		_, err := NewReview(uuid.New(), uuid.New(), "Ada", rating, "nope")
		require.Error(t, err, "rating %d should be rejected", rating)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	}

	for rating := 1; rating <= 5; rating++ {
		r, err := NewReview(uuid.New(), uuid.New(), "Ada", rating, "fine")
		require.NoError(t, err)
		assert.Equal(t, rating, r.Rating())
	}
}

func TestNewReview_RequiresSignedInUser(t *testing.T) {
	_, err := NewReview(uuid.New(), uuid.Nil, "", 4, "")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func reviewWithRating(rating int) *Review {
	return ReconstructReview(uuid.New(), uuid.New(), uuid.New(), "Ada", rating, "", time.Now().UTC())
}

func TestAggregateRatings_RoundsToOneDecimal(t *testing.T) {
	// [5, 4, 3] then a 4 arrives: mean 4.0 over 4 reviews.
	reviews := []*Review{
		reviewWithRating(5),
		reviewWithRating(4),
		reviewWithRating(3),
		reviewWithRating(4),
	}

	summary := AggregateRatings(reviews)

	assert.Equal(t, 4.0, summary.Average)
	assert.Equal(t, 4, summary.Count)
}

func TestAggregateRatings_RepeatingFraction(t *testing.T) {
	// 5+4+5 = 14/3 = 4.666... rounds to 4.7.
	reviews := []*Review{
		reviewWithRating(5),
		reviewWithRating(4),
		reviewWithRating(5),
	}

	summary := AggregateRatings(reviews)

	assert.Equal(t, 4.7, summary.Average)
	assert.Equal(t, 3, summary.Count)
}

func TestAggregateRatings_Empty(t *testing.T) {
	summary := AggregateRatings(nil)
	assert.Equal(t, 0.0, summary.Average)
	assert.Equal(t, 0, summary.Count)
}
