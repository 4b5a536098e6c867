package rental

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveline-rentals/service-rental/internal/domain"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	pricing := NewStandardPricingStrategy()
	start := date("2024-06-01")
	end := date("2024-06-04")
	quote := pricing.Quote(start, end, 100, 10)

	bk, err := NewBooking(
		uuid.New(), uuid.New(),
		start, end,
		"Austin Downtown", "Austin Airport",
		quote, 100, "basic", 10,
	)
	require.NoError(t, err)
	return bk
}

func TestNewBooking_FreezesPrice(t *testing.T) {
	bk := newTestBooking(t)

	assert.Equal(t, StatusBooked, bk.Status())
	assert.Equal(t, 3, bk.Days())
	assert.Equal(t, 330.0, bk.TotalPrice())
	assert.Equal(t, int64(1), bk.Version())
	assert.Nil(t, bk.CancelledAt())
}

func TestNewBooking_RequiresSignedInUser(t *testing.T) {
	pricing := NewStandardPricingStrategy()
	start := date("2024-06-01")
	end := date("2024-06-04")
	quote := pricing.Quote(start, end, 100, 0)

	_, err := NewBooking(uuid.Nil, uuid.New(), start, end, "A", "B", quote, 100, "", 0)

	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestNewBooking_RejectsInvertedDates(t *testing.T) {
	pricing := NewStandardPricingStrategy()
	start := date("2024-06-04")
	end := date("2024-06-01")
	quote := pricing.Quote(start, end, 100, 0)

	_, err := NewBooking(uuid.New(), uuid.New(), start, end, "A", "B", quote, 100, "", 0)

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestNewBooking_RejectsSameDay(t *testing.T) {
	pricing := NewStandardPricingStrategy()
	day := date("2024-06-01")
	quote := pricing.Quote(day, day, 100, 0)

	_, err := NewBooking(uuid.New(), uuid.New(), day, day, "A", "B", quote, 100, "", 0)

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestBooking_Approve(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Approve())
	assert.Equal(t, StatusApproved, bk.Status())

	// Approving twice is an invalid transition.
	err := bk.Approve()
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
}

func TestBooking_Cancel(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Cancel())
	assert.Equal(t, StatusCancelled, bk.Status())
	require.NotNil(t, bk.CancelledAt())
	assert.WithinDuration(t, time.Now().UTC(), *bk.CancelledAt(), 5*time.Second)
}

func TestBooking_CancelApproved(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Approve())

	assert.NoError(t, bk.Cancel())
	assert.Equal(t, StatusCancelled, bk.Status())
}

func TestBooking_CancelTerminalFails(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Cancel())

	err := bk.Cancel()
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
}

func TestBooking_EffectiveStatus(t *testing.T) {
	bk := newTestBooking(t)

	beforeEnd := bk.EndDate().Add(-time.Hour)
	afterEnd := bk.EndDate().Add(time.Hour)

	assert.Equal(t, StatusBooked, bk.EffectiveStatus(beforeEnd))
	assert.Equal(t, StatusCompleted, bk.EffectiveStatus(afterEnd))

	// The stored status never changes from deriving.
	assert.Equal(t, StatusBooked, bk.Status())
}

func TestBooking_IncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}
