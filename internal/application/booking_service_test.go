package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/driveline-rentals/service-rental/internal/auth"
	"github.com/driveline-rentals/service-rental/internal/domain"
	"github.com/driveline-rentals/service-rental/internal/domain/rental"
	vehicleDomain "github.com/driveline-rentals/service-rental/internal/domain/vehicle"
	"github.com/driveline-rentals/service-rental/internal/events"
)

type bookingFixture struct {
	service  *BookingService
	bookings *fakeBookingRepo
	vehicles *fakeVehicleRepo
	producer *fakePublisher
	vehicle  *vehicleDomain.Vehicle
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	v, err := vehicleDomain.NewVehicle(
		"Toyota", "RAV4", 2023,
		vehicleDomain.BodyTypeSUV, 100,
		[]string{"https://cdn.example.com/rav4.jpg"},
		"Austin", "", 5, "automatic", "hybrid", nil,
		[]vehicleDomain.InsuranceOption{{Name: "basic", DailyRate: 10}},
		nil,
	)
	require.NoError(t, err)

	bookings := newFakeBookingRepo()
	vehicles := newFakeVehicleRepo()
	vehicles.add(v)
	producer := &fakePublisher{}

	service := NewBookingService(
		bookings,
		vehicles,
		rental.NewStandardPricingStrategy(),
		producer,
		zap.NewNop(),
	)

	return &bookingFixture{
		service:  service,
		bookings: bookings,
		vehicles: vehicles,
		producer: producer,
		vehicle:  v,
	}
}

func validCreateRequest(vehicleID uuid.UUID) CreateBookingRequest {
	return CreateBookingRequest{
		VehicleID:       vehicleID,
		StartDate:       "2024-06-01",
		EndDate:         "2024-06-04",
		PickupLocation:  "Austin Downtown",
		DropoffLocation: "Austin Airport",
	}
}

func TestCreateBooking_PersistsAndFlipsVehicle(t *testing.T) {
	fx := newBookingFixture(t)
	userID := uuid.New()

	dto, err := fx.service.CreateBooking(context.Background(), userID, validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)

	assert.Equal(t, 3, dto.Days)
	assert.Equal(t, 300.0, dto.TotalPrice)
	assert.Equal(t, string(rental.StatusBooked), dto.Status)

	// The booking is persisted and the vehicle is flipped to rented.
	assert.Len(t, fx.bookings.bookings, 1)
	assert.Equal(t, vehicleDomain.StatusRented, fx.vehicles.availability[fx.vehicle.ID()])

	// A created event went out on the rental topic.
	ce, ok := fx.producer.lastOfType(events.BookingCreated)
	require.True(t, ok)
	var evt events.BookingCreatedEvent
	require.NoError(t, ce.ParseData(&evt))
	assert.Equal(t, dto.ID, evt.BookingID)
	assert.Equal(t, userID, evt.UserID)
}

func TestCreateBooking_WithInsurance(t *testing.T) {
	fx := newBookingFixture(t)
	req := validCreateRequest(fx.vehicle.ID())
	req.InsuranceOption = "basic"

	dto, err := fx.service.CreateBooking(context.Background(), uuid.New(), req)
	require.NoError(t, err)

	// 3 days * (100 + 10) folded into the single total.
	assert.Equal(t, 330.0, dto.TotalPrice)
	assert.Equal(t, "basic", dto.InsuranceOption)
}

func TestCreateBooking_RejectsUnknownInsurance(t *testing.T) {
	fx := newBookingFixture(t)
	req := validCreateRequest(fx.vehicle.ID())
	req.InsuranceOption = "platinum"

	_, err := fx.service.CreateBooking(context.Background(), uuid.New(), req)

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Empty(t, fx.bookings.bookings)
}

func TestCreateBooking_RejectsUnavailableVehicle(t *testing.T) {
	fx := newBookingFixture(t)
	require.NoError(t, fx.vehicle.MarkRented())

	_, err := fx.service.CreateBooking(context.Background(), uuid.New(), validCreateRequest(fx.vehicle.ID()))

	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Empty(t, fx.bookings.bookings)
}

func TestCreateBooking_SecondBookingAgainstRentedVehicleRefused(t *testing.T) {
	fx := newBookingFixture(t)

	_, err := fx.service.CreateBooking(context.Background(), uuid.New(), validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)

	// The first booking rented the vehicle; a read-after-write sees that.
	_, err = fx.service.CreateBooking(context.Background(), uuid.New(), validCreateRequest(fx.vehicle.ID()))

	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Len(t, fx.bookings.bookings, 1)
}

func TestCreateBooking_RejectsBadDates(t *testing.T) {
	fx := newBookingFixture(t)

	req := validCreateRequest(fx.vehicle.ID())
	req.StartDate = "June 1st"
	_, err := fx.service.CreateBooking(context.Background(), uuid.New(), req)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	req = validCreateRequest(fx.vehicle.ID())
	req.StartDate, req.EndDate = req.EndDate, req.StartDate
	_, err = fx.service.CreateBooking(context.Background(), uuid.New(), req)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	req = validCreateRequest(fx.vehicle.ID())
	req.EndDate = req.StartDate
	_, err = fx.service.CreateBooking(context.Background(), uuid.New(), req)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestCreateBooking_VehicleFlipFailureKeepsBooking(t *testing.T) {
	fx := newBookingFixture(t)
	fx.vehicles.flipErr = errStorageDown

	dto, err := fx.service.CreateBooking(context.Background(), uuid.New(), validCreateRequest(fx.vehicle.ID()))

	// The insert stands even though the flip failed; no compensation.
	require.NoError(t, err)
	assert.Len(t, fx.bookings.bookings, 1)
	assert.Equal(t, vehicleDomain.StatusAvailable, fx.vehicles.availability[fx.vehicle.ID()])
	assert.NotNil(t, dto)
}

func TestCancelBooking_OwnerReleasesVehicle(t *testing.T) {
	fx := newBookingFixture(t)
	userID := uuid.New()

	dto, err := fx.service.CreateBooking(context.Background(), userID, validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)
	require.Equal(t, vehicleDomain.StatusRented, fx.vehicles.availability[fx.vehicle.ID()])

	cancelled, err := fx.service.CancelBooking(context.Background(), dto.ID, userID, auth.RoleCustomer)
	require.NoError(t, err)

	assert.Equal(t, string(rental.StatusCancelled), cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, vehicleDomain.StatusAvailable, fx.vehicles.availability[fx.vehicle.ID()])

	_, ok := fx.producer.lastOfType(events.BookingCancelled)
	assert.True(t, ok)
}

func TestCancelBooking_IsIdempotent(t *testing.T) {
	fx := newBookingFixture(t)
	userID := uuid.New()

	dto, err := fx.service.CreateBooking(context.Background(), userID, validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)

	first, err := fx.service.CancelBooking(context.Background(), dto.ID, userID, auth.RoleCustomer)
	require.NoError(t, err)

	// A second cancel is a no-op converging on the same state.
	second, err := fx.service.CancelBooking(context.Background(), dto.ID, userID, auth.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.CancelledAt, *second.CancelledAt)
}

func TestCancelBooking_ForbiddenForStranger(t *testing.T) {
	fx := newBookingFixture(t)

	dto, err := fx.service.CreateBooking(context.Background(), uuid.New(), validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)

	_, err = fx.service.CancelBooking(context.Background(), dto.ID, uuid.New(), auth.RoleCustomer)

	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestCancelBooking_AdminMayCancelAnyBooking(t *testing.T) {
	fx := newBookingFixture(t)

	dto, err := fx.service.CreateBooking(context.Background(), uuid.New(), validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)

	cancelled, err := fx.service.CancelBooking(context.Background(), dto.ID, uuid.New(), auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, string(rental.StatusCancelled), cancelled.Status)
}

func TestApproveBooking_LeavesVehicleUntouched(t *testing.T) {
	fx := newBookingFixture(t)

	dto, err := fx.service.CreateBooking(context.Background(), uuid.New(), validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)

	approved, err := fx.service.ApproveBooking(context.Background(), dto.ID)
	require.NoError(t, err)

	assert.Equal(t, string(rental.StatusApproved), approved.Status)
	// The approved booking still holds the vehicle.
	assert.Equal(t, vehicleDomain.StatusRented, fx.vehicles.availability[fx.vehicle.ID()])

	_, ok := fx.producer.lastOfType(events.BookingApproved)
	assert.True(t, ok)
}

func TestRejectBooking_ReleasesVehicle(t *testing.T) {
	fx := newBookingFixture(t)

	dto, err := fx.service.CreateBooking(context.Background(), uuid.New(), validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)
	require.Equal(t, vehicleDomain.StatusRented, fx.vehicles.availability[fx.vehicle.ID()])

	rejected, err := fx.service.RejectBooking(context.Background(), dto.ID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, string(rental.StatusCancelled), rejected.Status)
	assert.Equal(t, vehicleDomain.StatusAvailable, fx.vehicles.availability[fx.vehicle.ID()])
}

func TestGetBooking_OwnerOrAdminOnly(t *testing.T) {
	fx := newBookingFixture(t)
	userID := uuid.New()

	dto, err := fx.service.CreateBooking(context.Background(), userID, validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)

	_, err = fx.service.GetBooking(context.Background(), dto.ID, userID, auth.RoleCustomer)
	assert.NoError(t, err)

	_, err = fx.service.GetBooking(context.Background(), dto.ID, uuid.New(), auth.RoleAdmin)
	assert.NoError(t, err)

	_, err = fx.service.GetBooking(context.Background(), dto.ID, uuid.New(), auth.RoleCustomer)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestGetUserBookings_PartitionsActiveAndPast(t *testing.T) {
	fx := newBookingFixture(t)
	userID := uuid.New()

	created, err := fx.service.CreateBooking(context.Background(), userID, validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)

	cancelled, err := fx.service.CancelBooking(context.Background(), created.ID, userID, auth.RoleCustomer)
	require.NoError(t, err)

	// Second booking on the released vehicle with a future end date.
	req := validCreateRequest(fx.vehicle.ID())
	req.StartDate = "2030-01-01"
	req.EndDate = "2030-01-05"
	active, err := fx.service.CreateBooking(context.Background(), userID, req)
	require.NoError(t, err)

	result, err := fx.service.GetUserBookings(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, result.Active, 1)
	require.Len(t, result.Past, 1)
	assert.Equal(t, active.ID, result.Active[0].ID)
	assert.Equal(t, cancelled.ID, result.Past[0].ID)
}

func TestListAllBookings_FilterValidation(t *testing.T) {
	fx := newBookingFixture(t)

	_, err := fx.service.ListAllBookings(context.Background(), "shipped", 1, 20)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	result, err := fx.service.ListAllBookings(context.Background(), "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)
}

func TestListAllBookings_ReturnsPaginatedResult(t *testing.T) {
	fx := newBookingFixture(t)

	dto, err := fx.service.CreateBooking(context.Background(), uuid.New(), validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)

	result, err := fx.service.ListAllBookings(context.Background(), "", 1, 10)
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, dto.ID, result.Items[0].ID)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)
}

func TestGetBookingStats(t *testing.T) {
	fx := newBookingFixture(t)
	userID := uuid.New()

	dto, err := fx.service.CreateBooking(context.Background(), userID, validCreateRequest(fx.vehicle.ID()))
	require.NoError(t, err)
	_, err = fx.service.CancelBooking(context.Background(), dto.ID, userID, auth.RoleCustomer)
	require.NoError(t, err)

	req := validCreateRequest(fx.vehicle.ID())
	_, err = fx.service.CreateBooking(context.Background(), userID, req)
	require.NoError(t, err)

	stats, err := fx.service.GetBookingStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus[string(rental.StatusBooked)])
	assert.Equal(t, int64(1), stats.ByStatus[string(rental.StatusCancelled)])
}
