package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveline-rentals/service-rental/internal/auth"
	"github.com/driveline-rentals/service-rental/internal/domain"
	"github.com/driveline-rentals/service-rental/internal/domain/rental"
	vehicleDomain "github.com/driveline-rentals/service-rental/internal/domain/vehicle"
	"github.com/driveline-rentals/service-rental/internal/events"
	"github.com/driveline-rentals/service-rental/internal/kafka"
)

const dateLayout = "2006-01-02"

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	VehicleID       uuid.UUID `json:"vehicle_id" binding:"required"`
	StartDate       string    `json:"start_date" binding:"required"`
	EndDate         string    `json:"end_date" binding:"required"`
	PickupLocation  string    `json:"pickup_location" binding:"required"`
	DropoffLocation string    `json:"dropoff_location" binding:"required"`
	InsuranceOption string    `json:"insurance_option"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	VehicleID       uuid.UUID  `json:"vehicle_id"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	PickupLocation  string     `json:"pickup_location"`
	DropoffLocation string     `json:"dropoff_location"`
	Days            int        `json:"days"`
	DailyRate       float64    `json:"daily_rate"`
	InsuranceOption string     `json:"insurance_option,omitempty"`
	InsuranceDaily  float64    `json:"insurance_daily_rate,omitempty"`
	TotalPrice      float64    `json:"total_price"`
	Status          string     `json:"status"`
	EffectiveStatus string     `json:"effective_status"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MyBookingsDTO groups a user's bookings into active and past.
type MyBookingsDTO struct {
	Active []BookingDTO `json:"active"`
	Past   []BookingDTO `json:"past"`
}

// EventPublisher publishes CloudEvents; satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingService is the application service orchestrating the booking lifecycle.
type BookingService struct {
	bookings rental.BookingRepository
	vehicles vehicleDomain.VehicleRepository
	pricing  rental.PricingStrategy
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings rental.BookingRepository,
	vehicles vehicleDomain.VehicleRepository,
	pricing rental.PricingStrategy,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		vehicles: vehicles,
		pricing:  pricing,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking validates the request, prices the rental, persists the
// booking and flips the vehicle to rented.
//
// The booking insert and the vehicle flip are two independent writes with
// no cross-document transaction. If the flip fails after the insert
// succeeds, the booking stands and the vehicle stays available; the
// mismatch is logged but not compensated.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, domain.NewValidationError("invalid start date, expected YYYY-MM-DD")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, domain.NewValidationError("invalid end date, expected YYYY-MM-DD")
	}
	if !endDate.After(startDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}

	v, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	// Availability guard. This is a read-then-write check: two concurrent
	// creates against the same vehicle can both observe available and both
	// commit. The store offers no compare-and-swap on this flip.
	if !v.IsAvailable() {
		return nil, domain.NewConflictError("vehicle is not available for booking")
	}

	var insuranceDaily float64
	if req.InsuranceOption != "" {
		opt, ok := v.InsuranceOption(req.InsuranceOption)
		if !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("insurance option not offered: %s", req.InsuranceOption))
		}
		insuranceDaily = opt.DailyRate
	}

	quote := s.pricing.Quote(startDate, endDate, v.DailyRate(), insuranceDaily)

	bk, err := rental.NewBooking(
		userID,
		v.ID(),
		startDate,
		endDate,
		req.PickupLocation,
		req.DropoffLocation,
		quote,
		v.DailyRate(),
		req.InsuranceOption,
		insuranceDaily,
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	if err := s.vehicles.UpdateAvailability(ctx, v.ID(), vehicleDomain.StatusRented); err != nil {
		s.logger.Error("booking persisted but vehicle flip failed",
			zap.String("booking_id", bk.ID().String()),
			zap.String("vehicle_id", v.ID().String()),
			zap.Error(err),
		)
	}

	evt := events.BookingCreatedEvent{
		BookingID:  bk.ID(),
		UserID:     bk.UserID(),
		VehicleID:  bk.VehicleID(),
		StartDate:  bk.StartDate(),
		EndDate:    bk.EndDate(),
		TotalPrice: bk.TotalPrice(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRentalEvents, events.BookingCreated, evt)

	result := toBookingDTO(bk, time.Now().UTC())
	return &result, nil
}

// CancelBooking cancels a booking and releases its vehicle. Only the owner
// or an admin may cancel. Cancelling an already-cancelled booking is a
// no-op so repeated submissions converge on the same end state.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, callerID uuid.UUID, callerRole string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if bk.UserID() != callerID && callerRole != auth.RoleAdmin {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	if bk.Status() == rental.StatusCancelled {
		result := toBookingDTO(bk, time.Now().UTC())
		return &result, nil
	}

	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.releaseVehicle(ctx, bk)

	evt := events.BookingCancelledEvent{
		BookingID:   bk.ID(),
		UserID:      bk.UserID(),
		VehicleID:   bk.VehicleID(),
		CancelledBy: callerID,
		OccurredAt:  time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRentalEvents, events.BookingCancelled, evt)

	result := toBookingDTO(bk, time.Now().UTC())
	return &result, nil
}

// ApproveBooking transitions a pending booking to approved (admin review).
// The vehicle record is untouched; an approved booking already holds it.
func (s *BookingService) ApproveBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Approve(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingApprovedEvent{
		BookingID:  bk.ID(),
		UserID:     bk.UserID(),
		VehicleID:  bk.VehicleID(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRentalEvents, events.BookingApproved, evt)

	result := toBookingDTO(bk, time.Now().UTC())
	return &result, nil
}

// RejectBooking cancels a pending booking on admin review and releases the
// vehicle back to available.
func (s *BookingService) RejectBooking(ctx context.Context, bookingID, adminID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.releaseVehicle(ctx, bk)

	evt := events.BookingCancelledEvent{
		BookingID:   bk.ID(),
		UserID:      bk.UserID(),
		VehicleID:   bk.VehicleID(),
		CancelledBy: adminID,
		OccurredAt:  time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRentalEvents, events.BookingCancelled, evt)

	result := toBookingDTO(bk, time.Now().UTC())
	return &result, nil
}

// GetBooking retrieves a single booking. Only the owner or an admin may read it.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, callerID uuid.UUID, callerRole string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if bk.UserID() != callerID && callerRole != auth.RoleAdmin {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	result := toBookingDTO(bk, time.Now().UTC())
	return &result, nil
}

// GetUserBookings retrieves the caller's bookings partitioned into active
// and past, each sorted by creation time descending.
func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID) (*MyBookingsDTO, error) {
	bookings, err := s.bookings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	parts := rental.Partition(bookings, now)

	result := &MyBookingsDTO{
		Active: make([]BookingDTO, len(parts.Active)),
		Past:   make([]BookingDTO, len(parts.Past)),
	}
	for i, bk := range parts.Active {
		result.Active[i] = toBookingDTO(bk, now)
	}
	for i, bk := range parts.Past {
		result.Past[i] = toBookingDTO(bk, now)
	}
	return result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of bookings, optionally filtered
// by stored status (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, statusFilter string, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	var status rental.BookingStatus
	if statusFilter != "" {
		parsed, err := rental.ParseBookingStatus(statusFilter)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		status = parsed
	}

	bookings, total, err := s.bookings.ListAll(ctx, status, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	now := time.Now().UTC()
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk, now)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetBookingStats returns aggregate booking counts by status (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

// releaseVehicle flips the vehicle back to available. Like the create-side
// flip, this is an independent write: failure leaves the vehicle rented
// against a cancelled booking and is logged, not compensated.
func (s *BookingService) releaseVehicle(ctx context.Context, bk *rental.Booking) {
	if err := s.vehicles.UpdateAvailability(ctx, bk.VehicleID(), vehicleDomain.StatusAvailable); err != nil {
		s.logger.Error("booking cancelled but vehicle release failed",
			zap.String("booking_id", bk.ID().String()),
			zap.String("vehicle_id", bk.VehicleID().String()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-rental", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *rental.Booking, now time.Time) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		UserID:          bk.UserID(),
		VehicleID:       bk.VehicleID(),
		StartDate:       bk.StartDate().Format(dateLayout),
		EndDate:         bk.EndDate().Format(dateLayout),
		PickupLocation:  bk.PickupLocation(),
		DropoffLocation: bk.DropoffLocation(),
		Days:            bk.Days(),
		DailyRate:       bk.DailyRate(),
		InsuranceOption: bk.InsuranceOption(),
		InsuranceDaily:  bk.InsuranceDaily(),
		TotalPrice:      bk.TotalPrice(),
		Status:          string(bk.Status()),
		EffectiveStatus: string(bk.EffectiveStatus(now)),
		CancelledAt:     bk.CancelledAt(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
