package application

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/driveline-rentals/service-rental/internal/domain"
	"github.com/driveline-rentals/service-rental/internal/domain/rental"
	userDomain "github.com/driveline-rentals/service-rental/internal/domain/user"
	vehicleDomain "github.com/driveline-rentals/service-rental/internal/domain/vehicle"
	"github.com/driveline-rentals/service-rental/internal/kafka"
)

// --- In-memory booking repository ---

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*rental.Booking
	saveErr  error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*rental.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*rental.Booking, error) {
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*rental.Booking, error) {
	var out []*rental.Booking
	for _, bk := range r.bookings {
		if bk.UserID() == userID {
			out = append(out, bk)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, status rental.BookingStatus, _, _ int) ([]*rental.Booking, int64, error) {
	var out []*rental.Booking
	for _, bk := range r.bookings {
		if status == "" || bk.Status() == status {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *rental.Booking) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *rental.Booking) error {
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

// --- In-memory vehicle repository ---

type fakeVehicleRepo struct {
	vehicles map[uuid.UUID]*vehicleDomain.Vehicle
	// availability tracks UpdateAvailability writes separately so tests can
	// assert the column-level flip.
	availability map[uuid.UUID]vehicleDomain.AvailabilityStatus
	flipErr      error
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{
		vehicles:     make(map[uuid.UUID]*vehicleDomain.Vehicle),
		availability: make(map[uuid.UUID]vehicleDomain.AvailabilityStatus),
	}
}

func (r *fakeVehicleRepo) add(v *vehicleDomain.Vehicle) {
	r.vehicles[v.ID()] = v
	r.availability[v.ID()] = v.Availability()
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domain.NewNotFoundError("Vehicle", id.String())
	}
	return v, nil
}

func (r *fakeVehicleRepo) List(_ context.Context, _ vehicleDomain.Filter, _, _ int) ([]*vehicleDomain.Vehicle, int64, error) {
	var out []*vehicleDomain.Vehicle
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVehicleRepo) Locations(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range r.vehicles {
		if _, ok := seen[v.Location()]; !ok {
			seen[v.Location()] = struct{}{}
			out = append(out, v.Location())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeVehicleRepo) Save(_ context.Context, v *vehicleDomain.Vehicle) error {
	r.add(v)
	return nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *vehicleDomain.Vehicle) error {
	if _, ok := r.vehicles[v.ID()]; !ok {
		return domain.NewNotFoundError("Vehicle", v.ID().String())
	}
	r.vehicles[v.ID()] = v
	return nil
}

func (r *fakeVehicleRepo) UpdateAvailability(_ context.Context, id uuid.UUID, status vehicleDomain.AvailabilityStatus) error {
	if r.flipErr != nil {
		return r.flipErr
	}
	v, ok := r.vehicles[id]
	if !ok {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	// Keep the aggregate in step with the column write so a FindByID after a
	// flip observes the new state, as it would against the real store.
	if v.Availability() != status {
		var err error
		switch status {
		case vehicleDomain.StatusRented:
			err = v.MarkRented()
		case vehicleDomain.StatusMaintenance:
			err = v.EnterMaintenance()
		case vehicleDomain.StatusAvailable:
			if v.Availability() == vehicleDomain.StatusMaintenance {
				err = v.ExitMaintenance()
			} else {
				err = v.Release()
			}
		}
		if err != nil {
			return err
		}
	}
	r.availability[id] = status
	return nil
}

func (r *fakeVehicleRepo) UpdateRatingSummary(_ context.Context, id uuid.UUID, summary vehicleDomain.RatingSummary) error {
	v, ok := r.vehicles[id]
	if !ok {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	v.SetRatingSummary(summary.Average, summary.Count)
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.vehicles[id]; !ok {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	delete(r.vehicles, id)
	delete(r.availability, id)
	return nil
}

// --- In-memory review repository ---

type fakeReviewRepo struct {
	reviews []*vehicleDomain.Review
}

func (r *fakeReviewRepo) Save(_ context.Context, review *vehicleDomain.Review) error {
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) FindByVehicleID(_ context.Context, vehicleID uuid.UUID) ([]*vehicleDomain.Review, error) {
	var out []*vehicleDomain.Review
	for _, rv := range r.reviews {
		if rv.VehicleID() == vehicleID {
			out = append(out, rv)
		}
	}
	return out, nil
}

// --- In-memory user repository ---

type fakeUserRepo struct {
	users map[uuid.UUID]*userDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*userDomain.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (r *fakeUserRepo) ListAll(_ context.Context, _, _ int) ([]*userDomain.User, int64, error) {
	var out []*userDomain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *userDomain.User) error {
	r.users[u.ID()] = u
	return nil
}

// --- In-memory favorite repository ---

type favoriteKey struct {
	userID    uuid.UUID
	vehicleID uuid.UUID
}

type fakeFavoriteRepo struct {
	pairs []favoriteKey
}

func (r *fakeFavoriteRepo) Add(_ context.Context, userID, vehicleID uuid.UUID) error {
	key := favoriteKey{userID, vehicleID}
	for _, p := range r.pairs {
		if p == key {
			return nil
		}
	}
	r.pairs = append(r.pairs, key)
	return nil
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID, vehicleID uuid.UUID) error {
	key := favoriteKey{userID, vehicleID}
	for i, p := range r.pairs {
		if p == key {
			r.pairs = append(r.pairs[:i], r.pairs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeFavoriteRepo) ListVehicleIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for i := len(r.pairs) - 1; i >= 0; i-- {
		if r.pairs[i].userID == userID {
			out = append(out, r.pairs[i].vehicleID)
		}
	}
	return out, nil
}

func (r *fakeFavoriteRepo) Exists(_ context.Context, userID, vehicleID uuid.UUID) (bool, error) {
	key := favoriteKey{userID, vehicleID}
	for _, p := range r.pairs {
		if p == key {
			return true, nil
		}
	}
	return false, nil
}

// --- Event publisher capture ---

type capturedEvent struct {
	Topic string
	Event kafka.CloudEvent
}

type fakePublisher struct {
	published []capturedEvent
	err       error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, capturedEvent{Topic: topic, Event: event})
	return nil
}

func (p *fakePublisher) lastOfType(eventType string) (kafka.CloudEvent, bool) {
	for i := len(p.published) - 1; i >= 0; i-- {
		if p.published[i].Event.Type == eventType {
			return p.published[i].Event, true
		}
	}
	return kafka.CloudEvent{}, false
}

var errStorageDown = errors.New("storage unavailable")
