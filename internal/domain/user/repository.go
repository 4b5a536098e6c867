package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the persistence contract for accounts.
type UserRepository interface {
	// FindByID retrieves a user by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail retrieves a user by email (stored lowercased).
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ListAll retrieves users with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*User, int64, error)

	// Save persists a new user.
	Save(ctx context.Context, u *User) error

	// Update persists profile or role changes.
	Update(ctx context.Context, u *User) error
}

// Favorite marks a vehicle saved by a user.
type Favorite struct {
	UserID    uuid.UUID
	VehicleID uuid.UUID
	CreatedAt time.Time
}

// FavoriteRepository defines the persistence contract for saved vehicles.
type FavoriteRepository interface {
	// Add saves a favorite; adding the same pair twice is a no-op.
	Add(ctx context.Context, userID, vehicleID uuid.UUID) error

	// Remove deletes a favorite if present.
	Remove(ctx context.Context, userID, vehicleID uuid.UUID) error

	// ListVehicleIDs returns the vehicle IDs saved by the user, newest first.
	ListVehicleIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// Exists reports whether the user has saved the vehicle.
	Exists(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error)
}
