package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/driveline-rentals/service-rental/internal/auth"
	"github.com/driveline-rentals/service-rental/internal/domain"
)

// User is a registered account. The role defaults to customer and changes
// only through an administrative action.
type User struct {
	id           uuid.UUID
	name         string
	email        string
	phone        string
	address      string
	passwordHash string
	role         string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new customer account with a pre-hashed password.
func NewUser(name, email, passwordHash string) (*User, error) {
	if name == "" {
		return nil, domain.NewValidationError("display name is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("a valid email is required")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password is required")
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         auth.RoleCustomer,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, email, phone, address, passwordHash, role string,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		phone:        phone,
		address:      address,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) Phone() string        { return u.phone }
func (u *User) Address() string      { return u.address }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() string         { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// IsAdmin returns true if the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.role == auth.RoleAdmin
}

// UpdateProfile changes the editable profile fields.
func (u *User) UpdateProfile(name, phone, address string) error {
	if name == "" {
		return domain.NewValidationError("display name is required")
	}
	u.name = name
	u.phone = phone
	u.address = address
	u.updatedAt = time.Now().UTC()
	return nil
}

// ChangeRole sets the user's role (administrative action).
func (u *User) ChangeRole(role string) error {
	if role != auth.RoleCustomer && role != auth.RoleAdmin {
		return domain.NewValidationError("role must be customer or admin")
	}
	u.role = role
	u.updatedAt = time.Now().UTC()
	return nil
}
