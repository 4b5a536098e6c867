package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveline-rentals/service-rental/internal/auth"
	"github.com/driveline-rentals/service-rental/internal/domain"
	userDomain "github.com/driveline-rentals/service-rental/internal/domain/user"
)

// RegisterRequest is the request DTO for account creation.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the request DTO for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the request DTO for profile edits.
type UpdateProfileRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UserDTO is the API response representation of an account.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionDTO carries tokens and the authenticated user.
type SessionDTO struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}

// UserService implements registration, authentication and account management.
type UserService struct {
	users      userDomain.UserRepository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users userDomain.UserRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register creates a customer account and opens a session.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*SessionDTO, error) {
	if existing, err := s.users.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, domain.NewConflictError("an account with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := userDomain.NewUser(req.Name, req.Email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("account registered",
		zap.String("user_id", u.ID().String()),
	)
	return s.openSession(u)
}

// Login authenticates an account and opens a session.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*SessionDTO, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same response for unknown email and bad password.
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}

	if !auth.CheckPassword(u.PasswordHash(), req.Password) {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}

	return s.openSession(u)
}

// GetProfile retrieves the caller's account.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// UpdateProfile changes the caller's editable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := u.UpdateProfile(req.Name, req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	result := toUserDTO(u)
	return &result, nil
}

// ListUsers returns a paginated list of accounts (admin).
func (s *UserService) ListUsers(ctx context.Context, page, limit int) (*domain.PaginatedResult[UserDTO], error) {
	users, total, err := s.users.ListAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ChangeUserRole sets an account's role (admin).
func (s *UserService) ChangeUserRole(ctx context.Context, userID uuid.UUID, role string) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := u.ChangeRole(role); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user role changed",
		zap.String("user_id", userID.String()),
		zap.String("role", role),
	)
	result := toUserDTO(u)
	return &result, nil
}

func (s *UserService) openSession(u *userDomain.User) (*SessionDTO, error) {
	access, err := s.jwtManager.GenerateAccessToken(u.ID(), u.Email(), u.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(u.ID(), u.Email(), u.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &SessionDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         toUserDTO(u),
	}, nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		Phone:     u.Phone(),
		Address:   u.Address(),
		Role:      u.Role(),
		CreatedAt: u.CreatedAt(),
	}
}
