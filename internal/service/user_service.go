package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/port"
)

const (
	bcryptCost        = 12
	minPasswordLength = 6
)

// CreateUserInput is the DTO for creating a user. Role accepts either the
// role value or its display label.
type CreateUserInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserInput is the DTO for updating a user.
type UpdateUserInput struct {
	Email    *string `json:"email"`
	FullName *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

// UserService defines the user management contract.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, filter port.UserListFilter, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)
	SetActive(ctx context.Context, userID uuid.UUID, active bool) (*domain.User, error)
	Delete(ctx context.Context, actorID, userID uuid.UUID) error
}

type userService struct {
	repo   port.UserRepository
	mailer port.EmailSender
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository, mailer port.EmailSender) UserService {
	return &userService{repo: repo, mailer: mailer}
}

func validateUserFields(fields map[string]string, email, password *string) {
	if email != nil && !domain.ValidEmail(strings.TrimSpace(*email)) {
		fields["email"] = "invalid email address"
	}
	if password != nil && len(*password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLength)
	}
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	fields := map[string]string{}
	if strings.TrimSpace(input.FullName) == "" {
		fields["name"] = "is required"
	}
	validateUserFields(fields, &input.Email, &input.Password)
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	role, ok := domain.ParseUserRole(input.Role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.FullName, domain.RoleLabels[user.Role]); err != nil {
		log.Printf("userService.Create: welcome email to %s failed: %v", user.Email, err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *userService) List(ctx context.Context, filter port.UserListFilter, offset, limit int) ([]domain.User, int, error) {
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *userService) Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	fields := map[string]string{}
	validateUserFields(fields, input.Email, input.Password)
	if input.FullName != nil && strings.TrimSpace(*input.FullName) == "" {
		fields["name"] = "is required"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Role != nil {
		role, ok := domain.ParseUserRole(*input.Role)
		if !ok {
			return nil, domain.ErrInvalidRole
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *userService) SetActive(ctx context.Context, userID uuid.UUID, active bool) (*domain.User, error) {
	return s.Update(ctx, userID, UpdateUserInput{IsActive: &active})
}

func (s *userService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return domain.ErrSelfDeletion
	}
	return s.repo.Delete(ctx, userID)
}
