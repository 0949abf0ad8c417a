package port

import (
	"context"

	"github.com/google/uuid"

	"brokerdesk/internal/domain"
)

// UserListFilter narrows user listings.
type UserListFilter struct {
	Role   domain.UserRole
	Active *bool
	Query  string
}

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserListFilter, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, userID uuid.UUID) error
	CountByRole(ctx context.Context) ([]domain.CountByLabel, error)
	CountByStatus(ctx context.Context) ([]domain.CountByLabel, error)
}

// ClientRepository defines the contract for client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, filter domain.ClientFilter, offset, limit int) ([]domain.Client, int, error)
	// Search matches every non-empty string field of criteria as a
	// case-insensitive substring; all conditions must hold.
	Search(ctx context.Context, criteria *domain.Client) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	UpdateDocumentRef(ctx context.Context, clientID uuid.UUID, docType domain.DocumentType, ref string) error
	Delete(ctx context.Context, clientID uuid.UUID) error
}

// StatsRepository provides aggregate dashboard queries.
type StatsRepository interface {
	ClientOverview(ctx context.Context, expiringWithinDays int) (*domain.DashboardOverview, error)
	CountBy(ctx context.Context, column string) ([]domain.CountByLabel, error)
}
