package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/service"
)

// MockClientService is a mock implementation of service.ClientService.
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) Create(ctx context.Context, client *domain.Client, actorID uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, client, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) CreateWithDocuments(ctx context.Context, client *domain.Client, files map[domain.DocumentType]service.FileUpload, actorID uuid.UUID) (*service.ClientDocumentsResult, error) {
	args := m.Called(ctx, client, files, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ClientDocumentsResult), args.Error(1)
}

func (m *MockClientService) GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) List(ctx context.Context, filter domain.ClientFilter, offset, limit int) ([]domain.Client, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Client), args.Int(1), args.Error(2)
}

func (m *MockClientService) Search(ctx context.Context, criteria *domain.Client) ([]domain.Client, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientService) All(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientService) Update(ctx context.Context, clientID uuid.UUID, client *domain.Client) (*domain.Client, error) {
	args := m.Called(ctx, clientID, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) UpdateWithDocuments(ctx context.Context, clientID uuid.UUID, client *domain.Client, files map[domain.DocumentType]service.FileUpload) (*service.ClientDocumentsResult, error) {
	args := m.Called(ctx, clientID, client, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ClientDocumentsResult), args.Error(1)
}

func (m *MockClientService) Delete(ctx context.Context, clientID uuid.UUID) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}
