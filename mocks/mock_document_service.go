package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) UploadTemp(ctx context.Context, input service.DocumentUploadInput) (*service.UploadedDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadedDocument), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, input service.DocumentUploadInput) (*service.UploadedDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadedDocument), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, clientID uuid.UUID, docType domain.DocumentType) error {
	args := m.Called(ctx, clientID, docType)
	return args.Error(0)
}

func (m *MockDocumentService) List(ctx context.Context, clientID uuid.UUID, token string) (*domain.ClientDocuments, error) {
	args := m.Called(ctx, clientID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientDocuments), args.Error(1)
}

func (m *MockDocumentService) Open(ctx context.Context, clientID uuid.UUID, filename string) (*service.OpenedDocument, error) {
	args := m.Called(ctx, clientID, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OpenedDocument), args.Error(1)
}

func (m *MockDocumentService) OpenPath(ctx context.Context, p string) (*service.OpenedDocument, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OpenedDocument), args.Error(1)
}

func (m *MockDocumentService) Access(ctx context.Context, clientID uuid.UUID, docType domain.DocumentType, token string) (*service.DocumentAccess, error) {
	args := m.Called(ctx, clientID, docType, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentAccess), args.Error(1)
}

func (m *MockDocumentService) TestFileAccess(ctx context.Context, p, clientID string) (*service.FileAccessReport, error) {
	args := m.Called(ctx, p, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileAccessReport), args.Error(1)
}

func (m *MockDocumentService) AdoptTempDocuments(ctx context.Context, client *domain.Client) int {
	args := m.Called(ctx, client)
	return args.Int(0)
}

func (m *MockDocumentService) DeleteAll(ctx context.Context, clientID uuid.UUID) {
	m.Called(ctx, clientID)
}

func (m *MockDocumentService) RepairAll(ctx context.Context, dryRun bool) (*domain.RepairReport, error) {
	args := m.Called(ctx, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepairReport), args.Error(1)
}
