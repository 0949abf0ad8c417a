package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"brokerdesk/internal/domain"
)

// MockStatsService is a mock implementation of service.StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Overview(ctx context.Context) (*domain.DashboardOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardOverview), args.Error(1)
}

func (m *MockStatsService) AdminOverview(ctx context.Context) (*domain.AdminOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminOverview), args.Error(1)
}
