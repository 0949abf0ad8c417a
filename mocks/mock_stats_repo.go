package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"brokerdesk/internal/domain"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) ClientOverview(ctx context.Context, expiringWithinDays int) (*domain.DashboardOverview, error) {
	args := m.Called(ctx, expiringWithinDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardOverview), args.Error(1)
}

func (m *MockStatsRepo) CountBy(ctx context.Context, column string) ([]domain.CountByLabel, error) {
	args := m.Called(ctx, column)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CountByLabel), args.Error(1)
}
