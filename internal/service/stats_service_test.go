package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/service"
	"brokerdesk/mocks"
)

func TestStatsService_Overview(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewStatsService(statsRepo, userRepo)

	statsRepo.On("ClientOverview", mock.Anything, service.ExpiringWindowDays).
		Return(&domain.DashboardOverview{TotalClients: 5, ExpiringPolicies: 2}, nil)
	statsRepo.On("CountBy", mock.Anything, "product").
		Return([]domain.CountByLabel{{Label: "Motor", Count: 3}, {Label: "Fire", Count: 2}}, nil)
	statsRepo.On("CountBy", mock.Anything, "insurance_provider").
		Return([]domain.CountByLabel{{Label: "Ceylinco", Count: 5}}, nil)
	statsRepo.On("CountBy", mock.Anything, "customer_type").Return(nil, nil)

	o, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5, o.TotalClients)
	assert.Len(t, o.ByProduct, 2)
	assert.Len(t, o.ByProvider, 1)
	assert.NotNil(t, o.ByCustomerType)
	assert.Empty(t, o.ByCustomerType)
	statsRepo.AssertExpectations(t)
}

func TestStatsService_Overview_BreakdownError(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(statsRepo, new(mocks.MockUserRepo))

	statsRepo.On("ClientOverview", mock.Anything, mock.Anything).Return(&domain.DashboardOverview{}, nil)
	statsRepo.On("CountBy", mock.Anything, "product").Return(nil, errors.New("db down"))

	_, err := svc.Overview(context.Background())
	assert.Error(t, err)
}

func TestStatsService_AdminOverview(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewStatsService(new(mocks.MockStatsRepo), userRepo)

	userRepo.On("CountByRole", mock.Anything).Return([]domain.CountByLabel{
		{Label: "admin", Count: 1},
		{Label: "sales", Count: 4},
	}, nil)
	userRepo.On("CountByStatus", mock.Anything).Return([]domain.CountByLabel{
		{Label: "active", Count: 4},
		{Label: "inactive", Count: 1},
	}, nil)

	o, err := svc.AdminOverview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5, o.TotalUsers)
	assert.Equal(t, 4, o.ActiveUsers)
	assert.Equal(t, 1, o.InactiveUsers)
	assert.Equal(t, []domain.CountByLabel{
		{Label: "Administrator", Count: 1},
		{Label: "Sales Personnel", Count: 4},
	}, o.ByRole)
}
