package service

import (
	"context"
	"fmt"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/port"
)

// ExpiringWindowDays is how far ahead the dashboard looks for expiring policies.
const ExpiringWindowDays = 30

// StatsService provides aggregate dashboard statistics.
type StatsService interface {
	Overview(ctx context.Context) (*domain.DashboardOverview, error)
	AdminOverview(ctx context.Context) (*domain.AdminOverview, error)
}

type statsService struct {
	statsRepo port.StatsRepository
	userRepo  port.UserRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository, userRepo port.UserRepository) StatsService {
	return &statsService{statsRepo: statsRepo, userRepo: userRepo}
}

func (s *statsService) Overview(ctx context.Context) (*domain.DashboardOverview, error) {
	o, err := s.statsRepo.ClientOverview(ctx, ExpiringWindowDays)
	if err != nil {
		return nil, err
	}
	breakdowns := []struct {
		column string
		dst    *[]domain.CountByLabel
	}{
		{"product", &o.ByProduct},
		{"insurance_provider", &o.ByProvider},
		{"customer_type", &o.ByCustomerType},
	}
	for _, b := range breakdowns {
		counts, err := s.statsRepo.CountBy(ctx, b.column)
		if err != nil {
			return nil, fmt.Errorf("statsService.Overview: %w", err)
		}
		if counts == nil {
			counts = []domain.CountByLabel{}
		}
		*b.dst = counts
	}
	return o, nil
}

func (s *statsService) AdminOverview(ctx context.Context) (*domain.AdminOverview, error) {
	byRole, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.userRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	o := &domain.AdminOverview{ByRole: make([]domain.CountByLabel, 0, len(byRole))}
	for _, c := range byRole {
		if label, ok := domain.RoleLabels[domain.UserRole(c.Label)]; ok {
			c.Label = label
		}
		o.ByRole = append(o.ByRole, c)
	}
	for _, c := range byStatus {
		o.TotalUsers += c.Count
		switch c.Label {
		case "active":
			o.ActiveUsers = c.Count
		case "inactive":
			o.InactiveUsers = c.Count
		}
	}
	return o, nil
}
