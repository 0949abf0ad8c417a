package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendWelcomeEmail(ctx context.Context, toEmail, toName, roleLabel string) error {
	args := m.Called(ctx, toEmail, toName, roleLabel)
	return args.Error(0)
}
