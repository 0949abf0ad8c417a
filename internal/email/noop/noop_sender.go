package noop

import (
	"context"
	"log"

	"brokerdesk/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates a no-op EmailSender that logs outgoing mail instead of sending it.
func NewNoopSender(frontendURL string) port.EmailSender {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendWelcomeEmail(_ context.Context, toEmail, toName, roleLabel string) error {
	log.Printf("[NOOP EMAIL] Welcome email for %s (%s) as %s: %s/login", toName, toEmail, roleLabel, s.frontendURL)
	return nil
}
