package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"brokerdesk/internal/port"
)

// SendEmailAPI is the part of the SES v2 client the sender uses.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client      SendEmailAPI
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(ctx context.Context, region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return New(sesv2.NewFromConfig(cfg), fromAddress, fromName, frontendURL), nil
}

// New wraps an existing SES client.
func New(client SendEmailAPI, fromAddress, fromName, frontendURL string) port.EmailSender {
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}
}

func (s *sesSender) SendWelcomeEmail(ctx context.Context, toEmail, toName, roleLabel string) error {
	loginURL := s.frontendURL + "/login"

	subject := "Your BrokerDesk account is ready"
	htmlBody := buildWelcomeHTML(toName, toEmail, roleLabel, loginURL)
	textBody := fmt.Sprintf("Hi %s,\n\nAn account has been created for you on BrokerDesk with the role %s.\nSign in as %s at:\n%s\n\nYour administrator will give you your initial password.\n\nBrokerDesk", toName, roleLabel, toEmail, loginURL)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildWelcomeHTML(name, email, role, loginURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Welcome to BrokerDesk</h2>
  <p>Hi %s,</p>
  <p>An account has been created for you with the role <strong>%s</strong>. Sign in as <strong>%s</strong>:</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #0F766E; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Sign in</a>
  </p>
  <p style="color: #999; font-size: 12px;">Your administrator will give you your initial password.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">BrokerDesk - Insurance Brokerage Back Office</p>
</body>
</html>`, html.EscapeString(name), html.EscapeString(role), html.EscapeString(email), html.EscapeString(loginURL))
}
