package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	return &sesv2.SendEmailOutput{}, f.err
}

func TestSendWelcomeEmail(t *testing.T) {
	client := &fakeSES{}
	sender := New(client, "noreply@brokerdesk.local", "BrokerDesk", "https://desk.example.com")

	err := sender.SendWelcomeEmail(context.Background(), "nimal@example.com", "Nimal <b>", "Underwriter")
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "BrokerDesk <noreply@brokerdesk.local>", *client.input.FromEmailAddress)
	assert.Equal(t, []string{"nimal@example.com"}, client.input.Destination.ToAddresses)
	htmlBody := *client.input.Content.Simple.Body.Html.Data
	assert.Contains(t, htmlBody, "https://desk.example.com/login")
	assert.Contains(t, htmlBody, "Nimal &lt;b&gt;")
	assert.Contains(t, *client.input.Content.Simple.Body.Text.Data, "Underwriter")
}

func TestSendWelcomeEmail_Error(t *testing.T) {
	sender := New(&fakeSES{err: errors.New("throttled")}, "a@b.c", "X", "http://x")
	err := sender.SendWelcomeEmail(context.Background(), "u@example.com", "U", "Manager")
	assert.ErrorContains(t, err, "throttled")
}
