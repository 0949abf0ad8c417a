package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brokerdesk/internal/domain"
)

func sampleClient() domain.Client {
	return domain.Client{
		ID:                uuid.New(),
		CustomerType:      "Corporate",
		Product:           "Motor",
		InsuranceProvider: "Ceylinco",
		ClientName:        "Perera Holdings",
		MobileNo:          "0771234567",
		PolicyNo:          "MTR-001",
		PolicyPeriodFrom:  "2026-01-01",
		PolicyPeriodTo:    "2026-12-31",
		BasicPremium:      decimal.RequireFromString("15000.5"),
		NetPremium:        decimal.RequireFromString("16500"),
		Policies:          2,
		NICProof:          "/uploads/documents/x/nic.pdf",
		CreatedAt:         time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func indexOf(t *testing.T, header string) int {
	t.Helper()
	for i, h := range Headers() {
		if h == header {
			return i
		}
	}
	t.Fatalf("header %q not found", header)
	return -1
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.Len(t, row, len(columns))
	assert.Equal(t, "Introducer Code", row[0])
	assert.Equal(t, "Created At", row[len(row)-1])
}

func TestWriteClients(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.WriteClients([]domain.Client{sampleClient()}))
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.Equal(t, "Perera Holdings", row[indexOf(t, "Client Name")])
	assert.Equal(t, "15000.50", row[indexOf(t, "Basic Premium")])
	assert.Equal(t, "0.00", row[indexOf(t, "Sum Insured")])
	assert.Equal(t, "2", row[indexOf(t, "Policies")])
	assert.Equal(t, "1", row[indexOf(t, "Documents")])
	assert.Equal(t, "2026-02-01T10:00:00Z", row[indexOf(t, "Created At")])
}

func TestParseRow(t *testing.T) {
	header := []string{"client_name", "Basic Premium", "policies", "Unknown", "Documents"}
	row := []string{" Silva Traders ", "1,250.75", "3", "ignored", "9"}

	c, err := ParseRow(header, row)
	require.NoError(t, err)
	assert.Equal(t, "Silva Traders", c.ClientName)
	assert.True(t, c.BasicPremium.Equal(decimal.RequireFromString("1250.75")))
	assert.Equal(t, 3, c.Policies)
}

func TestParseRow_InvalidAmount(t *testing.T) {
	_, err := ParseRow([]string{"Net Premium"}, []string{"abc"})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrUnsupportedExportFmt)
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []domain.Client{sampleClient()}))

	clients, rowErrs, err := ReadXLSX(&buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, clients, 1)
	assert.Equal(t, "Perera Holdings", clients[0].ClientName)
	assert.Equal(t, "2026-12-31", clients[0].PolicyPeriodTo)
	assert.True(t, clients[0].BasicPremium.Equal(decimal.RequireFromString("15000.5")))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Motor Clients", "Motor_Clients"},
		{"special chars", "FY 2025-26 / Q3 (Oct–Dec)", "FY_2025-26_Q3_Oct_Dec"},
		{"hyphens and underscores preserved", "my-export_2026", "my-export_2026"},
		{"consecutive underscores collapsed", "test___export", "test_export"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, "Motor_Clients_"+today+".csv", BuildFilename("Motor Clients", FormatCSV))
	assert.Equal(t, "clients_"+today+".xlsx", BuildFilename("", FormatXLSX))
}
