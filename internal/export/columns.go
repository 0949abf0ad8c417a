// Package export converts client records to and from tabular files (CSV and
// Excel workbooks) for reporting and bulk import.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"brokerdesk/internal/domain"
)

// column binds a spreadsheet header to a client field.
type column struct {
	Header string
	get    func(c *domain.Client) string
	set    func(c *domain.Client, v string) error
}

func text(header string, field func(c *domain.Client) *string) column {
	return column{
		Header: header,
		get:    func(c *domain.Client) string { return *field(c) },
		set: func(c *domain.Client, v string) error {
			*field(c) = strings.TrimSpace(v)
			return nil
		},
	}
}

func money(header string, field func(c *domain.Client) *decimal.Decimal) column {
	return column{
		Header: header,
		get:    func(c *domain.Client) string { return field(c).StringFixed(2) },
		set: func(c *domain.Client, v string) error {
			v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
			if v == "" {
				*field(c) = decimal.Zero
				return nil
			}
			d, err := decimal.NewFromString(v)
			if err != nil {
				return fmt.Errorf("%s: invalid amount %q", header, v)
			}
			*field(c) = d
			return nil
		},
	}
}

// columns defines the export layout. Document references are not exported.
var columns = []column{
	text("Introducer Code", func(c *domain.Client) *string { return &c.IntroducerCode }),
	text("Customer Type", func(c *domain.Client) *string { return &c.CustomerType }),
	text("Product", func(c *domain.Client) *string { return &c.Product }),
	text("Policy", func(c *domain.Client) *string { return &c.Policy }),
	text("Insurance Provider", func(c *domain.Client) *string { return &c.InsuranceProvider }),
	text("Branch", func(c *domain.Client) *string { return &c.Branch }),
	text("Client Name", func(c *domain.Client) *string { return &c.ClientName }),
	text("Street 1", func(c *domain.Client) *string { return &c.Street1 }),
	text("Street 2", func(c *domain.Client) *string { return &c.Street2 }),
	text("City", func(c *domain.Client) *string { return &c.City }),
	text("District", func(c *domain.Client) *string { return &c.District }),
	text("Province", func(c *domain.Client) *string { return &c.Province }),
	text("Telephone", func(c *domain.Client) *string { return &c.Telephone }),
	text("Mobile No", func(c *domain.Client) *string { return &c.MobileNo }),
	text("Contact Person", func(c *domain.Client) *string { return &c.ContactPerson }),
	text("Email", func(c *domain.Client) *string { return &c.Email }),
	text("Social Media", func(c *domain.Client) *string { return &c.SocialMedia }),
	text("Policy Type", func(c *domain.Client) *string { return &c.PolicyType }),
	text("Policy No", func(c *domain.Client) *string { return &c.PolicyNo }),
	text("Policy Period From", func(c *domain.Client) *string { return &c.PolicyPeriodFrom }),
	text("Policy Period To", func(c *domain.Client) *string { return &c.PolicyPeriodTo }),
	text("Coverage", func(c *domain.Client) *string { return &c.Coverage }),
	money("Sum Insured", func(c *domain.Client) *decimal.Decimal { return &c.SumInsured }),
	money("Basic Premium", func(c *domain.Client) *decimal.Decimal { return &c.BasicPremium }),
	money("SRCC Premium", func(c *domain.Client) *decimal.Decimal { return &c.SRCCPremium }),
	money("TC Premium", func(c *domain.Client) *decimal.Decimal { return &c.TCPremium }),
	money("Net Premium", func(c *domain.Client) *decimal.Decimal { return &c.NetPremium }),
	money("Stamp Duty", func(c *domain.Client) *decimal.Decimal { return &c.StampDuty }),
	money("Admin Fees", func(c *domain.Client) *decimal.Decimal { return &c.AdminFees }),
	money("Road Safety Fee", func(c *domain.Client) *decimal.Decimal { return &c.RoadSafetyFee }),
	money("Policy Fee", func(c *domain.Client) *decimal.Decimal { return &c.PolicyFee }),
	money("VAT Fee", func(c *domain.Client) *decimal.Decimal { return &c.VATFee }),
	money("Total Invoice", func(c *domain.Client) *decimal.Decimal { return &c.TotalInvoice }),
	text("Debit Note", func(c *domain.Client) *string { return &c.DebitNote }),
	text("Commission Type", func(c *domain.Client) *string { return &c.CommissionType }),
	money("Commission Basic", func(c *domain.Client) *decimal.Decimal { return &c.CommissionBasic }),
	money("Commission SRCC", func(c *domain.Client) *decimal.Decimal { return &c.CommissionSRCC }),
	money("Commission TC", func(c *domain.Client) *decimal.Decimal { return &c.CommissionTC }),
	{
		Header: "Policies",
		get:    func(c *domain.Client) string { return strconv.Itoa(c.Policies) },
		set: func(c *domain.Client, v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				c.Policies = 0
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("Policies: invalid number %q", v)
			}
			c.Policies = n
			return nil
		},
	},
	{
		Header: "Documents",
		get:    func(c *domain.Client) string { return strconv.Itoa(c.DocumentCount()) },
	},
	{
		Header: "Created At",
		get: func(c *domain.Client) string {
			if c.CreatedAt.IsZero() {
				return ""
			}
			return c.CreatedAt.Format(time.RFC3339)
		},
	},
}

// Headers returns the header row.
func Headers() []string {
	h := make([]string, len(columns))
	for i, col := range columns {
		h[i] = col.Header
	}
	return h
}

// Row converts a client to a row aligned with Headers.
func Row(c *domain.Client) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = col.get(c)
	}
	return row
}

// ParseRow builds a client from a row whose cells are labelled by header.
// Unknown headers and read-only columns are ignored.
func ParseRow(header, row []string) (*domain.Client, error) {
	byHeader := make(map[string]column, len(columns))
	for _, col := range columns {
		if col.set != nil {
			byHeader[normalizeHeader(col.Header)] = col
		}
	}
	c := &domain.Client{}
	for i, h := range header {
		col, ok := byHeader[normalizeHeader(h)]
		if !ok || i >= len(row) {
			continue
		}
		if err := col.set(c, row[i]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(h, "_", " ")), " "))
}
