package domain

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Premium and fee figures travel as JSON numbers, matching the dashboards.
	decimal.MarshalJSONWithoutQuotes = true
}

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// PolicyDateLayout is the storage and wire format of policy period dates.
const PolicyDateLayout = "2006-01-02"

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// UnmarshalJSON decodes a client payload. Ids are assigned by the server, so an
// empty, null or malformed id decodes to uuid.Nil instead of failing the request.
func (c *Client) UnmarshalJSON(data []byte) error {
	type plain Client
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	c.ID = uuid.Nil
	var raw string
	if len(aux.ID) > 0 && json.Unmarshal(aux.ID, &raw) == nil {
		if id, err := uuid.Parse(raw); err == nil {
			c.ID = id
		}
	}
	return nil
}

// DocumentRef returns the stored reference for a document slot. The business
// registration slot falls back to the legacy column.
func (c *Client) DocumentRef(t DocumentType) string {
	switch t {
	case DocCoverageProof:
		return c.CoverageProof
	case DocSumInsuredProof:
		return c.SumInsuredProof
	case DocPolicyFeeInvoice:
		return c.PolicyFeeInvoice
	case DocVATDebitNote:
		return c.VATDebitNote
	case DocPaymentReceipt:
		return c.PaymentReceipt
	case DocNICProof:
		return c.NICProof
	case DocDOBProof:
		return c.DOBProof
	case DocBusinessRegistrationProof:
		if c.BusinessRegistrationProof != "" {
			return c.BusinessRegistrationProof
		}
		return c.BusinessRegistration
	case DocBusinessRegistration:
		return c.BusinessRegistration
	case DocSVATProof:
		return c.SVATProof
	case DocVATProof:
		return c.VATProof
	}
	return ""
}

// SetDocumentRef stores ref in the given slot. Writing the business
// registration proof also clears the legacy column so the two cannot disagree.
func (c *Client) SetDocumentRef(t DocumentType, ref string) bool {
	switch t {
	case DocCoverageProof:
		c.CoverageProof = ref
	case DocSumInsuredProof:
		c.SumInsuredProof = ref
	case DocPolicyFeeInvoice:
		c.PolicyFeeInvoice = ref
	case DocVATDebitNote:
		c.VATDebitNote = ref
	case DocPaymentReceipt:
		c.PaymentReceipt = ref
	case DocNICProof:
		c.NICProof = ref
	case DocDOBProof:
		c.DOBProof = ref
	case DocBusinessRegistrationProof:
		c.BusinessRegistrationProof = ref
		c.BusinessRegistration = ""
	case DocBusinessRegistration:
		c.BusinessRegistration = ref
	case DocSVATProof:
		c.SVATProof = ref
	case DocVATProof:
		c.VATProof = ref
	default:
		return false
	}
	return true
}

// DocumentCount returns how many document slots hold a reference.
func (c *Client) DocumentCount() int {
	n := 0
	for _, s := range DocumentSpecs {
		if c.DocumentRef(s.Type) != "" {
			n++
		}
	}
	return n
}

// ApplyDerivedTotals fills net premium and total invoice when they were left at zero.
func (c *Client) ApplyDerivedTotals() {
	if c.NetPremium.IsZero() {
		c.NetPremium = c.BasicPremium.Add(c.SRCCPremium).Add(c.TCPremium)
	}
	if c.TotalInvoice.IsZero() {
		c.TotalInvoice = c.NetPremium.
			Add(c.StampDuty).
			Add(c.AdminFees).
			Add(c.RoadSafetyFee).
			Add(c.PolicyFee).
			Add(c.VATFee)
	}
}

// TotalCommission is the commission earned across all premium components.
func (c *Client) TotalCommission() decimal.Decimal {
	return c.CommissionBasic.Add(c.CommissionSRCC).Add(c.CommissionTC)
}

// TrimFields strips surrounding whitespace from the free-text fields and the
// document references, so a blank reference reads as an empty slot.
func (c *Client) TrimFields() {
	for _, p := range []*string{
		&c.IntroducerCode, &c.CustomerType, &c.Product, &c.Policy, &c.InsuranceProvider,
		&c.Branch, &c.ClientName, &c.Street1, &c.Street2, &c.City, &c.District,
		&c.Province, &c.Telephone, &c.MobileNo, &c.ContactPerson, &c.Email,
		&c.SocialMedia, &c.PolicyType, &c.PolicyNo, &c.PolicyPeriodFrom,
		&c.PolicyPeriodTo, &c.Coverage, &c.DebitNote, &c.CommissionType,
		&c.NICProof, &c.DOBProof, &c.BusinessRegistration, &c.BusinessRegistrationProof,
		&c.SVATProof, &c.VATProof, &c.CoverageProof, &c.SumInsuredProof,
		&c.PolicyFeeInvoice, &c.VATDebitNote, &c.PaymentReceipt,
	} {
		*p = strings.TrimSpace(*p)
	}
}

// Validate checks required fields and value ranges.
func (c *Client) Validate() error {
	fields := map[string]string{}

	required := map[string]string{
		"client_name":        c.ClientName,
		"customer_type":      c.CustomerType,
		"product":            c.Product,
		"insurance_provider": c.InsuranceProvider,
		"mobile_no":          c.MobileNo,
	}
	for name, v := range required {
		if strings.TrimSpace(v) == "" {
			fields[name] = "is required"
		}
	}

	if c.Email != "" && !ValidEmail(c.Email) {
		fields["email"] = "invalid email address"
	}

	var from, to time.Time
	var err error
	if c.PolicyPeriodFrom != "" {
		if from, err = time.Parse(PolicyDateLayout, c.PolicyPeriodFrom); err != nil {
			fields["policy_period_from"] = "must be a YYYY-MM-DD date"
		}
	}
	if c.PolicyPeriodTo != "" {
		if to, err = time.Parse(PolicyDateLayout, c.PolicyPeriodTo); err != nil {
			fields["policy_period_to"] = "must be a YYYY-MM-DD date"
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		fields["policy_period_to"] = "must not be before policy_period_from"
	}

	money := map[string]decimal.Decimal{
		"sum_insured":      c.SumInsured,
		"basic_premium":    c.BasicPremium,
		"srcc_premium":     c.SRCCPremium,
		"tc_premium":       c.TCPremium,
		"net_premium":      c.NetPremium,
		"stamp_duty":       c.StampDuty,
		"admin_fees":       c.AdminFees,
		"road_safety_fee":  c.RoadSafetyFee,
		"policy_fee":       c.PolicyFee,
		"vat_fee":          c.VATFee,
		"total_invoice":    c.TotalInvoice,
		"commission_basic": c.CommissionBasic,
		"commission_srcc":  c.CommissionSRCC,
		"commission_tc":    c.CommissionTC,
	}
	for name, v := range money {
		if v.IsNegative() {
			fields[name] = "must not be negative"
		}
	}
	if c.Policies < 0 {
		fields["policies"] = "must not be negative"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// StoredDocument is one populated document column of a client.
type StoredDocument struct {
	Type DocumentType
	Ref  string
}

// StoredDocuments lists every populated document column in display order,
// with the legacy business registration column last. Unlike DocumentRef it
// does not merge the legacy column into its replacement.
func (c *Client) StoredDocuments() []StoredDocument {
	var docs []StoredDocument
	for _, s := range DocumentSpecs {
		ref := c.DocumentRef(s.Type)
		if s.Type == DocBusinessRegistrationProof {
			ref = c.BusinessRegistrationProof
		}
		if ref != "" {
			docs = append(docs, StoredDocument{Type: s.Type, Ref: ref})
		}
	}
	if c.BusinessRegistration != "" {
		docs = append(docs, StoredDocument{Type: DocBusinessRegistration, Ref: c.BusinessRegistration})
	}
	return docs
}
