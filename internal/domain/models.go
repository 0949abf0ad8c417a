package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a back-office account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Status returns the display status of the user account.
func (u *User) Status() string {
	if u.IsActive {
		return "active"
	}
	return "inactive"
}

// Client is a brokerage customer together with the policy, premium,
// commission and proof-of-document data recorded against it.
type Client struct {
	ID                uuid.UUID `db:"id" json:"id"`
	IntroducerCode    string    `db:"introducer_code" json:"introducer_code"`
	CustomerType      string    `db:"customer_type" json:"customer_type"`
	Product           string    `db:"product" json:"product"`
	Policy            string    `db:"policy" json:"policy_"`
	InsuranceProvider string    `db:"insurance_provider" json:"insurance_provider"`
	Branch            string    `db:"branch" json:"branch"`
	ClientName        string    `db:"client_name" json:"client_name"`
	Street1           string    `db:"street1" json:"street1"`
	Street2           string    `db:"street2" json:"street2"`
	City              string    `db:"city" json:"city"`
	District          string    `db:"district" json:"district"`
	Province          string    `db:"province" json:"province"`
	Telephone         string    `db:"telephone" json:"telephone"`
	MobileNo          string    `db:"mobile_no" json:"mobile_no"`
	ContactPerson     string    `db:"contact_person" json:"contact_person"`
	Email             string    `db:"email" json:"email"`
	SocialMedia       string    `db:"social_media" json:"social_media"`

	// Document references (path or URL of the stored proof).
	NICProof                  string `db:"nic_proof" json:"nic_proof"`
	DOBProof                  string `db:"dob_proof" json:"dob_proof"`
	BusinessRegistration      string `db:"business_registration" json:"business_registration"`
	BusinessRegistrationProof string `db:"business_registration_proof" json:"business_registration_proof"`
	SVATProof                 string `db:"svat_proof" json:"svat_proof"`
	VATProof                  string `db:"vat_proof" json:"vat_proof"`
	CoverageProof             string `db:"coverage_proof" json:"coverage_proof"`
	SumInsuredProof           string `db:"sum_insured_proof" json:"sum_insured_proof"`
	PolicyFeeInvoice          string `db:"policy_fee_invoice" json:"policy_fee_invoice"`
	VATDebitNote              string `db:"vat_debit_note" json:"vat_debit_note"`
	PaymentReceipt            string `db:"payment_receipt" json:"payment_receipt"`

	// Policy
	PolicyType       string          `db:"policy_type" json:"policy_type"`
	PolicyNo         string          `db:"policy_no" json:"policy_no"`
	PolicyPeriodFrom string          `db:"policy_period_from" json:"policy_period_from"`
	PolicyPeriodTo   string          `db:"policy_period_to" json:"policy_period_to"`
	Coverage         string          `db:"coverage" json:"coverage"`
	SumInsured       decimal.Decimal `db:"sum_insured" json:"sum_insured"`
	BasicPremium     decimal.Decimal `db:"basic_premium" json:"basic_premium"`
	SRCCPremium      decimal.Decimal `db:"srcc_premium" json:"srcc_premium"`
	TCPremium        decimal.Decimal `db:"tc_premium" json:"tc_premium"`
	NetPremium       decimal.Decimal `db:"net_premium" json:"net_premium"`
	StampDuty        decimal.Decimal `db:"stamp_duty" json:"stamp_duty"`
	AdminFees        decimal.Decimal `db:"admin_fees" json:"admin_fees"`
	RoadSafetyFee    decimal.Decimal `db:"road_safety_fee" json:"road_safety_fee"`
	PolicyFee        decimal.Decimal `db:"policy_fee" json:"policy_fee"`
	VATFee           decimal.Decimal `db:"vat_fee" json:"vat_fee"`
	TotalInvoice     decimal.Decimal `db:"total_invoice" json:"total_invoice"`
	DebitNote        string          `db:"debit_note" json:"debit_note"`

	// Commission
	CommissionType  string          `db:"commission_type" json:"commission_type"`
	CommissionBasic decimal.Decimal `db:"commission_basic" json:"commission_basic"`
	CommissionSRCC  decimal.Decimal `db:"commission_srcc" json:"commission_srcc"`
	CommissionTC    decimal.Decimal `db:"commission_tc" json:"commission_tc"`
	Policies        int             `db:"policies" json:"policies"`

	CreatedBy *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// ClientFilter narrows client listings.
type ClientFilter struct {
	Query             string
	CustomerType      string
	Product           string
	InsuranceProvider string
	Branch            string
}

// DocumentItem describes one document slot of a client for display.
type DocumentItem struct {
	Label       string       `json:"label"`
	FieldName   DocumentType `json:"field_name"`
	Category    string       `json:"category"`
	URL         *string      `json:"url"`
	FileName    *string      `json:"file_name"`
	ViewURL     string       `json:"view_url,omitempty"`
	DownloadURL string       `json:"download_url,omitempty"`
}

// DocumentCategory groups document items under a heading.
type DocumentCategory struct {
	Name      string         `json:"name"`
	Documents []DocumentItem `json:"documents"`
}

// ClientDocuments is the grouped document view of a client.
type ClientDocuments struct {
	ClientID   uuid.UUID          `json:"client_id"`
	Categories []DocumentCategory `json:"categories"`
	Total      int                `json:"total"`
}

// RepairReport summarizes a document path repair run.
type RepairReport struct {
	Success            bool              `json:"success"`
	DryRun             bool              `json:"dry_run"`
	ClientsProcessed   int               `json:"clientsProcessed"`
	DocumentsChecked   int               `json:"documentsChecked"`
	FixedPaths         int               `json:"fixedPaths"`
	CreatedDirectories int               `json:"createdDirectories"`
	Missing            []MissingDocument `json:"missing"`
}

// MissingDocument identifies a document reference that could not be resolved.
type MissingDocument struct {
	ClientID     uuid.UUID    `json:"client_id"`
	DocumentType DocumentType `json:"document_type"`
	Ref          string       `json:"ref"`
}

// CountByLabel is a labelled count used by dashboard breakdowns.
type CountByLabel struct {
	Label string `db:"label" json:"label"`
	Count int    `db:"count" json:"count"`
}

// DashboardOverview aggregates the client book for manager dashboards.
type DashboardOverview struct {
	TotalClients      int             `db:"total_clients" json:"total_clients"`
	TotalPolicies     int             `db:"total_policies" json:"total_policies"`
	TotalSumInsured   decimal.Decimal `db:"total_sum_insured" json:"total_sum_insured"`
	TotalNetPremium   decimal.Decimal `db:"total_net_premium" json:"total_net_premium"`
	TotalInvoiced     decimal.Decimal `db:"total_invoiced" json:"total_invoiced"`
	TotalCommission   decimal.Decimal `db:"total_commission" json:"total_commission"`
	ExpiringPolicies  int             `db:"expiring_policies" json:"expiring_policies"`
	UploadedDocuments int             `db:"uploaded_documents" json:"uploaded_documents"`
	ByProduct         []CountByLabel  `json:"by_product"`
	ByProvider        []CountByLabel  `json:"by_provider"`
	ByCustomerType    []CountByLabel  `json:"by_customer_type"`
}

// AdminOverview aggregates user accounts for the admin dashboard.
type AdminOverview struct {
	TotalUsers    int            `json:"total_users"`
	ActiveUsers   int            `json:"active_users"`
	InactiveUsers int            `json:"inactive_users"`
	ByRole        []CountByLabel `json:"by_role"`
}
