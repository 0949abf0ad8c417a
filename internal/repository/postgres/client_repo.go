package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/port"
)

// clientColumns lists every writable client column except id and timestamps.
var clientColumns = []string{
	"introducer_code", "customer_type", "product", "policy", "insurance_provider", "branch",
	"client_name", "street1", "street2", "city", "district", "province", "telephone",
	"mobile_no", "contact_person", "email", "social_media",
	"nic_proof", "dob_proof", "business_registration", "business_registration_proof",
	"svat_proof", "vat_proof", "coverage_proof", "sum_insured_proof", "policy_fee_invoice",
	"vat_debit_note", "payment_receipt",
	"policy_type", "policy_no", "policy_period_from", "policy_period_to", "coverage",
	"sum_insured", "basic_premium", "srcc_premium", "tc_premium", "net_premium",
	"stamp_duty", "admin_fees", "road_safety_fee", "policy_fee", "vat_fee",
	"total_invoice", "debit_note",
	"commission_type", "commission_basic", "commission_srcc", "commission_tc", "policies",
}

const clientSelect = `SELECT id, introducer_code, customer_type, product, policy, insurance_provider, branch,
	client_name, street1, street2, city, district, province, telephone, mobile_no, contact_person,
	email, social_media, nic_proof, dob_proof, business_registration, business_registration_proof,
	svat_proof, vat_proof, coverage_proof, sum_insured_proof, policy_fee_invoice, vat_debit_note,
	payment_receipt, policy_type, policy_no, policy_period_from, policy_period_to, coverage,
	sum_insured, basic_premium, srcc_premium, tc_premium, net_premium, stamp_duty, admin_fees,
	road_safety_fee, policy_fee, vat_fee, total_invoice, debit_note, commission_type,
	commission_basic, commission_srcc, commission_tc, policies, created_by, created_at, updated_at
	FROM clients`

var (
	clientInsertQuery = func() string {
		cols := append([]string{"id"}, clientColumns...)
		cols = append(cols, "created_by", "created_at", "updated_at")
		return "INSERT INTO clients (" + strings.Join(cols, ", ") + ") VALUES (:" +
			strings.Join(cols, ", :") + ")"
	}()

	clientUpdateQuery = func() string {
		sets := make([]string, 0, len(clientColumns)+1)
		for _, c := range clientColumns {
			sets = append(sets, c+" = :"+c)
		}
		sets = append(sets, "updated_at = :updated_at")
		return "UPDATE clients SET " + strings.Join(sets, ", ") + " WHERE id = :id"
	}()
)

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new PostgreSQL-backed ClientRepository.
func NewClientRepo(db *sqlx.DB) port.ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *domain.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, clientInsertQuery, client); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicatePolicyNo
		}
		return fmt.Errorf("clientRepo.Create: %w", err)
	}
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client, clientSelect+" WHERE id = $1", clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}
	return &client, nil
}

func (r *clientRepo) List(ctx context.Context, filter domain.ClientFilter, offset, limit int) ([]domain.Client, int, error) {
	var (
		conds []string
		args  []interface{}
	)
	eq := map[string]string{
		"customer_type":      filter.CustomerType,
		"product":            filter.Product,
		"insurance_provider": filter.InsuranceProvider,
		"branch":             filter.Branch,
	}
	for _, col := range []string{"customer_type", "product", "insurance_provider", "branch"} {
		if v := strings.TrimSpace(eq[col]); v != "" {
			args = append(args, v)
			conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(client_name ILIKE $%d OR policy_no ILIKE $%d OR mobile_no ILIKE $%d OR email ILIKE $%d OR introducer_code ILIKE $%d)",
			n, n, n, n, n))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM clients"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("clientRepo.List count: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		clientSelect, where, len(args)+1, len(args)+2)
	var clients []domain.Client
	if err := r.db.SelectContext(ctx, &clients, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("clientRepo.List: %w", err)
	}
	return clients, total, nil
}

// searchFields returns the string criteria of c in column order.
func searchFields(c *domain.Client) [][2]string {
	fields := [][2]string{
		{"introducer_code", c.IntroducerCode}, {"customer_type", c.CustomerType},
		{"product", c.Product}, {"policy", c.Policy},
		{"insurance_provider", c.InsuranceProvider}, {"branch", c.Branch},
		{"client_name", c.ClientName}, {"street1", c.Street1}, {"street2", c.Street2},
		{"city", c.City}, {"district", c.District}, {"province", c.Province},
		{"telephone", c.Telephone}, {"mobile_no", c.MobileNo},
		{"contact_person", c.ContactPerson}, {"email", c.Email},
		{"social_media", c.SocialMedia}, {"policy_type", c.PolicyType},
		{"policy_no", c.PolicyNo}, {"policy_period_from", c.PolicyPeriodFrom},
		{"policy_period_to", c.PolicyPeriodTo}, {"coverage", c.Coverage},
		{"debit_note", c.DebitNote}, {"commission_type", c.CommissionType},
	}
	out := fields[:0]
	for _, f := range fields {
		if strings.TrimSpace(f[1]) != "" {
			out = append(out, f)
		}
	}
	return out
}

func (r *clientRepo) Search(ctx context.Context, criteria *domain.Client) ([]domain.Client, error) {
	var (
		conds []string
		args  []interface{}
	)
	for _, f := range searchFields(criteria) {
		args = append(args, "%"+escapeLike(strings.TrimSpace(f[1]))+"%")
		conds = append(conds, fmt.Sprintf("%s ILIKE $%d", f[0], len(args)))
	}
	query := clientSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY client_name"

	var clients []domain.Client
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("clientRepo.Search: %w", err)
	}
	return clients, nil
}

func (r *clientRepo) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	result, err := r.db.NamedExecContext(ctx, clientUpdateQuery, client)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicatePolicyNo
		}
		return fmt.Errorf("clientRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepo) UpdateDocumentRef(ctx context.Context, clientID uuid.UUID, docType domain.DocumentType, ref string) error {
	if !domain.ValidDocumentType(docType) {
		return domain.ErrInvalidDocumentType
	}
	// docType is validated above, so it is safe to use as a column name.
	set := string(docType) + " = $1"
	if docType == domain.DocBusinessRegistrationProof {
		set += ", business_registration = ''"
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE clients SET "+set+", updated_at = NOW() WHERE id = $2", ref, clientID)
	if err != nil {
		return fmt.Errorf("clientRepo.UpdateDocumentRef: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, clientID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = $1", clientID)
	if err != nil {
		return fmt.Errorf("clientRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
