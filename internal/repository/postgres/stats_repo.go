package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

// groupableColumns are the client columns dashboards may break down by.
var groupableColumns = map[string]bool{
	"product":            true,
	"insurance_provider": true,
	"customer_type":      true,
	"branch":             true,
	"city":               true,
}

var uploadedDocumentsExpr = func() string {
	cols := []string{
		"coverage_proof", "sum_insured_proof", "policy_fee_invoice", "vat_debit_note",
		"payment_receipt", "nic_proof", "dob_proof", "svat_proof", "vat_proof",
	}
	parts := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		parts = append(parts, fmt.Sprintf("CASE WHEN %s <> '' THEN 1 ELSE 0 END", c))
	}
	parts = append(parts,
		"CASE WHEN business_registration_proof <> '' OR business_registration <> '' THEN 1 ELSE 0 END")
	return "COALESCE(SUM(" + strings.Join(parts, " + ") + "), 0)"
}()

var clientOverviewQuery = `SELECT
	COUNT(*) AS total_clients,
	COALESCE(SUM(policies), 0) AS total_policies,
	COALESCE(SUM(sum_insured), 0) AS total_sum_insured,
	COALESCE(SUM(net_premium), 0) AS total_net_premium,
	COALESCE(SUM(total_invoice), 0) AS total_invoiced,
	COALESCE(SUM(commission_basic + commission_srcc + commission_tc), 0) AS total_commission,
	COUNT(CASE WHEN policy_period_to ~ '^\d{4}-\d{2}-\d{2}$' THEN
		CASE WHEN policy_period_to::date BETWEEN CURRENT_DATE AND CURRENT_DATE + $1::int THEN 1 END
	END) AS expiring_policies,
	` + uploadedDocumentsExpr + ` AS uploaded_documents
FROM clients`

func (r *statsRepo) ClientOverview(ctx context.Context, expiringWithinDays int) (*domain.DashboardOverview, error) {
	var o domain.DashboardOverview
	if err := r.db.GetContext(ctx, &o, clientOverviewQuery, expiringWithinDays); err != nil {
		return nil, fmt.Errorf("statsRepo.ClientOverview: %w", err)
	}
	return &o, nil
}

func (r *statsRepo) CountBy(ctx context.Context, column string) ([]domain.CountByLabel, error) {
	if !groupableColumns[column] {
		return nil, fmt.Errorf("statsRepo.CountBy: unsupported column %q", column)
	}
	query := fmt.Sprintf(`SELECT COALESCE(NULLIF(%s, ''), 'Unspecified') AS label, COUNT(*) AS count
		FROM clients GROUP BY 1 ORDER BY 2 DESC, 1`, column)

	var counts []domain.CountByLabel
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("statsRepo.CountBy %s: %w", column, err)
	}
	return counts, nil
}
