package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/config"
)

// OpenPostgres connects to the configured Postgres instance and verifies the
// connection before returning.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// LoadFromPostgres reads the full record set out of Postgres into the
// in-memory store. The record set is small and read-only at serve time, so
// everything is loaded up front rather than queried per request.
func LoadFromPostgres(ctx context.Context, db *sql.DB, s *Store) error {
	if err := loadMembers(ctx, db, s); err != nil {
		return err
	}
	if err := loadDependents(ctx, db, s); err != nil {
		return err
	}
	if err := loadCoverage(ctx, db, s); err != nil {
		return err
	}
	if err := loadProcedures(ctx, db, s); err != nil {
		return err
	}
	if err := loadClaims(ctx, db, s); err != nil {
		return err
	}
	if err := loadIDCards(ctx, db, s); err != nil {
		return err
	}
	if err := loadBenefitUsage(ctx, db, s); err != nil {
		return err
	}
	if err := loadPlanDocuments(ctx, db, s); err != nil {
		return err
	}
	return nil
}

func loadMembers(ctx context.Context, db *sql.DB, s *Store) error {
	rows, err := db.QueryContext(ctx, `
        SELECT member_id, first_name, last_name, date_of_birth, email, phone, address,
               group_number, plan_id, effective_date
          FROM members ORDER BY member_id`)
	if err != nil {
		return fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m memberRow
		if err := rows.Scan(&m.MemberID, &m.FirstName, &m.LastName, &m.DateOfBirth, &m.Email,
			&m.Phone, &m.Address, &m.GroupNumber, &m.PlanID, &m.EffectiveDate); err != nil {
			return fmt.Errorf("scan member: %w", err)
		}
		s.AddMember(m.toModel())
	}
	return rows.Err()
}

func loadDependents(ctx context.Context, db *sql.DB, s *Store) error {
	rows, err := db.QueryContext(ctx, `
        SELECT dependent_id, primary_member_id, first_name, last_name, date_of_birth,
               relationship, effective_date
          FROM dependents ORDER BY dependent_id`)
	if err != nil {
		return fmt.Errorf("query dependents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d dependentRow
		if err := rows.Scan(&d.DependentID, &d.PrimaryMemberID, &d.FirstName, &d.LastName,
			&d.DateOfBirth, &d.Relationship, &d.EffectiveDate); err != nil {
			return fmt.Errorf("scan dependent: %w", err)
		}
		s.AddDependent(d.toModel())
	}
	return rows.Err()
}

func loadCoverage(ctx context.Context, db *sql.DB, s *Store) error {
	rows, err := db.QueryContext(ctx, `
        SELECT plan_id, coverage_type, annual_maximum, deductible, coinsurance_percentage,
               COALESCE(frequency_limit, ''), waiting_period_days
          FROM coverage ORDER BY plan_id, coverage_type`)
	if err != nil {
		return fmt.Errorf("query coverage: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c coverageRow
		if err := rows.Scan(&c.PlanID, &c.CoverageType, &c.AnnualMaximum, &c.Deductible,
			&c.CoinsurancePercentage, &c.FrequencyLimit, &c.WaitingPeriodDays); err != nil {
			return fmt.Errorf("scan coverage: %w", err)
		}
		s.AddCoverage(c.toModel())
	}
	return rows.Err()
}

func loadProcedures(ctx context.Context, db *sql.DB, s *Store) error {
	rows, err := db.QueryContext(ctx, `
        SELECT procedure_code, procedure_name, description, coverage_type, typical_cost
          FROM procedures ORDER BY procedure_code`)
	if err != nil {
		return fmt.Errorf("query procedures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p procedureRow
		if err := rows.Scan(&p.ProcedureCode, &p.ProcedureName, &p.Description,
			&p.CoverageType, &p.TypicalCost); err != nil {
			return fmt.Errorf("scan procedure: %w", err)
		}
		s.AddProcedure(p.toModel())
	}
	return rows.Err()
}

func loadClaims(ctx context.Context, db *sql.DB, s *Store) error {
	rows, err := db.QueryContext(ctx, `
        SELECT claim_id, member_id, patient_name, provider_name, provider_npi,
               service_date, submission_date, procedure_code, procedure_description,
               billed_amount, allowed_amount, covered_amount, patient_responsibility,
               status, COALESCE(denial_reason, ''), payment_date
          FROM claims ORDER BY claim_id`)
	if err != nil {
		return fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c claimRow
		if err := rows.Scan(&c.ClaimID, &c.MemberID, &c.PatientName, &c.ProviderName,
			&c.ProviderNPI, &c.ServiceDate, &c.SubmissionDate, &c.ProcedureCode,
			&c.ProcedureDescription, &c.BilledAmount, &c.AllowedAmount, &c.CoveredAmount,
			&c.PatientResponsibility, &c.Status, &c.DenialReason, &c.PaymentDate); err != nil {
			return fmt.Errorf("scan claim: %w", err)
		}
		s.AddClaim(c.toModel())
	}
	return rows.Err()
}

func loadIDCards(ctx context.Context, db *sql.DB, s *Store) error {
	rows, err := db.QueryContext(ctx, `
        SELECT member_id, member_name, group_number, plan_id, plan_name, effective_date,
               member_id_display, customer_service_phone, claims_address
          FROM id_cards ORDER BY member_id`)
	if err != nil {
		return fmt.Errorf("query id cards: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c idCardRow
		if err := rows.Scan(&c.MemberID, &c.MemberName, &c.GroupNumber, &c.PlanID,
			&c.PlanName, &c.EffectiveDate, &c.MemberIDDisplay, &c.CustomerServicePhone,
			&c.ClaimsAddress); err != nil {
			return fmt.Errorf("scan id card: %w", err)
		}
		s.AddIDCard(c.toModel())
	}
	return rows.Err()
}

func loadBenefitUsage(ctx context.Context, db *sql.DB, s *Store) error {
	rows, err := db.QueryContext(ctx, `
        SELECT member_id, plan_year, annual_maximum, used_amount, remaining_amount,
               deductible, deductible_met, deductible_remaining, last_updated
          FROM benefit_usage ORDER BY member_id`)
	if err != nil {
		return fmt.Errorf("query benefit usage: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u benefitUsageRow
		if err := rows.Scan(&u.MemberID, &u.PlanYear, &u.AnnualMaximum, &u.UsedAmount,
			&u.RemainingAmount, &u.Deductible, &u.DeductibleMet, &u.DeductibleRemaining,
			&u.LastUpdated); err != nil {
			return fmt.Errorf("scan benefit usage: %w", err)
		}
		s.AddBenefitUsage(u.toModel())
	}
	return rows.Err()
}

func loadPlanDocuments(ctx context.Context, db *sql.DB, s *Store) error {
	rows, err := db.QueryContext(ctx, `
        SELECT document_id, plan_id, document_type, title, content, last_updated
          FROM plan_documents ORDER BY document_id`)
	if err != nil {
		return fmt.Errorf("query plan documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d planDocumentRow
		if err := rows.Scan(&d.DocumentID, &d.PlanID, &d.DocumentType, &d.Title,
			&d.Content, &d.LastUpdated); err != nil {
			return fmt.Errorf("scan plan document: %w", err)
		}
		s.AddPlanDocument(d.toModel())
	}
	return rows.Err()
}
