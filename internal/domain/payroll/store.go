package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/compliance"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateValidation(ctx context.Context, v *Validation) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_validations
      (id, organization_id, file_name, status, pay_period_start, pay_period_end, award_type, started_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, v.ID, v.OrganizationID, v.FileName, string(v.Status), v.PayPeriodStart, v.PayPeriodEnd, string(v.AwardType), v.StartedAt)
	return err
}

// SaveResult commits the outcome of a validation run atomically: the
// validation row update plus all payslips and issues land in one
// transaction or not at all.
func (s *Store) SaveResult(ctx context.Context, v *Validation, payslips []*Payslip, issues []Issue) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
    UPDATE payroll_validations
    SET status = $1, notes = $2, executed_categories = $3,
        total_payslips = $4, passed_count = $5, failed_count = $6,
        total_issues = $7, failing_issues = $8, affected_employees = $9,
        completed_at = $10
    WHERE id = $11 AND organization_id = $12
  `, string(v.Status), v.Notes, v.ExecutedCategories,
		v.TotalPayslips, v.PassedCount, v.FailedCount,
		v.TotalIssues, v.FailingIssues, v.AffectedEmployees,
		v.CompletedAt, v.ID, v.OrganizationID)
	if err != nil {
		return err
	}

	for _, p := range payslips {
		_, err = tx.Exec(ctx, `
      INSERT INTO payslips
        (id, organization_id, validation_id, employee_id, employee_number, employee_name,
         pay_period_start, pay_period_end, award_type, classification, employment_type,
         hourly_rate, ordinary_hours, ordinary_pay,
         saturday_hours, saturday_pay, sunday_hours, sunday_pay,
         public_holiday_hours, public_holiday_pay,
         gross_pay, superannuation_paid)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
    `, p.ID, p.OrganizationID, p.ValidationID, p.EmployeeID, p.EmployeeNumber, p.EmployeeName,
			p.PayPeriodStart, p.PayPeriodEnd, string(p.AwardType), p.Classification, string(p.EmploymentType),
			p.HourlyRate, p.OrdinaryHours, p.OrdinaryPay,
			p.SaturdayHours, p.SaturdayPay, p.SundayHours, p.SundayPay,
			p.PublicHolidayHours, p.PublicHolidayPay,
			p.GrossPay, p.SuperannuationPaid)
		if err != nil {
			return err
		}
	}

	for _, issue := range issues {
		_, err = tx.Exec(ctx, `
      INSERT INTO payroll_issues
        (id, organization_id, validation_id, payslip_id, employee_id,
         category, severity, warning_message, expected_value, actual_value,
         affected_units, unit_type, context_label, impact_amount)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    `, issue.ID, issue.OrganizationID, issue.ValidationID, issue.PayslipID, issue.EmployeeID,
			string(issue.Category), issue.Severity.String(), issue.WarningMessage,
			issue.ExpectedValue, issue.ActualValue,
			issue.AffectedUnits, issue.UnitType, issue.ContextLabel, issue.ImpactAmount)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) MarkFailed(ctx context.Context, orgID, validationID, notes string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_validations
    SET status = $1, notes = $2, completed_at = now()
    WHERE id = $3 AND organization_id = $4
  `, string(compliance.StatusFailed), notes, validationID, orgID)
	return err
}

func (s *Store) GetValidation(ctx context.Context, orgID, validationID string) (*Validation, error) {
	var v Validation
	var status, awardType string
	err := s.DB.QueryRow(ctx, `
    SELECT id, organization_id, COALESCE(file_name, ''), status, COALESCE(notes, ''), COALESCE(executed_categories, ''),
           pay_period_start, pay_period_end, award_type,
           total_payslips, passed_count, failed_count,
           total_issues, failing_issues, affected_employees,
           started_at, completed_at
    FROM payroll_validations
    WHERE organization_id = $1 AND id = $2
  `, orgID, validationID).Scan(
		&v.ID, &v.OrganizationID, &v.FileName, &status, &v.Notes, &v.ExecutedCategories,
		&v.PayPeriodStart, &v.PayPeriodEnd, &awardType,
		&v.TotalPayslips, &v.PassedCount, &v.FailedCount,
		&v.TotalIssues, &v.FailingIssues, &v.AffectedEmployees,
		&v.StartedAt, &v.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrValidationNotFound
	}
	if err != nil {
		return nil, err
	}
	v.Status = compliance.ValidationStatus(status)
	v.AwardType = award.Type(awardType)
	return &v, nil
}

func (s *Store) ListValidations(ctx context.Context, orgID string, limit, offset int) ([]Validation, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_validations WHERE organization_id = $1", orgID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, organization_id, COALESCE(file_name, ''), status, COALESCE(notes, ''), COALESCE(executed_categories, ''),
           pay_period_start, pay_period_end, award_type,
           total_payslips, passed_count, failed_count,
           total_issues, failing_issues, affected_employees,
           started_at, completed_at
    FROM payroll_validations
    WHERE organization_id = $1
    ORDER BY started_at DESC
    LIMIT $2 OFFSET $3
  `, orgID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Validation
	for rows.Next() {
		var v Validation
		var status, awardType string
		if err := rows.Scan(
			&v.ID, &v.OrganizationID, &v.FileName, &status, &v.Notes, &v.ExecutedCategories,
			&v.PayPeriodStart, &v.PayPeriodEnd, &awardType,
			&v.TotalPayslips, &v.PassedCount, &v.FailedCount,
			&v.TotalIssues, &v.FailingIssues, &v.AffectedEmployees,
			&v.StartedAt, &v.CompletedAt); err != nil {
			return nil, 0, err
		}
		v.Status = compliance.ValidationStatus(status)
		v.AwardType = award.Type(awardType)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) ListPayslips(ctx context.Context, orgID, validationID string) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, organization_id, validation_id, employee_id, employee_number, employee_name,
           pay_period_start, pay_period_end, award_type, classification, employment_type,
           hourly_rate, ordinary_hours, ordinary_pay,
           saturday_hours, saturday_pay, sunday_hours, sunday_pay,
           public_holiday_hours, public_holiday_pay,
           gross_pay, superannuation_paid
    FROM payslips
    WHERE organization_id = $1 AND validation_id = $2
    ORDER BY employee_number
  `, orgID, validationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payslip
	for rows.Next() {
		var p Payslip
		var awardType, employmentType string
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.ValidationID, &p.EmployeeID, &p.EmployeeNumber, &p.EmployeeName,
			&p.PayPeriodStart, &p.PayPeriodEnd, &awardType, &p.Classification, &employmentType,
			&p.HourlyRate, &p.OrdinaryHours, &p.OrdinaryPay,
			&p.SaturdayHours, &p.SaturdayPay, &p.SundayHours, &p.SundayPay,
			&p.PublicHolidayHours, &p.PublicHolidayPay,
			&p.GrossPay, &p.SuperannuationPaid); err != nil {
			return nil, err
		}
		p.AwardType = award.Type(awardType)
		p.EmploymentType = award.EmploymentType(employmentType)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListIssues(ctx context.Context, orgID, validationID string) ([]Issue, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, organization_id, validation_id, payslip_id, employee_id,
           category, severity, COALESCE(warning_message, ''),
           expected_value, actual_value, affected_units,
           unit_type, context_label, impact_amount
    FROM payroll_issues
    WHERE organization_id = $1 AND validation_id = $2
    ORDER BY category, employee_id
  `, orgID, validationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Issue
	for rows.Next() {
		var issue Issue
		var category, severity string
		if err := rows.Scan(
			&issue.ID, &issue.OrganizationID, &issue.ValidationID, &issue.PayslipID, &issue.EmployeeID,
			&category, &severity, &issue.WarningMessage,
			&issue.ExpectedValue, &issue.ActualValue, &issue.AffectedUnits,
			&issue.UnitType, &issue.ContextLabel, &issue.ImpactAmount); err != nil {
			return nil, err
		}
		issue.Category = IssueCategory(category)
		issue.Severity, _ = compliance.ParseSeverity(severity)
		out = append(out, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
