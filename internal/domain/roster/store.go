package roster

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/compliance"
	"fairworkly/internal/domain/employee"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// CreateRosterWithShifts persists a roster and its matched shifts in a
// single transaction.
func (s *Store) CreateRosterWithShifts(ctx context.Context, roster *Roster, shifts []*Shift) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
    INSERT INTO rosters (id, organization_id, week_start_date, week_end_date,
                         total_shifts, total_hours, total_employees, file_name, notes, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  `, roster.ID, roster.OrganizationID, roster.WeekStartDate, roster.WeekEndDate,
		roster.TotalShifts, roster.TotalHours, roster.TotalEmployees, roster.FileName, roster.Notes, roster.CreatedAt)
	if err != nil {
		return err
	}

	for _, shift := range shifts {
		_, err = tx.Exec(ctx, `
      INSERT INTO shifts (id, organization_id, roster_id, employee_id, date,
                          start_time, end_time, has_meal_break, meal_break_minutes,
                          has_rest_breaks, rest_breaks_minutes, is_public_holiday, location, notes)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    `, shift.ID, shift.OrganizationID, shift.RosterID, shift.EmployeeID, shift.Date,
			shift.StartTime, shift.EndTime, shift.HasMealBreak, shift.MealBreakMinutes,
			shift.HasRestBreaks, shift.RestBreaksMinutes, shift.IsPublicHoliday, shift.Location, shift.Notes)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) GetRoster(ctx context.Context, organizationID, rosterID string) (*Roster, error) {
	var r Roster
	err := s.DB.QueryRow(ctx, `
    SELECT id, organization_id, week_start_date, week_end_date,
           total_shifts, total_hours, total_employees, file_name, COALESCE(notes, ''), created_at
    FROM rosters
    WHERE organization_id = $1 AND id = $2
  `, organizationID, rosterID).Scan(&r.ID, &r.OrganizationID, &r.WeekStartDate, &r.WeekEndDate,
		&r.TotalShifts, &r.TotalHours, &r.TotalEmployees, &r.FileName, &r.Notes, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRosterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListShifts loads a roster's shifts with their employees attached.
// Shift.Employee stays nil when the employee row no longer exists.
func (s *Store) ListShifts(ctx context.Context, organizationID, rosterID string) ([]*Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sh.id, sh.organization_id, sh.roster_id, sh.employee_id, sh.date,
           sh.start_time, sh.end_time, sh.has_meal_break, sh.meal_break_minutes,
           sh.has_rest_breaks, sh.rest_breaks_minutes, sh.is_public_holiday,
           COALESCE(sh.location, ''), COALESCE(sh.notes, ''),
           e.id, e.employee_number, e.first_name, e.last_name,
           e.award_type, e.award_level, e.employment_type, e.guaranteed_hours
    FROM shifts sh
    LEFT JOIN employees e ON e.id = sh.employee_id
    WHERE sh.organization_id = $1 AND sh.roster_id = $2
    ORDER BY sh.date, sh.start_time, sh.id
  `, organizationID, rosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*Shift
	for rows.Next() {
		var sh Shift
		var empID, empNumber, firstName, lastName, awardType, employmentType *string
		var awardLevel *int
		var guaranteedHours *float64
		if err := rows.Scan(&sh.ID, &sh.OrganizationID, &sh.RosterID, &sh.EmployeeID, &sh.Date,
			&sh.StartTime, &sh.EndTime, &sh.HasMealBreak, &sh.MealBreakMinutes,
			&sh.HasRestBreaks, &sh.RestBreaksMinutes, &sh.IsPublicHoliday,
			&sh.Location, &sh.Notes,
			&empID, &empNumber, &firstName, &lastName,
			&awardType, &awardLevel, &employmentType, &guaranteedHours); err != nil {
			return nil, err
		}
		if empID != nil {
			sh.Employee = &employee.Employee{
				ID:               *empID,
				OrganizationID:   sh.OrganizationID,
				EmployeeNumber:   *empNumber,
				FirstName:        *firstName,
				LastName:         *lastName,
				AwardType:        award.Type(*awardType),
				AwardLevelNumber: *awardLevel,
				EmploymentType:   award.EmploymentType(*employmentType),
				GuaranteedHours:  guaranteedHours,
			}
		}
		shifts = append(shifts, &sh)
	}
	return shifts, rows.Err()
}

// GetValidationByRoster returns the most recent validation for the
// roster, or ErrValidationNotFound when none has been started.
func (s *Store) GetValidationByRoster(ctx context.Context, organizationID, rosterID string) (*Validation, error) {
	var v Validation
	var status, notes, executed string
	err := s.DB.QueryRow(ctx, `
    SELECT id, organization_id, roster_id, status, COALESCE(notes, ''), COALESCE(executed_check_types, ''),
           week_start_date, week_end_date, total_shifts, passed_shifts, failed_shifts,
           total_issues, failing_issues, affected_employees, started_at, completed_at
    FROM roster_validations
    WHERE organization_id = $1 AND roster_id = $2
    ORDER BY started_at DESC
    LIMIT 1
  `, organizationID, rosterID).Scan(&v.ID, &v.OrganizationID, &v.RosterID, &status, &notes, &executed,
		&v.WeekStartDate, &v.WeekEndDate, &v.TotalShifts, &v.PassedShifts, &v.FailedShifts,
		&v.TotalIssues, &v.FailingIssues, &v.AffectedEmployees, &v.StartedAt, &v.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrValidationNotFound
	}
	if err != nil {
		return nil, err
	}
	v.Status = compliance.ValidationStatus(status)
	v.Notes = notes
	v.ExecutedCheckTypes = ExecutedCheckTypeSet(executed)
	return &v, nil
}

func (s *Store) CreateValidation(ctx context.Context, validation *Validation) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO roster_validations (id, organization_id, roster_id, status, notes, executed_check_types,
                                    week_start_date, week_end_date, total_shifts, passed_shifts, failed_shifts,
                                    total_issues, failing_issues, affected_employees, started_at, completed_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
  `, validation.ID, validation.OrganizationID, validation.RosterID, string(validation.Status),
		validation.Notes, string(validation.ExecutedCheckTypes),
		validation.WeekStartDate, validation.WeekEndDate, validation.TotalShifts,
		validation.PassedShifts, validation.FailedShifts, validation.TotalIssues,
		validation.FailingIssues, validation.AffectedEmployees, validation.StartedAt, validation.CompletedAt)
	return err
}

func (s *Store) UpdateValidation(ctx context.Context, validation *Validation) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE roster_validations
    SET status = $3, notes = $4, executed_check_types = $5, started_at = $6, completed_at = $7
    WHERE organization_id = $1 AND id = $2
  `, validation.OrganizationID, validation.ID, string(validation.Status), validation.Notes,
		string(validation.ExecutedCheckTypes), validation.StartedAt, validation.CompletedAt)
	return err
}

// SaveResult finalizes a validation and replaces its issues atomically.
func (s *Store) SaveResult(ctx context.Context, validation *Validation, issues []Issue) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
    UPDATE roster_validations
    SET status = $3, notes = $4, executed_check_types = $5,
        total_shifts = $6, passed_shifts = $7, failed_shifts = $8,
        total_issues = $9, failing_issues = $10, affected_employees = $11, completed_at = $12
    WHERE organization_id = $1 AND id = $2
  `, validation.OrganizationID, validation.ID, string(validation.Status), validation.Notes,
		string(validation.ExecutedCheckTypes), validation.TotalShifts, validation.PassedShifts,
		validation.FailedShifts, validation.TotalIssues, validation.FailingIssues,
		validation.AffectedEmployees, validation.CompletedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
    DELETE FROM roster_issues WHERE organization_id = $1 AND validation_id = $2
  `, validation.OrganizationID, validation.ID)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		var shiftID *string
		if issue.ShiftID != "" {
			shiftID = &issue.ShiftID
		}
		_, err = tx.Exec(ctx, `
      INSERT INTO roster_issues (id, organization_id, validation_id, shift_id, employee_id,
                                 check_type, severity, description, expected_value, actual_value,
                                 affected_dates, affected_shifts)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    `, issue.ID, issue.OrganizationID, issue.ValidationID, shiftID, issue.EmployeeID,
			string(issue.CheckType), issue.Severity.String(), issue.Description,
			issue.ExpectedValue, issue.ActualValue, string(issue.AffectedDates), issue.AffectedShifts)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) MarkFailed(ctx context.Context, organizationID, validationID, notes string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE roster_validations
    SET status = $3, notes = $4, completed_at = $5
    WHERE organization_id = $1 AND id = $2
  `, organizationID, validationID, string(compliance.StatusFailed), notes, time.Now().UTC())
	return err
}

func (s *Store) ListIssues(ctx context.Context, organizationID, validationID string) ([]IssueRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT i.id, i.organization_id, i.validation_id, COALESCE(i.shift_id, ''), i.employee_id,
           i.check_type, i.severity, i.description, i.expected_value, i.actual_value,
           COALESCE(i.affected_dates, ''), i.affected_shifts,
           COALESCE(TRIM(e.first_name || ' ' || e.last_name), ''), COALESCE(e.employee_number, '')
    FROM roster_issues i
    LEFT JOIN employees e ON e.id = i.employee_id
    WHERE i.organization_id = $1 AND i.validation_id = $2
    ORDER BY i.check_type, i.employee_id, i.id
  `, organizationID, validationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []IssueRecord
	for rows.Next() {
		var rec IssueRecord
		var checkType, severity, affectedDates string
		if err := rows.Scan(&rec.ID, &rec.OrganizationID, &rec.ValidationID, &rec.ShiftID, &rec.EmployeeID,
			&checkType, &severity, &rec.Description, &rec.ExpectedValue, &rec.ActualValue,
			&affectedDates, &rec.AffectedShifts,
			&rec.EmployeeName, &rec.EmployeeNumber); err != nil {
			return nil, err
		}
		rec.CheckType = CheckType(checkType)
		parsed, err := compliance.ParseSeverity(severity)
		if err != nil {
			return nil, err
		}
		rec.Severity = parsed
		rec.AffectedDates = AffectedDateSet(affectedDates)
		records = append(records, rec)
	}
	return records, rows.Err()
}
