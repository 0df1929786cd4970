package payroll

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/compliance"
)

// RunOffline evaluates a payroll CSV entirely in memory, with no
// database or employee register. Row errors short-circuit just like the
// server pipeline.
func RunOffline(ctx context.Context, file io.Reader, awardType award.Type) (*Report, []RowError, error) {
	rows, err := ParseCSV(ctx, file)
	if err != nil {
		return nil, nil, err
	}

	validated, rowErrors := NewValidator().Validate(rows, awardType)
	if len(rowErrors) > 0 {
		return nil, rowErrors, nil
	}

	validation := &Validation{
		ID:             uuid.NewString(),
		AwardType:      awardType,
		PayPeriodStart: validated[0].PayPeriodStart,
		PayPeriodEnd:   validated[0].PayPeriodEnd,
		Status:         compliance.StatusInProgress,
		StartedAt:      time.Now().UTC(),
	}

	// Offline runs have no employee register, so employee IDs fall back
	// to the CSV employee numbers.
	employeeIDs := make(map[string]string, len(validated))
	for _, row := range validated {
		employeeIDs[row.EmployeeID] = row.EmployeeID
	}

	payslips := buildPayslips("", validation.ID, validated, employeeIDs)
	issues, executed, err := DefaultEngine().Run(payslips, validation.ID)
	if err != nil {
		return nil, nil, err
	}
	rollUp(validation, payslips, issues, executed)

	return buildReport(validation, payslips, issues), nil, nil
}
