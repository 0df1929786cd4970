package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/compliance"
	"fairworkly/internal/domain/employee"
)

type Service struct {
	store     StoreAPI
	employees employee.StoreAPI
	engine    *Engine
	validator *Validator
	logger    *slog.Logger
}

func NewService(store StoreAPI, employees employee.StoreAPI, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		employees: employees,
		engine:    DefaultEngine(),
		validator: NewValidator(),
		logger:    logger,
	}
}

// UploadAndValidate runs the full pipeline for one CSV upload: parse,
// validate, sync employees, persist the batch and evaluate every rule.
// Row errors are returned without touching the database.
func (s *Service) UploadAndValidate(ctx context.Context, orgID, fileName string, file io.Reader, awardType award.Type) (*Report, []RowError, error) {
	rows, err := ParseCSV(ctx, file)
	if err != nil {
		return nil, nil, err
	}

	validated, rowErrors := s.validator.Validate(rows, awardType)
	if len(rowErrors) > 0 {
		return nil, rowErrors, nil
	}

	records := make([]employee.SyncRecord, 0, len(validated))
	for _, row := range validated {
		records = append(records, employee.SyncRecord{
			EmployeeNumber:   row.EmployeeID,
			FirstName:        row.FirstName,
			LastName:         row.LastName,
			AwardType:        awardType,
			AwardLevelNumber: award.ParseLevel(row.Classification),
			EmploymentType:   row.EmploymentType,
		})
	}
	employeeIDs, err := s.employees.Sync(ctx, orgID, records)
	if err != nil {
		return nil, nil, fmt.Errorf("sync employees: %w", err)
	}

	validation := &Validation{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		FileName:       fileName,
		AwardType:      awardType,
		PayPeriodStart: validated[0].PayPeriodStart,
		PayPeriodEnd:   validated[0].PayPeriodEnd,
		Status:         compliance.StatusInProgress,
		StartedAt:      time.Now().UTC(),
	}
	if err := s.store.CreateValidation(ctx, validation); err != nil {
		return nil, nil, fmt.Errorf("create validation: %w", err)
	}

	payslips := buildPayslips(orgID, validation.ID, validated, employeeIDs)

	issues, executed, err := s.engine.Run(payslips, validation.ID)
	if err != nil {
		note := compliance.ExecutionFailureNote(err.Error())
		if markErr := s.store.MarkFailed(ctx, orgID, validation.ID, note); markErr != nil {
			s.logger.Error("mark validation failed", "validationId", validation.ID, "error", markErr)
		}
		return nil, nil, fmt.Errorf("evaluate rules: %w", err)
	}

	rollUp(validation, payslips, issues, executed)

	if err := s.store.SaveResult(ctx, validation, payslips, issues); err != nil {
		note := compliance.ExecutionFailureNote(err.Error())
		if markErr := s.store.MarkFailed(ctx, orgID, validation.ID, note); markErr != nil {
			s.logger.Error("mark validation failed", "validationId", validation.ID, "error", markErr)
		}
		return nil, nil, fmt.Errorf("save validation result: %w", err)
	}

	s.logger.Info("payroll validation completed",
		"validationId", validation.ID,
		"status", validation.Status,
		"payslips", validation.TotalPayslips,
		"issues", validation.TotalIssues)

	return buildReport(validation, payslips, issues), nil, nil
}

// rollUp fills the validation aggregates from the evaluated issues. A
// payslip passes when none of its issues reach Error severity.
func rollUp(v *Validation, payslips []*Payslip, issues []Issue, executed string) {
	failingByPayslip := make(map[string]bool)
	failingEmployees := make(map[string]bool)
	failing := 0
	for _, issue := range issues {
		if issue.Severity.Failing() {
			failing++
			failingByPayslip[issue.PayslipID] = true
			failingEmployees[issue.EmployeeID] = true
		}
	}

	v.ExecutedCategories = executed
	v.TotalPayslips = len(payslips)
	v.FailedCount = len(failingByPayslip)
	v.PassedCount = len(payslips) - v.FailedCount
	v.TotalIssues = len(issues)
	v.FailingIssues = failing
	v.AffectedEmployees = len(failingEmployees)

	if failing == 0 {
		v.Status = compliance.StatusPassed
	} else {
		v.Status = compliance.StatusFailed
	}
	now := time.Now().UTC()
	v.CompletedAt = &now
}

// GetReport returns the report for a finished validation. In-progress
// runs and runs that died mid-execution are reported as not found, so
// callers only ever see complete results.
func (s *Service) GetReport(ctx context.Context, orgID, validationID string) (*Report, error) {
	validation, err := s.store.GetValidation(ctx, orgID, validationID)
	if err != nil {
		return nil, err
	}
	if !validation.Status.Terminal() || compliance.IsExecutionFailure(validation.Status, validation.Notes) {
		return nil, ErrValidationNotFound
	}

	payslips, err := s.store.ListPayslips(ctx, orgID, validationID)
	if err != nil {
		return nil, err
	}
	issues, err := s.store.ListIssues(ctx, orgID, validationID)
	if err != nil {
		return nil, err
	}

	refs := make([]*Payslip, len(payslips))
	for i := range payslips {
		refs[i] = &payslips[i]
	}
	return buildReport(validation, refs, issues), nil
}

func (s *Service) ListValidations(ctx context.Context, orgID string, limit, offset int) ([]Validation, int, error) {
	return s.store.ListValidations(ctx, orgID, limit, offset)
}

func buildPayslips(orgID, validationID string, validated []ValidatedRow, employeeIDs map[string]string) []*Payslip {
	payslips := make([]*Payslip, 0, len(validated))
	for _, row := range validated {
		payslips = append(payslips, &Payslip{
			ID:                 uuid.NewString(),
			OrganizationID:     orgID,
			ValidationID:       validationID,
			EmployeeID:         employeeIDs[row.EmployeeID],
			EmployeeNumber:     row.EmployeeID,
			EmployeeName:       strings.TrimSpace(row.FirstName + " " + row.LastName),
			PayPeriodStart:     row.PayPeriodStart,
			PayPeriodEnd:       row.PayPeriodEnd,
			AwardType:          row.AwardType,
			Classification:     row.Classification,
			EmploymentType:     row.EmploymentType,
			HourlyRate:         row.HourlyRate,
			OrdinaryHours:      row.OrdinaryHours,
			OrdinaryPay:        row.OrdinaryPay,
			SaturdayHours:      row.SaturdayHours,
			SaturdayPay:        row.SaturdayPay,
			SundayHours:        row.SundayHours,
			SundayPay:          row.SundayPay,
			PublicHolidayHours: row.PublicHolidayHours,
			PublicHolidayPay:   row.PublicHolidayPay,
			GrossPay:           row.GrossPay,
			SuperannuationPaid: row.SuperannuationPaid,
		})
	}
	return payslips
}

func buildReport(v *Validation, payslips []*Payslip, issues []Issue) *Report {
	nameByPayslip := make(map[string]string, len(payslips))
	for _, p := range payslips {
		nameByPayslip[p.ID] = p.EmployeeName
	}

	// Worst first, then by category for a stable read.
	sorted := make([]Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Severity != sorted[j].Severity {
			return sorted[i].Severity > sorted[j].Severity
		}
		return sorted[i].Category < sorted[j].Category
	})

	var totalUnderpayment float64
	byCategory := make(map[string]*CategoryBreakdown)
	employeesByCategory := make(map[string]map[string]bool)
	reportIssues := make([]ReportIssue, 0, len(sorted))

	for _, issue := range sorted {
		ri := ReportIssue{
			IssueID:      issue.ID,
			Category:     string(issue.Category),
			EmployeeName: nameByPayslip[issue.PayslipID],
			EmployeeID:   issue.EmployeeID,
			Severity:     issue.Severity.String(),
			ImpactAmount: issue.ImpactAmount,
		}
		if issue.Severity == compliance.SeverityWarning {
			ri.Warning = issue.WarningMessage
		} else {
			ri.Description = &IssueDescription{
				ExpectedValue: issue.ExpectedValue,
				ActualValue:   issue.ActualValue,
				AffectedUnits: issue.AffectedUnits,
				UnitType:      issue.UnitType,
				ContextLabel:  issue.ContextLabel,
			}
		}
		reportIssues = append(reportIssues, ri)

		key := string(issue.Category)
		breakdown, ok := byCategory[key]
		if !ok {
			breakdown = &CategoryBreakdown{Key: key}
			byCategory[key] = breakdown
			employeesByCategory[key] = make(map[string]bool)
		}
		if issue.Severity.Failing() {
			breakdown.TotalUnderpayment += issue.ImpactAmount
			totalUnderpayment += issue.ImpactAmount
		}
		if !employeesByCategory[key][issue.EmployeeID] {
			employeesByCategory[key][issue.EmployeeID] = true
			breakdown.AffectedEmployeeCount++
		}
	}

	keys := make([]string, 0, len(byCategory))
	for key := range byCategory {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	categories := make([]CategoryBreakdown, 0, len(keys))
	for _, key := range keys {
		categories = append(categories, *byCategory[key])
	}

	var executed []string
	if v.ExecutedCategories != "" {
		executed = strings.Split(v.ExecutedCategories, ",")
	}

	return &Report{
		ValidationID:       v.ID,
		Status:             string(v.Status),
		PayPeriodStart:     v.PayPeriodStart.Format("2006-01-02"),
		PayPeriodEnd:       v.PayPeriodEnd.Format("2006-01-02"),
		ExecutedCategories: executed,
		Summary: ReportSummary{
			TotalPayslips:     v.TotalPayslips,
			PassedCount:       v.PassedCount,
			TotalIssues:       v.TotalIssues,
			TotalUnderpayment: totalUnderpayment,
			AffectedEmployees: v.AffectedEmployees,
		},
		Categories: categories,
		Issues:     reportIssues,
	}
}
