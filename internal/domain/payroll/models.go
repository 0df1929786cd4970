package payroll

import (
	"time"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/compliance"
)

// IssueCategory tags a payroll issue with the check that produced it.
// Persisted as-is; additive-only.
type IssueCategory string

const (
	CategoryBaseRate       IssueCategory = "BaseRate"
	CategoryPenaltyRate    IssueCategory = "PenaltyRate"
	CategoryCasualLoading  IssueCategory = "CasualLoading"
	CategorySuperannuation IssueCategory = "Superannuation"
)

// ValidatedRow is one CSV row that passed all validation stages.
// Immutable once produced.
type ValidatedRow struct {
	EmployeeID         string
	FirstName          string
	LastName           string
	PayPeriodStart     time.Time
	PayPeriodEnd       time.Time
	AwardType          award.Type
	Classification     string
	EmploymentType     award.EmploymentType
	HourlyRate         float64
	OrdinaryHours      float64
	OrdinaryPay        float64
	SaturdayHours      float64
	SaturdayPay        float64
	SundayHours        float64
	SundayPay          float64
	PublicHolidayHours float64
	PublicHolidayPay   float64
	GrossPay           float64
	SuperannuationPaid float64
}

// RowError is a single field-level CSV failure. RowNumber counts the
// header as row 1; file-level and global errors use row 0 or 1.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

// Payslip is the persisted unit the payroll rules evaluate. Rules are
// read-only over it.
type Payslip struct {
	ID                 string               `json:"id"`
	OrganizationID     string               `json:"organizationId"`
	ValidationID       string               `json:"validationId"`
	EmployeeID         string               `json:"employeeId"`
	EmployeeNumber     string               `json:"employeeNumber"`
	EmployeeName       string               `json:"employeeName"`
	PayPeriodStart     time.Time            `json:"payPeriodStart"`
	PayPeriodEnd       time.Time            `json:"payPeriodEnd"`
	AwardType          award.Type           `json:"awardType"`
	Classification     string               `json:"classification"`
	EmploymentType     award.EmploymentType `json:"employmentType"`
	HourlyRate         float64              `json:"hourlyRate"`
	OrdinaryHours      float64              `json:"ordinaryHours"`
	OrdinaryPay        float64              `json:"ordinaryPay"`
	SaturdayHours      float64              `json:"saturdayHours"`
	SaturdayPay        float64              `json:"saturdayPay"`
	SundayHours        float64              `json:"sundayHours"`
	SundayPay          float64              `json:"sundayPay"`
	PublicHolidayHours float64              `json:"publicHolidayHours"`
	PublicHolidayPay   float64              `json:"publicHolidayPay"`
	GrossPay           float64              `json:"grossPay"`
	SuperannuationPaid float64              `json:"superannuationPaid"`
}

// Issue is one detected deviation on one payslip. Created exclusively by
// rule evaluation.
type Issue struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organizationId"`
	ValidationID   string              `json:"validationId"`
	PayslipID      string              `json:"payslipId"`
	EmployeeID     string              `json:"employeeId"`
	Category       IssueCategory       `json:"category"`
	Severity       compliance.Severity `json:"severity"`
	WarningMessage string              `json:"warningMessage,omitempty"`
	ExpectedValue  float64             `json:"expectedValue"`
	ActualValue    float64             `json:"actualValue"`
	AffectedUnits  float64             `json:"affectedUnits"`
	UnitType       string              `json:"unitType"`
	ContextLabel   string              `json:"contextLabel"`
	ImpactAmount   float64             `json:"impactAmount"`
}

type Validation struct {
	ID                 string                      `json:"id"`
	OrganizationID     string                      `json:"organizationId"`
	FileName           string                      `json:"fileName"`
	AwardType          award.Type                  `json:"awardType"`
	PayPeriodStart     time.Time                   `json:"payPeriodStart"`
	PayPeriodEnd       time.Time                   `json:"payPeriodEnd"`
	Status             compliance.ValidationStatus `json:"status"`
	Notes              string                      `json:"notes,omitempty"`
	ExecutedCategories string                      `json:"executedCategories"`
	TotalPayslips      int                         `json:"totalPayslips"`
	PassedCount        int                         `json:"passedCount"`
	FailedCount        int                         `json:"failedCount"`
	TotalIssues        int                         `json:"totalIssues"`
	FailingIssues      int                         `json:"failingIssues"`
	AffectedEmployees  int                         `json:"affectedEmployees"`
	StartedAt          time.Time                   `json:"startedAt"`
	CompletedAt        *time.Time                  `json:"completedAt,omitempty"`
}

// Report is the validation outcome returned to callers.
type Report struct {
	ValidationID       string              `json:"validationId"`
	Status             string              `json:"status"`
	PayPeriodStart     string              `json:"payPeriodStart"`
	PayPeriodEnd       string              `json:"payPeriodEnd"`
	ExecutedCategories []string            `json:"executedCategories"`
	Summary            ReportSummary       `json:"summary"`
	Categories         []CategoryBreakdown `json:"categories"`
	Issues             []ReportIssue       `json:"issues"`
}

type ReportSummary struct {
	TotalPayslips     int     `json:"totalPayslips"`
	PassedCount       int     `json:"passedCount"`
	TotalIssues       int     `json:"totalIssues"`
	TotalUnderpayment float64 `json:"totalUnderpayment"`
	AffectedEmployees int     `json:"affectedEmployees"`
}

type CategoryBreakdown struct {
	Key                   string  `json:"key"`
	AffectedEmployeeCount int     `json:"affectedEmployeeCount"`
	TotalUnderpayment     float64 `json:"totalUnderpayment"`
}

type ReportIssue struct {
	IssueID      string            `json:"issueId"`
	Category     string            `json:"category"`
	EmployeeName string            `json:"employeeName"`
	EmployeeID   string            `json:"employeeId"`
	Severity     string            `json:"severity"`
	ImpactAmount float64           `json:"impactAmount"`
	Description  *IssueDescription `json:"description,omitempty"`
	Warning      string            `json:"warning,omitempty"`
}

type IssueDescription struct {
	ExpectedValue float64 `json:"expectedValue"`
	ActualValue   float64 `json:"actualValue"`
	AffectedUnits float64 `json:"affectedUnits"`
	UnitType      string  `json:"unitType"`
	ContextLabel  string  `json:"contextLabel"`
}
