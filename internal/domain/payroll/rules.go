package payroll

import (
	"fmt"

	"github.com/google/uuid"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/compliance"
)

// Rule is one payroll compliance check. Rules are pure and read-only
// over the payslip: data anomalies become issues, never Go errors.
type Rule interface {
	Category() IssueCategory
	Evaluate(p *Payslip, validationID string) []Issue
}

// BaseRateRule checks the minimum base rate for all employment types,
// using the permanent rate as the floor.
type BaseRateRule struct{}

func (BaseRateRule) Category() IssueCategory { return CategoryBaseRate }

func (BaseRateRule) Evaluate(p *Payslip, validationID string) []Issue {
	if p.OrdinaryHours <= 0 {
		return nil
	}

	level := award.ParseLevel(p.Classification)
	minimumRate := award.PermanentRate(level)
	if minimumRate <= 0 {
		// Invalid level is caught by row validation.
		return nil
	}

	contextLabel := fmt.Sprintf("Retail Award %s", p.Classification)
	actualRate := p.OrdinaryPay / p.OrdinaryHours

	if actualRate < minimumRate-award.RateTolerance {
		return []Issue{newRateIssue(p, validationID, CategoryBaseRate, compliance.SeverityCritical,
			"", minimumRate, actualRate, p.OrdinaryHours, contextLabel)}
	}

	// Actual pay is fine but the configured rate is below minimum, which
	// is a data risk rather than an underpayment.
	if p.HourlyRate < minimumRate-award.RateTolerance {
		warning := fmt.Sprintf("System rate $%.2f/hr is below legal minimum $%.2f/hr", p.HourlyRate, minimumRate)
		return []Issue{newRateIssue(p, validationID, CategoryBaseRate, compliance.SeverityWarning,
			warning, minimumRate, p.HourlyRate, p.OrdinaryHours, contextLabel)}
	}

	return nil
}

// CasualLoadingRule checks that casual employees receive the 25%
// loading. Other employment types are skipped.
type CasualLoadingRule struct{}

func (CasualLoadingRule) Category() IssueCategory { return CategoryCasualLoading }

func (CasualLoadingRule) Evaluate(p *Payslip, validationID string) []Issue {
	if p.EmploymentType != award.Casual || p.OrdinaryHours <= 0 {
		return nil
	}

	level := award.ParseLevel(p.Classification)
	casualRate := award.CasualRate(level)
	if casualRate <= 0 {
		return nil
	}

	contextLabel := fmt.Sprintf("Casual Rate %s", p.Classification)
	actualRate := p.OrdinaryPay / p.OrdinaryHours

	if actualRate < casualRate-award.RateTolerance {
		return []Issue{newRateIssue(p, validationID, CategoryCasualLoading, compliance.SeverityCritical,
			"", casualRate, actualRate, p.OrdinaryHours, contextLabel)}
	}

	if p.HourlyRate < casualRate-award.RateTolerance {
		warning := fmt.Sprintf("System Casual rate $%.2f/hr is below legal minimum $%.2f/hr", p.HourlyRate, casualRate)
		return []Issue{newRateIssue(p, validationID, CategoryCasualLoading, compliance.SeverityWarning,
			warning, casualRate, p.HourlyRate, p.OrdinaryHours, contextLabel)}
	}

	return nil
}

// PenaltyRateRule checks Saturday, Sunday and public holiday pay. All
// employment types use the permanent rate as the base; only the
// multiplier differs for casuals.
type PenaltyRateRule struct{}

func (PenaltyRateRule) Category() IssueCategory { return CategoryPenaltyRate }

func (PenaltyRateRule) Evaluate(p *Payslip, validationID string) []Issue {
	level := award.ParseLevel(p.Classification)
	baseRate := award.PermanentRate(level)
	if baseRate <= 0 {
		return nil
	}

	multipliers := award.PermanentMultipliers
	if p.EmploymentType == award.Casual {
		multipliers = award.CasualMultipliers
	}

	var issues []Issue
	check := func(dayType string, hours, paid, multiplier float64) {
		if hours <= 0 {
			return
		}
		expected := baseRate * multiplier * hours
		if paid >= expected-award.PayTolerance {
			return
		}
		issues = append(issues, Issue{
			ID:             uuid.NewString(),
			OrganizationID: p.OrganizationID,
			ValidationID:   validationID,
			PayslipID:      p.ID,
			EmployeeID:     p.EmployeeID,
			Category:       CategoryPenaltyRate,
			Severity:       compliance.SeverityError,
			ExpectedValue:  expected,
			ActualValue:    paid,
			AffectedUnits:  hours,
			UnitType:       "Currency",
			ContextLabel:   fmt.Sprintf("%s (%.2fx rate)", dayType, multiplier),
			ImpactAmount:   expected - paid,
		})
	}

	check("Saturday", p.SaturdayHours, p.SaturdayPay, multipliers.Saturday)
	check("Sunday", p.SundayHours, p.SundayPay, multipliers.Sunday)
	check("Public Holiday", p.PublicHolidayHours, p.PublicHolidayPay, multipliers.PublicHoliday)

	return issues
}

// SuperannuationRule checks the 12% superannuation guarantee against
// gross pay.
type SuperannuationRule struct{}

func (SuperannuationRule) Category() IssueCategory { return CategorySuperannuation }

func (SuperannuationRule) Evaluate(p *Payslip, validationID string) []Issue {
	totalHours := p.OrdinaryHours + p.SaturdayHours + p.SundayHours + p.PublicHolidayHours

	if p.GrossPay < 0 {
		return []Issue{{
			ID:             uuid.NewString(),
			OrganizationID: p.OrganizationID,
			ValidationID:   validationID,
			PayslipID:      p.ID,
			EmployeeID:     p.EmployeeID,
			Category:       CategorySuperannuation,
			Severity:       compliance.SeverityWarning,
			WarningMessage: "Negative Gross Pay: possible correction/reversal entry, superannuation not verified",
			AffectedUnits:  totalHours,
			UnitType:       "Hour",
			ContextLabel:   "Data Issue",
		}}
	}

	if p.GrossPay == 0 {
		// Hours with no pay is a data anomaly; no hours and no pay is
		// unpaid leave and passes silently.
		if totalHours > 0 {
			return []Issue{{
				ID:             uuid.NewString(),
				OrganizationID: p.OrganizationID,
				ValidationID:   validationID,
				PayslipID:      p.ID,
				EmployeeID:     p.EmployeeID,
				Category:       CategorySuperannuation,
				Severity:       compliance.SeverityWarning,
				WarningMessage: "Missing Gross Pay Data: Cannot verify superannuation compliance",
				AffectedUnits:  totalHours,
				UnitType:       "Hour",
				ContextLabel:   "Data Issue",
			}}
		}
		return nil
	}

	expected := p.GrossPay * award.SuperannuationRate
	if p.SuperannuationPaid >= expected-award.PayTolerance {
		return nil
	}

	return []Issue{{
		ID:             uuid.NewString(),
		OrganizationID: p.OrganizationID,
		ValidationID:   validationID,
		PayslipID:      p.ID,
		EmployeeID:     p.EmployeeID,
		Category:       CategorySuperannuation,
		Severity:       compliance.SeverityError,
		ExpectedValue:  expected,
		ActualValue:    p.SuperannuationPaid,
		AffectedUnits:  p.GrossPay,
		UnitType:       "Currency",
		ContextLabel:   fmt.Sprintf("12%% of $%.2f", p.GrossPay),
		ImpactAmount:   expected - p.SuperannuationPaid,
	}}
}

// Warnings carry no financial impact; underpayments carry the shortfall
// across the affected hours.
func newRateIssue(p *Payslip, validationID string, category IssueCategory, severity compliance.Severity,
	warning string, expected, actual, units float64, contextLabel string) Issue {

	impact := 0.0
	if severity != compliance.SeverityWarning {
		impact = (expected - actual) * units
	}

	return Issue{
		ID:             uuid.NewString(),
		OrganizationID: p.OrganizationID,
		ValidationID:   validationID,
		PayslipID:      p.ID,
		EmployeeID:     p.EmployeeID,
		Category:       category,
		Severity:       severity,
		WarningMessage: warning,
		ExpectedValue:  expected,
		ActualValue:    actual,
		AffectedUnits:  units,
		UnitType:       "Hour",
		ContextLabel:   contextLabel,
		ImpactAmount:   impact,
	}
}
