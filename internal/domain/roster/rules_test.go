package roster

import (
	"strings"
	"testing"
	"time"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/compliance"
	"fairworkly/internal/domain/employee"
)

func testEmployee(id string, employmentType award.EmploymentType) *testEmployeeBuilder {
	return &testEmployeeBuilder{id: id, employmentType: employmentType, awardType: award.GeneralRetailIndustryAward2020}
}

type testEmployeeBuilder struct {
	id              string
	employmentType  award.EmploymentType
	awardType       award.Type
	guaranteedHours *float64
}

func (b *testEmployeeBuilder) withAward(awardType award.Type) *testEmployeeBuilder {
	b.awardType = awardType
	return b
}

func (b *testEmployeeBuilder) withGuaranteedHours(hours float64) *testEmployeeBuilder {
	b.guaranteedHours = &hours
	return b
}

func (b *testEmployeeBuilder) shift(day int, start, end string) *Shift {
	return &Shift{
		ID:             "shift-" + b.id + "-" + start + "-" + end + "-" + time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC).Format("02"),
		OrganizationID: "org-1",
		RosterID:       "roster-1",
		EmployeeID:     b.id,
		Date:           time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		StartTime:      start,
		EndTime:        end,
		Employee:       b.employee(),
	}
}

func (b *testEmployeeBuilder) employee() *employee.Employee {
	return &employee.Employee{
		ID:               b.id,
		OrganizationID:   "org-1",
		EmployeeNumber:   "EMP-" + b.id,
		FirstName:        "Test",
		LastName:         b.id,
		AwardType:        b.awardType,
		AwardLevelNumber: 1,
		EmploymentType:   b.employmentType,
		GuaranteedHours:  b.guaranteedHours,
	}
}

func TestMinimumShiftHoursFlagsShortCasualShift(t *testing.T) {
	rule := MinimumShiftHoursRule{Params: award.NewParameterProvider()}
	shifts := []*Shift{testEmployee("c1", award.Casual).shift(2, "09:00", "11:00")}

	issues, err := rule.Evaluate(shifts, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Severity != compliance.SeverityError {
		t.Fatalf("expected Error severity, got %s", issues[0].Severity)
	}
	if issues[0].ExpectedValue != 3 || issues[0].ActualValue != 2 {
		t.Fatalf("expected 3/2, got %v/%v", issues[0].ExpectedValue, issues[0].ActualValue)
	}
}

func TestMinimumShiftHoursAllowsShortFullTime(t *testing.T) {
	rule := MinimumShiftHoursRule{Params: award.NewParameterProvider()}
	shifts := []*Shift{testEmployee("f1", award.FullTime).shift(2, "09:00", "11:00")}

	issues, err := rule.Evaluate(shifts, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %d", len(issues))
	}
}

func TestMealBreakTooShortOnLongShift(t *testing.T) {
	rule := MealBreakRule{Params: award.NewParameterProvider()}
	shift := testEmployee("f1", award.FullTime).shift(2, "09:00", "16:30")
	shift.HasMealBreak = true
	shift.MealBreakMinutes = 20

	issues, err := rule.Evaluate([]*Shift{shift}, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Description != "Meal break only 20 minutes, required 30 minutes" {
		t.Fatalf("unexpected description: %s", issues[0].Description)
	}
}

func TestMealBreakNotRequiredAtThreshold(t *testing.T) {
	rule := MealBreakRule{Params: award.NewParameterProvider()}
	shift := testEmployee("f1", award.FullTime).shift(2, "09:00", "14:00")

	issues, err := rule.Evaluate([]*Shift{shift}, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues for 5 hour shift, got %d", len(issues))
	}
}

func TestMealBreakMissingOnLongShift(t *testing.T) {
	rule := MealBreakRule{Params: award.NewParameterProvider()}
	shift := testEmployee("f1", award.FullTime).shift(2, "08:00", "17:30")

	issues, err := rule.Evaluate([]*Shift{shift}, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].ExpectedValue != 60 || issues[0].ActualValue != 0 {
		t.Fatalf("expected 60/0, got %v/%v", issues[0].ExpectedValue, issues[0].ActualValue)
	}
	if !strings.Contains(issues[0].Description, "No meal break provided") {
		t.Fatalf("unexpected description: %s", issues[0].Description)
	}
}

func TestRestPeriodSeverityTiers(t *testing.T) {
	rule := RestPeriodRule{Params: award.NewParameterProvider()}

	// 11h rest: below the 12h standard but above the 10h reduced floor.
	warned := testEmployee("a", award.FullTime)
	// 9h rest: below the reduced floor.
	errored := testEmployee("b", award.FullTime)
	shifts := []*Shift{
		warned.shift(2, "09:00", "17:00"),
		warned.shift(3, "04:00", "10:00"),
		errored.shift(2, "09:00", "22:00"),
		errored.shift(3, "07:00", "15:00"),
	}

	issues, err := rule.Evaluate(shifts, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}

	bySeverity := make(map[compliance.Severity]Issue)
	for _, issue := range issues {
		bySeverity[issue.Severity] = issue
	}
	warning, ok := bySeverity[compliance.SeverityWarning]
	if !ok {
		t.Fatalf("expected a warning tier issue")
	}
	if warning.ExpectedValue != 12 || warning.ActualValue != 11 {
		t.Fatalf("warning tier expected 12/11, got %v/%v", warning.ExpectedValue, warning.ActualValue)
	}
	errIssue, ok := bySeverity[compliance.SeverityError]
	if !ok {
		t.Fatalf("expected an error tier issue")
	}
	if errIssue.ExpectedValue != 10 || errIssue.ActualValue != 9 {
		t.Fatalf("error tier expected 10/9, got %v/%v", errIssue.ExpectedValue, errIssue.ActualValue)
	}
	if errIssue.AffectedShifts != 2 || errIssue.AffectedDates.Len() != 2 {
		t.Fatalf("rest issue should span both shifts, got %d shifts %d dates", errIssue.AffectedShifts, errIssue.AffectedDates.Len())
	}
}

func TestRestPeriodOvernightShiftUsesActualEnd(t *testing.T) {
	rule := RestPeriodRule{Params: award.NewParameterProvider()}
	emp := testEmployee("n", award.FullTime)
	// Overnight shift ends 06:00 the next day; the following shift at
	// 14:00 that day leaves only 8 hours rest.
	shifts := []*Shift{
		emp.shift(2, "22:00", "06:00"),
		emp.shift(3, "14:00", "20:00"),
	}

	issues, err := rule.Evaluate(shifts, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Severity != compliance.SeverityError {
		t.Fatalf("8 hours rest should be Error tier, got %s", issues[0].Severity)
	}
	if issues[0].ActualValue != 8 {
		t.Fatalf("expected 8 hours rest, got %v", issues[0].ActualValue)
	}
}

func TestConsecutiveDaysOverCap(t *testing.T) {
	rule := ConsecutiveDaysRule{Params: award.NewParameterProvider()}
	emp := testEmployee("c", award.FullTime)
	var shifts []*Shift
	for day := 2; day <= 8; day++ { // 7 consecutive days, retail cap is 6
		shifts = append(shifts, emp.shift(day, "09:00", "13:00"))
	}

	issues, err := rule.Evaluate(shifts, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].ActualValue != 7 || issues[0].ExpectedValue != 6 {
		t.Fatalf("expected 7 over cap 6, got %v/%v", issues[0].ActualValue, issues[0].ExpectedValue)
	}
	if issues[0].AffectedDates.Len() != 7 {
		t.Fatalf("expected 7 affected dates, got %d", issues[0].AffectedDates.Len())
	}
}

func TestConsecutiveDaysBrokenRunsPass(t *testing.T) {
	rule := ConsecutiveDaysRule{Params: award.NewParameterProvider()}
	emp := testEmployee("c", award.FullTime).withAward(award.ClerksPrivateSectorAward2020)
	// Mon-Wed plus Fri-Sun: two runs of three, under the clerks cap of 5.
	var shifts []*Shift
	for _, day := range []int{2, 3, 4, 6, 7, 8} {
		shifts = append(shifts, emp.shift(day, "09:00", "13:00"))
	}

	issues, err := rule.Evaluate(shifts, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %d", len(issues))
	}
}

func TestWeeklyHoursFullTimeOverCapIsInfo(t *testing.T) {
	rule := WeeklyHoursLimitRule{Params: award.NewParameterProvider()}
	emp := testEmployee("f", award.FullTime)
	var shifts []*Shift
	for day := 2; day <= 6; day++ { // Mon-Fri, 9h each = 45h
		shifts = append(shifts, emp.shift(day, "09:00", "18:00"))
	}

	issues, err := rule.Evaluate(shifts, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Severity != compliance.SeverityInfo {
		t.Fatalf("rostered overtime should be Info, got %s", issues[0].Severity)
	}
	if issues[0].ActualValue != 45 || issues[0].ExpectedValue != 38 {
		t.Fatalf("expected 45 over 38, got %v/%v", issues[0].ActualValue, issues[0].ExpectedValue)
	}
}

func TestWeeklyHoursCasualHasNoCap(t *testing.T) {
	rule := WeeklyHoursLimitRule{Params: award.NewParameterProvider()}
	emp := testEmployee("c", award.Casual)
	var shifts []*Shift
	for day := 2; day <= 7; day++ {
		shifts = append(shifts, emp.shift(day, "08:00", "18:00"))
	}

	issues, err := rule.Evaluate(shifts, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues for casual, got %d", len(issues))
	}
}

func TestWeeklyHoursPartTimeMissingGuaranteedHours(t *testing.T) {
	rule := WeeklyHoursLimitRule{Params: award.NewParameterProvider()}
	shifts := []*Shift{testEmployee("p", award.PartTime).shift(2, "09:00", "17:00")}

	issues, err := rule.Evaluate(shifts, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].CheckType != CheckDataQuality {
		t.Fatalf("missing guaranteed hours is a data quality issue, got %s", issues[0].CheckType)
	}
	if issues[0].Severity != compliance.SeverityWarning {
		t.Fatalf("expected Warning, got %s", issues[0].Severity)
	}
}

func TestWeeklyHoursPartTimeOverGuaranteed(t *testing.T) {
	rule := WeeklyHoursLimitRule{Params: award.NewParameterProvider()}
	emp := testEmployee("p", award.PartTime).withGuaranteedHours(20)
	var shifts []*Shift
	for day := 2; day <= 4; day++ { // 24h against 20 guaranteed
		shifts = append(shifts, emp.shift(day, "09:00", "17:00"))
	}

	issues, err := rule.Evaluate(shifts, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].CheckType != CheckWeeklyHoursLimit || issues[0].Severity != compliance.SeverityWarning {
		t.Fatalf("expected WeeklyHoursLimit warning, got %s %s", issues[0].CheckType, issues[0].Severity)
	}
	if issues[0].ActualValue != 24 || issues[0].ExpectedValue != 20 {
		t.Fatalf("expected 24 over 20, got %v/%v", issues[0].ActualValue, issues[0].ExpectedValue)
	}
}

func TestDataQualityReportsUnloadedEmployeeOnce(t *testing.T) {
	rule := DataQualityRule{}
	first := testEmployee("x", award.FullTime).shift(2, "09:00", "17:00")
	second := testEmployee("x", award.FullTime).shift(3, "09:00", "17:00")
	first.Employee = nil
	second.Employee = nil

	issues, err := rule.Evaluate([]*Shift{first, second}, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue per employee, got %d", len(issues))
	}
	if issues[0].Severity != compliance.SeverityError {
		t.Fatalf("expected Error, got %s", issues[0].Severity)
	}
}

func TestDataQualityFlagsBreaksExceedingShift(t *testing.T) {
	rule := DataQualityRule{}
	shift := testEmployee("x", award.FullTime).shift(2, "09:00", "11:00")
	shift.HasMealBreak = true
	shift.MealBreakMinutes = 180

	issues, err := rule.Evaluate([]*Shift{shift}, "v-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Severity != compliance.SeverityWarning {
		t.Fatalf("expected Warning, got %s", issues[0].Severity)
	}
}
