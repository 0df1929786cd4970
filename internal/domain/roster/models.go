package roster

import (
	"time"

	"fairworkly/internal/domain/compliance"
	"fairworkly/internal/domain/employee"
)

// CheckType tags a roster issue with the rule that produced it.
// Persisted as-is; additive-only.
type CheckType string

const (
	CheckDataQuality        CheckType = "DataQuality"
	CheckMinimumShiftHours  CheckType = "MinimumShiftHours"
	CheckMealBreak          CheckType = "MealBreak"
	CheckRestPeriod         CheckType = "RestPeriodBetweenShifts"
	CheckWeeklyHoursLimit   CheckType = "WeeklyHoursLimit"
	CheckMaxConsecutiveDays CheckType = "MaximumConsecutiveDays"
)

// Roster is one imported week of shifts for an organization.
type Roster struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	WeekStartDate  time.Time `json:"weekStartDate"`
	WeekEndDate    time.Time `json:"weekEndDate"`
	TotalShifts    int       `json:"totalShifts"`
	TotalHours     float64   `json:"totalHours"`
	TotalEmployees int       `json:"totalEmployees"`
	FileName       string    `json:"fileName"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Shift is one scheduled work period. Date is the local calendar day;
// an overnight shift is represented by EndTime < StartTime and ends on
// the next day. Employee is attached when loaded for validation and
// may be nil when the roster referenced an unknown employee.
type Shift struct {
	ID                string    `json:"id"`
	OrganizationID    string    `json:"organizationId"`
	RosterID          string    `json:"rosterId"`
	EmployeeID        string    `json:"employeeId"`
	Date              time.Time `json:"date"`
	StartTime         string    `json:"startTime"` // HH:MM
	EndTime           string    `json:"endTime"`
	HasMealBreak      bool      `json:"hasMealBreak"`
	MealBreakMinutes  int       `json:"mealBreakMinutes"`
	HasRestBreaks     bool      `json:"hasRestBreaks"`
	RestBreaksMinutes int       `json:"restBreaksMinutes"`
	IsPublicHoliday   bool      `json:"isPublicHoliday"`
	Location          string    `json:"location,omitempty"`
	Notes             string    `json:"notes,omitempty"`

	Employee *employee.Employee `json:"-"`
}

// StartDateTime combines the shift date with its start time.
func (s *Shift) StartDateTime() time.Time {
	return combine(s.Date, s.StartTime)
}

// EndDateTime handles overnight shifts by rolling to the next day.
func (s *Shift) EndDateTime() time.Time {
	end := combine(s.Date, s.EndTime)
	if !end.After(s.StartDateTime()) && s.EndTime != s.StartTime {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

// Duration is the shift length in hours, breaks included.
func (s *Shift) Duration() float64 {
	return s.EndDateTime().Sub(s.StartDateTime()).Hours()
}

// NetHours is the worked time excluding breaks, floored at zero.
func (s *Shift) NetHours() float64 {
	net := s.Duration() - float64(s.TotalBreakMinutes())/60
	if net < 0 {
		return 0
	}
	return net
}

func (s *Shift) TotalBreakMinutes() int {
	return s.MealBreakMinutes + s.RestBreaksMinutes
}

func combine(date time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

// Issue is one detected roster compliance deviation.
type Issue struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organizationId"`
	ValidationID   string              `json:"validationId"`
	ShiftID        string              `json:"shiftId,omitempty"`
	EmployeeID     string              `json:"employeeId"`
	CheckType      CheckType           `json:"checkType"`
	Severity       compliance.Severity `json:"severity"`
	Description    string              `json:"description"`
	ExpectedValue  float64             `json:"expectedValue"`
	ActualValue    float64             `json:"actualValue"`
	AffectedDates  AffectedDateSet     `json:"affectedDates"`
	AffectedShifts int                 `json:"affectedShifts"`
}

type Validation struct {
	ID                 string                      `json:"id"`
	OrganizationID     string                      `json:"organizationId"`
	RosterID           string                      `json:"rosterId"`
	Status             compliance.ValidationStatus `json:"status"`
	Notes              string                      `json:"notes,omitempty"`
	ExecutedCheckTypes ExecutedCheckTypeSet        `json:"executedCheckTypes"`
	WeekStartDate      time.Time                   `json:"weekStartDate"`
	WeekEndDate        time.Time                   `json:"weekEndDate"`
	TotalShifts        int                         `json:"totalShifts"`
	PassedShifts       int                         `json:"passedShifts"`
	FailedShifts       int                         `json:"failedShifts"`
	TotalIssues        int                         `json:"totalIssues"`
	FailingIssues      int                         `json:"failingIssues"`
	AffectedEmployees  int                         `json:"affectedEmployees"`
	StartedAt          time.Time                   `json:"startedAt"`
	CompletedAt        *time.Time                  `json:"completedAt,omitempty"`
}

// Result is the validation outcome returned to callers once a batch is
// terminal.
type Result struct {
	ValidationID       string         `json:"validationId"`
	RosterID           string         `json:"rosterId"`
	Status             string         `json:"status"`
	ExecutedCheckTypes []string       `json:"executedCheckTypes"`
	WeekStartDate      string         `json:"weekStartDate"`
	WeekEndDate        string         `json:"weekEndDate"`
	TotalShifts        int            `json:"totalShifts"`
	PassedShifts       int            `json:"passedShifts"`
	FailedShifts       int            `json:"failedShifts"`
	TotalIssues        int            `json:"totalIssues"`
	FailingIssues      int            `json:"failingIssues"`
	AffectedEmployees  int            `json:"affectedEmployees"`
	ValidatedAt        *time.Time     `json:"validatedAt,omitempty"`
	Issues             []ResultIssue  `json:"issues"`
}

type ResultIssue struct {
	ID             string  `json:"id"`
	ShiftID        string  `json:"shiftId,omitempty"`
	EmployeeID     string  `json:"employeeId"`
	EmployeeName   string  `json:"employeeName,omitempty"`
	EmployeeNumber string  `json:"employeeNumber,omitempty"`
	CheckType      string  `json:"checkType"`
	Severity       string  `json:"severity"`
	Description    string  `json:"description"`
	ExpectedValue  float64 `json:"expectedValue"`
	ActualValue    float64 `json:"actualValue"`
	AffectedDates  string  `json:"affectedDates,omitempty"`
}

// UploadSummary is returned from a roster import before validation runs.
type UploadSummary struct {
	RosterID       string   `json:"rosterId"`
	WeekStartDate  string   `json:"weekStartDate"`
	WeekEndDate    string   `json:"weekEndDate"`
	TotalShifts    int      `json:"totalShifts"`
	TotalHours     float64  `json:"totalHours"`
	TotalEmployees int      `json:"totalEmployees"`
	Warnings       []string `json:"warnings,omitempty"`
}
