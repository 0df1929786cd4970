package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/compliance"
)

// Rule is one roster compliance check over a batch of shifts. Data
// anomalies become issues; an error return is reserved for
// configuration faults like an unregistered award.
type Rule interface {
	CheckType() CheckType
	Evaluate(shifts []*Shift, validationID string) ([]Issue, error)
}

// DataQualityRule flags shifts whose employee record could not be
// loaded (those employees are invisible to the other rules) and break
// totals that exceed the shift itself.
type DataQualityRule struct{}

func (DataQualityRule) CheckType() CheckType { return CheckDataQuality }

func (DataQualityRule) Evaluate(shifts []*Shift, validationID string) ([]Issue, error) {
	var issues []Issue
	reported := make(map[string]bool)

	for _, shift := range shifts {
		if shift.Employee == nil {
			if reported[shift.EmployeeID] {
				continue
			}
			reported[shift.EmployeeID] = true
			issues = append(issues, Issue{
				ID:             uuid.NewString(),
				OrganizationID: shift.OrganizationID,
				ValidationID:   validationID,
				ShiftID:        shift.ID,
				EmployeeID:     shift.EmployeeID,
				CheckType:      CheckDataQuality,
				Severity:       compliance.SeverityError,
				Description:    "Employee data not loaded - compliance rules cannot be evaluated for this employee",
			})
			continue
		}

		breakMinutes := shift.TotalBreakMinutes()
		if breakMinutes <= 0 {
			continue
		}
		shiftMinutes := shift.Duration() * 60
		if shiftMinutes <= 0 || float64(breakMinutes) <= shiftMinutes {
			continue
		}
		issues = append(issues, Issue{
			ID:             uuid.NewString(),
			OrganizationID: shift.OrganizationID,
			ValidationID:   validationID,
			ShiftID:        shift.ID,
			EmployeeID:     shift.EmployeeID,
			CheckType:      CheckDataQuality,
			Severity:       compliance.SeverityWarning,
			Description:    fmt.Sprintf("Total break minutes %d exceed shift duration minutes %.0f", breakMinutes, shiftMinutes),
			ExpectedValue:  shiftMinutes,
			ActualValue:    float64(breakMinutes),
		})
	}

	return issues, nil
}

// MinimumShiftHoursRule checks each shift against the award minimum
// for the employee's employment type.
type MinimumShiftHoursRule struct {
	Params *award.ParameterProvider
}

func (MinimumShiftHoursRule) CheckType() CheckType { return CheckMinimumShiftHours }

func (r MinimumShiftHoursRule) Evaluate(shifts []*Shift, validationID string) ([]Issue, error) {
	var issues []Issue
	for _, shift := range shifts {
		if shift.Employee == nil {
			continue
		}
		params, err := r.Params.Get(shift.Employee.AwardType)
		if err != nil {
			return nil, err
		}
		minHours := params.MinShiftHours(shift.Employee.EmploymentType)
		duration := shift.Duration()
		if duration >= minHours {
			continue
		}
		issues = append(issues, Issue{
			ID:             uuid.NewString(),
			OrganizationID: shift.OrganizationID,
			ValidationID:   validationID,
			ShiftID:        shift.ID,
			EmployeeID:     shift.EmployeeID,
			CheckType:      CheckMinimumShiftHours,
			Severity:       compliance.SeverityError,
			Description:    fmt.Sprintf("Shift only %.2f hours, minimum is %.2f hours", duration, minHours),
			ExpectedValue:  minHours,
			ActualValue:    duration,
		})
	}
	return issues, nil
}

// MealBreakRule checks that shifts over the award threshold carry a
// sufficient meal break.
type MealBreakRule struct {
	Params *award.ParameterProvider
}

func (MealBreakRule) CheckType() CheckType { return CheckMealBreak }

func (r MealBreakRule) Evaluate(shifts []*Shift, validationID string) ([]Issue, error) {
	var issues []Issue
	for _, shift := range shifts {
		if shift.Employee == nil {
			continue
		}
		params, err := r.Params.Get(shift.Employee.AwardType)
		if err != nil {
			return nil, err
		}
		required := params.RequiredMealBreakMinutes(shift.Duration())
		if required <= 0 {
			continue
		}

		if !shift.HasMealBreak {
			issues = append(issues, Issue{
				ID:             uuid.NewString(),
				OrganizationID: shift.OrganizationID,
				ValidationID:   validationID,
				ShiftID:        shift.ID,
				EmployeeID:     shift.EmployeeID,
				CheckType:      CheckMealBreak,
				Severity:       compliance.SeverityError,
				Description:    fmt.Sprintf("No meal break provided for %.2f hour shift", shift.Duration()),
				ExpectedValue:  float64(required),
				ActualValue:    0,
			})
			continue
		}

		if shift.MealBreakMinutes < required {
			issues = append(issues, Issue{
				ID:             uuid.NewString(),
				OrganizationID: shift.OrganizationID,
				ValidationID:   validationID,
				ShiftID:        shift.ID,
				EmployeeID:     shift.EmployeeID,
				CheckType:      CheckMealBreak,
				Severity:       compliance.SeverityError,
				Description:    fmt.Sprintf("Meal break only %d minutes, required %d minutes", shift.MealBreakMinutes, required),
				ExpectedValue:  float64(required),
				ActualValue:    float64(shift.MealBreakMinutes),
			})
		}
	}
	return issues, nil
}

// RestPeriodRule checks the gap between an employee's consecutive
// shifts. A gap below the reduced threshold is an Error; a gap between
// reduced and standard is a Warning. The reported minimum is the tier
// floor that was violated.
type RestPeriodRule struct {
	Params *award.ParameterProvider
}

func (RestPeriodRule) CheckType() CheckType { return CheckRestPeriod }

func (r RestPeriodRule) Evaluate(shifts []*Shift, validationID string) ([]Issue, error) {
	var issues []Issue
	for _, employeeShifts := range groupByEmployee(shifts) {
		if employeeShifts[0].Employee == nil {
			continue
		}
		params, err := r.Params.Get(employeeShifts[0].Employee.AwardType)
		if err != nil {
			return nil, err
		}

		sort.Slice(employeeShifts, func(i, j int) bool {
			return employeeShifts[i].StartDateTime().Before(employeeShifts[j].StartDateTime())
		})

		for i := 0; i < len(employeeShifts)-1; i++ {
			current := employeeShifts[i]
			next := employeeShifts[i+1]
			restHours := next.StartDateTime().Sub(current.EndDateTime()).Hours()
			if restHours >= float64(params.StandardRestPeriodHours) {
				continue
			}

			severity := compliance.SeverityWarning
			minimum := params.StandardRestPeriodHours
			if restHours < float64(params.ReducedRestPeriodHours) {
				severity = compliance.SeverityError
				minimum = params.ReducedRestPeriodHours
			}

			issues = append(issues, Issue{
				ID:             uuid.NewString(),
				OrganizationID: current.OrganizationID,
				ValidationID:   validationID,
				EmployeeID:     current.EmployeeID,
				CheckType:      CheckRestPeriod,
				Severity:       severity,
				Description:    fmt.Sprintf("Only %.2f hours rest between shifts, minimum is %d hours", restHours, minimum),
				ExpectedValue:  float64(minimum),
				ActualValue:    restHours,
				AffectedDates:  NewAffectedDateSet(current.Date, next.Date),
				AffectedShifts: 2,
			})
		}
	}
	return issues, nil
}

// WeeklyHoursLimitRule sums net hours per Monday-start week. Casuals
// have no cap. Part-time compares against GuaranteedHours (missing
// hours become a data quality warning); full-time and fixed-term
// compare against the award cap at Info severity (rostered overtime).
type WeeklyHoursLimitRule struct {
	Params *award.ParameterProvider
}

func (WeeklyHoursLimitRule) CheckType() CheckType { return CheckWeeklyHoursLimit }

func (r WeeklyHoursLimitRule) Evaluate(shifts []*Shift, validationID string) ([]Issue, error) {
	var issues []Issue
	for _, employeeShifts := range groupByEmployee(shifts) {
		emp := employeeShifts[0].Employee
		if emp == nil {
			continue
		}
		if emp.EmploymentType == award.Casual {
			continue
		}
		params, err := r.Params.Get(emp.AwardType)
		if err != nil {
			return nil, err
		}

		weeks := make(map[time.Time][]*Shift)
		for _, shift := range employeeShifts {
			week := weekStart(shift.Date)
			weeks[week] = append(weeks[week], shift)
		}

		for _, weekShifts := range weeks {
			var totalHours float64
			dates := make([]time.Time, 0, len(weekShifts))
			for _, shift := range weekShifts {
				totalHours += shift.NetHours()
				dates = append(dates, shift.Date)
			}

			if emp.EmploymentType == award.PartTime {
				if emp.GuaranteedHours == nil || *emp.GuaranteedHours <= 0 {
					issues = append(issues, Issue{
						ID:             uuid.NewString(),
						OrganizationID: weekShifts[0].OrganizationID,
						ValidationID:   validationID,
						EmployeeID:     emp.ID,
						CheckType:      CheckDataQuality,
						Severity:       compliance.SeverityWarning,
						Description:    "Part-time employee missing GuaranteedHours - weekly hours limit cannot be validated",
						AffectedDates:  NewAffectedDateSet(dates...),
						AffectedShifts: len(weekShifts),
					})
					continue
				}
				threshold := *emp.GuaranteedHours
				if totalHours > threshold {
					issues = append(issues, Issue{
						ID:             uuid.NewString(),
						OrganizationID: weekShifts[0].OrganizationID,
						ValidationID:   validationID,
						EmployeeID:     emp.ID,
						CheckType:      CheckWeeklyHoursLimit,
						Severity:       compliance.SeverityWarning,
						Description:    fmt.Sprintf("Total weekly hours %.2f exceed guaranteed %.0f hours", totalHours, threshold),
						ExpectedValue:  threshold,
						ActualValue:    totalHours,
						AffectedDates:  NewAffectedDateSet(dates...),
						AffectedShifts: len(weekShifts),
					})
				}
				continue
			}

			threshold := params.WeeklyHoursLimit
			if totalHours > threshold {
				issues = append(issues, Issue{
					ID:             uuid.NewString(),
					OrganizationID: weekShifts[0].OrganizationID,
					ValidationID:   validationID,
					EmployeeID:     emp.ID,
					CheckType:      CheckWeeklyHoursLimit,
					Severity:       compliance.SeverityInfo,
					Description:    fmt.Sprintf("Total weekly hours %.2f exceed %.0f hour limit", totalHours, threshold),
					ExpectedValue:  threshold,
					ActualValue:    totalHours,
					AffectedDates:  NewAffectedDateSet(dates...),
					AffectedShifts: len(weekShifts),
				})
			}
		}
	}
	return issues, nil
}

// ConsecutiveDaysRule finds runs of calendar-consecutive worked days
// per employee and flags each run longer than the award cap.
type ConsecutiveDaysRule struct {
	Params *award.ParameterProvider
}

func (ConsecutiveDaysRule) CheckType() CheckType { return CheckMaxConsecutiveDays }

func (r ConsecutiveDaysRule) Evaluate(shifts []*Shift, validationID string) ([]Issue, error) {
	var issues []Issue
	for _, employeeShifts := range groupByEmployee(shifts) {
		emp := employeeShifts[0].Employee
		if emp == nil {
			continue
		}
		params, err := r.Params.Get(emp.AwardType)
		if err != nil {
			return nil, err
		}

		workDates := distinctSortedDates(employeeShifts)

		streakStart := 0
		for i := 1; i <= len(workDates); i++ {
			if i < len(workDates) && workDates[i].Equal(workDates[i-1].AddDate(0, 0, 1)) {
				continue
			}

			streak := workDates[streakStart:i]
			if len(streak) > params.MaxConsecutiveDays {
				issues = append(issues, Issue{
					ID:             uuid.NewString(),
					OrganizationID: employeeShifts[0].OrganizationID,
					ValidationID:   validationID,
					EmployeeID:     emp.ID,
					CheckType:      CheckMaxConsecutiveDays,
					Severity:       compliance.SeverityWarning,
					Description:    fmt.Sprintf("Worked %d consecutive days, maximum is %d", len(streak), params.MaxConsecutiveDays),
					ExpectedValue:  float64(params.MaxConsecutiveDays),
					ActualValue:    float64(len(streak)),
					AffectedDates:  NewAffectedDateSet(streak...),
					AffectedShifts: len(streak),
				})
			}
			streakStart = i
		}
	}
	return issues, nil
}

// groupByEmployee preserves a deterministic iteration order by sorting
// employee keys.
func groupByEmployee(shifts []*Shift) [][]*Shift {
	byEmployee := make(map[string][]*Shift)
	for _, shift := range shifts {
		byEmployee[shift.EmployeeID] = append(byEmployee[shift.EmployeeID], shift)
	}
	keys := make([]string, 0, len(byEmployee))
	for key := range byEmployee {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([][]*Shift, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, byEmployee[key])
	}
	return groups
}

func distinctSortedDates(shifts []*Shift) []time.Time {
	seen := make(map[string]bool, len(shifts))
	var dates []time.Time
	for _, shift := range shifts {
		day := time.Date(shift.Date.Year(), shift.Date.Month(), shift.Date.Day(), 0, 0, 0, 0, time.UTC)
		key := day.Format(dateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// weekStart buckets a date to its Monday.
func weekStart(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	diff := (int(day.Weekday()) - int(time.Monday) + 7) % 7
	return day.AddDate(0, 0, -diff)
}
