package payroll

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fairworkly/internal/domain/award"
)

const dateLayout = "2006-01-02"

// Required columns, in order. The header row must name them exactly.
var requiredColumns = []string{
	"Employee ID",
	"Employee Name",
	"Pay Period Start",
	"Pay Period End",
	"Award Type",
	"Classification",
	"Employment Type",
	"Hourly Rate",
	"Ordinary Hours",
	"Ordinary Pay",
	"Gross Pay",
	"Superannuation Paid",
}

// Optional columns may appear in any order after the required ones and
// default to zero when absent.
var optionalColumns = map[string]bool{
	"Saturday Hours":       true,
	"Saturday Pay":         true,
	"Sunday Hours":         true,
	"Sunday Pay":           true,
	"Public Holiday Hours": true,
	"Public Holiday Pay":   true,
}

// Validator turns parsed CSV field arrays into typed payroll rows. It
// runs three stages: header shape, file-global consistency, then
// field-level checks per row. A bad row records its errors and is
// excluded; the remaining rows keep processing.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(rows [][]string, awardType award.Type) ([]ValidatedRow, []RowError) {
	if headerErrors := validateHeader(rows[0]); len(headerErrors) > 0 {
		return nil, headerErrors
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[name] = i
	}

	periodStart, periodEnd, globalErrors := validateGlobal(rows, columns)
	if len(globalErrors) > 0 {
		return nil, globalErrors
	}

	var (
		validRows []ValidatedRow
		rowErrors []RowError
	)
	for i := 1; i < len(rows); i++ {
		rowNumber := i + 1
		validated, errs := validateRow(rows[i], rowNumber, columns, awardType, periodStart, periodEnd)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		validRows = append(validRows, validated)
	}

	return validRows, rowErrors
}

func validateHeader(header []string) []RowError {
	if len(header) < len(requiredColumns) {
		return []RowError{{
			RowNumber: 1,
			Field:     "Header",
			Message:   fmt.Sprintf("Expected at least %d columns, found %d", len(requiredColumns), len(header)),
		}}
	}

	var errors []RowError
	for i, expected := range requiredColumns {
		if header[i] != expected {
			errors = append(errors, RowError{
				RowNumber: 1,
				Field:     "Header",
				Message:   fmt.Sprintf("Column %d: expected %q, found %q", i+1, expected, header[i]),
			})
		}
	}

	seen := make(map[string]bool)
	for i := len(requiredColumns); i < len(header); i++ {
		name := header[i]
		if !optionalColumns[name] {
			errors = append(errors, RowError{
				RowNumber: 1,
				Field:     "Header",
				Message:   fmt.Sprintf("Column %d: unexpected column %q", i+1, name),
			})
			continue
		}
		if seen[name] {
			errors = append(errors, RowError{
				RowNumber: 1,
				Field:     "Header",
				Message:   fmt.Sprintf("Column %d: duplicate column %q", i+1, name),
			})
		}
		seen[name] = true
	}

	return errors
}

func validateGlobal(rows [][]string, columns map[string]int) (time.Time, time.Time, []RowError) {
	var errors []RowError

	if len(rows) < 2 {
		return time.Time{}, time.Time{}, []RowError{{
			RowNumber: 0,
			Field:     "File",
			Message:   "CSV file has no data rows",
		}}
	}

	startCol := columns["Pay Period Start"]
	endCol := columns["Pay Period End"]
	firstStart := fieldAt(rows[1], startCol)
	firstEnd := fieldAt(rows[1], endCol)

	consistent := true
	for i := 2; i < len(rows); i++ {
		if fieldAt(rows[i], startCol) != firstStart || fieldAt(rows[i], endCol) != firstEnd {
			consistent = false
			break
		}
	}
	if !consistent {
		errors = append(errors, RowError{
			RowNumber: 0,
			Field:     "Pay Period",
			Message:   "Pay Period must be the same for all rows",
		})
	}

	periodStart, errStart := time.Parse(dateLayout, firstStart)
	periodEnd, errEnd := time.Parse(dateLayout, firstEnd)
	if errStart != nil || errEnd != nil {
		errors = append(errors, RowError{
			RowNumber: 0,
			Field:     "Pay Period",
			Message:   fmt.Sprintf("Invalid Pay Period format: expected YYYY-MM-DD, found %q to %q", firstStart, firstEnd),
		})
	} else if periodStart.After(periodEnd) {
		errors = append(errors, RowError{
			RowNumber: 0,
			Field:     "Pay Period",
			Message:   "Invalid Pay Period. Start date must be on or before end date",
		})
	}

	idCol := columns["Employee ID"]
	seen := make(map[string]bool)
	reported := make(map[string]bool)
	for i := 1; i < len(rows); i++ {
		id := fieldAt(rows[i], idCol)
		if id == "" {
			continue
		}
		if seen[id] && !reported[id] {
			reported[id] = true
			errors = append(errors, RowError{
				RowNumber: 0,
				Field:     "Employee ID",
				Message:   fmt.Sprintf("Duplicate Employee ID: %s", id),
			})
		}
		seen[id] = true
	}

	return periodStart, periodEnd, errors
}

func validateRow(row []string, rowNumber int, columns map[string]int, awardType award.Type, periodStart, periodEnd time.Time) (ValidatedRow, []RowError) {
	var errors []RowError
	fail := func(field, message string) {
		errors = append(errors, RowError{RowNumber: rowNumber, Field: field, Message: message})
	}
	field := func(name string) string {
		col, ok := columns[name]
		if !ok {
			return ""
		}
		return fieldAt(row, col)
	}

	validated := ValidatedRow{
		PayPeriodStart: periodStart,
		PayPeriodEnd:   periodEnd,
	}

	validated.EmployeeID = field("Employee ID")
	if validated.EmployeeID == "" {
		fail("Employee ID", "Employee ID is required")
	}

	name := field("Employee Name")
	if name == "" {
		fail("Employee Name", "Employee Name is required")
	} else {
		validated.FirstName, validated.LastName = splitName(name)
	}

	if parsed, ok := award.ParseType(field("Award Type")); !ok || parsed != awardType {
		fail("Award Type", fmt.Sprintf("Award Type is required and must be %q", awardType.ShortName()))
	} else {
		validated.AwardType = parsed
	}

	validated.Classification = field("Classification")
	if award.ParseLevel(validated.Classification) == 0 {
		fail("Classification", `Classification is required in "Level N" format`)
	}

	if parsed, ok := award.ParseEmploymentType(field("Employment Type")); !ok {
		fail("Employment Type", "Employment Type is required (FullTime, PartTime, Casual or FixedTerm)")
	} else {
		validated.EmploymentType = parsed
	}

	if rate, err := strconv.ParseFloat(field("Hourly Rate"), 64); err != nil || rate <= 0 {
		fail("Hourly Rate", "Hourly Rate must be a positive number")
	} else {
		validated.HourlyRate = rate
	}

	validated.OrdinaryHours = parseHours(field("Ordinary Hours"), "Ordinary Hours", fail)
	validated.OrdinaryPay = parseAmount(field("Ordinary Pay"), "Ordinary Pay", fail)
	validated.GrossPay = parseAmount(field("Gross Pay"), "Gross Pay", fail)
	validated.SuperannuationPaid = parseAmount(field("Superannuation Paid"), "Superannuation Paid", fail)

	validated.SaturdayHours = parseOptionalHours(field("Saturday Hours"), "Saturday Hours", fail)
	validated.SaturdayPay = parseOptionalPay(field("Saturday Pay"), "Saturday", validated.SaturdayHours, fail)
	validated.SundayHours = parseOptionalHours(field("Sunday Hours"), "Sunday Hours", fail)
	validated.SundayPay = parseOptionalPay(field("Sunday Pay"), "Sunday", validated.SundayHours, fail)
	validated.PublicHolidayHours = parseOptionalHours(field("Public Holiday Hours"), "Public Holiday Hours", fail)
	validated.PublicHolidayPay = parseOptionalPay(field("Public Holiday Pay"), "Public Holiday", validated.PublicHolidayHours, fail)

	if len(errors) > 0 {
		return ValidatedRow{}, errors
	}
	return validated, nil
}

// Employee Name splits on the first space; a single token leaves the
// last name empty.
func splitName(name string) (string, string) {
	first, last, found := strings.Cut(name, " ")
	if !found {
		return name, ""
	}
	return strings.TrimSpace(first), strings.TrimSpace(last)
}

func parseHours(value, fieldName string, fail func(field, message string)) float64 {
	hours, err := strconv.ParseFloat(value, 64)
	if err != nil || hours < 0 {
		fail(fieldName, fieldName+" must be a number >= 0")
		return 0
	}
	return hours
}

// Pay amounts must parse but may be negative: payroll systems export
// corrections and reversals as negative entries, which the rules flag
// rather than the validator.
func parseAmount(value, fieldName string, fail func(field, message string)) float64 {
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		fail(fieldName, fieldName+" must be a number")
		return 0
	}
	return amount
}

func parseOptionalHours(value, fieldName string, fail func(field, message string)) float64 {
	if value == "" {
		return 0
	}
	return parseHours(value, fieldName, fail)
}

func parseOptionalPay(value, dayName string, hours float64, fail func(field, message string)) float64 {
	if value == "" {
		if hours > 0 {
			fail(dayName+" Pay", fmt.Sprintf("%s Pay is required when %s Hours > 0", dayName, dayName))
		}
		return 0
	}
	return parseAmount(value, dayName+" Pay", fail)
}

func fieldAt(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
