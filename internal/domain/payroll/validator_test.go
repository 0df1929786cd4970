package payroll

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fairworkly/internal/domain/award"
)

var testHeader = []string{
	"Employee ID", "Employee Name", "Pay Period Start", "Pay Period End",
	"Award Type", "Classification", "Employment Type", "Hourly Rate",
	"Ordinary Hours", "Ordinary Pay", "Gross Pay", "Superannuation Paid",
}

func testRow(overrides map[string]string) []string {
	values := map[string]string{
		"Employee ID":         "EMP001",
		"Employee Name":       "Alex Chen",
		"Pay Period Start":    "2026-06-01",
		"Pay Period End":      "2026-06-07",
		"Award Type":          "Retail",
		"Classification":      "Level 1",
		"Employment Type":     "FullTime",
		"Hourly Rate":         "27.00",
		"Ordinary Hours":      "38",
		"Ordinary Pay":        "1026.00",
		"Gross Pay":           "1026.00",
		"Superannuation Paid": "123.12",
	}
	for key, value := range overrides {
		values[key] = value
	}
	row := make([]string, len(testHeader))
	for i, name := range testHeader {
		row[i] = values[name]
	}
	return row
}

func TestValidateCleanFile(t *testing.T) {
	rows := [][]string{testHeader, testRow(nil)}

	validated, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 0 {
		t.Fatalf("expected no errors, got %+v", rowErrors)
	}
	if len(validated) != 1 {
		t.Fatalf("expected 1 row, got %d", len(validated))
	}
	row := validated[0]
	if row.FirstName != "Alex" || row.LastName != "Chen" {
		t.Fatalf("name split wrong: %q %q", row.FirstName, row.LastName)
	}
	if row.EmploymentType != award.FullTime {
		t.Fatalf("expected FullTime, got %s", row.EmploymentType)
	}
	if row.PayPeriodStart.Format("2006-01-02") != "2026-06-01" {
		t.Fatalf("unexpected period start %v", row.PayPeriodStart)
	}
}

func TestValidateHeaderWrongColumn(t *testing.T) {
	header := make([]string, len(testHeader))
	copy(header, testHeader)
	header[1] = "Full Name"
	rows := [][]string{header, testRow(nil)}

	_, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 error, got %+v", rowErrors)
	}
	if rowErrors[0].Field != "Header" || rowErrors[0].RowNumber != 1 {
		t.Fatalf("unexpected error %+v", rowErrors[0])
	}
	if want := `Column 2: expected "Employee Name", found "Full Name"`; rowErrors[0].Message != want {
		t.Fatalf("expected %q, got %q", want, rowErrors[0].Message)
	}
}

func TestValidateHeaderTooFewColumns(t *testing.T) {
	rows := [][]string{testHeader[:5]}

	_, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 error, got %+v", rowErrors)
	}
	if want := "Expected at least 12 columns, found 5"; rowErrors[0].Message != want {
		t.Fatalf("expected %q, got %q", want, rowErrors[0].Message)
	}
}

func TestValidateHeaderUnexpectedExtraColumn(t *testing.T) {
	header := append(append([]string{}, testHeader...), "Bonus Pay")
	rows := [][]string{header, append(testRow(nil), "50")}

	_, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 error, got %+v", rowErrors)
	}
	if want := `Column 13: unexpected column "Bonus Pay"`; rowErrors[0].Message != want {
		t.Fatalf("expected %q, got %q", want, rowErrors[0].Message)
	}
}

func TestValidateOptionalColumnsAnyOrder(t *testing.T) {
	header := append(append([]string{}, testHeader...), "Sunday Hours", "Sunday Pay", "Saturday Hours", "Saturday Pay")
	row := append(testRow(nil), "4", "185.85", "8", "265.50")
	rows := [][]string{header, row}

	validated, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 0 {
		t.Fatalf("expected no errors, got %+v", rowErrors)
	}
	if validated[0].SundayHours != 4 || validated[0].SaturdayHours != 8 {
		t.Fatalf("optional columns misread: %+v", validated[0])
	}
}

func TestValidateNoDataRows(t *testing.T) {
	rows := [][]string{testHeader}

	_, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 error, got %+v", rowErrors)
	}
	if rowErrors[0].Message != "CSV file has no data rows" {
		t.Fatalf("unexpected message %q", rowErrors[0].Message)
	}
}

func TestValidateInconsistentPayPeriod(t *testing.T) {
	second := testRow(map[string]string{"Employee ID": "EMP002", "Pay Period End": "2026-06-14"})
	rows := [][]string{testHeader, testRow(nil), second}

	_, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 error, got %+v", rowErrors)
	}
	if rowErrors[0].Message != "Pay Period must be the same for all rows" {
		t.Fatalf("unexpected message %q", rowErrors[0].Message)
	}
}

func TestValidatePeriodStartAfterEnd(t *testing.T) {
	row := testRow(map[string]string{"Pay Period Start": "2026-06-08", "Pay Period End": "2026-06-07"})
	rows := [][]string{testHeader, row}

	_, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 error, got %+v", rowErrors)
	}
	if rowErrors[0].Message != "Invalid Pay Period. Start date must be on or before end date" {
		t.Fatalf("unexpected message %q", rowErrors[0].Message)
	}
}

func TestValidateDuplicateEmployeeID(t *testing.T) {
	rows := [][]string{testHeader, testRow(nil), testRow(nil)}

	_, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 error, got %+v", rowErrors)
	}
	if rowErrors[0].Message != "Duplicate Employee ID: EMP001" {
		t.Fatalf("unexpected message %q", rowErrors[0].Message)
	}
}

func TestValidateBadRowIsIsolated(t *testing.T) {
	bad := testRow(map[string]string{"Employee ID": "EMP002", "Hourly Rate": "free"})
	good := testRow(map[string]string{"Employee ID": "EMP003"})
	rows := [][]string{testHeader, testRow(nil), bad, good}

	validated, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(validated) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(validated))
	}
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 error, got %+v", rowErrors)
	}
	if rowErrors[0].RowNumber != 3 || rowErrors[0].Field != "Hourly Rate" {
		t.Fatalf("unexpected error %+v", rowErrors[0])
	}
	if rowErrors[0].Message != "Hourly Rate must be a positive number" {
		t.Fatalf("unexpected message %q", rowErrors[0].Message)
	}
}

func TestValidateAwardMismatch(t *testing.T) {
	row := testRow(map[string]string{"Award Type": "Hospitality"})
	rows := [][]string{testHeader, row}

	_, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 error, got %+v", rowErrors)
	}
	if want := `Award Type is required and must be "Retail"`; rowErrors[0].Message != want {
		t.Fatalf("expected %q, got %q", want, rowErrors[0].Message)
	}
}

func TestValidateMissingPenaltyPay(t *testing.T) {
	header := append(append([]string{}, testHeader...), "Saturday Hours")
	row := append(testRow(nil), "8")
	rows := [][]string{header, row}

	_, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 error, got %+v", rowErrors)
	}
	if want := "Saturday Pay is required when Saturday Hours > 0"; rowErrors[0].Message != want {
		t.Fatalf("expected %q, got %q", want, rowErrors[0].Message)
	}
}

func TestValidateNegativePayAmountsAccepted(t *testing.T) {
	row := testRow(map[string]string{"Gross Pay": "-500.00", "Ordinary Pay": "-500.00", "Ordinary Hours": "0"})
	rows := [][]string{testHeader, row}

	validated, rowErrors := NewValidator().Validate(rows, award.GeneralRetailIndustryAward2020)
	if len(rowErrors) != 0 {
		t.Fatalf("expected no errors, got %+v", rowErrors)
	}
	if validated[0].GrossPay != -500 {
		t.Fatalf("expected -500, got %v", validated[0].GrossPay)
	}
}

func TestParseCSVEmptyFile(t *testing.T) {
	_, err := ParseCSV(context.Background(), strings.NewReader(""))
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestParseCSVUnreadableFile(t *testing.T) {
	_, err := ParseCSV(context.Background(), strings.NewReader("\"unterminated,quote\nEMP001,x\n"))
	if !errors.Is(err, ErrUnreadableFile) {
		t.Fatalf("expected ErrUnreadableFile, got %v", err)
	}
}

func TestParseCSVSkipsBlankRows(t *testing.T) {
	input := "Employee ID,Employee Name\nEMP001,Alex Chen\n,\n"
	rows, err := ParseCSV(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}
