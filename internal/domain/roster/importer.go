package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fairworkly/internal/domain/award"
)

var ErrUnreadableFile = errors.New("roster file is corrupted or cannot be parsed")

// ShiftEntry is one parsed roster row before employee matching.
type ShiftEntry struct {
	Row               int
	EmployeeNumber    string
	EmployeeEmail     string
	EmployeeName      string
	EmploymentType    award.EmploymentType
	Date              time.Time
	StartTime         string
	EndTime           string
	HasMealBreak      bool
	MealBreakMinutes  int
	HasRestBreaks     bool
	RestBreaksMinutes int
	IsPublicHoliday   bool
	Location          string
	Notes             string
}

// ImportIssue is one row-level problem found during import. Blocking
// issues exclude the row; warnings keep it.
type ImportIssue struct {
	Row      int    `json:"row"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Blocking bool   `json:"blocking"`
}

// Canonical column key -> accepted header spellings, matched after
// lowercasing and whitespace collapsing.
var headerAliases = map[string][]string{
	"employee_number":      {"employee number", "employee_number"},
	"employee_email":       {"employee email", "employee_email"},
	"employee_name":        {"employee name", "employee_name"},
	"employment_type":      {"employment type", "employment_type"},
	"date":                 {"date"},
	"start_time":           {"start time", "start_time"},
	"end_time":             {"end time", "end_time"},
	"is_overnight":         {"is overnight", "is_overnight"},
	"has_meal_break":       {"has meal break", "has_meal_break"},
	"meal_break_duration":  {"meal break duration", "meal_break_duration"},
	"has_rest_breaks":      {"has rest breaks", "has_rest_breaks"},
	"rest_breaks_duration": {"rest breaks duration", "rest_breaks_duration"},
	"is_public_holiday":    {"is public holiday", "is_public_holiday"},
	"public_holiday_name":  {"public holiday name", "public_holiday_name"},
	"is_on_call":           {"is on call", "is_on_call"},
	"location":             {"location"},
	"notes":                {"notes"},
}

var spaceRun = regexp.MustCompile(`\s+`)

func normalizeHeader(header string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(strings.ToLower(header), " "))
}

// Importer parses roster CSV and XLSX files into shift entries.
type Importer struct {
	aliasToCanonical map[string]string
}

func NewImporter() *Importer {
	mapping := make(map[string]string)
	for canonical, aliases := range headerAliases {
		for _, alias := range aliases {
			mapping[normalizeHeader(alias)] = canonical
		}
	}
	return &Importer{aliasToCanonical: mapping}
}

// Import dispatches on the file extension. CSV is the default for
// anything that is not .xlsx.
func (im *Importer) Import(fileName string, file io.Reader) ([]ShiftEntry, []ImportIssue, error) {
	if strings.HasSuffix(strings.ToLower(fileName), ".xlsx") {
		return im.importXLSX(file)
	}
	return im.importCSV(file)
}

func (im *Importer) importCSV(file io.Reader) ([]ShiftEntry, []ImportIssue, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		rows = append(rows, record)
	}
	return im.parseRows(rows)
}

func (im *Importer) importXLSX(file io.Reader) ([]ShiftEntry, []ImportIssue, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrUnreadableFile
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return im.parseRows(rows)
}

func (im *Importer) parseRows(rows [][]string) ([]ShiftEntry, []ImportIssue, error) {
	if len(rows) == 0 {
		return nil, nil, ErrUnreadableFile
	}

	columns := make(map[string]int)
	var issues []ImportIssue
	for i, header := range rows[0] {
		canonical, ok := im.aliasToCanonical[normalizeHeader(header)]
		if !ok {
			continue
		}
		if _, dup := columns[canonical]; dup {
			issues = append(issues, ImportIssue{
				Row: 1, Field: canonical, Blocking: false,
				Message: fmt.Sprintf("Multiple columns map to %q", canonical),
			})
			continue
		}
		columns[canonical] = i
	}
	for _, required := range []string{"employee_number", "date", "start_time", "end_time"} {
		if _, ok := columns[required]; !ok {
			issues = append(issues, ImportIssue{
				Row: 1, Field: required, Blocking: true,
				Message: fmt.Sprintf("Required column %q is missing", required),
			})
		}
	}
	if hasBlocking(issues) {
		return nil, issues, nil
	}

	var entries []ShiftEntry
	for i := 1; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		entry, rowIssues := im.parseRow(rows[i], i+1, columns)
		issues = append(issues, rowIssues...)
		if hasBlocking(rowIssues) {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, issues, nil
}

func (im *Importer) parseRow(row []string, rowNumber int, columns map[string]int) (ShiftEntry, []ImportIssue) {
	var issues []ImportIssue
	blocking := func(field, message string) {
		issues = append(issues, ImportIssue{Row: rowNumber, Field: field, Message: message, Blocking: true})
	}
	warn := func(field, message string) {
		issues = append(issues, ImportIssue{Row: rowNumber, Field: field, Message: message})
	}
	cell := func(name string) string {
		col, ok := columns[name]
		if !ok || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	entry := ShiftEntry{Row: rowNumber}

	entry.EmployeeNumber = cell("employee_number")
	if entry.EmployeeNumber == "" {
		blocking("employee_number", "Employee Number is required for roster import")
	}
	entry.EmployeeEmail = cell("employee_email")
	entry.EmployeeName = cell("employee_name")

	if raw := cell("date"); raw == "" {
		blocking("date", "Date is required")
	} else if date, err := parseDate(raw); err != nil {
		blocking("date", fmt.Sprintf("Invalid date %q: expected YYYY-MM-DD or DD/MM/YYYY", raw))
	} else {
		entry.Date = date
	}

	if raw := cell("start_time"); raw == "" {
		blocking("start_time", "Start Time is required")
	} else if clock, err := parseClock(raw); err != nil {
		blocking("start_time", fmt.Sprintf("Invalid time %q: expected HH:MM", raw))
	} else {
		entry.StartTime = clock
	}

	if raw := cell("end_time"); raw == "" {
		blocking("end_time", "End Time is required")
	} else if clock, err := parseClock(raw); err != nil {
		blocking("end_time", fmt.Sprintf("Invalid time %q: expected HH:MM", raw))
	} else {
		entry.EndTime = clock
	}

	if entry.StartTime != "" && entry.EndTime != "" && entry.EndTime < entry.StartTime {
		if raw := cell("is_overnight"); raw == "" {
			warn("end_time", "end time is earlier than start time; overnight assumed")
		}
	}

	entry.HasMealBreak = parseBool(cell("has_meal_break"))
	entry.MealBreakMinutes = parseMinutes(cell("meal_break_duration"), "meal_break_duration", warn)
	entry.HasRestBreaks = parseBool(cell("has_rest_breaks"))
	entry.RestBreaksMinutes = parseMinutes(cell("rest_breaks_duration"), "rest_breaks_duration", warn)
	if entry.HasMealBreak && entry.MealBreakMinutes == 0 {
		warn("meal_break_duration", "has meal break is set but meal break duration is missing")
	}
	entry.IsPublicHoliday = parseBool(cell("is_public_holiday"))
	entry.Location = cell("location")
	entry.Notes = cell("notes")

	if raw := cell("employment_type"); raw != "" {
		parsed, ok := award.ParseEmploymentType(raw)
		if !ok {
			warn("employment_type", fmt.Sprintf("employment type %q is unrecognized", raw))
		} else {
			entry.EmploymentType = parsed
		}
	}

	return entry, issues
}

var dateFormats = []string{"2006-01-02", "02/01/2006", "2006/01/02"}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateFormats {
		if date, err := time.Parse(layout, raw); err == nil {
			return date.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

var clockFormats = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}

// parseClock normalizes any accepted form to HH:MM.
func parseClock(raw string) (string, error) {
	upper := strings.ToUpper(raw)
	for _, layout := range clockFormats {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognized time %q", raw)
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}

func parseMinutes(raw, field string, warn func(field, message string)) int {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			warn(field, fmt.Sprintf("fractional duration %q rounded to whole minutes", raw))
			return int(f + 0.5)
		}
		warn(field, fmt.Sprintf("duration %q is not a number", raw))
		return 0
	}
	if minutes < 0 {
		warn(field, fmt.Sprintf("duration cannot be negative: %d", minutes))
		return 0
	}
	return minutes
}

func hasBlocking(issues []ImportIssue) bool {
	for _, issue := range issues {
		if issue.Blocking {
			return true
		}
	}
	return false
}

func blankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
