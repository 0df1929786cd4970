package roster

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/compliance"
	"fairworkly/internal/domain/employee"
)

type fakeStore struct {
	rosters     map[string]*Roster
	shifts      map[string][]*Shift
	validations map[string]*Validation // keyed by roster ID
	issues      map[string][]Issue     // keyed by validation ID
	employees   *fakeEmployees         // backs the employee join in ListShifts

	saveErr     error
	saveCalls   int
	createCalls int
	updateCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rosters:     make(map[string]*Roster),
		shifts:      make(map[string][]*Shift),
		validations: make(map[string]*Validation),
		issues:      make(map[string][]Issue),
	}
}

func (f *fakeStore) CreateRosterWithShifts(_ context.Context, roster *Roster, shifts []*Shift) error {
	f.rosters[roster.ID] = roster
	f.shifts[roster.ID] = shifts
	return nil
}

func (f *fakeStore) GetRoster(_ context.Context, _, rosterID string) (*Roster, error) {
	roster, ok := f.rosters[rosterID]
	if !ok {
		return nil, ErrRosterNotFound
	}
	return roster, nil
}

// ListShifts mirrors the real store's employee join: shifts come back
// with Employee attached when the employee record exists.
func (f *fakeStore) ListShifts(_ context.Context, _, rosterID string) ([]*Shift, error) {
	shifts := f.shifts[rosterID]
	if f.employees == nil {
		return shifts, nil
	}
	for _, shift := range shifts {
		if shift.Employee != nil {
			continue
		}
		for _, emp := range f.employees.known {
			if emp.ID == shift.EmployeeID {
				matched := emp
				shift.Employee = &matched
				break
			}
		}
	}
	return shifts, nil
}

func (f *fakeStore) GetValidationByRoster(_ context.Context, _, rosterID string) (*Validation, error) {
	validation, ok := f.validations[rosterID]
	if !ok {
		return nil, ErrValidationNotFound
	}
	copied := *validation
	return &copied, nil
}

func (f *fakeStore) CreateValidation(_ context.Context, validation *Validation) error {
	f.createCalls++
	copied := *validation
	f.validations[validation.RosterID] = &copied
	return nil
}

func (f *fakeStore) UpdateValidation(_ context.Context, validation *Validation) error {
	f.updateCalls++
	copied := *validation
	f.validations[validation.RosterID] = &copied
	return nil
}

func (f *fakeStore) SaveResult(_ context.Context, validation *Validation, issues []Issue) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *validation
	f.validations[validation.RosterID] = &copied
	f.issues[validation.ID] = issues
	return nil
}

func (f *fakeStore) MarkFailed(_ context.Context, _, validationID, notes string) error {
	for _, validation := range f.validations {
		if validation.ID == validationID {
			validation.Status = compliance.StatusFailed
			validation.Notes = notes
			now := time.Now().UTC()
			validation.CompletedAt = &now
		}
	}
	return nil
}

func (f *fakeStore) ListIssues(_ context.Context, _, validationID string) ([]IssueRecord, error) {
	var records []IssueRecord
	for _, issue := range f.issues[validationID] {
		records = append(records, IssueRecord{Issue: issue})
	}
	return records, nil
}

type fakeEmployees struct {
	known map[string]employee.Employee
}

func (f *fakeEmployees) Sync(_ context.Context, _ string, records []employee.SyncRecord) (map[string]string, error) {
	mapping := make(map[string]string)
	for _, record := range records {
		mapping[record.EmployeeNumber] = "id-" + record.EmployeeNumber
	}
	return mapping, nil
}

func (f *fakeEmployees) ListByNumbers(_ context.Context, _ string, numbers []string) ([]employee.Employee, error) {
	var matched []employee.Employee
	for _, number := range numbers {
		if emp, ok := f.known[number]; ok {
			matched = append(matched, emp)
		}
	}
	return matched, nil
}

func knownEmployee(number string, employmentType award.EmploymentType) employee.Employee {
	return employee.Employee{
		ID:               "id-" + number,
		OrganizationID:   "org-1",
		EmployeeNumber:   number,
		FirstName:        "Test",
		LastName:         number,
		AwardType:        award.GeneralRetailIndustryAward2020,
		AwardLevelNumber: 1,
		EmploymentType:   employmentType,
	}
}

func testRosterService(store *fakeStore, employees *fakeEmployees) *Service {
	store.employees = employees
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, employees, award.NewParameterProvider(), nil, nil, logger)
}

// The shifts land on Mon-Tue and keep every rule quiet.
const cleanRosterCSV = `Employee Number,Date,Start Time,End Time,Has Meal Break,Meal Break Duration
EMP-001,2026-03-02,09:00,14:00,no,0
EMP-001,2026-03-03,09:00,14:00,no,0
EMP-002,2026-03-02,10:00,15:00,no,0
`

func TestUploadPersistsAndValidatesInline(t *testing.T) {
	store := newFakeStore()
	employees := &fakeEmployees{known: map[string]employee.Employee{
		"EMP-001": knownEmployee("EMP-001", award.FullTime),
		"EMP-002": knownEmployee("EMP-002", award.FullTime),
	}}
	service := testRosterService(store, employees)

	summary, issues, err := service.Upload(context.Background(), "org-1", "week.csv", strings.NewReader(cleanRosterCSV))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("unexpected import issues: %+v", issues)
	}
	if summary.TotalShifts != 3 || summary.TotalEmployees != 2 {
		t.Fatalf("summary = %d shifts %d employees", summary.TotalShifts, summary.TotalEmployees)
	}
	if summary.TotalHours != 15 {
		t.Fatalf("total hours = %v", summary.TotalHours)
	}
	if summary.WeekStartDate != "2026-03-02" || summary.WeekEndDate != "2026-03-03" {
		t.Fatalf("week = %s..%s", summary.WeekStartDate, summary.WeekEndDate)
	}

	// No queue configured, so validation ran inline.
	validation := store.validations[summary.RosterID]
	if validation == nil {
		t.Fatalf("expected an inline validation")
	}
	if validation.Status != compliance.StatusPassed {
		t.Fatalf("clean roster should pass, got %s (notes %q)", validation.Status, validation.Notes)
	}
	if validation.PassedShifts != 3 || validation.FailedShifts != 0 {
		t.Fatalf("rollup = %d passed %d failed", validation.PassedShifts, validation.FailedShifts)
	}
}

func TestUploadSkipsUnmatchedEmployeesWithWarning(t *testing.T) {
	store := newFakeStore()
	employees := &fakeEmployees{known: map[string]employee.Employee{
		"EMP-001": knownEmployee("EMP-001", award.FullTime),
	}}
	service := testRosterService(store, employees)

	summary, _, err := service.Upload(context.Background(), "org-1", "week.csv", strings.NewReader(cleanRosterCSV))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if summary.TotalShifts != 2 {
		t.Fatalf("expected only matched shifts, got %d", summary.TotalShifts)
	}

	found := false
	for _, warning := range summary.Warnings {
		if warning == "1 employee(s) could not be matched to existing employees" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unmatched employee warning, got %v", summary.Warnings)
	}
}

func TestUploadAllUnmatchedFails(t *testing.T) {
	store := newFakeStore()
	service := testRosterService(store, &fakeEmployees{known: map[string]employee.Employee{}})

	_, _, err := service.Upload(context.Background(), "org-1", "week.csv", strings.NewReader(cleanRosterCSV))
	if !errors.Is(err, ErrNoShiftEntries) {
		t.Fatalf("expected ErrNoShiftEntries, got %v", err)
	}
	if len(store.rosters) != 0 {
		t.Fatalf("nothing should be persisted")
	}
}

func TestUploadBlockingIssuesAbortWithoutPersisting(t *testing.T) {
	store := newFakeStore()
	service := testRosterService(store, &fakeEmployees{known: map[string]employee.Employee{}})

	csvData := "Employee Number,Date,Start Time\nEMP-001,2026-03-02,09:00\n"
	summary, issues, err := service.Upload(context.Background(), "org-1", "week.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if summary != nil {
		t.Fatalf("no summary expected on blocking issues")
	}
	if !hasBlocking(issues) {
		t.Fatalf("expected blocking issues, got %+v", issues)
	}
	if len(store.rosters) != 0 {
		t.Fatalf("nothing should be persisted")
	}
}

func seedRoster(store *fakeStore, failing bool) string {
	emp := knownEmployee("EMP-001", award.Casual)
	endTime := "14:00"
	if failing {
		endTime = "11:00" // under the 3h casual minimum
	}
	shift := &Shift{
		ID:             "shift-1",
		OrganizationID: "org-1",
		RosterID:       "roster-1",
		EmployeeID:     emp.ID,
		Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:      "09:00",
		EndTime:        endTime,
		Employee:       &emp,
	}
	store.rosters["roster-1"] = &Roster{
		ID:             "roster-1",
		OrganizationID: "org-1",
		WeekStartDate:  shift.Date,
		WeekEndDate:    shift.Date,
		TotalShifts:    1,
		TotalEmployees: 1,
	}
	store.shifts["roster-1"] = []*Shift{shift}
	return "roster-1"
}

func TestValidateFailingRosterRollsUp(t *testing.T) {
	store := newFakeStore()
	service := testRosterService(store, &fakeEmployees{})
	rosterID := seedRoster(store, true)

	result, err := service.Validate(context.Background(), "org-1", rosterID)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Status != string(compliance.StatusFailed) {
		t.Fatalf("expected Failed, got %s", result.Status)
	}
	if result.FailedShifts != 1 || result.PassedShifts != 0 {
		t.Fatalf("rollup = %d failed %d passed", result.FailedShifts, result.PassedShifts)
	}
	if result.FailingIssues != 1 || result.AffectedEmployees != 1 {
		t.Fatalf("rollup = %d failing %d employees", result.FailingIssues, result.AffectedEmployees)
	}
	if len(result.Issues) != 1 || result.Issues[0].CheckType != string(CheckMinimumShiftHours) {
		t.Fatalf("unexpected issues: %+v", result.Issues)
	}
}

func TestValidateIsIdempotentAfterTerminalRun(t *testing.T) {
	store := newFakeStore()
	service := testRosterService(store, &fakeEmployees{})
	rosterID := seedRoster(store, false)

	first, err := service.Validate(context.Background(), "org-1", rosterID)
	if err != nil {
		t.Fatalf("first Validate: %v", err)
	}
	second, err := service.Validate(context.Background(), "org-1", rosterID)
	if err != nil {
		t.Fatalf("second Validate: %v", err)
	}
	if first.ValidationID != second.ValidationID {
		t.Fatalf("terminal validation must be reused, got %s then %s", first.ValidationID, second.ValidationID)
	}
	if store.saveCalls != 1 {
		t.Fatalf("rules must not re-run, got %d saves", store.saveCalls)
	}
}

func TestValidateReclaimsStaleInProgressRun(t *testing.T) {
	store := newFakeStore()
	service := testRosterService(store, &fakeEmployees{})
	rosterID := seedRoster(store, false)

	stale := &Validation{
		ID:             "validation-stale",
		OrganizationID: "org-1",
		RosterID:       rosterID,
		Status:         compliance.StatusInProgress,
		StartedAt:      time.Now().Add(-time.Hour).UTC(),
	}
	store.validations[rosterID] = stale

	result, err := service.Validate(context.Background(), "org-1", rosterID)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.ValidationID != "validation-stale" {
		t.Fatalf("stale run must be reclaimed, got %s", result.ValidationID)
	}
	if store.createCalls != 0 || store.updateCalls != 1 {
		t.Fatalf("expected one update and no create, got %d/%d", store.updateCalls, store.createCalls)
	}
	if result.Status != string(compliance.StatusPassed) {
		t.Fatalf("expected Passed, got %s", result.Status)
	}
}

func TestValidateMarksExecutionFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("connection reset")
	service := testRosterService(store, &fakeEmployees{})
	rosterID := seedRoster(store, false)

	_, err := service.Validate(context.Background(), "org-1", rosterID)
	if err == nil {
		t.Fatalf("expected an error")
	}

	validation := store.validations[rosterID]
	if validation.Status != compliance.StatusFailed {
		t.Fatalf("expected Failed, got %s", validation.Status)
	}
	if !compliance.IsExecutionFailure(validation.Status, validation.Notes) {
		t.Fatalf("notes must mark an execution failure, got %q", validation.Notes)
	}
}

func TestValidateUnknownRoster(t *testing.T) {
	store := newFakeStore()
	service := testRosterService(store, &fakeEmployees{})

	_, err := service.Validate(context.Background(), "org-1", "missing")
	if !errors.Is(err, ErrRosterNotFound) {
		t.Fatalf("expected ErrRosterNotFound, got %v", err)
	}
}

func TestResultsHiddenUntilTerminal(t *testing.T) {
	store := newFakeStore()
	service := testRosterService(store, &fakeEmployees{})
	rosterID := seedRoster(store, false)

	if _, err := service.Results(context.Background(), "org-1", rosterID); !errors.Is(err, ErrValidationNotFound) {
		t.Fatalf("no validation yet: expected ErrValidationNotFound, got %v", err)
	}

	store.validations[rosterID] = &Validation{
		ID:             "validation-1",
		OrganizationID: "org-1",
		RosterID:       rosterID,
		Status:         compliance.StatusInProgress,
		StartedAt:      time.Now().UTC(),
	}
	if _, err := service.Results(context.Background(), "org-1", rosterID); !errors.Is(err, ErrValidationNotFound) {
		t.Fatalf("in progress: expected ErrValidationNotFound, got %v", err)
	}

	store.validations[rosterID].Status = compliance.StatusFailed
	store.validations[rosterID].Notes = compliance.ExecutionFailureNote("boom")
	if _, err := service.Results(context.Background(), "org-1", rosterID); !errors.Is(err, ErrValidationNotFound) {
		t.Fatalf("execution failure: expected ErrValidationNotFound, got %v", err)
	}
}

func TestResultsServesTerminalValidation(t *testing.T) {
	store := newFakeStore()
	service := testRosterService(store, &fakeEmployees{})
	rosterID := seedRoster(store, true)

	validated, err := service.Validate(context.Background(), "org-1", rosterID)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	result, err := service.Results(context.Background(), "org-1", rosterID)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if result.ValidationID != validated.ValidationID {
		t.Fatalf("results must serve the stored run")
	}
	if result.Status != string(compliance.StatusFailed) || len(result.Issues) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestValidatePanickingCheckMarksExecutionFailure(t *testing.T) {
	store := newFakeStore()
	service := testRosterService(store, &fakeEmployees{})
	service.engine = NewEngine(panickyCheck{})
	rosterID := seedRoster(store, false)

	_, err := service.Validate(context.Background(), "org-1", rosterID)
	if err == nil {
		t.Fatal("expected an error")
	}

	validation := store.validations[rosterID]
	if !compliance.IsExecutionFailure(validation.Status, validation.Notes) {
		t.Fatalf("notes must mark an execution failure, got %s %q", validation.Status, validation.Notes)
	}
}
