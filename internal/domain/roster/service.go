package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/compliance"
	"fairworkly/internal/domain/employee"
	"fairworkly/internal/platform/cache"
	"fairworkly/internal/platform/queue"
)

var ErrNoShiftEntries = errors.New("roster file contains no valid shift entries")

type Service struct {
	store     StoreAPI
	employees employee.StoreAPI
	engine    *Engine
	importer  *Importer
	queue     *queue.Client
	cache     *cache.Cache
	logger    *slog.Logger
}

func NewService(store StoreAPI, employees employee.StoreAPI, params *award.ParameterProvider,
	queueClient *queue.Client, cacheClient *cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		employees: employees,
		engine:    DefaultEngine(params),
		importer:  NewImporter(),
		queue:     queueClient,
		cache:     cacheClient,
		logger:    logger,
	}
}

// Upload imports a roster file, matches its rows to known employees and
// persists the roster. Validation runs in the background when a queue is
// configured, inline otherwise. Blocking row issues abort the upload and
// are returned without persisting anything.
func (s *Service) Upload(ctx context.Context, organizationID, fileName string, file io.Reader) (*UploadSummary, []ImportIssue, error) {
	entries, issues, err := s.importer.Import(fileName, file)
	if err != nil {
		return nil, nil, err
	}
	if hasBlocking(issues) {
		return nil, issues, nil
	}
	if len(entries) == 0 {
		return nil, issues, ErrNoShiftEntries
	}

	var warnings []string
	for _, issue := range issues {
		warnings = append(warnings, fmt.Sprintf("Row %d: %s", issue.Row, issue.Message))
	}

	byNumber, err := s.matchEmployees(ctx, organizationID, entries)
	if err != nil {
		return nil, nil, fmt.Errorf("matching roster employees: %w", err)
	}

	rosterID := uuid.NewString()
	var shifts []*Shift
	unmatched := make(map[string]bool)
	for _, entry := range entries {
		emp, ok := byNumber[entry.EmployeeNumber]
		if !ok {
			unmatched[entry.EmployeeNumber] = true
			continue
		}
		shifts = append(shifts, &Shift{
			ID:                uuid.NewString(),
			OrganizationID:    organizationID,
			RosterID:          rosterID,
			EmployeeID:        emp.ID,
			Date:              entry.Date,
			StartTime:         entry.StartTime,
			EndTime:           entry.EndTime,
			HasMealBreak:      entry.HasMealBreak,
			MealBreakMinutes:  entry.MealBreakMinutes,
			HasRestBreaks:     entry.HasRestBreaks,
			RestBreaksMinutes: entry.RestBreaksMinutes,
			IsPublicHoliday:   entry.IsPublicHoliday,
			Location:          entry.Location,
			Notes:             entry.Notes,
		})
	}
	if len(unmatched) > 0 {
		warnings = append(warnings, fmt.Sprintf("%d employee(s) could not be matched to existing employees", len(unmatched)))
	}
	if len(shifts) == 0 {
		return nil, issues, ErrNoShiftEntries
	}

	roster := buildRoster(rosterID, organizationID, fileName, shifts)
	if err := s.store.CreateRosterWithShifts(ctx, roster, shifts); err != nil {
		return nil, nil, fmt.Errorf("saving roster: %w", err)
	}

	s.logger.Info("roster uploaded",
		"organizationId", organizationID,
		"rosterId", roster.ID,
		"shifts", roster.TotalShifts,
		"employees", roster.TotalEmployees)

	if s.queue.Enabled() {
		err := s.queue.EnqueueRosterValidation(queue.RosterValidatePayload{
			RosterID:       roster.ID,
			OrganizationID: organizationID,
		})
		if err != nil {
			s.logger.Error("enqueueing roster validation", "rosterId", roster.ID, "error", err)
			if _, verr := s.Validate(ctx, organizationID, roster.ID); verr != nil {
				s.logger.Error("inline roster validation", "rosterId", roster.ID, "error", verr)
			}
		}
	} else {
		if _, err := s.Validate(ctx, organizationID, roster.ID); err != nil {
			s.logger.Error("inline roster validation", "rosterId", roster.ID, "error", err)
		}
	}

	return &UploadSummary{
		RosterID:       roster.ID,
		WeekStartDate:  roster.WeekStartDate.Format("2006-01-02"),
		WeekEndDate:    roster.WeekEndDate.Format("2006-01-02"),
		TotalShifts:    roster.TotalShifts,
		TotalHours:     roster.TotalHours,
		TotalEmployees: roster.TotalEmployees,
		Warnings:       warnings,
	}, issues, nil
}

func (s *Service) matchEmployees(ctx context.Context, organizationID string, entries []ShiftEntry) (map[string]employee.Employee, error) {
	seen := make(map[string]bool)
	var numbers []string
	for _, entry := range entries {
		if !seen[entry.EmployeeNumber] {
			seen[entry.EmployeeNumber] = true
			numbers = append(numbers, entry.EmployeeNumber)
		}
	}
	matched, err := s.employees.ListByNumbers(ctx, organizationID, numbers)
	if err != nil {
		return nil, err
	}
	byNumber := make(map[string]employee.Employee, len(matched))
	for _, emp := range matched {
		byNumber[emp.EmployeeNumber] = emp
	}
	return byNumber, nil
}

func buildRoster(rosterID, organizationID, fileName string, shifts []*Shift) *Roster {
	weekStart, weekEnd := shifts[0].Date, shifts[0].Date
	employees := make(map[string]bool)
	totalHours := 0.0
	for _, shift := range shifts {
		if shift.Date.Before(weekStart) {
			weekStart = shift.Date
		}
		if shift.Date.After(weekEnd) {
			weekEnd = shift.Date
		}
		employees[shift.EmployeeID] = true
		totalHours += shift.NetHours()
	}
	return &Roster{
		ID:             rosterID,
		OrganizationID: organizationID,
		WeekStartDate:  weekStart,
		WeekEndDate:    weekEnd,
		TotalShifts:    len(shifts),
		TotalHours:     totalHours,
		TotalEmployees: len(employees),
		FileName:       fileName,
		CreatedAt:      time.Now().UTC(),
	}
}

// Validate runs every compliance check against a roster's shifts and
// persists the outcome. Calling it again after a terminal run returns
// the stored result unchanged; a run left in progress by a crashed
// worker is taken over rather than duplicated.
func (s *Service) Validate(ctx context.Context, organizationID, rosterID string) (*Result, error) {
	roster, err := s.store.GetRoster(ctx, organizationID, rosterID)
	if err != nil {
		return nil, err
	}

	validation, err := s.store.GetValidationByRoster(ctx, organizationID, rosterID)
	switch {
	case errors.Is(err, ErrValidationNotFound):
		validation = &Validation{
			ID:                 uuid.NewString(),
			OrganizationID:     organizationID,
			RosterID:           rosterID,
			Status:             compliance.StatusInProgress,
			ExecutedCheckTypes: s.engine.ExecutedCheckTypes(),
			WeekStartDate:      roster.WeekStartDate,
			WeekEndDate:        roster.WeekEndDate,
			TotalShifts:        roster.TotalShifts,
			StartedAt:          time.Now().UTC(),
		}
		if err := s.store.CreateValidation(ctx, validation); err != nil {
			return nil, fmt.Errorf("creating roster validation: %w", err)
		}
	case err != nil:
		return nil, err
	case validation.Status.Terminal() && !compliance.IsExecutionFailure(validation.Status, validation.Notes):
		return s.buildResult(ctx, validation)
	default:
		validation.Status = compliance.StatusInProgress
		validation.Notes = ""
		validation.ExecutedCheckTypes = s.engine.ExecutedCheckTypes()
		validation.StartedAt = time.Now().UTC()
		validation.CompletedAt = nil
		if err := s.store.UpdateValidation(ctx, validation); err != nil {
			return nil, fmt.Errorf("reclaiming roster validation: %w", err)
		}
	}

	shifts, err := s.store.ListShifts(ctx, organizationID, rosterID)
	if err != nil {
		return nil, s.failValidation(ctx, validation, fmt.Errorf("loading roster shifts: %w", err))
	}

	issues, err := s.engine.EvaluateAll(shifts, validation.ID)
	if err != nil {
		return nil, s.failValidation(ctx, validation, fmt.Errorf("evaluating roster checks: %w", err))
	}

	rollUp(validation, issues, roster.TotalShifts)
	if err := s.store.SaveResult(ctx, validation, issues); err != nil {
		return nil, s.failValidation(ctx, validation, fmt.Errorf("saving roster validation result: %w", err))
	}

	s.logger.Info("roster validated",
		"organizationId", organizationID,
		"rosterId", rosterID,
		"validationId", validation.ID,
		"status", string(validation.Status),
		"issues", validation.TotalIssues,
		"failingIssues", validation.FailingIssues)

	result, err := s.buildResult(ctx, validation)
	if err != nil {
		return nil, err
	}
	if cerr := s.cache.Set(ctx, resultCacheKey(organizationID, rosterID), result); cerr != nil {
		s.logger.Warn("caching roster result", "rosterId", rosterID, "error", cerr)
	}
	return result, nil
}

func (s *Service) failValidation(ctx context.Context, validation *Validation, cause error) error {
	note := compliance.ExecutionFailureNote(cause.Error())
	if err := s.store.MarkFailed(ctx, validation.OrganizationID, validation.ID, note); err != nil {
		s.logger.Error("marking roster validation failed", "validationId", validation.ID, "error", err)
	}
	return cause
}

// Results serves the stored outcome of a roster's validation. Rosters
// whose validation has not finished, or finished by crashing, report
// not found so callers keep polling.
func (s *Service) Results(ctx context.Context, organizationID, rosterID string) (*Result, error) {
	key := resultCacheKey(organizationID, rosterID)
	var cached Result
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	if _, err := s.store.GetRoster(ctx, organizationID, rosterID); err != nil {
		return nil, err
	}
	validation, err := s.store.GetValidationByRoster(ctx, organizationID, rosterID)
	if err != nil {
		return nil, err
	}
	if !validation.Status.Terminal() || compliance.IsExecutionFailure(validation.Status, validation.Notes) {
		return nil, ErrValidationNotFound
	}

	result, err := s.buildResult(ctx, validation)
	if err != nil {
		return nil, err
	}
	if cerr := s.cache.Set(ctx, key, result); cerr != nil {
		s.logger.Warn("caching roster result", "rosterId", rosterID, "error", cerr)
	}
	return result, nil
}

func (s *Service) buildResult(ctx context.Context, validation *Validation) (*Result, error) {
	records, err := s.store.ListIssues(ctx, validation.OrganizationID, validation.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Severity != records[j].Severity {
			return records[i].Severity > records[j].Severity
		}
		return records[i].CheckType < records[j].CheckType
	})

	issues := make([]ResultIssue, 0, len(records))
	for _, rec := range records {
		issues = append(issues, ResultIssue{
			ID:             rec.ID,
			ShiftID:        rec.ShiftID,
			EmployeeID:     rec.EmployeeID,
			EmployeeName:   rec.EmployeeName,
			EmployeeNumber: rec.EmployeeNumber,
			CheckType:      string(rec.CheckType),
			Severity:       rec.Severity.String(),
			Description:    rec.Description,
			ExpectedValue:  rec.ExpectedValue,
			ActualValue:    rec.ActualValue,
			AffectedDates:  string(rec.AffectedDates),
		})
	}

	return &Result{
		ValidationID:       validation.ID,
		RosterID:           validation.RosterID,
		Status:             string(validation.Status),
		ExecutedCheckTypes: validation.ExecutedCheckTypes.Tokens(),
		WeekStartDate:      validation.WeekStartDate.Format("2006-01-02"),
		WeekEndDate:        validation.WeekEndDate.Format("2006-01-02"),
		TotalShifts:        validation.TotalShifts,
		PassedShifts:       validation.PassedShifts,
		FailedShifts:       validation.FailedShifts,
		TotalIssues:        validation.TotalIssues,
		FailingIssues:      validation.FailingIssues,
		AffectedEmployees:  validation.AffectedEmployees,
		ValidatedAt:        validation.CompletedAt,
		Issues:             issues,
	}, nil
}

func rollUp(validation *Validation, issues []Issue, totalShifts int) {
	failedShifts := make(map[string]bool)
	affected := make(map[string]bool)
	failing := 0
	for _, issue := range issues {
		if issue.ShiftID != "" {
			failedShifts[issue.ShiftID] = true
		}
		if issue.EmployeeID != "" {
			affected[issue.EmployeeID] = true
		}
		if issue.Severity.Failing() {
			failing++
		}
	}

	validation.TotalShifts = totalShifts
	validation.FailedShifts = len(failedShifts)
	validation.PassedShifts = totalShifts - len(failedShifts)
	validation.TotalIssues = len(issues)
	validation.FailingIssues = failing
	validation.AffectedEmployees = len(affected)
	if failing > 0 {
		validation.Status = compliance.StatusFailed
	} else {
		validation.Status = compliance.StatusPassed
	}
	now := time.Now().UTC()
	validation.CompletedAt = &now
}

func resultCacheKey(organizationID, rosterID string) string {
	return fmt.Sprintf("roster:result:%s:%s", organizationID, rosterID)
}
