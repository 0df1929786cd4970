package roster

import (
	"context"
	"errors"
)

var (
	ErrRosterNotFound     = errors.New("roster not found")
	ErrValidationNotFound = errors.New("roster validation not found")
)

// IssueRecord is a persisted issue joined with the employee it names,
// as served in validation results.
type IssueRecord struct {
	Issue
	EmployeeName   string
	EmployeeNumber string
}

type StoreAPI interface {
	CreateRosterWithShifts(ctx context.Context, roster *Roster, shifts []*Shift) error
	GetRoster(ctx context.Context, organizationID, rosterID string) (*Roster, error)
	ListShifts(ctx context.Context, organizationID, rosterID string) ([]*Shift, error)
	GetValidationByRoster(ctx context.Context, organizationID, rosterID string) (*Validation, error)
	CreateValidation(ctx context.Context, validation *Validation) error
	UpdateValidation(ctx context.Context, validation *Validation) error
	SaveResult(ctx context.Context, validation *Validation, issues []Issue) error
	MarkFailed(ctx context.Context, organizationID, validationID, notes string) error
	ListIssues(ctx context.Context, organizationID, validationID string) ([]IssueRecord, error)
}
