package compliance

import (
	"fmt"
	"strings"
)

type ValidationStatus string

const (
	StatusPending    ValidationStatus = "Pending"
	StatusInProgress ValidationStatus = "InProgress"
	StatusPassed     ValidationStatus = "Passed"
	StatusFailed     ValidationStatus = "Failed"
)

func (s ValidationStatus) Terminal() bool {
	return s == StatusPassed || s == StatusFailed
}

func ParseValidationStatus(value string) (ValidationStatus, error) {
	switch ValidationStatus(value) {
	case StatusPending, StatusInProgress, StatusPassed, StatusFailed:
		return ValidationStatus(value), nil
	default:
		return "", fmt.Errorf("unknown validation status %q", value)
	}
}

// A Failed batch whose notes start with this prefix did not run to
// completion; its results must not be served to callers. Distinct from a
// batch that ran and found compliance issues.
const executionFailurePrefix = "ExecutionFailure:"

const maxNoteLength = 1000

func ExecutionFailureNote(message string) string {
	note := strings.TrimSpace(executionFailurePrefix + " " + strings.TrimSpace(message))
	if len(note) > maxNoteLength {
		note = note[:maxNoteLength]
	}
	return note
}

func IsExecutionFailure(status ValidationStatus, notes string) bool {
	return status == StatusFailed && strings.HasPrefix(notes, executionFailurePrefix)
}
