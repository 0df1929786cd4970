package compliance

import "fmt"

// Severity orders compliance issues from informational to critical. The
// string names are persisted and exposed over the API; once released a
// name is never renamed, only new ones added.
type Severity int

const (
	SeverityInfo Severity = iota + 1
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityCritical:
		return "Critical"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

func ParseSeverity(value string) (Severity, error) {
	switch value {
	case "Info":
		return SeverityInfo, nil
	case "Warning":
		return SeverityWarning, nil
	case "Error":
		return SeverityError, nil
	case "Critical":
		return SeverityCritical, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", value)
	}
}

// Failing reports whether an issue of this severity fails a validation
// batch. Info and Warning findings never fail a batch on their own.
func (s Severity) Failing() bool {
	return s >= SeverityError
}
