package award

import "strings"

type EmploymentType string

const (
	FullTime  EmploymentType = "FullTime"
	PartTime  EmploymentType = "PartTime"
	Casual    EmploymentType = "Casual"
	FixedTerm EmploymentType = "FixedTerm"
)

// ParseEmploymentType accepts the synonym forms seen in payroll exports:
// case-insensitive, with spaces, hyphens and underscores ignored, plus
// the "ft"/"pt"/"cas" abbreviations.
func ParseEmploymentType(value string) (EmploymentType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)

	switch normalized {
	case "fulltime", "ft":
		return FullTime, true
	case "parttime", "pt":
		return PartTime, true
	case "casual", "cas":
		return Casual, true
	case "fixedterm":
		return FixedTerm, true
	default:
		return "", false
	}
}

func ParseEmploymentTypeOrDefault(value string, fallback EmploymentType) EmploymentType {
	if parsed, ok := ParseEmploymentType(value); ok {
		return parsed
	}
	return fallback
}
