// Package award holds the Modern-Award vocabulary and parameter tables
// that drive payroll and roster compliance checks. Award and employment
// type names are persisted as strings and are additive-only.
package award

import "strings"

type Type string

const (
	GeneralRetailIndustryAward2020 Type = "GeneralRetailIndustryAward2020"
	HospitalityIndustryAward2020   Type = "HospitalityIndustryAward2020"
	ClerksPrivateSectorAward2020   Type = "ClerksPrivateSectorAward2020"
)

// ParseType resolves the short award names accepted in uploads
// ("retail", "hospitality", "clerks") case-insensitively.
func ParseType(value string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "retail":
		return GeneralRetailIndustryAward2020, true
	case "hospitality":
		return HospitalityIndustryAward2020, true
	case "clerks":
		return ClerksPrivateSectorAward2020, true
	default:
		return "", false
	}
}

func (t Type) ShortName() string {
	switch t {
	case GeneralRetailIndustryAward2020:
		return "Retail"
	case HospitalityIndustryAward2020:
		return "Hospitality"
	case ClerksPrivateSectorAward2020:
		return "Clerks"
	default:
		return string(t)
	}
}
