package award

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type parameterOverrideFile struct {
	Awards map[string]parameterOverride `yaml:"awards"`
}

type parameterOverride struct {
	MinShiftHoursFullTime   *float64 `yaml:"minShiftHoursFullTime"`
	MinShiftHoursPartTime   *float64 `yaml:"minShiftHoursPartTime"`
	MinShiftHoursCasual     *float64 `yaml:"minShiftHoursCasual"`
	MealBreakThresholdHours *float64 `yaml:"mealBreakThresholdHours"`
	MealBreakTable          []struct {
		MinHours     float64 `yaml:"minHours"`
		MaxHours     float64 `yaml:"maxHours"`
		BreakMinutes int     `yaml:"breakMinutes"`
	} `yaml:"mealBreakTable"`
	StandardRestPeriodHours *int     `yaml:"standardRestPeriodHours"`
	ReducedRestPeriodHours  *int     `yaml:"reducedRestPeriodHours"`
	WeeklyHoursLimit        *float64 `yaml:"weeklyHoursLimit"`
	MaxConsecutiveDays      *int     `yaml:"maxConsecutiveDays"`
}

// NewParameterProviderFromFile overlays a YAML override file onto the
// built-in parameter tables. Only supported awards may be overridden and
// every override is validated on load; a bad file fails startup rather
// than producing a provider with unchecked values.
func NewParameterProviderFromFile(path string) (*ParameterProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file parameterOverrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse award parameters %s: %w", path, err)
	}

	provider := NewParameterProvider()
	for name, override := range file.Awards {
		awardType, ok := ParseType(name)
		if !ok {
			return nil, fmt.Errorf("award parameters %s: unknown award %q", path, name)
		}

		set := provider.sets[awardType]
		applyOverride(&set, override)
		if err := validateParameterSet(set); err != nil {
			return nil, fmt.Errorf("award parameters %s: award %q: %w", path, name, err)
		}
		provider.sets[awardType] = set
	}

	return provider, nil
}

func applyOverride(set *RosterRuleParameterSet, o parameterOverride) {
	if o.MinShiftHoursFullTime != nil {
		set.MinShiftHoursFullTime = *o.MinShiftHoursFullTime
	}
	if o.MinShiftHoursPartTime != nil {
		set.MinShiftHoursPartTime = *o.MinShiftHoursPartTime
	}
	if o.MinShiftHoursCasual != nil {
		set.MinShiftHoursCasual = *o.MinShiftHoursCasual
	}
	if o.MealBreakThresholdHours != nil {
		set.MealBreakThresholdHours = *o.MealBreakThresholdHours
	}
	if len(o.MealBreakTable) > 0 {
		table := make([]MealBreakBand, 0, len(o.MealBreakTable))
		for _, band := range o.MealBreakTable {
			table = append(table, MealBreakBand{
				MinHours:     band.MinHours,
				MaxHours:     band.MaxHours,
				BreakMinutes: band.BreakMinutes,
			})
		}
		set.MealBreakTable = table
	}
	if o.StandardRestPeriodHours != nil {
		set.StandardRestPeriodHours = *o.StandardRestPeriodHours
	}
	if o.ReducedRestPeriodHours != nil {
		set.ReducedRestPeriodHours = *o.ReducedRestPeriodHours
	}
	if o.WeeklyHoursLimit != nil {
		set.WeeklyHoursLimit = *o.WeeklyHoursLimit
	}
	if o.MaxConsecutiveDays != nil {
		set.MaxConsecutiveDays = *o.MaxConsecutiveDays
	}
}

func validateParameterSet(set RosterRuleParameterSet) error {
	if set.MinShiftHoursFullTime < 0 || set.MinShiftHoursPartTime < 0 || set.MinShiftHoursCasual < 0 {
		return fmt.Errorf("minimum shift hours must not be negative")
	}
	if set.MealBreakThresholdHours < 0 {
		return fmt.Errorf("meal break threshold must not be negative")
	}
	if set.StandardRestPeriodHours <= 0 {
		return fmt.Errorf("standard rest period must be positive")
	}
	if set.ReducedRestPeriodHours <= 0 || set.ReducedRestPeriodHours > set.StandardRestPeriodHours {
		return fmt.Errorf("reduced rest period must be positive and not exceed the standard rest period")
	}
	if set.WeeklyHoursLimit <= 0 {
		return fmt.Errorf("weekly hours limit must be positive")
	}
	if set.MaxConsecutiveDays <= 0 {
		return fmt.Errorf("max consecutive days must be positive")
	}
	for i, band := range set.MealBreakTable {
		if band.MaxHours <= band.MinHours {
			return fmt.Errorf("meal break band %d: maxHours must exceed minHours", i+1)
		}
		if band.BreakMinutes <= 0 {
			return fmt.Errorf("meal break band %d: breakMinutes must be positive", i+1)
		}
		if i > 0 && band.MinHours < set.MealBreakTable[i-1].MaxHours {
			return fmt.Errorf("meal break band %d: bands must not overlap", i+1)
		}
	}
	return nil
}
