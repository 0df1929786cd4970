package award

import (
	"errors"
	"fmt"
)

var ErrUnsupportedAward = errors.New("award has no registered roster rule parameters")

// MealBreakBand grants breakMinutes to shifts with duration in
// (MinHours, MaxHours]. Bands never overlap; the first match wins.
type MealBreakBand struct {
	MinHours     float64
	MaxHours     float64
	BreakMinutes int
}

// RosterRuleParameterSet is the immutable per-award configuration the
// roster rules evaluate against. Values are fixed at startup and passed
// into rules explicitly.
type RosterRuleParameterSet struct {
	MinShiftHoursFullTime   float64
	MinShiftHoursPartTime   float64
	MinShiftHoursCasual     float64
	MealBreakThresholdHours float64
	MealBreakTable          []MealBreakBand
	StandardRestPeriodHours int
	ReducedRestPeriodHours  int
	WeeklyHoursLimit        float64
	MaxConsecutiveDays      int
}

// FixedTerm employees take the full-time minimum; anything unrecognized
// takes the casual minimum, the strictest of the three.
func (p RosterRuleParameterSet) MinShiftHours(employmentType EmploymentType) float64 {
	switch employmentType {
	case FullTime, FixedTerm:
		return p.MinShiftHoursFullTime
	case PartTime:
		return p.MinShiftHoursPartTime
	case Casual:
		return p.MinShiftHoursCasual
	default:
		return p.MinShiftHoursCasual
	}
}

// RequiredMealBreakMinutes is total over all durations >= 0: below the
// threshold no break is required, above the table's last band the
// longest break applies.
func (p RosterRuleParameterSet) RequiredMealBreakMinutes(shiftHours float64) int {
	if shiftHours <= p.MealBreakThresholdHours {
		return 0
	}
	for _, band := range p.MealBreakTable {
		if shiftHours > band.MinHours && shiftHours <= band.MaxHours {
			return band.BreakMinutes
		}
	}
	return 60
}

var standardMealBreakTable = []MealBreakBand{
	{MinHours: 5, MaxHours: 6, BreakMinutes: 30},
	{MinHours: 6, MaxHours: 7, BreakMinutes: 30},
	{MinHours: 7, MaxHours: 8, BreakMinutes: 30},
	{MinHours: 8, MaxHours: 9, BreakMinutes: 30},
	{MinHours: 9, MaxHours: 10, BreakMinutes: 60},
	{MinHours: 10, MaxHours: 24, BreakMinutes: 60},
}

func defaultParameterSets() map[Type]RosterRuleParameterSet {
	return map[Type]RosterRuleParameterSet{
		// General Retail Industry Award 2020: 12h rest standard, 10h by
		// agreement, at most 6 consecutive days.
		GeneralRetailIndustryAward2020: {
			MinShiftHoursFullTime:   0,
			MinShiftHoursPartTime:   3,
			MinShiftHoursCasual:     3,
			MealBreakThresholdHours: 5,
			MealBreakTable:          standardMealBreakTable,
			StandardRestPeriodHours: 12,
			ReducedRestPeriodHours:  10,
			WeeklyHoursLimit:        38,
			MaxConsecutiveDays:      6,
		},
		// Hospitality Industry (General) Award 2020: 10h rest standard,
		// 8h on roster changeover, up to 7 consecutive days.
		HospitalityIndustryAward2020: {
			MinShiftHoursFullTime:   0,
			MinShiftHoursPartTime:   3,
			MinShiftHoursCasual:     3,
			MealBreakThresholdHours: 5,
			MealBreakTable:          standardMealBreakTable,
			StandardRestPeriodHours: 10,
			ReducedRestPeriodHours:  8,
			WeeklyHoursLimit:        38,
			MaxConsecutiveDays:      7,
		},
		// Clerks Private Sector Award 2020: standard office week.
		ClerksPrivateSectorAward2020: {
			MinShiftHoursFullTime:   0,
			MinShiftHoursPartTime:   3,
			MinShiftHoursCasual:     3,
			MealBreakThresholdHours: 5,
			MealBreakTable:          standardMealBreakTable,
			StandardRestPeriodHours: 10,
			ReducedRestPeriodHours:  10,
			WeeklyHoursLimit:        38,
			MaxConsecutiveDays:      5,
		},
	}
}

// ParameterProvider looks up roster rule parameters by award. The set of
// supported awards is closed; asking for anything else is a
// configuration error, never a silent default.
type ParameterProvider struct {
	sets map[Type]RosterRuleParameterSet
}

func NewParameterProvider() *ParameterProvider {
	return &ParameterProvider{sets: defaultParameterSets()}
}

func (p *ParameterProvider) Get(awardType Type) (RosterRuleParameterSet, error) {
	set, ok := p.sets[awardType]
	if !ok {
		return RosterRuleParameterSet{}, fmt.Errorf("%w: %s", ErrUnsupportedAward, awardType)
	}
	return set, nil
}
