package award

import (
	"strconv"
	"strings"
)

// Retail Award (MA000004) rate tables, effective 2025-07-01.

// Minimum permanent base rates ($/hr) by classification level. Also the
// base for penalty rate calculations for all employment types.
var permanentRates = map[int]float64{
	1: 26.55,
	2: 27.16,
	3: 27.58,
	4: 28.12,
	5: 29.27,
	6: 29.70,
	7: 31.19,
	8: 32.45,
}

// Casual rates ($/hr) by classification level, 25% loading included.
var casualRates = map[int]float64{
	1: 33.19,
	2: 33.95,
	3: 34.48,
	4: 35.15,
	5: 36.59,
	6: 37.13,
	7: 38.99,
	8: 40.56,
}

// Penalty multipliers applied to the permanent rate.
type PenaltyMultipliers struct {
	Saturday      float64
	Sunday        float64
	PublicHoliday float64
}

var (
	PermanentMultipliers = PenaltyMultipliers{Saturday: 1.25, Sunday: 1.50, PublicHoliday: 2.25}
	CasualMultipliers    = PenaltyMultipliers{Saturday: 1.50, Sunday: 1.75, PublicHoliday: 2.50}
)

// Superannuation guarantee rate applied to gross pay.
const SuperannuationRate = 0.12

// Monetary comparisons never use exact equality. RateTolerance absorbs
// rounding on hourly rates, PayTolerance on whole pay amounts.
const (
	RateTolerance = 0.01
	PayTolerance  = 0.05
)

// PermanentRate returns 0 for a level outside the table; callers treat
// that as an invalid classification, not a zero minimum.
func PermanentRate(level int) float64 {
	return permanentRates[level]
}

func CasualRate(level int) float64 {
	return casualRates[level]
}

// ParseLevel extracts the classification level from strings like
// "Level 3" or a bare "3". Returns 0 when the value cannot be parsed.
func ParseLevel(classification string) int {
	normalized := strings.ToLower(strings.TrimSpace(classification))
	if normalized == "" {
		return 0
	}

	if rest, ok := strings.CutPrefix(normalized, "level"); ok {
		if level, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
			return level
		}
		return 0
	}

	if level, err := strconv.Atoi(normalized); err == nil {
		return level
	}
	return 0
}
