package roster

import (
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// AffectedDateSet is the normalized set of calendar dates an issue
// touches. Stored and serialized as sorted, de-duplicated, comma-joined
// YYYY-MM-DD tokens.
type AffectedDateSet string

func NewAffectedDateSet(dates ...time.Time) AffectedDateSet {
	seen := make(map[string]bool, len(dates))
	tokens := make([]string, 0, len(dates))
	for _, date := range dates {
		token := date.Format(dateLayout)
		if seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return AffectedDateSet(strings.Join(tokens, ","))
}

// ParseAffectedDateSet normalizes a stored string back into canonical
// form, dropping malformed tokens.
func ParseAffectedDateSet(raw string) AffectedDateSet {
	if raw == "" {
		return ""
	}
	var dates []time.Time
	for _, token := range strings.Split(raw, ",") {
		date, err := time.Parse(dateLayout, strings.TrimSpace(token))
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	return NewAffectedDateSet(dates...)
}

func (s AffectedDateSet) String() string { return string(s) }

func (s AffectedDateSet) Dates() []time.Time {
	if s == "" {
		return nil
	}
	tokens := strings.Split(string(s), ",")
	dates := make([]time.Time, 0, len(tokens))
	for _, token := range tokens {
		date, err := time.Parse(dateLayout, token)
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	return dates
}

func (s AffectedDateSet) Len() int {
	if s == "" {
		return 0
	}
	return strings.Count(string(s), ",") + 1
}
