package roster

import (
	"sort"
	"strings"
)

// ExecutedCheckTypeSet records which checks a validation actually ran.
// Serialized as sorted, de-duplicated, comma-joined tokens so older
// batches stay interpretable as rules are added.
type ExecutedCheckTypeSet string

func NewExecutedCheckTypeSet(checkTypes ...CheckType) ExecutedCheckTypeSet {
	seen := make(map[string]bool, len(checkTypes))
	tokens := make([]string, 0, len(checkTypes))
	for _, checkType := range checkTypes {
		token := string(checkType)
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return ExecutedCheckTypeSet(strings.Join(tokens, ","))
}

func (s ExecutedCheckTypeSet) String() string { return string(s) }

func (s ExecutedCheckTypeSet) Tokens() []string {
	if s == "" {
		return nil
	}
	return strings.Split(string(s), ",")
}
