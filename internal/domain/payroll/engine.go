package payroll

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Engine runs a fixed set of rules over a batch of payslips. Rules run
// concurrently but results are merged in registration order so issue
// ordering is deterministic.
type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// DefaultEngine wires the four award checks.
func DefaultEngine() *Engine {
	return NewEngine(
		BaseRateRule{},
		CasualLoadingRule{},
		PenaltyRateRule{},
		SuperannuationRule{},
	)
}

// Run evaluates every rule against every payslip and returns all issues
// plus the comma-joined, sorted set of executed categories. A panicking
// rule is recovered and reported as an error so the caller can mark the
// batch as an execution failure instead of losing the process.
func (e *Engine) Run(payslips []*Payslip, validationID string) ([]Issue, string, error) {
	results := make([][]Issue, len(e.rules))
	errs := make([]error, len(e.rules))

	var wg sync.WaitGroup
	for i, rule := range e.rules {
		wg.Add(1)
		go func(i int, rule Rule) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("rule %s panicked: %v", rule.Category(), r)
				}
			}()
			var issues []Issue
			for _, p := range payslips {
				issues = append(issues, rule.Evaluate(p, validationID)...)
			}
			results[i] = issues
		}(i, rule)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, "", err
		}
	}

	var all []Issue
	for _, issues := range results {
		all = append(all, issues...)
	}

	categories := make([]string, 0, len(e.rules))
	for _, rule := range e.rules {
		categories = append(categories, string(rule.Category()))
	}
	sort.Strings(categories)

	return all, strings.Join(categories, ","), nil
}
