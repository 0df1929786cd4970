package roster

import (
	"fmt"
	"sync"

	"fairworkly/internal/domain/award"
)

// Engine runs a fixed, ordered set of roster rules. Rules are pure and
// run concurrently; results merge in registration order.
type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// DefaultEngine wires the full rule set against a parameter provider.
func DefaultEngine(params *award.ParameterProvider) *Engine {
	return NewEngine(
		DataQualityRule{},
		MinimumShiftHoursRule{Params: params},
		MealBreakRule{Params: params},
		RestPeriodRule{Params: params},
		WeeklyHoursLimitRule{Params: params},
		ConsecutiveDaysRule{Params: params},
	)
}

// ExecutedCheckTypes reports which checks this engine will run.
func (e *Engine) ExecutedCheckTypes() ExecutedCheckTypeSet {
	checkTypes := make([]CheckType, 0, len(e.rules))
	for _, rule := range e.rules {
		checkTypes = append(checkTypes, rule.CheckType())
	}
	return NewExecutedCheckTypeSet(checkTypes...)
}

// EvaluateAll fans the rules out over the shift batch. Any rule error
// is a configuration fault and aborts the whole evaluation; a panicking
// rule is recovered and reported the same way.
func (e *Engine) EvaluateAll(shifts []*Shift, validationID string) ([]Issue, error) {
	results := make([][]Issue, len(e.rules))
	errs := make([]error, len(e.rules))

	var wg sync.WaitGroup
	for i, rule := range e.rules {
		wg.Add(1)
		go func(i int, rule Rule) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("check %s panicked: %v", rule.CheckType(), r)
				}
			}()
			results[i], errs[i] = rule.Evaluate(shifts, validationID)
		}(i, rule)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var all []Issue
	for _, issues := range results {
		all = append(all, issues...)
	}
	return all, nil
}
