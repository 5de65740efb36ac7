// Package guard defines pre-flight checks that run before a tool is
// allowed to touch the backend. Guards enforce usage budgets; they never
// perform backend calls themselves.
package guard

import "context"

// Request identifies the tool call being checked.
type Request struct {
	// Tool is the tool name.
	Tool string
}

// Decision is the outcome of a guard check.
type Decision struct {
	// Allowed indicates whether the call may proceed.
	Allowed bool
	// Reason explains a denial.
	Reason string
	// Source identifies the guard that decided.
	Source string
}

// Guard checks whether a tool call is allowed.
type Guard interface {
	// Name returns the guard identifier for audit and logging.
	Name() string
	// Check returns a decision for the given request.
	Check(ctx context.Context, req Request) (Decision, error)
}

// Chain runs guards sequentially until one denies.
type Chain struct {
	// Guards is the ordered list to execute.
	Guards []Guard
}

// Check executes all guards in order.
func (c Chain) Check(ctx context.Context, req Request) (Decision, error) {
	for _, item := range c.Guards {
		decision, err := item.Check(ctx, req)
		if err != nil {
			return Decision{Allowed: false, Reason: err.Error(), Source: item.Name()}, err
		}
		if !decision.Allowed {
			if decision.Source == "" {
				decision.Source = item.Name()
			}
			return decision, nil
		}
	}
	return Decision{Allowed: true}, nil
}
