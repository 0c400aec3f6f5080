package game

import "fmt"

// RuleError is a validation failure: the intent was understood but is not
// legal in the current state. State is never mutated when one is returned
// and the reason is acked to the requester only.
type RuleError struct {
	Reason string
}

func (e *RuleError) Error() string {
	return e.Reason
}

func ruleErrorf(format string, args ...any) *RuleError {
	return &RuleError{Reason: fmt.Sprintf(format, args...)}
}

// Action is a play decision on a single hand.
type Action string

const (
	ActionHit    Action = "hit"
	ActionStand  Action = "stand"
	ActionDouble Action = "double"
	ActionSplit  Action = "split"
)

// Valid reports whether a names a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionHit, ActionStand, ActionDouble, ActionSplit:
		return true
	}
	return false
}
