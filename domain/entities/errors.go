package entities

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a verification run stopped
type FailureKind string

const (
	FailureNavigation    FailureKind = "navigation"
	FailureAssertion     FailureKind = "assertion"
	FailureScoreMismatch FailureKind = "score_mismatch"
)

var (
	// ErrNotVisible is returned by visibility assertions.
	ErrNotVisible = errors.New("element not visible")
	// ErrUnsafePlan is returned when a plan would change server state.
	ErrUnsafePlan = errors.New("unsafe plan")
)

// StepError wraps the failure of one plan step
type StepError struct {
	Step   int
	Action Action
	Kind   FailureKind
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s %s) failed: %v", e.Step, e.Action.Type, e.Action.Description, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ScoreMismatchError is returned when the score preview differs from the expected value
type ScoreMismatchError struct {
	Expected string
	Actual   string
}

func (e *ScoreMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

// KindOf - returns the failure kind of err, navigation when unknown
func KindOf(err error) FailureKind {
	var mismatch *ScoreMismatchError
	if errors.As(err, &mismatch) {
		return FailureScoreMismatch
	}
	var step *StepError
	if errors.As(err, &step) {
		return step.Kind
	}
	if errors.Is(err, ErrNotVisible) || errors.Is(err, ErrUnsafePlan) {
		return FailureAssertion
	}
	return FailureNavigation
}
