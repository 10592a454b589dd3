package bandit

import "fmt"

// StepSizeRule decides how far an estimate moves towards a new reward
// given the total number of actions taken so far
type StepSizeRule int

const (
	// SampleAverage uses 1/n with real division
	SampleAverage StepSizeRule = iota
	// Truncated uses 1/n with integer division: 1 on the first action
	// and 0 on every action after it, so estimates freeze after one step
	Truncated
)

// StepSize for the n-th action. n must be at least 1.
func (s StepSizeRule) StepSize(n uint32) (float64, error) {
	if n == 0 {
		return 0, ErrZeroActionCount
	}
	switch s {
	case Truncated:
		return float64(1 / n), nil
	default:
		return 1 / float64(n), nil
	}
}

func (s StepSizeRule) String() string {
	switch s {
	case SampleAverage:
		return "sample-average"
	case Truncated:
		return "truncated"
	}
	return fmt.Sprintf("StepSizeRule(%d)", int(s))
}

// ParseStepSizeRule is the inverse of String
func ParseStepSizeRule(s string) (StepSizeRule, error) {
	switch s {
	case "sample-average", "":
		return SampleAverage, nil
	case "truncated":
		return Truncated, nil
	}
	return SampleAverage, fmt.Errorf("unknown step size rule %q", s)
}

// AgentState is either Fresh (no action taken) or Active
type AgentState int

const (
	Fresh AgentState = iota
	Active
)

func (s AgentState) String() string {
	if s == Fresh {
		return "fresh"
	}
	return "active"
}
