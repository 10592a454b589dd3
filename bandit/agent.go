package bandit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/zeu5/bandit-rl-test/types"
	"golang.org/x/exp/rand"
)

var (
	// ErrNoSources is returned when an agent is built without any source to select from
	ErrNoSources = errors.New("agent needs at least one reward source")
	// ErrDuplicateSource is returned when the same source is supplied twice
	ErrDuplicateSource = errors.New("duplicate reward source")
	// ErrZeroActionCount guards the update rule against dividing by zero
	ErrZeroActionCount = errors.New("action count is zero")
)

type AgentConfig struct {
	Sources  []RewardSource
	StepSize StepSizeRule
	// Source of randomness for the rewards, seeded from the clock when nil
	Source rand.Source
}

// Agent keeps one action-value estimate per reward source, always picks
// the best estimated source and learns from the reward it observes
type Agent struct {
	sources   []RewardSource
	estimates map[RewardSource]float64
	pulls     map[RewardSource]int
	score     float64
	actions   uint32
	stepSize  StepSizeRule
	src       rand.Source
}

var _ types.Learner = &Agent{}

// Instantiates a new Agent. Fails with ErrNoSources when no source is
// given and ErrDuplicateSource when a source appears twice.
func NewAgent(config *AgentConfig) (*Agent, error) {
	if len(config.Sources) == 0 {
		return nil, ErrNoSources
	}
	sources := make([]RewardSource, len(config.Sources))
	seen := make(map[RewardSource]bool, len(config.Sources))
	for i, s := range config.Sources {
		if seen[s] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, s)
		}
		seen[s] = true
		sources[i] = s
	}
	src := config.Source
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	a := &Agent{
		sources:  sources,
		stepSize: config.StepSize,
		src:      src,
	}
	a.Reset()
	return a, nil
}

// Reset puts the agent back in the fresh state: every estimate at 0,
// no score and no actions
func (a *Agent) Reset() {
	a.estimates = make(map[RewardSource]float64, len(a.sources))
	a.pulls = make(map[RewardSource]int, len(a.sources))
	for _, s := range a.sources {
		a.estimates[s] = 0
		a.pulls[s] = 0
	}
	a.score = 0
	a.actions = 0
}

// SelectBest scans the sources in construction order starting from a
// threshold of 0 and keeps the first source whose estimate is strictly
// greater than the best so far. When no estimate exceeds 0 the first
// source is returned.
func (a *Agent) SelectBest() RewardSource {
	best := a.sources[0]
	bestQuality := 0.0
	for _, s := range a.sources {
		if q := a.estimates[s]; q > bestQuality {
			bestQuality = q
			best = s
		}
	}
	return best
}

// ObserveAndLearn runs one decision step: select, pull, update
func (a *Agent) ObserveAndLearn() (*types.Step, error) {
	chosen := a.SelectBest()

	prevActions := a.actions
	a.actions += 1
	stepSize, err := a.stepSize.StepSize(a.actions)
	if err != nil {
		a.actions = prevActions
		return nil, fmt.Errorf("updating estimate of %s: %w", chosen, err)
	}

	reward := chosen.Sample(a.src)
	a.score += reward
	a.pulls[chosen] += 1

	oldVal := a.estimates[chosen]
	newVal := oldVal + stepSize*(reward-oldVal)
	a.estimates[chosen] = newVal

	glog.V(1).Infof("step %d: chose %s, reward %f, estimate %f -> %f", a.actions, chosen, reward, oldVal, newVal)

	return &types.Step{
		Index:    int(a.actions),
		Arm:      chosen.String(),
		Reward:   reward,
		StepSize: stepSize,
		Estimate: newVal,
		Score:    a.score,
	}, nil
}

// Run takes the given number of decision steps and returns their trace
func (a *Agent) Run(ctx context.Context, steps int) (*types.Trace, error) {
	trace := types.NewTrace()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return trace, ctx.Err()
		default:
		}
		step, err := a.ObserveAndLearn()
		if err != nil {
			return trace, err
		}
		trace.Append(step)
	}
	return trace, nil
}

func (a *Agent) CumulativeScore() float64 {
	return a.score
}

func (a *Agent) ActionCount() uint32 {
	return a.actions
}

func (a *Agent) State() AgentState {
	if a.actions == 0 {
		return Fresh
	}
	return Active
}

func (a *Agent) StepSizeRule() StepSizeRule {
	return a.stepSize
}

// Estimate of the source, false if the agent does not know the source
func (a *Agent) Estimate(s RewardSource) (float64, bool) {
	q, ok := a.estimates[s]
	return q, ok
}

// Estimates returns a copy of the estimates
func (a *Agent) Estimates() map[RewardSource]float64 {
	out := make(map[RewardSource]float64, len(a.estimates))
	for s, q := range a.estimates {
		out[s] = q
	}
	return out
}

// Pulls is the number of times the source was chosen
func (a *Agent) Pulls(s RewardSource) int {
	return a.pulls[s]
}

// Sources in construction order
func (a *Agent) Sources() []RewardSource {
	out := make([]RewardSource, len(a.sources))
	copy(out, a.sources)
	return out
}
