package types

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLearner pays a reward equal to the step number
type countingLearner struct {
	steps  int
	score  float64
	resets int
	failAt int
}

func (c *countingLearner) ObserveAndLearn() (*Step, error) {
	c.steps += 1
	if c.failAt != 0 && c.steps == c.failAt {
		return nil, errors.New("boom")
	}
	c.score += float64(c.steps)
	return &Step{Index: c.steps, Arm: "only", Reward: float64(c.steps), Score: c.score}, nil
}

func (c *countingLearner) Reset() {
	c.steps = 0
	c.score = 0
	c.resets += 1
}

type lastScoreAnalyzer struct {
	scores []float64
}

func (l *lastScoreAnalyzer) Analyze(_ int, _ string, trace *Trace) {
	step, ok := trace.Last()
	if ok {
		l.scores = append(l.scores, step.Score)
	}
}

func (l *lastScoreAnalyzer) DataSet() DataSet {
	return l.scores
}

func (l *lastScoreAnalyzer) Reset() {
	l.scores = nil
}

func TestComparisonRun(t *testing.T) {
	dir := path.Join(t.TempDir(), "results")
	c, err := NewComparison(&ComparisonConfig{
		Runs:         2,
		Steps:        3,
		RecordPath:   dir,
		RecordTraces: true,
	})
	require.NoError(t, err)

	learnerA := &countingLearner{}
	learnerB := &countingLearner{}
	c.AddExperiment(NewExperiment("a", learnerA))
	c.AddExperiment(NewExperiment("b", learnerB))

	compared := make([][]string, 0)
	c.AddAnalysis("score", &lastScoreAnalyzer{}, func(run, steps int, names []string, ds []DataSet) {
		assert.Equal(t, 3, steps)
		for i := range names {
			assert.Equal(t, []float64{6}, ds[i])
		}
		compared = append(compared, names)
	})

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, [][]string{{"a", "b"}, {"a", "b"}}, compared)
	assert.Equal(t, 2, learnerA.resets)
	assert.Equal(t, 2, learnerB.resets)

	bs, err := os.ReadFile(path.Join(dir, "comparison_config.json"))
	require.NoError(t, err)
	cfg := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(bs, &cfg))
	assert.Equal(t, c.ID, cfg["id"])
	assert.Equal(t, 2.0, cfg["runs"])
	assert.Equal(t, []interface{}{"a", "b"}, cfg["experiments"])
	assert.Equal(t, []interface{}{"score"}, cfg["analyzers"])

	traces, err := os.ReadFile(path.Join(dir, "traces", "a_1.json"))
	require.NoError(t, err)
	loaded := NewTrace()
	require.NoError(t, json.Unmarshal(traces, loaded))
	assert.Equal(t, 3, loaded.Len())
}

func TestComparisonRerunSameFolder(t *testing.T) {
	dir := t.TempDir()
	ids := make([]string, 0)
	for i := 0; i < 2; i++ {
		c, err := NewComparison(&ComparisonConfig{Steps: 4 - 2*i, RecordPath: dir, RecordTraces: true})
		require.NoError(t, err)
		c.AddExperiment(NewExperiment("a", &countingLearner{}))
		require.NoError(t, c.Run(context.Background()))
		ids = append(ids, c.ID)
	}
	assert.NotEqual(t, ids[0], ids[1])

	// the trace of the second comparison replaces the first one
	traces, err := os.ReadFile(path.Join(dir, "traces", "a_0.json"))
	require.NoError(t, err)
	loaded := NewTrace()
	require.NoError(t, json.Unmarshal(traces, loaded))
	assert.Equal(t, 2, loaded.Len())

	bs, err := os.ReadFile(path.Join(dir, "comparison_config.json"))
	require.NoError(t, err)
	cfg := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(bs, &cfg))
	assert.Equal(t, ids[1], cfg["id"])
}

func TestNewComparisonKeepsCallerConfig(t *testing.T) {
	config := &ComparisonConfig{Steps: 2, RecordPath: t.TempDir()}
	c, err := NewComparison(config)
	require.NoError(t, err)
	assert.Equal(t, 0, config.Runs)

	learner := &countingLearner{}
	c.AddExperiment(NewExperiment("a", learner))
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 1, learner.resets)
}

func TestComparisonLearnerError(t *testing.T) {
	c, err := NewComparison(&ComparisonConfig{Steps: 5, RecordPath: t.TempDir()})
	require.NoError(t, err)
	c.AddExperiment(NewExperiment("failing", &countingLearner{failAt: 2}))
	c.AddAnalysis("score", &lastScoreAnalyzer{}, func(_, _ int, _ []string, _ []DataSet) {})

	err = c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing")
}

func TestComparisonCancelled(t *testing.T) {
	c, err := NewComparison(&ComparisonConfig{Runs: 1, Steps: 5, RecordPath: t.TempDir()})
	require.NoError(t, err)
	learner := &countingLearner{}
	c.AddExperiment(NewExperiment("a", learner))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
	assert.Equal(t, 0, learner.steps)
}
