package types

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

type experimentRunConfig struct {
	// execution configuration
	CurrentRun int
	Steps      int
	Analyzers  []Analyzer
	Context    context.Context

	// record flags
	RecordTraces bool
	SavePath     string

	//misc
	LongestExpNameLen int
}

// Experiment encapsulates a learner and the name its results are reported under
type Experiment struct {
	Name    string
	learner Learner
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, learner Learner) *Experiment {
	return &Experiment{
		Name:    name,
		learner: learner,
	}
}

// recordTrace overwrites the trace file of this experiment and run
func (e *Experiment) recordTrace(rConfig *experimentRunConfig, trace *Trace) error {
	return trace.Record(path.Join(rConfig.SavePath, "traces", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".json"))
}

// Run the experiment for the configured number of steps and hand the
// resulting trace to every analyzer
func (e *Experiment) Run(rConfig *experimentRunConfig) error {
	select {
	case <-rConfig.Context.Done():
		return rConfig.Context.Err()
	default:
	}

	trace := NewTrace()
	score := 0.0
	stepsPadding := len(strconv.Itoa(rConfig.Steps))

	for i := 0; i < rConfig.Steps; i++ {
		select {
		case <-rConfig.Context.Done():
			return rConfig.Context.Err()
		default:
		}

		step, err := e.learner.ObserveAndLearn()
		if err != nil {
			return fmt.Errorf("experiment %s, step %d: %w", e.Name, i+1, err)
		}
		trace.Append(step)
		score = step.Score

		// terminal execution display
		fmt.Printf("\rExp:%*s, Steps:%*d/%d, Score:%10.3f",
			rConfig.LongestExpNameLen, e.Name, stepsPadding, i+1, rConfig.Steps, score)
	}
	fmt.Println("")

	if rConfig.RecordTraces {
		if err := e.recordTrace(rConfig, trace); err != nil {
			return err
		}
	}

	for _, a := range rConfig.Analyzers {
		a.Analyze(rConfig.CurrentRun, e.Name, trace)
	}
	return nil
}

// Reset the learner so that the next run starts fresh
func (e *Experiment) Reset() {
	e.learner.Reset()
}

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information in the traces to a DataSet
type Analyzer interface {
	// Run, experiment, trace
	Analyze(int, string, *Trace)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between different datasets with associated names
// run, steps, experiment names, datasets
type Comparator func(int, int, []string, []DataSet)

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs  int // number of runs
	Steps int // decision steps per run

	RecordPath   string // path to store the results
	RecordTraces bool
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	out := make(map[string]interface{})
	out["id"] = c.ID
	out["runs"] = cfg.Runs
	out["steps"] = cfg.Steps
	out["record_traces"] = cfg.RecordTraces

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments

	analyzers := make([]string, 0)
	for _, name := range c.analyzerNames {
		analyzers = append(analyzers, name)
	}
	out["analyzers"] = analyzers

	bs, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(cfg.RecordPath, "comparison_config.json"), bs, 0644)
}

// Comparison contains the different experiments to compare
// The traces obtained from the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	ID            string
	Experiments   []*Experiment
	analyzerNames []string
	analyzers     map[string]Analyzer
	comparators   map[string]Comparator
	cConfig       *ComparisonConfig
}

// NewComparison creates a comparison instance and prepares the record folder
func NewComparison(config *ComparisonConfig) (*Comparison, error) {
	cfg := *config
	if cfg.Runs <= 0 {
		cfg.Runs = 1
	}
	config = &cfg
	if err := os.MkdirAll(config.RecordPath, 0777); err != nil {
		return nil, err
	}
	if config.RecordTraces {
		if err := os.MkdirAll(path.Join(config.RecordPath, "traces"), 0777); err != nil {
			return nil, err
		}
	}

	return &Comparison{
		ID:            uuid.NewString(),
		Experiments:   make([]*Experiment, 0),
		analyzerNames: make([]string, 0),
		analyzers:     make(map[string]Analyzer),
		comparators:   make(map[string]Comparator),
		cConfig:       config,
	}, nil
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	if _, ok := c.analyzers[name]; !ok {
		c.analyzerNames = append(c.analyzerNames, name)
	}
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if err := c.recordConfig(); err != nil {
		return err
	}

	longestNameLen := 0
	for _, e := range c.Experiments {
		if len(e.Name) > longestNameLen {
			longestNameLen = len(e.Name)
		}
	}

	for run := 0; run < c.cConfig.Runs; run++ {
		glog.Infof("comparison %s: run %d/%d", c.ID, run+1, c.cConfig.Runs)
		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			if err := e.Run(c.prepareRunConfig(ctx, run, longestNameLen)); err != nil {
				return err
			}
			for name, a := range c.analyzers {
				datasets[name][i] = a.DataSet()
				a.Reset()
			}
			names[i] = e.Name
			e.Reset()
		}
		for _, name := range c.analyzerNames {
			c.comparators[name](run, c.cConfig.Steps, names, datasets[name])
		}
	}
	return nil
}

// prepare the run configuration for the experiment
func (c *Comparison) prepareRunConfig(ctx context.Context, run, longestExpNameLen int) *experimentRunConfig {
	rCfg := &experimentRunConfig{
		CurrentRun:        run,
		Steps:             c.cConfig.Steps,
		Analyzers:         make([]Analyzer, 0),
		Context:           ctx,
		RecordTraces:      c.cConfig.RecordTraces,
		SavePath:          c.cConfig.RecordPath,
		LongestExpNameLen: longestExpNameLen,
	}
	for _, name := range c.analyzerNames {
		rCfg.Analyzers = append(rCfg.Analyzers, c.analyzers[name])
	}
	return rCfg
}
