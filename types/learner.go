package types

// Learner is anything that can take one decision step at a time
// and learn from the outcome
type Learner interface {
	// ObserveAndLearn runs one complete decision step
	ObserveAndLearn() (*Step, error)
	// Reset called between runs of an experiment
	Reset()
}
