package types

import (
	"bufio"
	"encoding/json"
	"os"
)

// Step is the record of a single decision: which arm was pulled,
// what it paid and how the estimate moved
type Step struct {
	Index    int     `json:"index"`
	Arm      string  `json:"arm"`
	Reward   float64 `json:"reward"`
	StepSize float64 `json:"step_size"`
	Estimate float64 `json:"estimate"`
	Score    float64 `json:"score"`
}

// Trace of a run as the sequence of steps taken
type Trace struct {
	steps []*Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
	}
}

func (t *Trace) Append(step *Step) {
	t.steps = append(t.steps, step)
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Get(i int) (*Step, bool) {
	if i < 0 || i >= len(t.steps) {
		return nil, false
	}
	return t.steps[i], true
}

func (t *Trace) Last() (*Step, bool) {
	if len(t.steps) < 1 {
		return nil, false
	}
	return t.steps[len(t.steps)-1], true
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.steps)
}

func (t *Trace) UnmarshalJSON(data []byte) error {
	steps := make([]*Step, 0)
	if err := json.Unmarshal(data, &steps); err != nil {
		return err
	}
	t.steps = steps
	return nil
}

// Record writes the trace as json to filePath
func (t *Trace) Record(filePath string) error {
	bs, err := json.Marshal(t)
	if err != nil {
		return err
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	if _, err := writer.Write(bs); err != nil {
		return err
	}
	return writer.Flush()
}
