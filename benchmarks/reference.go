package benchmarks

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/golang/glog"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/zeu5/bandit-rl-test/bandit"
	"golang.org/x/exp/rand"
)

// Reference builds an agent over the given sources and takes the given
// number of decision steps, one by default. The trace is recorded in
// saveFile unless it is empty.
func Reference(ctx context.Context, sources []bandit.RewardSource, rule bandit.StepSizeRule, steps int, seed uint64, saveFile string) (*bandit.Agent, error) {
	config := &bandit.AgentConfig{
		Sources:  sources,
		StepSize: rule,
	}
	if seed != 0 {
		config.Source = rand.NewSource(seed)
	}
	agent, err := bandit.NewAgent(config)
	if err != nil {
		return nil, err
	}
	glog.Infof("agent with %d sources, step size rule %s", len(agent.Sources()), agent.StepSizeRule())

	trace, err := agent.Run(ctx, steps)
	if err != nil {
		return nil, err
	}
	if saveFile != "" {
		if err := os.MkdirAll(saveFile, os.ModePerm); err != nil {
			return nil, err
		}
		if err := trace.Record(path.Join(saveFile, "reference_trace.json")); err != nil {
			return nil, err
		}
	}
	for i := 0; i < trace.Len(); i++ {
		step, _ := trace.Get(i)
		fmt.Printf("Step %d: chose %s, reward %s\n", step.Index, aurora.Bold(step.Arm), aurora.Green(fmt.Sprintf("%.4f", step.Reward)))
	}
	fmt.Printf("Score: %s, actions: %d\n", aurora.Bold(fmt.Sprintf("%.4f", agent.CumulativeScore())), agent.ActionCount())
	for _, s := range agent.Sources() {
		q, _ := agent.Estimate(s)
		fmt.Printf("\t%s estimate: %.4f, pulls: %d\n", s, q, agent.Pulls(s))
	}
	return agent, nil
}

func ReferenceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reference",
		Short: "Run the greedy agent over the configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := bandit.ParseStepSizeRule(stepSize)
			if err != nil {
				return err
			}
			sources, err := sourcesFromFlags()
			if err != nil {
				return err
			}
			return withProfiling(saveFile, func() error {
				_, err := Reference(cmd.Context(), sources, rule, steps, seed, saveFile)
				return err
			})
		},
	}
}
