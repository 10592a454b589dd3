package benchmarks

import (
	"context"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/bandit-rl-test/bandit"
	"github.com/zeu5/bandit-rl-test/types"
	"golang.org/x/exp/rand"
)

// Compare runs the sample-average and truncated step size rules side by side
// and stores the plots and reports in saveFile
func Compare(ctx context.Context, sources []bandit.RewardSource, steps, runs int, saveFile string, seed uint64) error {
	c, err := types.NewComparison(&types.ComparisonConfig{
		Runs:         runs,
		Steps:        steps,
		RecordPath:   saveFile,
		RecordTraces: true,
	})
	if err != nil {
		return err
	}
	c.AddAnalysis("Score", bandit.NewScoreAnalyzer(), bandit.ScorePlotComparator(path.Join(saveFile, "plots")))
	c.AddAnalysis("Reward", bandit.NewScoreAnalyzer(), bandit.RewardChartComparator(path.Join(saveFile, "charts")))
	c.AddAnalysis("Choices", bandit.NewChoiceAnalyzer(), bandit.ChoiceComparator(path.Join(saveFile, "choices")))

	for i, rule := range []bandit.StepSizeRule{bandit.SampleAverage, bandit.Truncated} {
		config := &bandit.AgentConfig{
			Sources:  sources,
			StepSize: rule,
		}
		if seed != 0 {
			config.Source = rand.NewSource(seed + uint64(i))
		}
		agent, err := bandit.NewAgent(config)
		if err != nil {
			return err
		}
		c.AddExperiment(types.NewExperiment(rule.String(), agent))
	}

	return c.Run(ctx)
}

func CompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare the sample-average and truncated step size rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := sourcesFromFlags()
			if err != nil {
				return err
			}
			return withProfiling(saveFile, func() error {
				return Compare(cmd.Context(), sources, steps, runs, saveFile, seed)
			})
		},
	}
}
