package benchmarks

import (
	"flag"

	"github.com/spf13/cobra"
	"github.com/zeu5/bandit-rl-test/bandit"
)

var (
	steps    int
	runs     int
	saveFile string
	seed     uint64
	stepSize string
	arms     []string

	cpuprofile string
	memprofile string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "bandit",
		Short:        "Greedy action-value estimation on a multi-armed bandit",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().IntVar(&steps, "steps", 1, "Number of decision steps to take")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed for the reward randomness, 0 seeds from the clock")
	rootCommand.PersistentFlags().StringVar(&stepSize, "step-size", bandit.SampleAverage.String(), "Step size rule: sample-average or truncated")
	rootCommand.PersistentFlags().StringSliceVar(&arms, "arm", nil, "Reward source as mean:std, repeatable. Defaults to the reference sources")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a cpu profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a memory profile to this file in the save folder")
	// glog flags (-v, -logtostderr, ...)
	rootCommand.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	// adding the subcommands here
	rootCommand.AddCommand(ReferenceCommand())
	rootCommand.AddCommand(CompareCommand())
	return rootCommand
}

// sources parsed from the --arm flags, the reference sources when none are given
func sourcesFromFlags() ([]bandit.RewardSource, error) {
	if len(arms) == 0 {
		return bandit.ReferenceSources(), nil
	}
	sources := make([]bandit.RewardSource, len(arms))
	for i, a := range arms {
		s, err := bandit.ParseRewardSource(a)
		if err != nil {
			return nil, err
		}
		sources[i] = s
	}
	return sources, nil
}
