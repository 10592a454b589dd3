package bandit

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	charttypes "github.com/go-echarts/go-echarts/v2/types"
	"github.com/golang/glog"
	"github.com/logrusorgru/aurora"
	"github.com/zeu5/bandit-rl-test/types"
	"github.com/zeu5/bandit-rl-test/util"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ScoreAnalyzer records the cumulative score after every step of the trace
type ScoreAnalyzer struct {
	scores []float64
}

var _ types.Analyzer = &ScoreAnalyzer{}

func NewScoreAnalyzer() *ScoreAnalyzer {
	return &ScoreAnalyzer{
		scores: make([]float64, 0),
	}
}

func (s *ScoreAnalyzer) Analyze(_ int, _ string, trace *types.Trace) {
	for i := 0; i < trace.Len(); i++ {
		step, _ := trace.Get(i)
		s.scores = append(s.scores, step.Score)
	}
}

func (s *ScoreAnalyzer) DataSet() types.DataSet {
	out := make([]float64, len(s.scores))
	copy(out, s.scores)
	return out
}

func (s *ScoreAnalyzer) Reset() {
	s.scores = make([]float64, 0)
}

// ScorePlotComparator plots the cumulative score of every experiment in one png per run
func ScorePlotComparator(plotPath string) types.Comparator {
	return func(run, _ int, names []string, datasets []types.DataSet) {
		if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
			glog.Errorf("creating plot folder: %s", err)
			return
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Step"
		p.Y.Label.Text = "Cumulative score"
		for i := 0; i < len(names); i++ {
			scores := datasets[i].([]float64)
			points := make(plotter.XYs, len(scores))
			for j, v := range scores {
				points[j] = plotter.XY{
					X: float64(j + 1),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		if err := p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_score.png")); err != nil {
			glog.Errorf("saving score plot: %s", err)
		}
	}
}

// RewardChartComparator renders the running mean reward of every experiment as an html chart
func RewardChartComparator(chartPath string) types.Comparator {
	return func(run, steps int, names []string, datasets []types.DataSet) {
		if err := os.MkdirAll(chartPath, os.ModePerm); err != nil {
			glog.Errorf("creating chart folder: %s", err)
			return
		}
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{
				Theme: charttypes.ThemeInfographic,
			}),
			charts.WithTitleOpts(opts.Title{
				Title:    "Running Average Reward",
				Subtitle: "Greedy selection, run " + strconv.Itoa(run),
			}),
		)
		xAxis := make([]string, steps)
		for i := range xAxis {
			xAxis[i] = strconv.Itoa(i + 1)
		}
		line.SetXAxis(xAxis)
		for i, name := range names {
			scores := datasets[i].([]float64)
			data := make([]opts.LineData, len(scores))
			for j, v := range scores {
				data[j] = opts.LineData{Value: v / float64(j+1)}
			}
			line.AddSeries(name, data)
		}

		f, err := os.Create(path.Join(chartPath, strconv.Itoa(run)+"_reward.html"))
		if err != nil {
			glog.Errorf("creating reward chart: %s", err)
			return
		}
		defer f.Close()
		if err := line.Render(f); err != nil {
			glog.Errorf("rendering reward chart: %s", err)
		}
	}
}

// ChoiceDataSet summarises which sources were chosen and what they paid
type ChoiceDataSet struct {
	Pulls      map[string]int `json:"pulls"`
	MeanReward float64        `json:"mean_reward"`
	StdReward  float64        `json:"std_reward"`
}

// ChoiceAnalyzer counts the pulls of each source over the analyzed traces
type ChoiceAnalyzer struct {
	pulls   map[string]int
	rewards []float64
}

var _ types.Analyzer = &ChoiceAnalyzer{}

func NewChoiceAnalyzer() *ChoiceAnalyzer {
	c := &ChoiceAnalyzer{}
	c.Reset()
	return c
}

func (c *ChoiceAnalyzer) Analyze(_ int, _ string, trace *types.Trace) {
	for i := 0; i < trace.Len(); i++ {
		step, _ := trace.Get(i)
		c.pulls[step.Arm] += 1
		c.rewards = append(c.rewards, step.Reward)
	}
}

func (c *ChoiceAnalyzer) DataSet() types.DataSet {
	ds := &ChoiceDataSet{
		Pulls: make(map[string]int, len(c.pulls)),
	}
	for k, v := range c.pulls {
		ds.Pulls[k] = v
	}
	switch len(c.rewards) {
	case 0:
	case 1:
		ds.MeanReward = c.rewards[0]
	default:
		ds.MeanReward, ds.StdReward = stat.MeanStdDev(c.rewards, nil)
	}
	return ds
}

func (c *ChoiceAnalyzer) Reset() {
	c.pulls = make(map[string]int)
	c.rewards = make([]float64, 0)
}

// ChoiceComparator prints the pull counts of every experiment and stores them as json
func ChoiceComparator(savePath string) types.Comparator {
	return func(run, _ int, names []string, datasets []types.DataSet) {
		data := make(map[string]*ChoiceDataSet)
		for i, exp := range names {
			ds := datasets[i].(*ChoiceDataSet)
			fmt.Printf("For run:%d, experiment: %s, mean reward: %s\n", run, aurora.Bold(exp), aurora.Green(fmt.Sprintf("%.3f", ds.MeanReward)))
			arms := make([]string, 0, len(ds.Pulls))
			for arm := range ds.Pulls {
				arms = append(arms, arm)
			}
			sort.Strings(arms)
			for _, arm := range arms {
				fmt.Printf("\tSource: %s, Pulls: %d\n", arm, aurora.Blue(ds.Pulls[arm]))
			}
			data[exp] = ds
		}

		bs, err := json.Marshal(data)
		if err != nil {
			glog.Errorf("encoding choices: %s", err)
			return
		}
		if err := util.WriteToFile(path.Join(savePath, strconv.Itoa(run)+"_choices.json"), string(bs)); err != nil {
			glog.Errorf("writing choices: %s", err)
		}
	}
}
