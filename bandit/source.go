package bandit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RewardSource is one arm of the bandit. The parameters are kept as
// IEEE-754 bit patterns so that two sources are the same map key
// exactly when their parameters are bit-identical.
type RewardSource struct {
	meanBits uint64
	stdBits  uint64
}

// NewRewardSource stores mean and std as given, std is not validated
func NewRewardSource(mean, std float64) RewardSource {
	return RewardSource{
		meanBits: math.Float64bits(mean),
		stdBits:  math.Float64bits(std),
	}
}

func (r RewardSource) Mean() float64 {
	return math.Float64frombits(r.meanBits)
}

func (r RewardSource) Std() float64 {
	return math.Float64frombits(r.stdBits)
}

// Sample draws a unit normal z from src and returns z + mean*std.
// A nil src draws from the package level generator.
func (r RewardSource) Sample(src rand.Source) float64 {
	z := distuv.Normal{Mu: 0, Sigma: 1, Src: src}.Rand()
	return z + r.Mean()*r.Std()
}

func (r RewardSource) String() string {
	return fmt.Sprintf("(mean: %s, std: %s)", formatFloat(r.Mean()), formatFloat(r.Std()))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseRewardSource reads a "mean:std" pair
func ParseRewardSource(s string) (RewardSource, error) {
	meanStr, stdStr, ok := strings.Cut(s, ":")
	if !ok {
		return RewardSource{}, fmt.Errorf("invalid reward source %q, expected mean:std", s)
	}
	mean, err := strconv.ParseFloat(strings.TrimSpace(meanStr), 64)
	if err != nil {
		return RewardSource{}, fmt.Errorf("invalid mean in %q: %w", s, err)
	}
	std, err := strconv.ParseFloat(strings.TrimSpace(stdStr), 64)
	if err != nil {
		return RewardSource{}, fmt.Errorf("invalid std in %q: %w", s, err)
	}
	return NewRewardSource(mean, std), nil
}

// ReferenceSources are the five arms the reference simulation is built from
func ReferenceSources() []RewardSource {
	return []RewardSource{
		NewRewardSource(0, 7),
		NewRewardSource(2, 3),
		NewRewardSource(4, 2),
		NewRewardSource(5, 0),
		NewRewardSource(4, 13),
	}
}
