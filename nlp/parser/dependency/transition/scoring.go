package transition

import (
	"fmt"
	"math"
)

// ScoringStrategy derives a configuration score from its decisions.
type ScoringStrategy interface {
	Name() string
	Score(decisions []Decision) float64
}

func NewScoringStrategy(name string) (ScoringStrategy, error) {
	switch name {
	case "", "Additive":
		return Additive{}, nil
	case "GeometricMean":
		return GeometricMean{}, nil
	case "HarmonicMean":
		return HarmonicMean{}, nil
	}
	return nil, fmt.Errorf("unknown scoring strategy %q", name)
}

// Additive sums the decision scores; this is the global-learning score.
type Additive struct{}

func (Additive) Name() string { return "Additive" }

func (Additive) Score(decisions []Decision) float64 {
	var sum float64
	for _, d := range decisions {
		sum += d.Score
	}
	return sum
}

// GeometricMean of the decision probabilities, 1 with no decisions.
type GeometricMean struct{}

func (GeometricMean) Name() string { return "GeometricMean" }

func (GeometricMean) Score(decisions []Decision) float64 {
	if len(decisions) == 0 {
		return 1
	}
	var logSum float64
	for _, d := range decisions {
		if d.Probability <= 0 {
			return 0
		}
		logSum += math.Log(d.Probability)
	}
	return math.Exp(logSum / float64(len(decisions)))
}

// HarmonicMean of the decision probabilities, 1 with no decisions.
type HarmonicMean struct{}

func (HarmonicMean) Name() string { return "HarmonicMean" }

func (HarmonicMean) Score(decisions []Decision) float64 {
	if len(decisions) == 0 {
		return 1
	}
	var inverseSum float64
	for _, d := range decisions {
		if d.Probability <= 0 {
			return 0
		}
		inverseSum += 1 / d.Probability
	}
	return float64(len(decisions)) / inverseSum
}
