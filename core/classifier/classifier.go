package classifier

import (
	"errors"
	"sort"

	"github.com/siherrmann/corefer/model"
)

// ErrClassifierUnavailable is returned when a model cannot be loaded or evaluated
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// Classifier maps a feature set to a probability distribution over labels.
// Implementations must be safe for concurrent reads.
type Classifier interface {
	Eval(features model.Features) (Distribution, error)
}

// Func adapts a plain function to the Classifier interface
type Func func(features model.Features) (Distribution, error)

// Eval calls f
func (f Func) Eval(features model.Features) (Distribution, error) {
	return f(features)
}

// Distribution holds the probability of each label
type Distribution map[string]float64

// Prob returns the probability of label, 0 if the label is unknown
func (d Distribution) Prob(label string) float64 {
	return d[label]
}

// Best returns the most probable label.
// Ties are broken by label order so the result is deterministic.
func (d Distribution) Best() (string, float64) {
	labels := make([]string, 0, len(d))
	for l := range d {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	best, bestProb := "", -1.0
	for _, l := range labels {
		if d[l] > bestProb {
			best, bestProb = l, d[l]
		}
	}
	return best, bestProb
}
