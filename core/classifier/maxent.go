package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/siherrmann/corefer/model"
)

// ModelExtension is the file extension of serialized models
const ModelExtension = ".json"

// Model is a maximum entropy model: every feature carries one weight per outcome
// and the distribution is the normalized exponential of the summed weights.
type Model struct {
	Outcomes   []string             `json:"outcomes"`
	Parameters map[string][]float64 `json:"parameters"`
}

// NewModel creates a model and checks that every feature has one weight per outcome
func NewModel(outcomes []string, parameters map[string][]float64) (*Model, error) {
	m := &Model{
		Outcomes:   outcomes,
		Parameters: parameters,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) validate() error {
	if len(m.Outcomes) == 0 {
		return fmt.Errorf("%w: model has no outcomes", ErrClassifierUnavailable)
	}
	for feature, weights := range m.Parameters {
		if len(weights) != len(m.Outcomes) {
			return fmt.Errorf("%w: feature %q has %d weights for %d outcomes", ErrClassifierUnavailable, feature, len(weights), len(m.Outcomes))
		}
	}
	return nil
}

// Eval returns the outcome distribution for the active features.
// Unknown features are ignored.
func (m *Model) Eval(features model.Features) (Distribution, error) {
	if m == nil || len(m.Outcomes) == 0 {
		return nil, ErrClassifierUnavailable
	}

	sums := make([]float64, len(m.Outcomes))
	for _, f := range features {
		weights, ok := m.Parameters[f]
		if !ok {
			continue
		}
		for i, w := range weights {
			sums[i] += w
		}
	}

	maxSum := math.Inf(-1)
	for _, s := range sums {
		maxSum = math.Max(maxSum, s)
	}

	total := 0.0
	for i, s := range sums {
		sums[i] = math.Exp(s - maxSum)
		total += sums[i]
	}

	dist := make(Distribution, len(m.Outcomes))
	for i, o := range m.Outcomes {
		dist[o] = sums[i] / total
	}
	return dist, nil
}

// ModelPath returns the location of a model: <dir>/<project>/<subPath>.json
func ModelPath(dir string, project string, subPath string) string {
	return filepath.Join(dir, project, filepath.FromSlash(subPath)+ModelExtension)
}

// LoadModel reads the model of a project. Any failure is reported as ErrClassifierUnavailable.
func LoadModel(dir string, project string, subPath string) (*Model, error) {
	path := ModelPath(dir, project, subPath)

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}

	m := &Model{}
	if err := json.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrClassifierUnavailable, path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return m, nil
}

// Save writes the model below dir using the project/sub-path convention
func (m *Model) Save(dir string, project string, subPath string) error {
	path := ModelPath(dir, project, subPath)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}
