package model

// Mode selects between resolving mentions and emitting training events
type Mode string

const (
	ModeResolve Mode = "resolve"
	ModeTrain   Mode = "train"
)

// ResolverConfig holds the per-subtype constants of a resolver
type ResolverConfig struct {
	Name      string `json:"name"`
	ModelName string `json:"model_name"` // sub-path of the classifier model below the project directory

	// Search parameters
	Window int `json:"window"` // maximum number of entities looked back

	// Decision thresholds
	AcceptThreshold         float64 `json:"accept_threshold"`          // link probability must be strictly greater
	NonReferentialThreshold float64 `json:"non_referential_threshold"` // non-referential probability must be greater or equal
}

// DefaultIsAConfig returns the configuration of the predicate nominal resolver
func DefaultIsAConfig() ResolverConfig {
	return ResolverConfig{
		Name:                    "isa",
		ModelName:               "imodel",
		Window:                  20,
		AcceptThreshold:         0.5,
		NonReferentialThreshold: 0.5,
	}
}

// DefaultProperNounConfig returns the configuration of the proper noun resolver
func DefaultProperNounConfig() ResolverConfig {
	return ResolverConfig{
		Name:                    "propernoun",
		ModelName:               "pnmodel",
		Window:                  500,
		AcceptThreshold:         0.5,
		NonReferentialThreshold: 0.5,
	}
}

// DefaultSingularPronounConfig returns the configuration of the singular pronoun resolver
func DefaultSingularPronounConfig() ResolverConfig {
	return ResolverConfig{
		Name:                    "singularpronoun",
		ModelName:               "pmodel",
		Window:                  30,
		AcceptThreshold:         0.5,
		NonReferentialThreshold: 0.5,
	}
}

// Validate checks the configuration for values that make resolution impossible
func (c ResolverConfig) Validate() error {
	switch {
	case c.Name == "":
		return errConfig("name must be set")
	case c.ModelName == "":
		return errConfig("model name must be set")
	case c.Window <= 0:
		return errConfig("window must be positive")
	case c.AcceptThreshold < 0 || c.AcceptThreshold > 1:
		return errConfig("accept threshold must be in [0,1]")
	case c.NonReferentialThreshold < 0 || c.NonReferentialThreshold > 1:
		return errConfig("non-referential threshold must be in [0,1]")
	}
	return nil
}
