package resolver

import (
	"log/slog"

	"github.com/siherrmann/corefer/core/classifier"
	"github.com/siherrmann/corefer/core/pipeline"
	"github.com/siherrmann/corefer/model"
)

type options struct {
	config         model.ResolverConfig
	classifier     classifier.Classifier
	nonReferential NonReferentialResolver
	sink           EventSink
	logger         *slog.Logger
	embed          pipeline.EmbedFunc

	// model loading
	modelDir           string
	project            string
	loadNonReferential bool
}

// Option configures a Resolver
type Option func(*options)

func newOptions(config model.ResolverConfig, opts []Option) *options {
	o := &options{config: config}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithConfig replaces the subtype's default configuration
func WithConfig(config model.ResolverConfig) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithWindow overrides the lookback window of the default configuration
func WithWindow(window int) Option {
	return func(o *options) {
		o.config.Window = window
	}
}

// WithClassifier sets the link classifier used in resolve mode
func WithClassifier(c classifier.Classifier) Option {
	return func(o *options) {
		o.classifier = c
	}
}

// WithNonReferentialResolver sets the non-referential gate
func WithNonReferentialResolver(n NonReferentialResolver) Option {
	return func(o *options) {
		o.nonReferential = n
	}
}

// WithEventSink sets the sink for training events
func WithEventSink(sink EventSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithLogger sets the logger, slog.Default() otherwise
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEmbedder enables the semantic similarity base feature
func WithEmbedder(embed pipeline.EmbedFunc) Option {
	return func(o *options) {
		o.embed = embed
	}
}

// FromProject loads the classifier from <dir>/<project>/<model name>.json in resolve mode.
// With nonReferential set the non-referential model <model name>.nr is loaded as well.
func FromProject(dir string, project string, nonReferential bool) Option {
	return func(o *options) {
		o.modelDir = dir
		o.project = project
		o.loadNonReferential = nonReferential
	}
}
