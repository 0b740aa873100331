package resolver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/siherrmann/corefer/core/classifier"
	"github.com/siherrmann/corefer/helper"
	"github.com/siherrmann/corefer/model"
)

// Resolver resolves mentions of one kind against the entities of a store.
// It is built either for resolving (ModeResolve) or for emitting training
// events (ModeTrain); both share eligibility and feature extraction.
type Resolver struct {
	config         model.ResolverConfig
	mode           model.Mode
	policy         Policy
	extractor      FeatureExtractor
	classifier     classifier.Classifier
	nonReferential NonReferentialResolver
	sink           EventSink
	log            *slog.Logger
}

// New creates a resolver from a policy and a feature extractor
func New(config model.ResolverConfig, mode model.Mode, policy Policy, extractor FeatureExtractor, opts ...Option) (*Resolver, error) {
	o := newOptions(config, opts)
	return build(o, mode, policy, extractor)
}

func build(o *options, mode model.Mode, policy Policy, extractor FeatureExtractor) (*Resolver, error) {
	if err := o.config.Validate(); err != nil {
		return nil, helper.NewError("validate config", err)
	}
	if policy == nil || extractor == nil {
		return nil, helper.NewError("create resolver", fmt.Errorf("policy and feature extractor are required"))
	}

	r := &Resolver{
		config:         o.config,
		mode:           mode,
		policy:         policy,
		extractor:      extractor,
		classifier:     o.classifier,
		nonReferential: o.nonReferential,
		sink:           o.sink,
		log:            o.logger,
	}
	if r.log == nil {
		r.log = slog.Default()
	}

	switch mode {
	case model.ModeResolve:
		if err := r.loadModels(o); err != nil {
			return nil, err
		}
		if r.classifier == nil {
			return nil, helper.NewError("create resolver", fmt.Errorf("%w: no classifier for %s", classifier.ErrClassifierUnavailable, r.config.Name))
		}
	case model.ModeTrain:
		if r.sink == nil {
			return nil, helper.NewError("create resolver", fmt.Errorf("event sink is required in train mode"))
		}
	default:
		return nil, helper.NewError("create resolver", fmt.Errorf("%w: unknown mode %q", ErrWrongMode, mode))
	}

	return r, nil
}

func (r *Resolver) loadModels(o *options) error {
	if o.project == "" {
		return nil
	}
	if r.classifier == nil {
		m, err := classifier.LoadModel(o.modelDir, o.project, r.config.ModelName)
		if err != nil {
			return helper.NewError("load link model", err)
		}
		r.classifier = m
	}
	if o.loadNonReferential && r.nonReferential == nil {
		n, err := LoadNonReferentialResolver(o.modelDir, o.project, r.config.ModelName, r.extractor)
		if err != nil {
			return helper.NewError("load non-referential model", err)
		}
		r.nonReferential = n
	}
	return nil
}

// Name returns the configured resolver name
func (r *Resolver) Name() string {
	return r.config.Name
}

// Mode returns the mode the resolver was built for
func (r *Resolver) Mode() model.Mode {
	return r.mode
}

// Config returns the resolver configuration
func (r *Resolver) Config() model.ResolverConfig {
	return r.config
}

// CanResolve reports whether the resolver takes responsibility for mention
func (r *Resolver) CanResolve(mention *model.MentionContext) (bool, error) {
	var ok bool
	err := guard("can resolve", func() {
		ok = r.policy.CanResolve(mention)
	})
	return ok, err
}

// Process dispatches to Resolve or Train depending on the mode
func (r *Resolver) Process(store *model.DiscourseEntityStore, mention *model.MentionContext) (model.Outcome, error) {
	if r.mode == model.ModeTrain {
		return r.Train(store, mention)
	}
	return r.Resolve(store, mention)
}

// Resolve finds the antecedent of mention among the entities of store.
// The mention is appended to the best scoring entity above the accept
// threshold, or a new entity is created. Skipped and non-referential
// mentions leave the store untouched.
func (r *Resolver) Resolve(store *model.DiscourseEntityStore, mention *model.MentionContext) (model.Outcome, error) {
	outcome, err := r.Find(store, mention)
	if err != nil || outcome.Status != model.StatusUnresolved {
		return outcome, err
	}

	outcome.Entity = store.Create(*mention)
	r.log.Debug("Created entity", slog.String("resolver", r.config.Name), slog.Any("mention", mention), slog.Int("entity", int(outcome.Entity)), slog.Int("scored", outcome.Scored))
	return outcome, nil
}

// Find runs the antecedent search of Resolve without creating an entity.
// A mention without antecedent is reported as StatusUnresolved with NoEntity
// and the store is left as it was.
func (r *Resolver) Find(store *model.DiscourseEntityStore, mention *model.MentionContext) (model.Outcome, error) {
	outcome := model.Outcome{Status: model.StatusSkipped, Entity: model.NoEntity, Resolver: r.config.Name}
	if r.mode != model.ModeResolve {
		return outcome, helper.NewError("resolve", ErrWrongMode)
	}

	ok, err := r.accept(mention)
	if err != nil || !ok {
		return outcome, err
	}

	if r.nonReferential != nil {
		p, err := r.nonReferential.NonReferentialProbability(mention)
		if err != nil {
			return outcome, helper.NewError("non-referential probability", err)
		}
		if p >= r.config.NonReferentialThreshold {
			r.log.Debug("Non-referential mention", slog.String("resolver", r.config.Name), slog.Any("mention", mention), slog.Float64("probability", p))
			outcome.Status = model.StatusNonReferential
			outcome.Probability = p
			return outcome, nil
		}
	}

	var (
		best     *model.DiscourseEntity
		bestProb float64
	)
	err = r.eligible(store, mention, func(entity *model.DiscourseEntity) (bool, error) {
		features, err := r.features(mention, entity)
		if err != nil {
			return false, err
		}

		dist, err := r.classifier.Eval(features)
		if err != nil {
			if !errors.Is(err, classifier.ErrClassifierUnavailable) {
				err = fmt.Errorf("%w: %v", classifier.ErrClassifierUnavailable, err)
			}
			return false, helper.NewError("classify", err)
		}

		outcome.Scored++
		// strict comparison keeps the nearest candidate on ties
		if p := dist.Prob(model.LabelLink); best == nil || p > bestProb {
			best, bestProb = entity, p
		}
		return true, nil
	})
	if err != nil {
		return outcome, err
	}

	outcome.Probability = bestProb
	outcome.Status = model.StatusUnresolved
	if best != nil && bestProb > r.config.AcceptThreshold {
		if err := store.Append(best.ID, *mention); err != nil {
			return outcome, helper.NewError("append mention", err)
		}
		outcome.Status = model.StatusResolved
		outcome.Entity = best.ID
		r.log.Debug("Resolved mention", slog.String("resolver", r.config.Name), slog.Any("mention", mention), slog.Int("entity", int(best.ID)), slog.Float64("probability", bestProb))
	}
	return outcome, nil
}

// Train emits labeled events for every eligible candidate of mention using
// its gold chain and advances the store by the gold chain as well.
// The classifier is never consulted.
func (r *Resolver) Train(store *model.DiscourseEntityStore, mention *model.MentionContext) (model.Outcome, error) {
	outcome, err := r.Observe(store, mention)
	if err != nil || outcome.Status == model.StatusSkipped {
		return outcome, err
	}
	return followGold(store, mention, outcome)
}

// Observe emits the training events of Train without changing the store.
// The gold antecedent found in the window is reported as StatusResolved,
// otherwise the outcome is StatusUnresolved with NoEntity.
func (r *Resolver) Observe(store *model.DiscourseEntityStore, mention *model.MentionContext) (model.Outcome, error) {
	outcome := model.Outcome{Status: model.StatusSkipped, Entity: model.NoEntity, Resolver: r.config.Name}
	if r.mode != model.ModeTrain {
		return outcome, helper.NewError("train", ErrWrongMode)
	}

	ok, err := r.accept(mention)
	if err != nil || !ok {
		return outcome, err
	}

	var (
		referent        *model.DiscourseEntity
		hasCandidate    bool
		negativeEmitted bool
	)
	err = r.eligible(store, mention, func(entity *model.DiscourseEntity) (bool, error) {
		hasCandidate = true

		if mention.GoldID != model.NoGoldID && entity.LastExtent().GoldID == mention.GoldID {
			if err := r.emitPair(mention, entity, model.LabelLink); err != nil {
				return false, err
			}
			outcome.Scored++
			referent = entity
			return false, nil
		}

		var different bool
		if err := guard("different criteria", func() {
			different = r.policy.DifferentCriteria(entity)
		}); err != nil {
			return false, err
		}
		if !negativeEmitted || different {
			if err := r.emitPair(mention, entity, model.LabelNoLink); err != nil {
				return false, err
			}
			outcome.Scored++
			negativeEmitted = true
		}
		return true, nil
	})
	if err != nil {
		return outcome, err
	}

	if hasCandidate {
		if err := r.emitNonReferential(mention); err != nil {
			return outcome, err
		}
	}

	outcome.Status = model.StatusUnresolved
	if referent != nil {
		outcome.Status = model.StatusResolved
		outcome.Entity = referent.ID
	}
	return outcome, nil
}

// followGold appends mention to outcome.Entity, else to the entity of its
// gold chain, else to a new entity.
func followGold(store *model.DiscourseEntityStore, mention *model.MentionContext, outcome model.Outcome) (model.Outcome, error) {
	target := outcome.Entity
	if target == model.NoEntity {
		if id, ok := store.ChainEntity(mention.GoldID); ok {
			target = id
		}
	}

	if target != model.NoEntity {
		if err := store.Append(target, *mention); err != nil {
			return outcome, helper.NewError("append mention", err)
		}
		outcome.Status = model.StatusResolved
		outcome.Entity = target
		return outcome, nil
	}

	outcome.Status = model.StatusUnresolved
	outcome.Entity = store.Create(*mention)
	return outcome, nil
}

// accept validates mention and asks the policy whether to handle it
func (r *Resolver) accept(mention *model.MentionContext) (bool, error) {
	if err := mention.Validate(); err != nil {
		return false, helper.NewError("validate mention", err)
	}
	ok, err := r.CanResolve(mention)
	if err != nil {
		return false, helper.NewError(r.config.Name, err)
	}
	return ok, nil
}

// eligible calls visit for every candidate in the window that is in range and
// not excluded, newest first. visit returns false to stop the scan.
func (r *Resolver) eligible(store *model.DiscourseEntityStore, mention *model.MentionContext, visit func(entity *model.DiscourseEntity) (bool, error)) error {
	for entity := range store.Candidates(r.config.Window) {
		var stop, skip bool
		err := guard("eligibility", func() {
			stop = r.policy.OutOfRange(mention, entity)
			if !stop {
				skip = r.policy.Excluded(mention, entity)
			}
		})
		if err != nil {
			return helper.NewError(r.config.Name, err)
		}
		if stop {
			break
		}
		if skip {
			continue
		}

		more, err := visit(entity)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	return nil
}

func (r *Resolver) features(mention *model.MentionContext, entity *model.DiscourseEntity) (model.Features, error) {
	var (
		features model.Features
		err      error
	)
	if perr := guard("features", func() {
		features, err = r.extractor.Features(mention, entity)
	}); perr != nil {
		return nil, helper.NewError(r.config.Name, perr)
	}
	if err != nil {
		return nil, helper.NewError("extract features", err)
	}
	return features, nil
}

func (r *Resolver) emitPair(mention *model.MentionContext, entity *model.DiscourseEntity, label string) error {
	features, err := r.features(mention, entity)
	if err != nil {
		return err
	}
	if err := r.sink.Emit(model.NewTrainingEvent(r.config.ModelName, label, features)); err != nil {
		return helper.NewError("emit event", err)
	}
	return nil
}

func (r *Resolver) emitNonReferential(mention *model.MentionContext) error {
	var features model.Features
	var err error
	if perr := guard("non-referential features", func() {
		features, err = NonReferentialFeatures(r.extractor, mention)
	}); perr != nil {
		return helper.NewError(r.config.Name, perr)
	}
	if err != nil {
		return helper.NewError("extract non-referential features", err)
	}

	label := model.LabelLink
	if mention.GoldID == model.NoGoldID {
		label = model.LabelNoLink
	}
	if err := r.sink.Emit(model.NewTrainingEvent(r.config.ModelName+model.NonReferentialSuffix, label, features)); err != nil {
		return helper.NewError("emit event", err)
	}
	return nil
}

// guard turns a panic inside fn into ErrPolicyViolation
func guard(op string, fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: %v", ErrPolicyViolation, op, rec)
		}
	}()
	fn()
	return nil
}
