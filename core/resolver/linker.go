package resolver

import (
	"fmt"

	"github.com/siherrmann/corefer/helper"
	"github.com/siherrmann/corefer/model"
)

// Linker runs an ordered list of resolvers over the mentions of one document.
// Every resolver that can resolve a mention is tried in order until one finds
// an antecedent. The mention starts a new entity only when none does.
type Linker struct {
	mode      model.Mode
	resolvers []*Resolver
	store     *model.DiscourseEntityStore
	last      *model.MentionContext
}

// NewLinker creates a linker with an empty store. All resolvers must share mode.
func NewLinker(mode model.Mode, resolvers ...*Resolver) (*Linker, error) {
	for _, r := range resolvers {
		if r == nil {
			return nil, helper.NewError("create linker", fmt.Errorf("nil resolver"))
		}
		if r.Mode() != mode {
			return nil, helper.NewError("create linker", fmt.Errorf("%w: resolver %s is in %s mode", ErrWrongMode, r.Name(), r.Mode()))
		}
	}
	return &Linker{
		mode:      mode,
		resolvers: resolvers,
		store:     model.NewDiscourseEntityStore(),
	}, nil
}

// Store returns the store of the document
func (l *Linker) Store() *model.DiscourseEntityStore {
	return l.store
}

// Mode returns the mode of the linker
func (l *Linker) Mode() model.Mode {
	return l.mode
}

// Process handles a single mention.
// In resolve mode the first antecedent found wins and a non-referential
// verdict ends the search without touching the store. In train mode every
// capable resolver emits its events before the store follows the gold chain.
func (l *Linker) Process(mention model.MentionContext) (model.Outcome, error) {
	if err := mention.Validate(); err != nil {
		return model.Outcome{Status: model.StatusSkipped, Entity: model.NoEntity}, helper.NewError("validate mention", err)
	}
	if l.last != nil && compareOrder(l.last, &mention) > 0 {
		return model.Outcome{Status: model.StatusSkipped, Entity: model.NoEntity}, helper.NewError("process mention", fmt.Errorf("%w: %s is before %s", model.ErrInvalidMention, mention.String(), l.last.String()))
	}

	var chosen *model.Outcome
	for _, r := range l.resolvers {
		ok, err := r.CanResolve(&mention)
		if err != nil {
			return model.Outcome{Status: model.StatusSkipped, Entity: model.NoEntity}, helper.NewError(r.Name(), err)
		}
		if !ok {
			continue
		}

		var outcome model.Outcome
		if l.mode == model.ModeTrain {
			outcome, err = r.Observe(l.store, &mention)
		} else {
			outcome, err = r.Find(l.store, &mention)
		}
		if err != nil {
			return outcome, helper.NewError(r.Name(), err)
		}

		if l.mode == model.ModeResolve && (outcome.Status == model.StatusResolved || outcome.Status == model.StatusNonReferential) {
			l.last = &mention
			return outcome, nil
		}
		if chosen == nil || (chosen.Entity == model.NoEntity && outcome.Entity != model.NoEntity) {
			chosen = &outcome
		}
	}

	l.last = &mention
	outcome := model.Outcome{Status: model.StatusUnresolved, Entity: model.NoEntity}
	if chosen != nil {
		outcome = *chosen
	}
	if l.mode == model.ModeTrain {
		return followGold(l.store, &mention, outcome)
	}
	outcome.Status = model.StatusUnresolved
	outcome.Entity = l.store.Create(mention)
	return outcome, nil
}

// ProcessAll handles mentions in order and stops at the first error.
// Outcomes of the mentions processed so far are returned with the error.
func (l *Linker) ProcessAll(mentions []model.MentionContext) ([]model.Outcome, error) {
	outcomes := make([]model.Outcome, 0, len(mentions))
	for i := range mentions {
		outcome, err := l.Process(mentions[i])
		if err != nil {
			return outcomes, helper.NewError(fmt.Sprintf("mention %d", i), err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func compareOrder(a, b *model.MentionContext) int {
	if a.SentenceIndex != b.SentenceIndex {
		if a.SentenceIndex < b.SentenceIndex {
			return -1
		}
		return 1
	}
	switch {
	case a.Span.Start < b.Span.Start:
		return -1
	case a.Span.Start > b.Span.Start:
		return 1
	}
	return 0
}
