package resolver

import (
	"regexp"
	"strings"

	"github.com/siherrmann/corefer/model"
)

// predicativePattern matches the token that introduces a predicate nominal
var predicativePattern = regexp.MustCompile(`^(,|--)$`)

// IsAPolicy is the eligibility policy of the predicate nominal ("is-a") resolver.
// It links appositive-like noun phrases such as "Tim Cook , CEO of Apple" within one sentence.
type IsAPolicy struct{}

// CanResolve accepts common noun heads preceded by a comma or a double dash
func (IsAPolicy) CanResolve(mention *model.MentionContext) bool {
	if !strings.HasPrefix(mention.HeadTag, "NN") {
		return false
	}
	return mention.PreviousToken != nil && predicativePattern.MatchString(mention.PreviousToken.Text)
}

// OutOfRange stops the scan at the first entity from another sentence
func (IsAPolicy) OutOfRange(mention *model.MentionContext, entity *model.DiscourseEntity) bool {
	return entity.LastExtent().SentenceIndex != mention.SentenceIndex
}

// Excluded keeps only candidates whose boundary matches an appositive
func (IsAPolicy) Excluded(mention *model.MentionContext, entity *model.DiscourseEntity) bool {
	cand := entity.LastExtent()
	if cand.SentenceIndex != mention.SentenceIndex {
		return true
	}
	// shallow parse appositive "NAME , TITLE ,"
	if cand.Span.EndsBefore(mention.Span, 2) {
		return false
	}
	// full parse without trailing comma
	if cand.Span.SharesEnd(mention.Span) {
		return false
	}
	// full parse with trailing comma or period
	if cand.Span.EndsWithin(mention.Span, 2) && (mention.NextText() == "," || mention.NextText() == ".") {
		return false
	}
	return true
}

// DifferentCriteria is always true for predicate nominals
func (IsAPolicy) DifferentCriteria(*model.DiscourseEntity) bool {
	return true
}

// IsAFeatures adds the left context of the candidate, the right context of the
// mention and the pair of head tags to the base features.
type IsAFeatures struct {
	Base BaseFeatures
}

// Features implements FeatureExtractor
func (f IsAFeatures) Features(mention *model.MentionContext, entity *model.DiscourseEntity) (model.Features, error) {
	set := model.NewFeatureSet()
	if err := f.Base.AddTo(set, mention, entity); err != nil {
		return nil, err
	}

	if entity != nil {
		ant := entity.LastExtent()
		set.AddPrefixed("l", ContextFeatures(ant)...)
		set.AddPrefixed("r", ContextFeatures(mention)...)
		set.Add("hts" + ant.HeadTag + "," + mention.HeadTag)
	}

	return set.Features(), nil
}

// NewIsAResolver creates the predicate nominal resolver with DefaultIsAConfig
func NewIsAResolver(mode model.Mode, opts ...Option) (*Resolver, error) {
	o := newOptions(model.DefaultIsAConfig(), opts)
	return build(o, mode, IsAPolicy{}, IsAFeatures{Base: BaseFeatures{Embed: o.embed}})
}
