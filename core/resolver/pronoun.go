package resolver

import (
	"strings"

	"github.com/siherrmann/corefer/model"
)

// numSentencesBack is how many sentences a pronoun may look back
const numSentencesBack = 2

type gender int

const (
	genderUnknown gender = iota
	genderMale
	genderFemale
	genderNeuter
)

func (g gender) String() string {
	switch g {
	case genderMale:
		return "male"
	case genderFemale:
		return "female"
	case genderNeuter:
		return "neuter"
	}
	return "unknown"
}

var singularPronouns = map[string]gender{
	"he":      genderMale,
	"him":     genderMale,
	"his":     genderMale,
	"himself": genderMale,
	"she":     genderFemale,
	"her":     genderFemale,
	"hers":    genderFemale,
	"herself": genderFemale,
	"it":      genderNeuter,
	"its":     genderNeuter,
	"itself":  genderNeuter,
}

// pronounGender returns the gender of a third person singular pronoun mention
func pronounGender(m *model.MentionContext) gender {
	if !strings.HasPrefix(m.HeadTag, "PRP") {
		return genderUnknown
	}
	return singularPronouns[m.HeadText()]
}

// entityTypeGender maps named entity types to the pronoun genders they accept
func entityTypeGender(neType string) (person bool, known bool) {
	switch strings.ToUpper(neType) {
	case "PER", "PERSON":
		return true, true
	case "ORG", "ORGANIZATION", "LOC", "LOCATION", "GPE":
		return false, true
	}
	return false, false
}

// SingularPronounPolicy links third person singular pronouns to nearby entities
type SingularPronounPolicy struct{}

// CanResolve accepts third person singular pronouns
func (SingularPronounPolicy) CanResolve(mention *model.MentionContext) bool {
	return pronounGender(mention) != genderUnknown
}

// OutOfRange stops the scan more than numSentencesBack sentences back
func (SingularPronounPolicy) OutOfRange(mention *model.MentionContext, entity *model.DiscourseEntity) bool {
	return mention.SentenceIndex-entity.LastExtent().SentenceIndex > numSentencesBack
}

// Excluded skips overlapping, plural and gender incompatible candidates
func (SingularPronounPolicy) Excluded(mention *model.MentionContext, entity *model.DiscourseEntity) bool {
	if overlaps(mention, entity) {
		return true
	}

	cand := entity.LastExtent()
	if cand.HeadTag == "NNS" || cand.HeadTag == "NNPS" {
		return true
	}

	g := pronounGender(mention)
	if cg := pronounGender(cand); cg != genderUnknown && cg != g {
		return true
	}
	if person, known := entityTypeGender(cand.NEType); known && person == (g == genderNeuter) {
		return true
	}
	return false
}

// DifferentCriteria is false, only the nearest negative is used for training
func (SingularPronounPolicy) DifferentCriteria(*model.DiscourseEntity) bool {
	return false
}

// PronounFeatures adds the pronoun and the candidate head tag to the base features
type PronounFeatures struct {
	Base BaseFeatures
}

// Features implements FeatureExtractor
func (f PronounFeatures) Features(mention *model.MentionContext, entity *model.DiscourseEntity) (model.Features, error) {
	set := model.NewFeatureSet()
	if err := f.Base.AddTo(set, mention, entity); err != nil {
		return nil, err
	}
	if entity == nil {
		return set.Features(), nil
	}

	cand := entity.LastExtent()
	set.Add("pn="+mention.HeadText(), "ct="+cand.HeadTag)
	if cg := pronounGender(cand); cg != genderUnknown {
		set.Add("cg=" + cg.String())
	}
	if cand.NEType != "" {
		set.Add("ne=" + strings.ToUpper(cand.NEType))
	}

	return set.Features(), nil
}

// NewSingularPronounResolver creates the pronoun resolver with DefaultSingularPronounConfig
func NewSingularPronounResolver(mode model.Mode, opts ...Option) (*Resolver, error) {
	o := newOptions(model.DefaultSingularPronounConfig(), opts)
	return build(o, mode, SingularPronounPolicy{}, PronounFeatures{Base: BaseFeatures{Embed: o.embed}})
}
