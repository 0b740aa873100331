package resolver

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/siherrmann/corefer/model"
)

// ProperNounPolicy links proper names to earlier entities that contain a proper name
type ProperNounPolicy struct{}

func isProperNoun(m *model.MentionContext) bool {
	return strings.HasPrefix(m.HeadTag, "NNP")
}

// CanResolve accepts proper noun heads
func (ProperNounPolicy) CanResolve(mention *model.MentionContext) bool {
	return isProperNoun(mention)
}

// OutOfRange never stops the scan, the window bounds it
func (ProperNounPolicy) OutOfRange(*model.MentionContext, *model.DiscourseEntity) bool {
	return false
}

// Excluded skips overlapping candidates and entities without any proper name
func (ProperNounPolicy) Excluded(mention *model.MentionContext, entity *model.DiscourseEntity) bool {
	if overlaps(mention, entity) {
		return true
	}
	return !entity.HasExtent(isProperNoun)
}

// DifferentCriteria is false, only the nearest negative is used for training
func (ProperNounPolicy) DifferentCriteria(*model.DiscourseEntity) bool {
	return false
}

// overlaps reports whether the candidate does not end before the mention in the same sentence
func overlaps(mention *model.MentionContext, entity *model.DiscourseEntity) bool {
	cand := entity.LastExtent()
	return cand.SentenceIndex == mention.SentenceIndex && !cand.Span.Before(mention.Span)
}

// ProperNounFeatures adds string match features over all proper name extents of the candidate
type ProperNounFeatures struct {
	Base BaseFeatures
}

// Features implements FeatureExtractor
func (f ProperNounFeatures) Features(mention *model.MentionContext, entity *model.DiscourseEntity) (model.Features, error) {
	set := model.NewFeatureSet()
	if err := f.Base.AddTo(set, mention, entity); err != nil {
		return nil, err
	}
	if entity == nil {
		return set.Features(), nil
	}

	words := lowerWords(mention)
	for _, ext := range entity.Extents() {
		if !isProperNoun(&ext) {
			continue
		}
		switch {
		case strings.EqualFold(ext.Text(), mention.Text()):
			set.Add("pn-exact")
		case ext.HeadText() == mention.HeadText():
			set.Add("pn-head")
		}
		if isAcronym(mention.Text(), &ext) || isAcronym(ext.Text(), mention) {
			set.Add("pn-acronym")
		}
		if shared := countShared(words, lowerWords(&ext)); shared > 0 {
			set.Add("pn-overlap=" + bucket(shared, 2))
		}
	}

	return set.Features(), nil
}

func lowerWords(m *model.MentionContext) map[string]bool {
	words := make(map[string]bool, len(m.Tokens))
	for _, t := range m.Tokens {
		words[strings.ToLower(t.Text)] = true
	}
	return words
}

func countShared(a, b map[string]bool) int {
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}

// isAcronym reports whether short is built from the capitals of the words of long
func isAcronym(short string, long *model.MentionContext) bool {
	if len(long.Tokens) < 2 || strings.ContainsRune(short, ' ') {
		return false
	}
	var b strings.Builder
	for _, t := range long.Tokens {
		r := []rune(t.Text)
		if len(r) > 0 && unicode.IsUpper(r[0]) {
			b.WriteRune(r[0])
		}
	}
	return b.Len() > 1 && strings.EqualFold(b.String(), strings.ReplaceAll(short, ".", ""))
}

// bucket renders n, collapsing everything from max upwards into "max+"
func bucket(n int, max int) string {
	if n >= max {
		return strconv.Itoa(max) + "+"
	}
	return strconv.Itoa(n)
}

// NewProperNounResolver creates the proper noun resolver with DefaultProperNounConfig
func NewProperNounResolver(mode model.Mode, opts ...Option) (*Resolver, error) {
	o := newOptions(model.DefaultProperNounConfig(), opts)
	return build(o, mode, ProperNounPolicy{}, ProperNounFeatures{Base: BaseFeatures{Embed: o.embed}})
}
