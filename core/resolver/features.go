package resolver

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/siherrmann/corefer/core/pipeline"
	"github.com/siherrmann/corefer/model"
)

const (
	featureDefault = "default"
	beginOfText    = "BOS"
	endOfText      = "EOS"
)

// BaseFeatures produces the features shared by every resolver subtype.
// Embed is optional and adds a bucketed semantic similarity feature.
type BaseFeatures struct {
	Embed pipeline.EmbedFunc
}

// Features returns the base features of a pair
func (b BaseFeatures) Features(mention *model.MentionContext, entity *model.DiscourseEntity) (model.Features, error) {
	set := model.NewFeatureSet()
	if err := b.AddTo(set, mention, entity); err != nil {
		return nil, err
	}
	return set.Features(), nil
}

// AddTo adds the base features of a pair to set
func (b BaseFeatures) AddTo(set *model.FeatureSet, mention *model.MentionContext, entity *model.DiscourseEntity) error {
	set.Add(featureDefault)
	if entity == nil {
		return nil
	}

	ant := entity.LastExtent()
	set.Add("sd=" + strconv.Itoa(mention.SentenceIndex-ant.SentenceIndex))

	if strings.EqualFold(mention.Text(), ant.Text()) {
		set.Add("exact-match")
	} else if mention.HeadText() == ant.HeadText() {
		set.Add("head-match")
	}

	if b.Embed != nil {
		sim, err := b.similarity(mention.Text(), ant.Text())
		if err != nil {
			return err
		}
		set.Add(fmt.Sprintf("sim=%.1f", math.Floor(sim*10)/10))
	}

	return nil
}

func (b BaseFeatures) similarity(a, c string) (float64, error) {
	ea, err := b.Embed(a)
	if err != nil {
		return 0, fmt.Errorf("embed %q: %w", a, err)
	}
	ec, err := b.Embed(c)
	if err != nil {
		return 0, fmt.Errorf("embed %q: %w", c, err)
	}
	return pipeline.CosineSimilarity(ea, ec), nil
}

// ContextFeatures describes the tokens around a mention
func ContextFeatures(mention *model.MentionContext) []string {
	features := make([]string, 0, 4)
	if mention.PreviousToken != nil {
		features = append(features, "pt="+mention.PreviousToken.Tag, "pw="+mention.PreviousToken.Text)
	} else {
		features = append(features, "pt="+beginOfText, "pw="+beginOfText)
	}
	if mention.NextToken != nil {
		features = append(features, "nt="+mention.NextToken.Tag, "nw="+mention.NextToken.Text)
	} else {
		features = append(features, "nt="+endOfText, "nw="+endOfText)
	}
	return features
}

// MentionFeatures describes the words of a mention up to and including its head
func MentionFeatures(mention *model.MentionContext) []string {
	var features []string
	for i := 0; i < mention.HeadIndex; i++ {
		t := mention.Tokens[i]
		features = append(features, "mw="+strings.ToLower(t.Text), "mt="+t.Tag)
	}
	features = append(features, "hw="+mention.HeadText(), "ht="+mention.HeadTag)
	return features
}
