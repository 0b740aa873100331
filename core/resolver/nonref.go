package resolver

import (
	"github.com/siherrmann/corefer/core/classifier"
	"github.com/siherrmann/corefer/helper"
	"github.com/siherrmann/corefer/model"
)

// FixedNonReferentialResolver returns the same probability for every mention
type FixedNonReferentialResolver float64

// NonReferentialProbability implements NonReferentialResolver
func (f FixedNonReferentialResolver) NonReferentialProbability(*model.MentionContext) (float64, error) {
	return float64(f), nil
}

// MaxentNonReferentialResolver scores mentions with a classifier trained on
// the non-referential events of a resolver. The probability of no-link is
// the probability that the mention has no antecedent.
type MaxentNonReferentialResolver struct {
	classifier classifier.Classifier
	extractor  FeatureExtractor
}

// NewMaxentNonReferentialResolver creates a non-referential resolver.
// extractor must be the one of the resolver whose events trained the classifier.
func NewMaxentNonReferentialResolver(c classifier.Classifier, extractor FeatureExtractor) *MaxentNonReferentialResolver {
	return &MaxentNonReferentialResolver{
		classifier: c,
		extractor:  extractor,
	}
}

// LoadNonReferentialResolver loads <dir>/<project>/<modelName>.nr.json
func LoadNonReferentialResolver(dir string, project string, modelName string, extractor FeatureExtractor) (*MaxentNonReferentialResolver, error) {
	m, err := classifier.LoadModel(dir, project, modelName+model.NonReferentialSuffix)
	if err != nil {
		return nil, err
	}
	return NewMaxentNonReferentialResolver(m, extractor), nil
}

// NonReferentialProbability implements NonReferentialResolver
func (n *MaxentNonReferentialResolver) NonReferentialProbability(mention *model.MentionContext) (float64, error) {
	features, err := NonReferentialFeatures(n.extractor, mention)
	if err != nil {
		return 0, helper.NewError("extract features", err)
	}
	dist, err := n.classifier.Eval(features)
	if err != nil {
		return 0, helper.NewError("classify", err)
	}
	return dist.Prob(model.LabelNoLink), nil
}

// NonReferentialFeatures combines the candidate-less base features with the mention features
func NonReferentialFeatures(extractor FeatureExtractor, mention *model.MentionContext) (model.Features, error) {
	base, err := extractor.Features(mention, nil)
	if err != nil {
		return nil, err
	}
	set := model.NewFeatureSet()
	set.Add(base...)
	set.Add(MentionFeatures(mention)...)
	set.Add(ContextFeatures(mention)...)
	return set.Features(), nil
}
