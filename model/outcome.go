package model

// Status is the result of processing one mention
type Status string

const (
	// StatusSkipped means the resolver declined the mention
	StatusSkipped Status = "skipped"
	// StatusResolved means the mention was merged into an existing entity
	StatusResolved Status = "resolved"
	// StatusUnresolved means no antecedent was found and a new entity was created
	StatusUnresolved Status = "unresolved"
	// StatusNonReferential means the mention has no antecedent and no entity was created
	StatusNonReferential Status = "non-referential"
)

// Outcome describes what happened to a mention
type Outcome struct {
	Status      Status   `json:"status"`
	Entity      EntityID `json:"entity"`
	Resolver    string   `json:"resolver,omitempty"`
	Probability float64  `json:"probability"` // link probability of the chosen candidate, or the non-referential probability
	Scored      int      `json:"scored"`      // number of candidates sent to the classifier or emitted as events
}

// HasEntity reports whether the mention ended up in an entity
func (o Outcome) HasEntity() bool {
	return o.Status == StatusResolved || o.Status == StatusUnresolved
}
