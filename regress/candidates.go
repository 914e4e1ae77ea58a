package regress

import "fmt"

// Kind tags a candidate family.
type Kind int

const (
	KindRandomForest Kind = iota
	KindGradientBoosting
	KindLinear
	KindDecisionTree
)

func (k Kind) String() string {
	switch k {
	case KindRandomForest:
		return "RandomForest"
	case KindGradientBoosting:
		return "GradientBoosting"
	case KindLinear:
		return "LinearRegression"
	case KindDecisionTree:
		return "DecisionTree"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Candidate is one strategy the selector may choose. New must return a fresh,
// unfitted Regressor on every call.
type Candidate struct {
	Kind Kind
	Name string
	New  func() Regressor
}

// Options parameterizes the built-in candidates.
type Options struct {
	Forest   ForestConfig   `mapstructure:"forest" yaml:"forest"`
	Boosting BoostingConfig `mapstructure:"boosting" yaml:"boosting"`
	Tree     TreeConfig     `mapstructure:"tree" yaml:"tree"`
}

// DefaultOptions returns the stock hyperparameters.
func DefaultOptions() Options {
	tree := DefaultTreeConfig()
	tree.MaxDepth = 8
	return Options{
		Forest:   DefaultForestConfig(),
		Boosting: DefaultBoostingConfig(),
		Tree:     tree,
	}
}

// Build returns the candidate for kind.
func (o Options) Build(kind Kind) (Candidate, error) {
	c := Candidate{Kind: kind, Name: kind.String()}
	switch kind {
	case KindRandomForest:
		cfg := o.Forest
		c.New = func() Regressor { return NewForest(cfg) }
	case KindGradientBoosting:
		cfg := o.Boosting
		c.New = func() Regressor { return NewBoosting(cfg) }
	case KindLinear:
		c.New = func() Regressor { return NewLinear() }
	case KindDecisionTree:
		cfg := o.Tree
		c.New = func() Regressor { return NewTree(cfg) }
	default:
		return Candidate{}, fmt.Errorf("unknown candidate kind %v", kind)
	}
	return c, nil
}

// DefaultCandidates returns forest, boosting and linear, in that order.
// Order matters: on equal scores the earlier candidate wins.
func DefaultCandidates() []Candidate {
	out, _ := DefaultOptions().Candidates(nil)
	return out
}

// Candidates resolves names to candidates, keeping their order. An empty list
// selects the default trio.
func (o Options) Candidates(names []string) ([]Candidate, error) {
	if len(names) == 0 {
		names = []string{KindRandomForest.String(), KindGradientBoosting.String(), KindLinear.String()}
	}
	out := make([]Candidate, 0, len(names))
	for _, name := range names {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		c, err := o.Build(kind)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseKind maps a candidate name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range []Kind{KindRandomForest, KindGradientBoosting, KindLinear, KindDecisionTree} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown candidate %q", name)
}
