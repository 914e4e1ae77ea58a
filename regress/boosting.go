package regress

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
)

// BoostingConfig configures least-squares gradient boosting.
type BoostingConfig struct {
	Stages       int        `mapstructure:"stages" yaml:"stages" validate:"gte=1"`
	LearningRate float64    `mapstructure:"learning_rate" yaml:"learning_rate" validate:"gt=0,lte=1"`
	Subsample    float64    `mapstructure:"subsample" yaml:"subsample" validate:"gt=0,lte=1"`
	Tree         TreeConfig `mapstructure:"tree" yaml:"tree"`
	Seed         uint64     `mapstructure:"seed" yaml:"seed"`
}

// DefaultBoostingConfig returns 100 depth-3 stages at learning rate 0.1.
func DefaultBoostingConfig() BoostingConfig {
	tree := DefaultTreeConfig()
	tree.MaxDepth = 3
	return BoostingConfig{
		Stages:       100,
		LearningRate: 0.1,
		Subsample:    1,
		Tree:         tree,
		Seed:         42,
	}
}

// Boosting fits each stage to the residuals of the running prediction.
type Boosting struct {
	Config BoostingConfig
	init   float64
	stages []*Tree
}

// NewBoosting returns an unfitted boosting model.
func NewBoosting(cfg BoostingConfig) *Boosting {
	return &Boosting{Config: cfg}
}

// Fit runs Config.Stages rounds of residual fitting.
func (b *Boosting) Fit(X [][]float64, y []float64) error {
	if _, err := checkTrainingSet(X, y); err != nil {
		return err
	}
	n := len(X)
	rng := rand.New(rand.NewPCG(b.Config.Seed, 0))

	b.init = stat.Mean(y, nil)
	current := make([]float64, n)
	for i := range current {
		current[i] = b.init
	}
	residual := make([]float64, n)

	sampled := n
	if b.Config.Subsample > 0 && b.Config.Subsample < 1 {
		sampled = max(1, int(b.Config.Subsample*float64(n)))
	}

	b.stages = make([]*Tree, 0, b.Config.Stages)
	for s := 0; s < b.Config.Stages; s++ {
		for i := range residual {
			residual[i] = y[i] - current[i]
		}

		var idx []int
		if sampled < n {
			idx = rng.Perm(n)[:sampled]
		} else {
			idx = make([]int, n)
			for i := range idx {
				idx[i] = i
			}
		}

		tree := NewTree(b.Config.Tree)
		tree.grow(X, residual, idx, rng)
		b.stages = append(b.stages, tree)

		for i, x := range X {
			current[i] += b.Config.LearningRate * tree.Predict(x)
		}
	}
	return nil
}

// Predict sums the initial estimate and the shrunken stage outputs.
func (b *Boosting) Predict(x []float64) float64 {
	out := b.init
	for _, t := range b.stages {
		out += b.Config.LearningRate * t.Predict(x)
	}
	return out
}
