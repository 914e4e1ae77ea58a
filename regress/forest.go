package regress

import (
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ForestConfig configures a bagged ensemble of regression trees.
type ForestConfig struct {
	Trees       int        `mapstructure:"trees" yaml:"trees" validate:"gte=1"`
	Tree        TreeConfig `mapstructure:"tree" yaml:"tree"`
	Bootstrap   bool       `mapstructure:"bootstrap" yaml:"bootstrap"`
	Seed        uint64     `mapstructure:"seed" yaml:"seed"`
	Parallelism int        `mapstructure:"parallelism" yaml:"parallelism" validate:"gte=0"` // 0 means GOMAXPROCS
}

// DefaultForestConfig returns 100 bootstrapped trees seeded with 42.
func DefaultForestConfig() ForestConfig {
	tree := DefaultTreeConfig()
	tree.MaxDepth = 12
	return ForestConfig{
		Trees:     100,
		Tree:      tree,
		Bootstrap: true,
		Seed:      42,
	}
}

// Forest averages trees grown on bootstrap samples.
type Forest struct {
	Config ForestConfig
	trees  []*Tree
}

// NewForest returns an unfitted forest.
func NewForest(cfg ForestConfig) *Forest {
	return &Forest{Config: cfg}
}

// Fit grows every tree. Tree i draws from its own stream keyed by (Seed, i),
// so the result does not depend on scheduling.
func (f *Forest) Fit(X [][]float64, y []float64) error {
	if _, err := checkTrainingSet(X, y); err != nil {
		return err
	}
	n := len(X)
	f.trees = make([]*Tree, max(f.Config.Trees, 1))

	limit := f.Config.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for i := range f.trees {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(f.Config.Seed, uint64(i)))
			idx := make([]int, n)
			for j := range idx {
				if f.Config.Bootstrap {
					idx[j] = rng.IntN(n)
				} else {
					idx[j] = j
				}
			}
			tree := NewTree(f.Config.Tree)
			tree.grow(X, y, idx, rng)
			f.trees[i] = tree
			return nil
		})
	}
	return g.Wait()
}

// Predict returns the mean of the tree predictions.
func (f *Forest) Predict(x []float64) float64 {
	sum := 0.0
	for _, t := range f.trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.trees))
}
