package regress

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
)

// TreeConfig bounds the growth of a regression tree.
type TreeConfig struct {
	MaxDepth        int `mapstructure:"max_depth" yaml:"max_depth" validate:"gte=0"` // 0 means unbounded
	MinSamplesSplit int `mapstructure:"min_samples_split" yaml:"min_samples_split" validate:"gte=2"`
	MinSamplesLeaf  int `mapstructure:"min_samples_leaf" yaml:"min_samples_leaf" validate:"gte=1"`
	MaxFeatures     int `mapstructure:"max_features" yaml:"max_features" validate:"gte=0"` // 0 means all features
}

// DefaultTreeConfig returns an unpruned tree configuration.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

// node is a tree vertex; feature < 0 marks a leaf.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

// Tree is a CART regression tree minimizing squared error.
type Tree struct {
	Config TreeConfig
	Seed   uint64
	nodes  []node
}

// NewTree returns an unfitted tree.
func NewTree(cfg TreeConfig) *Tree {
	return &Tree{Config: cfg}
}

// Fit grows the tree on every row of X.
func (t *Tree) Fit(X [][]float64, y []float64) error {
	if _, err := checkTrainingSet(X, y); err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.grow(X, y, idx, rand.New(rand.NewPCG(t.Seed, 0)))
	return nil
}

// Predict walks from the root to a leaf.
func (t *Tree) Predict(x []float64) float64 {
	if len(t.nodes) == 0 {
		return math.NaN()
	}
	i := 0
	for t.nodes[i].feature >= 0 {
		n := t.nodes[i]
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t.nodes[i].value
}

// Depth returns the number of edges on the longest root to leaf path.
func (t *Tree) Depth() int {
	if len(t.nodes) == 0 {
		return 0
	}
	var walk func(i int) int
	walk = func(i int) int {
		n := t.nodes[i]
		if n.feature < 0 {
			return 0
		}
		return 1 + max(walk(n.left), walk(n.right))
	}
	return walk(0)
}

// grow rebuilds the tree from the rows listed in idx. Duplicated indices act as
// sample weights, which is how bootstrap samples are passed in.
func (t *Tree) grow(X [][]float64, y []float64, idx []int, rng *rand.Rand) {
	t.nodes = t.nodes[:0]
	t.build(X, y, idx, 0, rng)
}

func (t *Tree) build(X [][]float64, y []float64, idx []int, depth int, rng *rand.Rand) int {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	id := len(t.nodes)
	t.nodes = append(t.nodes, node{feature: -1, value: sum / float64(len(idx))})

	minSplit := max(t.Config.MinSamplesSplit, 2)
	if len(idx) < minSplit || (t.Config.MaxDepth > 0 && depth >= t.Config.MaxDepth) {
		return id
	}

	s, ok := t.bestSplit(X, y, idx, sum, rng)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range idx {
		if X[i][s.feature] <= s.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := t.build(X, y, left, depth+1, rng)
	r := t.build(X, y, right, depth+1, rng)
	t.nodes[id].feature = s.feature
	t.nodes[id].threshold = s.threshold
	t.nodes[id].left = l
	t.nodes[id].right = r
	return id
}

type split struct {
	feature   int
	threshold float64
	score     float64
}

// bestSplit maximizes sumL²/nL + sumR²/nR, which is equivalent to minimizing
// the children's summed squared error.
func (t *Tree) bestSplit(X [][]float64, y []float64, idx []int, total float64, rng *rand.Rand) (split, bool) {
	n := len(idx)
	width := len(X[idx[0]])
	minLeaf := max(t.Config.MinSamplesLeaf, 1)

	features := make([]int, width)
	for j := range features {
		features[j] = j
	}
	if k := t.Config.MaxFeatures; k > 0 && k < width {
		rng.Shuffle(width, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:k]
		slices.Sort(features)
	}

	parent := total * total / float64(n)
	best := split{feature: -1, score: parent + 1e-10*(1+math.Abs(parent))}
	order := make([]int, n)

	for _, f := range features {
		copy(order, idx)
		slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(X[a][f], X[b][f]) })

		sumL := 0.0
		for j := 0; j < n-1; j++ {
			sumL += y[order[j]]
			lo, hi := X[order[j]][f], X[order[j+1]][f]
			if lo == hi {
				continue
			}
			nL, nR := j+1, n-j-1
			if nL < minLeaf || nR < minLeaf {
				continue
			}
			sumR := total - sumL
			score := sumL*sumL/float64(nL) + sumR*sumR/float64(nR)
			if score > best.score {
				threshold := lo + (hi-lo)/2
				if threshold >= hi {
					threshold = lo
				}
				best = split{feature: f, threshold: threshold, score: score}
			}
		}
	}
	return best, best.feature >= 0
}
