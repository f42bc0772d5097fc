package model

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// ForestRegressor is an ensemble of regression trees fit on bootstrap
// samples, predicting the mean of the per-tree predictions.
type ForestRegressor struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	Seed            int64

	Trees []*RegressionTree
}

// Option is functional configuration for a ForestRegressor.
type Option func(*ForestRegressor)

func WithNEstimators(n int) Option { return func(f *ForestRegressor) { f.NEstimators = n } }

func WithMaxDepth(d int) Option { return func(f *ForestRegressor) { f.MaxDepth = d } }

func WithMaxFeatures(k int) Option { return func(f *ForestRegressor) { f.MaxFeatures = k } }

func WithBootstrap(b bool) Option { return func(f *ForestRegressor) { f.Bootstrap = b } }

func WithSeed(seed int64) Option { return func(f *ForestRegressor) { f.Seed = seed } }

// NewForestRegressor returns a regressor with library-default
// hyperparameters: 100 trees, unlimited depth, all features per split.
func NewForestRegressor(opts ...Option) *ForestRegressor {
	f := &ForestRegressor{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Bootstrap:       true,
		Seed:            time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit trains the forest on X (n rows by p features) and target y. Trees are
// grown concurrently, each from its own bootstrap sample and seed.
func (f *ForestRegressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("model: empty training matrix")
	}
	n := len(X)
	if len(y) != n {
		return fmt.Errorf("model: %d rows but %d targets", n, len(y))
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return fmt.Errorf("model: row %d has %d features, expected %d", i, len(X[i]), p)
		}
	}
	if f.NEstimators <= 0 {
		return errors.New("model: n_estimators must be positive")
	}

	f.Trees = make([]*RegressionTree, f.NEstimators)
	var wg sync.WaitGroup
	for t := 0; t < f.NEstimators; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			seed := f.Seed + int64(t)
			rnd := rand.New(rand.NewSource(seed))

			sample := make([]int, n)
			for j := range sample {
				if f.Bootstrap {
					sample[j] = rnd.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := &RegressionTree{
				MaxDepth:        f.MaxDepth,
				MinSamplesSplit: f.MinSamplesSplit,
				MinSamplesLeaf:  f.MinSamplesLeaf,
				MaxFeatures:     f.MaxFeatures,
				Seed:            seed,
			}
			tree.fit(X, y, sample, rnd)
			f.Trees[t] = tree
		}(t)
	}
	wg.Wait()
	return nil
}

// Predict returns one prediction per row of X.
func (f *ForestRegressor) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		v, err := f.PredictRow(row)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// PredictRow averages the tree predictions for a single feature vector.
func (f *ForestRegressor) PredictRow(x []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, errors.New("model: forest is not fitted")
	}
	var sum float64
	for _, tree := range f.Trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}
