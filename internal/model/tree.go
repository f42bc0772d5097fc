package model

import (
	"math"
	"math/rand"
	"sort"
)

// TreeNode is one node of a fitted regression tree. Fields are exported for
// gob serialization.
type TreeNode struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Value     float64
	Count     int
}

// RegressionTree is a CART-style regression tree splitting on squared-error
// reduction and predicting the leaf mean.
type RegressionTree struct {
	MaxDepth        int // 0 => no limit
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 => consider all features at each split
	Seed            int64

	Root *TreeNode
}

// fit grows the tree over the sample indices into X and y.
func (t *RegressionTree) fit(X [][]float64, y []float64, sample []int, rnd *rand.Rand) {
	p := 0
	if len(X) > 0 {
		p = len(X[0])
	}
	t.Root = t.grow(X, y, sample, 0, p, rnd)
}

// predict walks a single row to its leaf mean.
func (t *RegressionTree) predict(x []float64) float64 {
	node := t.Root
	for node != nil && !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return 0
	}
	return node.Value
}

func (t *RegressionTree) grow(X [][]float64, y []float64, idx []int, depth, p int, rnd *rand.Rand) *TreeNode {
	node := &TreeNode{Count: len(idx), Value: meanAt(y, idx)}

	if len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		node.Leaf = true
		return node
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, p, rnd)
	if !ok {
		node.Leaf = true
		return node
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.MinSamplesLeaf || len(right) < t.MinSamplesLeaf {
		node.Leaf = true
		return node
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Left = t.grow(X, y, left, depth+1, p, rnd)
	node.Right = t.grow(X, y, right, depth+1, p, rnd)
	return node
}

// bestSplit scans candidate features for the threshold with the largest
// squared-error reduction, using a sorted prefix-sum sweep per feature.
func (t *RegressionTree) bestSplit(X [][]float64, y []float64, idx []int, p int, rnd *rand.Rand) (int, float64, bool) {
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rnd.Shuffle(p, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:t.MaxFeatures]
	}

	var (
		total, totalSq float64
	)
	for _, i := range idx {
		total += y[i]
		totalSq += y[i] * y[i]
	}
	n := float64(len(idx))
	parentSSE := totalSq - total*total/n

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	pairs := make([]valueTarget, len(idx))
	for _, f := range features {
		for k, i := range idx {
			pairs[k] = valueTarget{value: X[i][f], target: y[i]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].value < pairs[b].value })

		var leftSum, leftSq float64
		for k := 0; k < len(pairs)-1; k++ {
			leftSum += pairs[k].target
			leftSq += pairs[k].target * pairs[k].target
			if pairs[k].value == pairs[k+1].value {
				continue
			}
			nl := float64(k + 1)
			nr := n - nl
			if int(nl) < t.MinSamplesLeaf || int(nr) < t.MinSamplesLeaf {
				continue
			}
			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			gain := parentSSE - sse
			if gain > bestGain && !math.IsNaN(gain) {
				bestGain = gain
				bestFeature = f
				bestThreshold = (pairs[k].value + pairs[k+1].value) / 2
			}
		}
	}

	if bestFeature < 0 || bestGain <= 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

type valueTarget struct {
	value  float64
	target float64
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}
