package model

import (
	"fmt"
	"math"
)

// treeParams uses the flat array layout of fitted CART trees: node i is a
// leaf when ChildrenLeft[i] == -1, otherwise samples with
// x[Feature[i]] <= Threshold[i] go left.
type treeParams struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

type tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	value     [][]float64
}

// newTree checks the node arrays. Children must point forward so that
// every walk terminates.
func newTree(p treeParams, width, valueWidth int) (*tree, error) {
	n := len(p.ChildrenLeft)
	if n == 0 {
		return nil, fmt.Errorf("tree has no nodes")
	}
	if len(p.ChildrenRight) != n || len(p.Feature) != n || len(p.Threshold) != n || len(p.Value) != n {
		return nil, fmt.Errorf("tree arrays disagree on node count %d", n)
	}
	for i := 0; i < n; i++ {
		l, r := p.ChildrenLeft[i], p.ChildrenRight[i]
		if l == -1 || r == -1 {
			if l != r {
				return nil, fmt.Errorf("node %d has a single child", i)
			}
			if len(p.Value[i]) != valueWidth {
				return nil, fmt.Errorf("leaf %d value has %d entries, want %d", i, len(p.Value[i]), valueWidth)
			}
			continue
		}
		if l <= i || l >= n || r <= i || r >= n {
			return nil, fmt.Errorf("node %d has out-of-range children (%d, %d)", i, l, r)
		}
		if f := p.Feature[i]; f < 0 || f >= width {
			return nil, fmt.Errorf("node %d splits on feature %d of %d", i, f, width)
		}
	}
	return &tree{
		left:      p.ChildrenLeft,
		right:     p.ChildrenRight,
		feature:   p.Feature,
		threshold: p.Threshold,
		value:     p.Value,
	}, nil
}

func (t *tree) leaf(x []float64) []float64 {
	node := 0
	for t.left[node] != -1 {
		if x[t.feature[node]] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.value[node]
}

type forestParams struct {
	Trees []treeParams `json:"trees"`
}

// randomForest averages the class distribution of each tree's leaf.
type randomForest struct {
	trees []*tree
}

func newRandomForest(p forestParams, width int) (*randomForest, error) {
	if len(p.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	m := &randomForest{trees: make([]*tree, 0, len(p.Trees))}
	for i, tp := range p.Trees {
		t, err := newTree(tp, width, 2)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		for node, v := range tp.Value {
			if tp.ChildrenLeft[node] == -1 && !(v[0] >= 0 && v[1] >= 0 && v[0]+v[1] > 0) {
				return nil, fmt.Errorf("tree %d leaf %d has invalid class weights %v", i, node, v)
			}
		}
		m.trees = append(m.trees, t)
	}
	return m, nil
}

func (m *randomForest) proba(x []float64) ([2]float64, error) {
	var acc [2]float64
	for _, t := range m.trees {
		v := t.leaf(x)
		total := v[0] + v[1]
		acc[0] += v[0] / total
		acc[1] += v[1] / total
	}
	n := float64(len(m.trees))
	return [2]float64{acc[0] / n, acc[1] / n}, nil
}

type boostingParams struct {
	Init         float64      `json:"init"`
	LearningRate float64      `json:"learning_rate"`
	Trees        []treeParams `json:"trees"`
}

// gradientBoosting sums regression-tree outputs in log-odds space.
type gradientBoosting struct {
	init         float64
	learningRate float64
	trees        []*tree
}

func newGradientBoosting(p boostingParams, width int) (*gradientBoosting, error) {
	if len(p.Trees) == 0 {
		return nil, fmt.Errorf("boosting model has no trees")
	}
	if !(p.LearningRate > 0) || math.IsInf(p.LearningRate, 0) {
		return nil, fmt.Errorf("learning_rate must be positive")
	}
	m := &gradientBoosting{init: p.Init, learningRate: p.LearningRate, trees: make([]*tree, 0, len(p.Trees))}
	for i, tp := range p.Trees {
		t, err := newTree(tp, width, 1)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		m.trees = append(m.trees, t)
	}
	return m, nil
}

func (m *gradientBoosting) proba(x []float64) ([2]float64, error) {
	raw := m.init
	for _, t := range m.trees {
		raw += m.learningRate * t.leaf(x)[0]
	}
	return binary(sigmoid(raw)), nil
}
