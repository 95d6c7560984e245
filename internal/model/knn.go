package model

import (
	"fmt"
	"math"
	"sort"
)

type knnParams struct {
	K       int         `json:"k"`
	Points  [][]float64 `json:"points"`
	Labels  []int       `json:"labels"`
	Weights string      `json:"weights"`
	P       float64     `json:"p"`
}

// knn votes among the k nearest training rows under the Minkowski metric.
type knn struct {
	k        int
	points   [][]float64
	labels   []int // class index, 0 or 1
	distance bool
	p        float64
}

func newKNN(p knnParams, width int, classes [2]int) (*knn, error) {
	if len(p.Points) == 0 {
		return nil, fmt.Errorf("knn has no training points")
	}
	if len(p.Labels) != len(p.Points) {
		return nil, fmt.Errorf("knn has %d labels for %d points", len(p.Labels), len(p.Points))
	}
	if p.K <= 0 || p.K > len(p.Points) {
		return nil, fmt.Errorf("k=%d outside [1, %d]", p.K, len(p.Points))
	}
	m := &knn{k: p.K, points: p.Points, labels: make([]int, len(p.Labels)), p: p.P}
	if m.p == 0 {
		m.p = 2
	}
	if m.p < 1 || math.IsInf(m.p, 0) {
		return nil, fmt.Errorf("minkowski p must be >= 1")
	}
	switch p.Weights {
	case "", "uniform":
	case "distance":
		m.distance = true
	default:
		return nil, fmt.Errorf("unsupported weights %q", p.Weights)
	}
	for i, row := range p.Points {
		if len(row) != width {
			return nil, fmt.Errorf("point %d has %d features, want %d", i, len(row), width)
		}
	}
	for i, label := range p.Labels {
		switch label {
		case classes[0]:
			m.labels[i] = 0
		case classes[1]:
			m.labels[i] = 1
		default:
			return nil, fmt.Errorf("label %d of point %d is not a model class", label, i)
		}
	}
	return m, nil
}

type neighbour struct {
	idx  int
	dist float64
}

func (m *knn) proba(x []float64) ([2]float64, error) {
	all := make([]neighbour, len(m.points))
	for i, row := range m.points {
		all[i] = neighbour{idx: i, dist: m.minkowski(row, x)}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].dist < all[b].dist })
	nearest := all[:m.k]

	var votes [2]float64
	if m.distance {
		// exact matches take the whole vote
		var exact bool
		for _, n := range nearest {
			if n.dist == 0 {
				exact = true
				votes[m.labels[n.idx]]++
			}
		}
		if !exact {
			for _, n := range nearest {
				votes[m.labels[n.idx]] += 1 / n.dist
			}
		}
	} else {
		for _, n := range nearest {
			votes[m.labels[n.idx]]++
		}
	}
	total := votes[0] + votes[1]
	return [2]float64{votes[0] / total, votes[1] / total}, nil
}

func (m *knn) minkowski(a, b []float64) float64 {
	var sum float64
	if m.p == 2 {
		for i := range a {
			d := a[i] - b[i]
			sum += d * d
		}
		return math.Sqrt(sum)
	}
	for i := range a {
		sum += math.Pow(math.Abs(a[i]-b[i]), m.p)
	}
	return math.Pow(sum, 1/m.p)
}
