package model

import (
	"encoding/json"
	"fmt"
	"math"
)

type votingParams struct {
	Estimators []votingMember `json:"estimators"`
}

type votingMember struct {
	Name   string          `json:"name"`
	Weight *float64        `json:"weight"`
	Model  json.RawMessage `json:"model"`
}

// votingSoft averages member probabilities with per-member weights.
type votingSoft struct {
	members []*classifier
	weights []float64
	total   float64
}

func newVotingSoft(p votingParams, features []string, classes [2]int, depth int) (*votingSoft, error) {
	if len(p.Estimators) == 0 {
		return nil, fmt.Errorf("voting classifier has no estimators")
	}
	m := &votingSoft{}
	for i, member := range p.Estimators {
		label := member.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		weight := 1.0
		if member.Weight != nil {
			weight = *member.Weight
		}
		if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, fmt.Errorf("estimator %s has invalid weight %v", label, weight)
		}
		sub, err := build(member.Model, depth+1)
		if err != nil {
			return nil, fmt.Errorf("estimator %s: %w", label, err)
		}
		if !sameStrings(sub.features, features) {
			return nil, fmt.Errorf("estimator %s was fitted on different features", label)
		}
		if sub.classes != classes {
			return nil, fmt.Errorf("estimator %s has classes %v, want %v", label, sub.classes, classes)
		}
		m.members = append(m.members, sub)
		m.weights = append(m.weights, weight)
		m.total += weight
	}
	if m.total <= 0 {
		return nil, fmt.Errorf("voting weights sum to zero")
	}
	return m, nil
}

func (m *votingSoft) proba(x []float64) ([2]float64, error) {
	var acc [2]float64
	for i, member := range m.members {
		p, err := member.PredictProba(x)
		if err != nil {
			return [2]float64{}, err
		}
		acc[0] += m.weights[i] * p[0]
		acc[1] += m.weights[i] * p[1]
	}
	return [2]float64{acc[0] / m.total, acc[1] / m.total}, nil
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
