package model

import "fmt"

type logisticParams struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

type logisticRegression struct {
	coef      []float64
	intercept float64
}

func newLogisticRegression(p logisticParams, width int) (*logisticRegression, error) {
	if len(p.Coef) != width {
		return nil, fmt.Errorf("coef has %d entries, want %d", len(p.Coef), width)
	}
	return &logisticRegression{coef: p.Coef, intercept: p.Intercept}, nil
}

func (m *logisticRegression) proba(x []float64) ([2]float64, error) {
	return binary(sigmoid(dot(m.coef, x) + m.intercept)), nil
}
