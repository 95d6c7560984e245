package model

import (
	"fmt"
	"math"
)

// svmParams holds a fitted binary kernel SVM plus its Platt calibration.
// The decision value is f(x) = Σ dual_coef[i]·K(sv[i], x) + intercept and
// P(class 1) = 1 / (1 + exp(prob_a·f + prob_b)).
type svmParams struct {
	Kernel         string      `json:"kernel"`
	Gamma          float64     `json:"gamma"`
	Coef0          float64     `json:"coef0"`
	Degree         int         `json:"degree"`
	SupportVectors [][]float64 `json:"support_vectors"`
	DualCoef       []float64   `json:"dual_coef"`
	Intercept      float64     `json:"intercept"`
	ProbA          float64     `json:"prob_a"`
	ProbB          float64     `json:"prob_b"`
}

type svm struct {
	kernel    func(a, b []float64) float64
	vectors   [][]float64
	dualCoef  []float64
	intercept float64
	probA     float64
	probB     float64
}

func newSVM(p svmParams, width int) (*svm, error) {
	if len(p.SupportVectors) == 0 {
		return nil, fmt.Errorf("svm has no support vectors")
	}
	if len(p.DualCoef) != len(p.SupportVectors) {
		return nil, fmt.Errorf("svm has %d dual coefficients for %d support vectors", len(p.DualCoef), len(p.SupportVectors))
	}
	for i, sv := range p.SupportVectors {
		if len(sv) != width {
			return nil, fmt.Errorf("support vector %d has %d features, want %d", i, len(sv), width)
		}
	}
	kernel, err := svmKernel(p)
	if err != nil {
		return nil, err
	}
	return &svm{
		kernel:    kernel,
		vectors:   p.SupportVectors,
		dualCoef:  p.DualCoef,
		intercept: p.Intercept,
		probA:     p.ProbA,
		probB:     p.ProbB,
	}, nil
}

func svmKernel(p svmParams) (func(a, b []float64) float64, error) {
	gamma, coef0 := p.Gamma, p.Coef0
	switch p.Kernel {
	case "linear":
		return dot, nil
	case "rbf", "":
		if gamma <= 0 {
			return nil, fmt.Errorf("rbf kernel requires gamma > 0")
		}
		return func(a, b []float64) float64 {
			var sq float64
			for i := range a {
				d := a[i] - b[i]
				sq += d * d
			}
			return math.Exp(-gamma * sq)
		}, nil
	case "poly":
		degree := p.Degree
		if degree <= 0 {
			degree = 3
		}
		return func(a, b []float64) float64 {
			return math.Pow(gamma*dot(a, b)+coef0, float64(degree))
		}, nil
	case "sigmoid":
		return func(a, b []float64) float64 {
			return math.Tanh(gamma*dot(a, b) + coef0)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported svm kernel %q", p.Kernel)
	}
}

func (m *svm) decision(x []float64) float64 {
	f := m.intercept
	for i, sv := range m.vectors {
		f += m.dualCoef[i] * m.kernel(sv, x)
	}
	return f
}

// decide follows the decision sign, so the label can disagree with the
// calibrated probability near the boundary, as it does in the library the
// model was trained with.
func (m *svm) decide(x []float64) int {
	if m.decision(x) > 0 {
		return 1
	}
	return 0
}

func (m *svm) proba(x []float64) ([2]float64, error) {
	f := m.decision(x)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return [2]float64{}, fmt.Errorf("%w: svm decision value is not finite", ErrInference)
	}
	return binary(sigmoid(-(m.probA*f + m.probB))), nil
}
