package model

import (
	"errors"
	"fmt"
	"math"
)

// probEpsilon absorbs float rounding when averaged distributions land a hair outside [0,1].
const probEpsilon = 1e-9

// Kind tags the estimator family stored in an artifact.
type Kind string

const (
	KindLogisticRegression Kind = "logistic_regression"
	KindRandomForest       Kind = "random_forest"
	KindGradientBoosting   Kind = "gradient_boosting"
	KindKNN                Kind = "knn"
	KindSVM                Kind = "svm"
	KindVotingSoft         Kind = "voting_soft"
)

var (
	// ErrArtifactMissing is a configuration error: the artifact file does not exist.
	ErrArtifactMissing = errors.New("model artifact missing")
	// ErrInvalidArtifact means the file exists but cannot be turned into a predictor.
	ErrInvalidArtifact = errors.New("invalid model artifact")
	// ErrInference covers failures inside a predict call.
	ErrInference = errors.New("inference failed")
)

// Predictor is the capability every loaded classifier exposes: a binary
// label and positive-class probability over one fixed-shape numeric row.
// Implementations are read-only after loading and safe for concurrent use.
type Predictor interface {
	Kind() Kind
	Name() string
	// Features is the column order the model was fitted on.
	Features() []string
	Classes() [2]int
	Predict(x []float64) (int, error)
	PredictProba(x []float64) ([2]float64, error)
}

// estimator is the family-specific part of a classifier. x has already been
// length-checked and scaled.
type estimator interface {
	proba(x []float64) ([2]float64, error)
}

// decider is implemented by estimators whose label does not follow argmax
// of their probabilities (SVM uses the decision-function sign).
type decider interface {
	decide(x []float64) int
}

type scaler struct {
	mean  []float64
	scale []float64
}

func (s *scaler) transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out
}

// classifier joins the shared artifact header with one estimator.
type classifier struct {
	kind     Kind
	name     string
	features []string
	classes  [2]int
	scaler   *scaler
	est      estimator
}

func (c *classifier) Kind() Kind      { return c.kind }
func (c *classifier) Name() string    { return c.name }
func (c *classifier) Classes() [2]int { return c.classes }

func (c *classifier) Features() []string {
	return append([]string(nil), c.features...)
}

func (c *classifier) Predict(x []float64) (int, error) {
	z, err := c.prepare(x)
	if err != nil {
		return 0, err
	}
	if d, ok := c.est.(decider); ok {
		return c.classes[d.decide(z)], nil
	}
	p, err := c.estimate(z)
	if err != nil {
		return 0, err
	}
	return c.classes[argmax(p)], nil
}

func (c *classifier) PredictProba(x []float64) ([2]float64, error) {
	z, err := c.prepare(x)
	if err != nil {
		return [2]float64{}, err
	}
	return c.estimate(z)
}

func (c *classifier) prepare(x []float64) ([]float64, error) {
	if len(x) != len(c.features) {
		return nil, fmt.Errorf("%w: %s expects %d features, got %d", ErrInference, c.kind, len(c.features), len(x))
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: feature %s is not finite", ErrInference, c.features[i])
		}
	}
	if c.scaler != nil {
		return c.scaler.transform(x), nil
	}
	return x, nil
}

func (c *classifier) estimate(z []float64) ([2]float64, error) {
	p, err := c.est.proba(z)
	if err != nil {
		return [2]float64{}, err
	}
	for i, v := range p {
		if math.IsNaN(v) || v < -probEpsilon || v > 1+probEpsilon {
			return [2]float64{}, fmt.Errorf("%w: %s produced probability %v", ErrInference, c.kind, p)
		}
		p[i] = math.Min(1, math.Max(0, v))
	}
	return p, nil
}

// argmax resolves ties to the first class.
func argmax(p [2]float64) int {
	if p[1] > p[0] {
		return 1
	}
	return 0
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func binary(p1 float64) [2]float64 {
	return [2]float64{1 - p1, p1}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
