package predict

import (
	"context"
	"errors"
	"fmt"
	"math"

	"loanpredict/internal/features"
	"loanpredict/internal/logger"
	"loanpredict/internal/model"
	"loanpredict/internal/registry"

	"github.com/google/uuid"
)

// ErrSchemaMismatch means the encoded row does not carry the columns the
// model was fitted on, in the same order.
var ErrSchemaMismatch = errors.New("feature schema mismatch")

// ApprovedLabel is the class label that means the loan is approved.
const ApprovedLabel = 1

// Resolver maps a selector name to an artifact location.
type Resolver interface {
	Resolve(name string) (registry.ModelEntry, error)
}

// Source yields a ready predictor for an artifact path.
type Source interface {
	Get(path string) (model.Predictor, error)
}

// Result is the outcome of one button press.
type Result struct {
	TraceID           string
	Model             string
	Kind              model.Kind
	Label             int
	Approved          bool
	Probability       float64
	ConfidencePercent float64
}

// Service runs the resolve → load → encode → infer chain for one interaction.
type Service struct {
	registry Resolver
	models   Source
	traceID  func() string
}

func NewService(reg Resolver, models Source) *Service {
	return &Service{
		registry: reg,
		models:   models,
		traceID:  func() string { return uuid.NewString() },
	}
}

// Load resolves name and loads its predictor. A missing artifact surfaces as
// *model.MissingArtifactError.
func (s *Service) Load(ctx context.Context, name string) (registry.ModelEntry, model.Predictor, error) {
	if err := ctx.Err(); err != nil {
		return registry.ModelEntry{}, nil, err
	}
	entry, err := s.registry.Resolve(name)
	if err != nil {
		return registry.ModelEntry{}, nil, err
	}
	p, err := s.models.Get(entry.Path)
	if err != nil {
		return entry, nil, err
	}
	return entry, p, nil
}

// Predict handles a submitted form: it validates and encodes the input and
// calls the model's predict and predict-probability operations once each.
func (s *Service) Predict(ctx context.Context, name string, in features.ApplicantInput) (Result, error) {
	entry, p, err := s.Load(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	trace := s.traceID()
	log := logger.With("trace", trace, "model", entry.Name)

	vec := features.Encode(in)
	label, proba, err := Invoke(p, vec)
	if err != nil {
		log.Error("prediction failed", "err", err)
		return Result{}, err
	}
	res := Result{
		TraceID:           trace,
		Model:             entry.Name,
		Kind:              p.Kind(),
		Label:             label,
		Approved:          label == ApprovedLabel,
		Probability:       proba[1],
		ConfidencePercent: ConfidencePercent(proba[1]),
	}
	log.Info("prediction", "kind", res.Kind, "label", res.Label, "confidence", res.ConfidencePercent)
	return res, nil
}

// Invoke checks vec against the predictor's training schema and runs a
// single-row inference.
func Invoke(p model.Predictor, vec features.Vector) (int, [2]float64, error) {
	if err := CheckSchema(p.Features(), vec.Names); err != nil {
		return 0, [2]float64{}, err
	}
	label, err := p.Predict(vec.Values)
	if err != nil {
		return 0, [2]float64{}, fmt.Errorf("predict: %w", err)
	}
	proba, err := p.PredictProba(vec.Values)
	if err != nil {
		return 0, [2]float64{}, fmt.Errorf("predict proba: %w", err)
	}
	return label, proba, nil
}

// CheckSchema requires the same column names in the same order.
func CheckSchema(trained, encoded []string) error {
	if len(trained) != len(encoded) {
		return fmt.Errorf("%w: model expects %d columns, form produced %d", ErrSchemaMismatch, len(trained), len(encoded))
	}
	for i := range trained {
		if trained[i] != encoded[i] {
			return fmt.Errorf("%w: column %d is %q, model expects %q", ErrSchemaMismatch, i, encoded[i], trained[i])
		}
	}
	return nil
}

// ConfidencePercent converts a positive-class probability to [0,100].
func ConfidencePercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(100, math.Max(0, p*100))
}
