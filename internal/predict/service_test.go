package predict

import (
	"context"
	"errors"
	"testing"

	"loanpredict/internal/features"
	"loanpredict/internal/model"
	"loanpredict/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Kind() model.Kind  { return model.KindRandomForest }
func (m *MockPredictor) Name() string      { return "mock forest" }
func (m *MockPredictor) Classes() [2]int   { return [2]int{0, 1} }
func (m *MockPredictor) Features() []string {
	args := m.Called()
	return args.Get(0).([]string)
}
func (m *MockPredictor) Predict(x []float64) (int, error) {
	args := m.Called(x)
	return args.Int(0), args.Error(1)
}
func (m *MockPredictor) PredictProba(x []float64) ([2]float64, error) {
	args := m.Called(x)
	return args.Get(0).([2]float64), args.Error(1)
}

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Get(path string) (model.Predictor, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Predictor), args.Error(1)
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New("models", []registry.ModelEntry{
		{Name: "Random Forest", Path: "random_forest_smote.json"},
		{Name: "SVM", Path: "svm_smote.json"},
	})
	require.NoError(t, err)
	return reg
}

func favourable(credit float64) features.ApplicantInput {
	in := features.DefaultInput()
	in.ApplicantIncome = 9000
	in.CoapplicantIncome = 2500
	in.LoanAmount = 120
	in.Married = features.Yes
	in.Gender = features.GenderMale
	in.PropertyArea = features.AreaSemiurban
	in.CreditHistory = credit
	return in
}

func TestService_Predict_CallsModelOncePerPress(t *testing.T) {
	cases := []struct {
		name     string
		label    int
		proba    [2]float64
		approved bool
	}{
		{"approved branch", 1, [2]float64{0.2754, 0.7246}, true},
		{"rejected branch", 0, [2]float64{0.91, 0.09}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := favourable(0.0)
			vec := features.Encode(in)

			pred := new(MockPredictor)
			pred.On("Features").Return(features.Columns())
			pred.On("Predict", vec.Values).Return(tc.label, nil).Once()
			pred.On("PredictProba", vec.Values).Return(tc.proba, nil).Once()

			src := new(MockSource)
			src.On("Get", "models/random_forest_smote.json").Return(pred, nil).Once()

			svc := NewService(newRegistry(t), src)
			res, err := svc.Predict(context.Background(), "Random Forest", in)
			require.NoError(t, err)

			assert.Equal(t, tc.approved, res.Approved)
			assert.Equal(t, tc.label, res.Label)
			assert.InDelta(t, tc.proba[1]*100, res.ConfidencePercent, 1e-9)
			assert.Equal(t, "Random Forest", res.Model)
			assert.NotEmpty(t, res.TraceID)

			pred.AssertNumberOfCalls(t, "Predict", 1)
			pred.AssertNumberOfCalls(t, "PredictProba", 1)
			src.AssertExpectations(t)
		})
	}
}

func TestService_Predict_MissingArtifactHalts(t *testing.T) {
	src := new(MockSource)
	missing := &model.MissingArtifactError{Path: "models/svm_smote.json"}
	src.On("Get", "models/svm_smote.json").Return(nil, missing)

	svc := NewService(newRegistry(t), src)
	_, err := svc.Predict(context.Background(), "SVM", favourable(1))
	assert.ErrorIs(t, err, model.ErrArtifactMissing)
}

func TestService_Predict_UnknownModel(t *testing.T) {
	svc := NewService(newRegistry(t), new(MockSource))
	_, err := svc.Predict(context.Background(), "Naive Bayes", favourable(1))
	assert.ErrorIs(t, err, registry.ErrUnknownModel)
}

func TestService_Predict_InvalidInputSkipsInference(t *testing.T) {
	pred := new(MockPredictor)
	src := new(MockSource)
	src.On("Get", mock.Anything).Return(pred, nil)

	in := favourable(1)
	in.Dependents = "7"
	svc := NewService(newRegistry(t), src)
	_, err := svc.Predict(context.Background(), "Random Forest", in)
	assert.ErrorIs(t, err, features.ErrInvalidInput)
	pred.AssertNotCalled(t, "Predict", mock.Anything)
}

func TestService_Predict_SchemaMismatchPropagates(t *testing.T) {
	cols := features.Columns()
	cols[10] = "Education_Graduate"
	pred := new(MockPredictor)
	pred.On("Features").Return(cols)
	src := new(MockSource)
	src.On("Get", mock.Anything).Return(pred, nil)

	svc := NewService(newRegistry(t), src)
	_, err := svc.Predict(context.Background(), "Random Forest", favourable(1))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	pred.AssertNotCalled(t, "Predict", mock.Anything)
	pred.AssertNotCalled(t, "PredictProba", mock.Anything)
}

func TestService_Predict_InferenceErrorPropagates(t *testing.T) {
	pred := new(MockPredictor)
	pred.On("Features").Return(features.Columns())
	pred.On("Predict", mock.Anything).Return(0, errors.New("boom"))
	src := new(MockSource)
	src.On("Get", mock.Anything).Return(pred, nil)

	svc := NewService(newRegistry(t), src)
	_, err := svc.Predict(context.Background(), "Random Forest", favourable(1))
	assert.ErrorContains(t, err, "boom")
	pred.AssertNotCalled(t, "PredictProba", mock.Anything)
}

func TestService_Load_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewService(newRegistry(t), new(MockSource))
	_, _, err := svc.Load(ctx, "SVM")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfidencePercent_Bounds(t *testing.T) {
	for _, p := range []float64{-0.2, 0, 0.33333, 0.5, 1, 1.7} {
		got := ConfidencePercent(p)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
	}
	assert.Equal(t, 50.0, ConfidencePercent(0.5))
}

func TestCheckSchema(t *testing.T) {
	assert.NoError(t, CheckSchema(features.Columns(), features.Columns()))
	assert.ErrorIs(t, CheckSchema(features.Columns()[:13], features.Columns()), ErrSchemaMismatch)
}
