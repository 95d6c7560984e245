package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"loanpredict/internal/config"
	"loanpredict/internal/features"
	"loanpredict/internal/model"
	"loanpredict/internal/predict"
	"loanpredict/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLogistic stores a logistic artifact whose decision depends only on
// Credit_History: p(approved) = sigmoid(4*credit - 2).
func writeLogistic(t *testing.T, dir, file string, cols []string) {
	t.Helper()
	coef := make([]float64, len(cols))
	coef[4] = 4
	raw, err := json.Marshal(map[string]any{
		"format_version": 1,
		"kind":           "logistic_regression",
		"name":           "credit only",
		"features":       cols,
		"classes":        []int{0, 1},
		"params":         map[string]any{"coef": coef, "intercept": -2},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), raw, 0o644))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	writeLogistic(t, dir, "lr.json", features.Columns())
	shuffled := slices.Clone(features.Columns())
	shuffled[0], shuffled[1] = shuffled[1], shuffled[0]
	writeLogistic(t, dir, "shuffled.json", shuffled)

	reg, err := registry.New(dir, []registry.ModelEntry{
		{Name: "Logistic Regression", Path: "lr.json"},
		{Name: "SVM", Path: "svm_smote.json"},
		{Name: "Shuffled", Path: "shuffled.json"},
	})
	require.NoError(t, err)
	cache, err := model.NewCache(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	cfg := config.Default()
	srv, err := NewServer(ServerConfig{
		Addr:      ":0",
		UI:        cfg.UI,
		Models:    reg.Names(),
		Predictor: predict.NewService(reg, cache),
	})
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func post(t *testing.T, srv *Server, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func scenario(modelName, credit string) url.Values {
	return url.Values{
		"model":              {modelName},
		"applicant_income":   {"5000"},
		"coapplicant_income": {"0"},
		"loan_amount":        {"128"},
		"loan_amount_term":   {"360"},
		"credit_history":     {credit},
		"gender":             {"Male"},
		"married":            {"Yes"},
		"dependents":         {"0"},
		"education":          {"Graduate"},
		"self_employed":      {"No"},
		"property_area":      {"Urban"},
	}
}

func TestIndex_DefaultModelShowsForm(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="applicant-form"`)
	assert.Contains(t, body, "Predict Loan Status")
	assert.Contains(t, body, "About This App")
	assert.Contains(t, body, `<option value="Logistic Regression" selected>`)
	assert.NotContains(t, body, "result-approved")
}

func TestIndex_MissingArtifactHaltsPage(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/?model=SVM")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "svm_smote.json")
	assert.Contains(t, body, "not found. Please upload it.")
	assert.NotContains(t, body, `id="applicant-form"`)
	assert.Contains(t, body, `id="model-select"`, "selector stays usable")
}

func TestIndex_UnknownModel(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/?model=Perceptron")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown model")
	assert.NotContains(t, rec.Body.String(), `id="applicant-form"`)
}

func TestPredict_Approved(t *testing.T) {
	srv := newTestServer(t)
	rec := post(t, srv, scenario("Logistic Regression", "1.0"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="result-approved"`)
	assert.Contains(t, body, "Loan Approved")
	assert.Contains(t, body, "Approval Confidence")
	assert.Contains(t, body, "88.08%")
	assert.Contains(t, body, "#E9F7EF")
	assert.Contains(t, body, `id="applicant-form"`, "form stays for the next submission")
	assert.Contains(t, body, `value="5000"`)
}

func TestPredict_Rejected(t *testing.T) {
	srv := newTestServer(t)
	rec := post(t, srv, scenario("Logistic Regression", "0.0"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="result-rejected"`)
	assert.Contains(t, body, "Loan Rejected")
	assert.Contains(t, body, "Approval Chance")
	assert.Contains(t, body, "11.92%")
	assert.Contains(t, body, "#FDEDEC")
}

func TestPredict_MissingArtifact(t *testing.T) {
	srv := newTestServer(t)
	rec := post(t, srv, scenario("SVM", "1.0"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found. Please upload it.")
	assert.NotContains(t, rec.Body.String(), "Loan Approved")
}

func TestPredict_RejectsTamperedInput(t *testing.T) {
	srv := newTestServer(t)

	negative := scenario("Logistic Regression", "1.0")
	negative.Set("loan_amount", "-5")
	rec := post(t, srv, negative)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="input-error"`)

	outOfSet := scenario("Logistic Regression", "1.0")
	outOfSet.Set("property_area", "Orbit")
	rec = post(t, srv, outOfSet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "result-")

	missing := scenario("Logistic Regression", "1.0")
	missing.Del("gender")
	rec = post(t, srv, missing)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredict_SchemaMismatchIsInferenceError(t *testing.T) {
	srv := newTestServer(t)
	rec := post(t, srv, scenario("Shuffled", "1.0"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="inference-error"`)
	assert.Contains(t, body, "feature schema mismatch")
	assert.NotContains(t, body, "Loan Approved")
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(ServerConfig{Models: []string{"x"}})
	assert.Error(t, err)
	_, err = NewServer(ServerConfig{Predictor: &predict.Service{}})
	assert.Error(t, err)
}
