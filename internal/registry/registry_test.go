package registry

import (
	"os"
	"path/filepath"
	"testing"

	"loanpredict/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JoinsRelativePaths(t *testing.T) {
	r, err := New("models", []ModelEntry{
		{Name: "KNN", Path: "knn_smote.json"},
		{Name: "Abs", Path: "/opt/models/abs.json"},
	})
	require.NoError(t, err)

	knn, err := r.Resolve("KNN")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("models", "knn_smote.json"), knn.Path)

	abs, err := r.Resolve(" Abs ")
	require.NoError(t, err)
	assert.Equal(t, "/opt/models/abs.json", abs.Path)
	assert.Equal(t, []string{"KNN", "Abs"}, r.Names())
	assert.Equal(t, "KNN", r.Default().Name)
}

func TestNew_RejectsBadEntries(t *testing.T) {
	_, err := New("", nil)
	assert.Error(t, err)

	_, err = New("", []ModelEntry{{Name: "", Path: "a.json"}})
	assert.Error(t, err)

	_, err = New("", []ModelEntry{{Name: "A", Path: ""}})
	assert.Error(t, err)

	_, err = New("", []ModelEntry{{Name: "A", Path: "a.json"}, {Name: "A", Path: "b.json"}})
	assert.ErrorContains(t, err, "duplicate")
}

func TestResolve_Unknown(t *testing.T) {
	r, err := New("", []ModelEntry{{Name: "SVM", Path: "svm.json"}})
	require.NoError(t, err)

	_, err = r.Resolve("Naive Bayes")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestFromConfig_Defaults(t *testing.T) {
	cfg := config.Default()
	r, err := FromConfig(cfg.Models)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Logistic Regression", "Random Forest", "XGBoost", "KNN", "SVM", "Voting Classifier",
	}, r.Names())
	e, err := r.Resolve("XGBoost")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("models", "gradient_boosting_smote.json"), e.Path)
}

func TestFromConfig_RegistryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
models:
  - name: Only Model
    path: only.json
`), 0o644))

	r, err := FromConfig(config.ModelsConfig{Dir: dir, RegistryPath: path})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
	e, err := r.Resolve("Only Model")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "only.json"), e.Path)
}

func TestReadFile_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models:\n  - name: A\n    file: a.json\n"), 0o644))

	_, err := ReadFile(path)
	assert.ErrorContains(t, err, "parse model registry failed")
}
