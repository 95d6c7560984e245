package config

import "strings"

const (
	defaultAppEnv      = "dev"
	defaultAppLogLevel = "info"
	defaultAppHTTPAddr = ":8501"
	defaultModelsDir   = "models"
	defaultPageTitle   = "Loan Approval Predictor"
	defaultPageIcon    = "💳"
	defaultHeading     = "Loan Approval Prediction App"
	defaultSubtitle    = "Choose a model and fill in applicant details below to get predictions."
	defaultRepoURL     = "https://github.com/AlyModrik41/Loan-Approval-Predictor"
	defaultAbout       = `This Loan Approval Predictor was built using:
Random Forest Classifier
SMOTE for balancing classes
Cross-validation (~95% accuracy)
How it works: fill in the applicant details and the model predicts if the loan will be approved.`
)

// DefaultModelEntries mirrors the classifiers exported by the training notebook.
var DefaultModelEntries = []ModelEntryConfig{
	{Name: "Logistic Regression", Path: "logistic_regression_smote.json"},
	{Name: "Random Forest", Path: "random_forest_smote.json"},
	{Name: "XGBoost", Path: "gradient_boosting_smote.json"},
	{Name: "KNN", Path: "knn_smote.json"},
	{Name: "SVM", Path: "svm_smote.json"},
	{Name: "Voting Classifier", Path: "VotingClassifierSoft.json"},
}

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Models.applyDefaults(keys)
	c.UI.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
}

func (m *ModelsConfig) applyDefaults(keys keySet) {
	if m == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("models.dir", &m.Dir, defaultModelsDir),
		boolFieldDefault("models.watch_artifacts", &m.WatchArtifacts, true),
		fieldDefault{
			key:  "models.entries",
			need: func() bool { return len(m.Entries) == 0 && strings.TrimSpace(m.RegistryPath) == "" },
			apply: func() {
				m.Entries = append([]ModelEntryConfig(nil), DefaultModelEntries...)
			},
		},
	)
	for i := range m.Entries {
		m.Entries[i].Name = strings.TrimSpace(m.Entries[i].Name)
		m.Entries[i].Path = strings.TrimSpace(m.Entries[i].Path)
	}
}

func (u *UIConfig) applyDefaults(keys keySet) {
	if u == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("ui.page_title", &u.PageTitle, defaultPageTitle),
		stringFieldDefault("ui.page_icon", &u.PageIcon, defaultPageIcon),
		stringFieldDefault("ui.heading", &u.Heading, defaultHeading),
		stringFieldDefault("ui.subtitle", &u.Subtitle, defaultSubtitle),
		stringFieldDefault("ui.about", &u.About, defaultAbout),
		stringFieldDefault("ui.repo_url", &u.RepoURL, defaultRepoURL),
	)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

// boolFieldDefault only fires when the key is absent from every config file,
// so an explicit false survives.
func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
