package config

import "strings"

// Config is the root configuration of the predictor service.
type Config struct {
	App    AppConfig    `toml:"app"`
	Models ModelsConfig `toml:"models"`
	UI     UIConfig     `toml:"ui"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

// ModelsConfig describes where serialized classifiers live and which names
// the selector offers.
type ModelsConfig struct {
	Dir string `toml:"dir"`
	// RegistryPath points at an optional YAML file that replaces Entries.
	RegistryPath   string             `toml:"registry_path"`
	Entries        []ModelEntryConfig `toml:"entries"`
	WatchArtifacts bool               `toml:"watch_artifacts"`
}

type ModelEntryConfig struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// UIConfig holds the page chrome shown around the form.
type UIConfig struct {
	PageTitle string `toml:"page_title"`
	PageIcon  string `toml:"page_icon"`
	Heading   string `toml:"heading"`
	Subtitle  string `toml:"subtitle"`
	About     string `toml:"about"`
	RepoURL   string `toml:"repo_url"`
}

// AboutLines splits the sidebar text into non-empty paragraphs.
func (u UIConfig) AboutLines() []string {
	var out []string
	for _, line := range strings.Split(u.About, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// keySet tracks the config paths explicitly set by the loaded files.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	_, ok := k[strings.ToLower(strings.TrimSpace(path))]
	return ok
}

// fieldDefault describes how a single field receives its default value.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
