package registry

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"loanpredict/internal/config"
	"loanpredict/internal/logger"

	"gopkg.in/yaml.v3"
)

// ErrUnknownModel is returned when a display name is not registered.
var ErrUnknownModel = errors.New("unknown model")

// ModelEntry binds a selector name to the artifact that implements it.
type ModelEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// FileConfig maps the optional registry file.
type FileConfig struct {
	Models []ModelEntry `yaml:"models"`
}

// Registry is the fixed name → artifact mapping. It is built once at startup
// and never mutated afterwards, so it is safe to share between requests.
type Registry struct {
	entries []ModelEntry
	byName  map[string]int
}

// New builds a registry from entries; relative paths are joined onto dir.
func New(dir string, entries []ModelEntry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("model registry requires at least one entry")
	}
	r := &Registry{
		entries: make([]ModelEntry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		path := strings.TrimSpace(e.Path)
		if name == "" {
			return nil, fmt.Errorf("model registry entry #%d missing name", i+1)
		}
		if path == "" {
			return nil, fmt.Errorf("model registry entry %q missing path", name)
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("model registry contains duplicate name: %s", name)
		}
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		r.byName[name] = len(r.entries)
		r.entries = append(r.entries, ModelEntry{Name: name, Path: filepath.Clean(path)})
	}
	return r, nil
}

// FromConfig builds the registry from the models section, preferring the
// registry file when one is configured.
func FromConfig(cfg config.ModelsConfig) (*Registry, error) {
	if path := strings.TrimSpace(cfg.RegistryPath); path != "" {
		file, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		r, err := New(cfg.Dir, file.Models)
		if err != nil {
			return nil, fmt.Errorf("registry %s: %w", filepath.Base(path), err)
		}
		logger.Infof("Model registry loaded %d entries from %s", r.Len(), filepath.Base(path))
		return r, nil
	}
	entries := make([]ModelEntry, 0, len(cfg.Entries))
	for _, e := range cfg.Entries {
		entries = append(entries, ModelEntry{Name: e.Name, Path: e.Path})
	}
	return New(cfg.Dir, entries)
}

// ReadFile decodes a registry file, rejecting unknown fields.
func ReadFile(path string) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read model registry failed: %w", err)
	}
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse model registry failed: %w", err)
	}
	return cfg, nil
}

// Resolve maps a display name to its entry.
func (r *Registry) Resolve(name string) (ModelEntry, error) {
	idx, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return ModelEntry{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return r.entries[idx], nil
}

// Names lists display names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

// Entries returns a copy of all entries.
func (r *Registry) Entries() []ModelEntry {
	return append([]ModelEntry(nil), r.entries...)
}

// Default is the entry preselected in the form.
func (r *Registry) Default() ModelEntry {
	return r.entries[0]
}

func (r *Registry) Len() int {
	return len(r.entries)
}
