package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvConfigPath names the environment variable that overrides the config file location.
const EnvConfigPath = "LOANPREDICT_CONFIG"

// DefaultConfigPath is used when EnvConfigPath is unset.
const DefaultConfigPath = "configs/config.yaml"

// Load reads the YAML file at path (following its include list), applies
// defaults to every key the files leave unset and validates the result.
func Load(path string) (*Config, error) {
	files, err := resolveConfigIncludes(path)
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigType("yaml")
	for _, file := range files {
		if err := mergeConfigFile(v, file); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", file, err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(make(keySet))
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	setKeys := make(keySet)
	flattenConfigKeys("", v.AllSettings(), setKeys)
	cfg.applyDefaults(setKeys)
	return &cfg, nil
}

func mergeConfigFile(v *viper.Viper, path string) error {
	tmp := viper.New()
	tmp.SetConfigFile(path)
	if err := tmp.ReadInConfig(); err != nil {
		return err
	}
	return v.MergeConfigMap(tmp.AllSettings())
}

// resolveConfigIncludes returns the files to merge, includes first so the
// including file wins over what it pulls in.
func resolveConfigIncludes(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := includeWalker{done: make(map[string]bool), active: make(map[string]bool)}
	if err := w.visit(root); err != nil {
		return nil, err
	}
	return w.order, nil
}

type includeWalker struct {
	order  []string
	done   map[string]bool
	active map[string]bool
}

func (w *includeWalker) visit(file string) error {
	file = filepath.Clean(file)
	switch {
	case w.active[file]:
		return fmt.Errorf("include cycle detected: %s", file)
	case w.done[file]:
		return nil
	}
	w.active[file] = true
	defer delete(w.active, file)

	includes, err := readIncludes(file)
	if err != nil {
		return fmt.Errorf("reading includes of %s: %w", file, err)
	}
	for _, inc := range includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(file), inc)
		}
		if err := w.visit(inc); err != nil {
			return err
		}
	}
	w.done[file] = true
	w.order = append(w.order, file)
	return nil
}

// readIncludes returns the top-level include list of one file.
func readIncludes(file string) ([]string, error) {
	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	if !v.IsSet("include") {
		return nil, nil
	}
	items, ok := v.Get("include").([]any)
	if !ok {
		return nil, fmt.Errorf("include must be a list of paths")
	}
	var out []string
	for i, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("include[%d] is not a string", i)
		}
		if str = strings.TrimSpace(str); str != "" {
			out = append(out, str)
		}
	}
	return out, nil
}

func flattenConfigKeys(prefix string, node any, dest keySet) {
	switch val := node.(type) {
	case map[string]any:
		for k, v := range val {
			next := strings.ToLower(strings.TrimSpace(k))
			if next == "" {
				continue
			}
			if prefix != "" {
				next = prefix + "." + next
			}
			flattenConfigKeys(next, v, dest)
		}
	default:
		if prefix != "" {
			dest.mark(prefix)
		}
	}
}
