package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Load builds the configuration from defaults, the YAML file at path and the
// environment. An empty path tries DefaultFile and skips it when absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	return load(path, os.Environ())
}

func load(path string, environ []string) (*Config, error) {
	cfg := Default()
	cfg.LoadedFrom = []string{"defaults"}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := loadFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	applied, err := applyEnv(cfg, environ)
	if err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}
	if applied {
		cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays ADVISOR_<SECTION>_<FIELD> variables. The section is the
// first segment; the rest, lowercased, is the field's mapstructure name.
func applyEnv(cfg *Config, environ []string) (bool, error) {
	tree := make(map[string]any)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		section, field, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_")
		if !ok || field == "" {
			continue
		}
		m, _ := tree[section].(map[string]any)
		if m == nil {
			m = make(map[string]any)
			tree[section] = m
		}
		m[field] = value
	}
	if len(tree) == 0 {
		return false, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		// Replace list values instead of merging them element-wise.
		ZeroFields:       true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return false, err
	}
	if err := dec.Decode(tree); err != nil {
		return false, err
	}
	return true, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
