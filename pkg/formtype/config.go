package formtype

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formunion/internal/checks"
	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
)

// Config describes form types in a JSON or YAML file.
type Config struct {
	Types []TypeConfig `json:"types" yaml:"types" validate:"dive"`
}

// TypeConfig is the file representation of a Type. Base names an entry of
// the bases map handed to LoadFS.
type TypeConfig struct {
	Key      string                    `json:"key" yaml:"key" validate:"required,slug"`
	Label    string                    `json:"label,omitempty" yaml:"label,omitempty"`
	Base     string                    `json:"base,omitempty" yaml:"base,omitempty"`
	Required []string                  `json:"required,omitempty" yaml:"required,omitempty"`
	Expect   map[string]map[string]any `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// LoadFS reads every JSON or YAML file of fsys and registers the described
// types. Base forms are looked up in bases by name.
func LoadFS(fsys fs.FS, bases map[string]form.Base) (*Registry, error) {
	registry := NewRegistry()
	if fsys == nil {
		return registry, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formtype: read %s: %w", path, err)
		}
		cfg, err := parseConfig(data, path)
		if err != nil {
			return err
		}
		if err := checks.Struct(cfg); err != nil {
			return fmt.Errorf("formtype: file %s: %w", path, err)
		}

		for _, tc := range cfg.Types {
			t, err := tc.build(bases)
			if err != nil {
				return fmt.Errorf("formtype: file %s: %w", path, err)
			}
			if err := registry.Register(t); err != nil {
				return fmt.Errorf("formtype: file %s: %w", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

func (tc TypeConfig) build(bases map[string]form.Base) (Type, error) {
	t := Type{
		Key:      tc.Key,
		Label:    tc.Label,
		Required: append([]string(nil), tc.Required...),
	}
	if tc.Base != "" {
		base, ok := bases[tc.Base]
		if !ok {
			return Type{}, fmt.Errorf("type %q references unknown base %q", tc.Key, tc.Base)
		}
		t.Base = base
	}
	if len(tc.Expect) > 0 {
		t.Expect = make(map[string]field.Attributes, len(tc.Expect))
		for name, attrs := range tc.Expect {
			copied := make(field.Attributes, len(attrs))
			for k, v := range attrs {
				copied[k] = v
			}
			t.Expect[name] = copied
		}
	}
	return t, nil
}

func parseConfig(data []byte, source string) (Config, error) {
	var cfg Config
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("formtype: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}

	cfg = Config{}
	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}

	return Config{}, fmt.Errorf("formtype: parse %s: invalid JSON or YAML", source)
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
