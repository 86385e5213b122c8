package units

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the declarative configuration of one unit. Attributes that
// do not apply to a kind are ignored by its constructor.
type Definition struct {
	Type         string `json:"type" yaml:"type" validate:"required"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty" validate:"omitempty,max=50,unitname"`
	Label        string `json:"label,omitempty" yaml:"label,omitempty" validate:"max=1000"`
	HelpText     string `json:"help_text,omitempty" yaml:"help_text,omitempty"`
	IsRequired   *bool  `json:"is_required,omitempty" yaml:"is_required,omitempty"`
	Placeholder  string `json:"placeholder,omitempty" yaml:"placeholder,omitempty" validate:"max=1000"`
	DefaultValue string `json:"default_value,omitempty" yaml:"default_value,omitempty" validate:"max=1000"`
	Choices      string `json:"choices,omitempty" yaml:"choices,omitempty"`
	LabelFrom    string `json:"label_from,omitempty" yaml:"label_from,omitempty" validate:"max=1000"`
	LabelUntil   string `json:"label_until,omitempty" yaml:"label_until,omitempty" validate:"max=1000"`
	Text         string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Required resolves IsRequired, which defaults to true.
func (d Definition) Required() bool {
	if d.IsRequired == nil {
		return true
	}
	return *d.IsRequired
}

// Bool returns a pointer to v for use in Definition.IsRequired.
func Bool(v bool) *bool {
	return &v
}

type definitionFile struct {
	Units []Definition `json:"units" yaml:"units"`
}

// LoadFS walks fsys in lexical order and collects the unit definitions of
// every JSON or YAML file. Each file holds a top-level "units" list. A nil
// fsys yields no definitions.
func LoadFS(fsys fs.FS) ([]Definition, error) {
	if fsys == nil {
		return nil, nil
	}

	var defs []Definition
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("units: read %s: %w", path, err)
		}
		doc, err := parseDefinitions(data, path)
		if err != nil {
			return err
		}
		for idx, def := range doc.Units {
			if strings.TrimSpace(def.Type) == "" {
				return fmt.Errorf("units: file %s entry %d has no type", path, idx)
			}
			defs = append(defs, def)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func parseDefinitions(data []byte, source string) (definitionFile, error) {
	var doc definitionFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return definitionFile{}, fmt.Errorf("units: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = definitionFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return definitionFile{}, fmt.Errorf("units: parse %s: invalid JSON or YAML", source)
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
