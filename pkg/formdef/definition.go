package formdef

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formguard/pkg/form"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// Definition describes one form.
type Definition struct {
	Name     string     `yaml:"name"`
	Title    string     `yaml:"title"`
	Submit   string     `yaml:"submit"`
	Debounce Duration   `yaml:"debounce"`
	Fields   []FieldDef `yaml:"fields"`
}

// FieldDef describes one field: its element, its native constraints and
// its validation options.
type FieldDef struct {
	Name        string         `yaml:"name"`
	ID          string         `yaml:"id"`
	Label       string         `yaml:"label"`
	Kind        form.Kind      `yaml:"kind"`
	Type        form.InputType `yaml:"type"`
	Value       string         `yaml:"value"`
	Placeholder string         `yaml:"placeholder"`
	Choices     []Choice       `yaml:"choices"`

	Required  bool     `yaml:"required"`
	Pattern   string   `yaml:"pattern"`
	MinLength int      `yaml:"minlength"`
	MaxLength int      `yaml:"maxlength"`
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	Step      float64  `yaml:"step"`

	Blur     bool       `yaml:"blur"`
	Change   bool       `yaml:"change"`
	Click    bool       `yaml:"click"`
	Recheck  bool       `yaml:"recheck"`
	Debounce Duration   `yaml:"debounce"`
	Other    StringList `yaml:"other"`

	Validations RuleList `yaml:"validations"`
	Validation  RuleList `yaml:"validation"`
}

// Identity is the registry key the field will be mounted under.
func (fd FieldDef) Identity() string {
	if fd.ID != "" {
		return fd.ID
	}
	return fd.Name
}

// Rules returns the field's validations in declaration order.
func (fd FieldDef) Rules() []RuleSpec {
	out := make([]RuleSpec, 0, len(fd.Validation)+len(fd.Validations))
	out = append(out, fd.Validation...)
	return append(out, fd.Validations...)
}

// Parse decodes and checks a YAML definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load reads a definition from path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	return Parse(data)
}

// LoadFS reads a definition from fsys.
func LoadFS(fsys fs.FS, path string) (*Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	return Parse(data)
}

// Validate checks field names, identities, kinds, types and patterns, and
// that every other identity names a field of the definition.
func (d *Definition) Validate() error {
	if len(d.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalid)
	}

	seen := make(map[string]bool, len(d.Fields))
	for i, fd := range d.Fields {
		if fd.Name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalid, i)
		}
		if seen[fd.Identity()] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalid, fd.Identity())
		}
		seen[fd.Identity()] = true

		switch fd.Kind {
		case "", form.KindInput, form.KindSelect, form.KindTextArea:
		default:
			return fmt.Errorf("%w: field %q has unknown kind %q", ErrInvalid, fd.Name, fd.Kind)
		}
		switch fd.Type {
		case "", form.TypeText, form.TypePassword, form.TypeEmail, form.TypeURL, form.TypeNumber:
		default:
			return fmt.Errorf("%w: field %q has unknown type %q", ErrInvalid, fd.Name, fd.Type)
		}
		if fd.MinLength < 0 || fd.MaxLength < 0 || (fd.MaxLength > 0 && fd.MinLength > fd.MaxLength) {
			return fmt.Errorf("%w: field %q has invalid length bounds", ErrInvalid, fd.Name)
		}
		if fd.Pattern != "" {
			if _, err := validator.CompilePattern(fd.Pattern); err != nil {
				return fmt.Errorf("%w: field %q: %w", ErrInvalid, fd.Name, err)
			}
		}
	}

	for _, fd := range d.Fields {
		for _, other := range fd.Other {
			if !seen[other] && d.byName(other) == nil {
				return fmt.Errorf("%w: field %q lists unknown other %q", ErrInvalid, fd.Name, other)
			}
		}
	}
	return nil
}

// Field returns the definition of the field with the given identity or name.
func (d *Definition) Field(key string) *FieldDef {
	for i := range d.Fields {
		if d.Fields[i].Identity() == key {
			return &d.Fields[i]
		}
	}
	return d.byName(key)
}

func (d *Definition) byName(name string) *FieldDef {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}
