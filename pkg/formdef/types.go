package formdef

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration read from milliseconds or a duration string.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	if ms, err := strconv.ParseInt(node.Value, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// StringList accepts a single string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			*l = nil
			return nil
		}
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// RuleSpec names a validation rule and its arguments.
// In YAML it is either the bare rule name or a mapping:
//
//	validations:
//	  - unique
//	  - rule: match
//	    message: Passwords do not match
//	    args: {field: password}
type RuleSpec struct {
	Rule    string            `yaml:"rule"`
	Message string            `yaml:"message"`
	Args    map[string]string `yaml:"args"`
}

func (s *RuleSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = RuleSpec{Rule: node.Value}
		return nil
	}
	type plain RuleSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = RuleSpec(p)
	return nil
}

// Arg returns the named argument or ErrMissingRuleArg.
func (s RuleSpec) Arg(name string) (string, error) {
	v, ok := s.Args[name]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s needs %q", ErrMissingRuleArg, s.Rule, name)
	}
	return v, nil
}

// RuleList accepts one rule or a list of rules.
type RuleList []RuleSpec

func (l *RuleList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var specs []RuleSpec
		if err := node.Decode(&specs); err != nil {
			return err
		}
		*l = specs
		return nil
	}
	var spec RuleSpec
	if err := node.Decode(&spec); err != nil {
		return err
	}
	*l = RuleList{spec}
	return nil
}

// Choice is one option of a select field.
type Choice struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}
