package validator

import (
	"fmt"
	"regexp"
	"sync"
)

var patternCache sync.Map // map[string]*regexp.Regexp

// CompilePattern compiles an HTML-style pattern: the expression must match
// the whole value. Compiled patterns are cached by source.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	patternCache.Store(pattern, re)
	return re, nil
}

// MatchesPattern validates that the whole value matches pattern.
// Empty values pass; pair with RequiredString to reject them.
// An uncompilable pattern is ignored, as browsers ignore an invalid pattern
// attribute.
func MatchesPattern(field, value, pattern string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			re, err := CompilePattern(pattern)
			if err != nil {
				return true
			}
			return re.MatchString(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must match the requested format",
			ConstraintCode: CodePatternMismatch,
			TranslationKey: "validation.pattern",
			TranslationValues: map[string]any{
				"field":   field,
				"pattern": pattern,
			},
		},
	}
}

// MatchesRegex validates against a custom, unanchored pattern.
func MatchesRegex(field, value string, pattern string, description string) Rule {
	regex := regexp.MustCompile(pattern)
	return Rule{
		Check: func() bool {
			return regex.MatchString(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must match %s pattern", description),
			ConstraintCode: CodeCustomError,
			TranslationKey: "validation.regex_pattern",
			TranslationValues: map[string]any{
				"field":       field,
				"pattern":     pattern,
				"description": description,
			},
		},
	}
}
