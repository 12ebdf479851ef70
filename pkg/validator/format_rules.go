package validator

import (
	"net/mail"
	"net/url"
	"strings"
)

// ValidEmail validates that a string is a valid email address.
// Empty values pass; emptiness is the concern of RequiredString.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}

			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}

			localPart, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || localPart == "" || domain == "" {
				return false
			}

			if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}

			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}

			return true
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid email address",
			ConstraintCode: CodeTypeMismatch,
			TranslationKey: "validation.email",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidURL validates an absolute URL with a scheme and host.
// Empty values pass.
func ValidURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			u, err := url.Parse(value)
			if err != nil {
				return false
			}
			return u.Scheme != "" && (u.Host != "" || u.Opaque != "")
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid URL",
			ConstraintCode: CodeTypeMismatch,
			TranslationKey: "validation.url",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
