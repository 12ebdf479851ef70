package formdef

import "errors"

var (
	ErrParse          = errors.New("formdef: failed to parse definition")
	ErrInvalid        = errors.New("formdef: invalid definition")
	ErrUnknownRule    = errors.New("formdef: unknown rule")
	ErrMissingRuleArg = errors.New("formdef: missing rule argument")
)
