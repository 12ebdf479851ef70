// Package formdef loads form definitions from YAML and mounts them on a
// form.Form.
//
// A definition lists fields with their native constraints and the
// per-field validation options: the trigger flags (blur, change, click,
// recheck), debounce, other and validations. Named validations are
// resolved through Rules, which the caller extends with its own factories:
//
//	def, err := formdef.Load("forms/signup.yaml")
//	if err != nil {
//	    return err
//	}
//	rules := formdef.DefaultRules().With("unique", uniqueRule)
//	mounted, err := def.Mount(ctx, f, rules)
//
// Debounce values are milliseconds when given as numbers and Go durations
// when given as strings ("300ms").
package formdef
