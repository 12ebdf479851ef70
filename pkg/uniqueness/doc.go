// Package uniqueness answers "is this value already taken?" for asynchronous
// form rules, such as checking that a sign-up email is not registered yet.
//
// A Backend stores taken values per namespace ("email", "username") and is
// implemented in memory, on Redis sets, on a PostgreSQL table and on a
// MongoDB collection. Open selects one from Config; each networked backend
// has a Connect helper that retries until the server answers.
//
// Unique turns a Checker into a form rule:
//
//	backend, err := uniqueness.Open(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer backend.Close(ctx)
//
//	rules := []form.Rule{uniqueness.Unique(backend, "email")}
//
// Cached keeps successful lookups for a short TTL so that debounced keystrokes
// do not hit the backend each time; call Forget after reserving a value.
// RuleFactory exposes the rule to YAML definitions as "unique" with a
// required namespace argument.
package uniqueness
