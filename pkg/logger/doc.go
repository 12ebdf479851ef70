// Package logger builds *slog.Logger values for the form services and keeps
// attribute names consistent across packages.
//
// New creates a JSON or text logger configured by Option functions.
// WithEnvironment applies per-environment defaults, and NewFromConfig reads
// them from a Config loaded from the environment. Handlers add attributes
// taken from the record's context through ContextExtractor functions; the
// session and request ids stored by WithSessionID and WithRequestID are
// always extracted, unless the record already sets the same key.
//
// Attribute helpers such as Form, Field, Code and Error live in attr.go.
// Error and Errors return an empty Attr for nil errors, so they can be
// passed without a nil check:
//
//	log.DebugContext(ctx, "field invalid",
//	    logger.Form("signup"),
//	    logger.Field("email"),
//	    logger.Code(err.Code),
//	)
package logger
