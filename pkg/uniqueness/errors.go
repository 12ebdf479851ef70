package uniqueness

import "errors"

var (
	ErrTaken              = errors.New("value already taken")
	ErrUnknownBackend     = errors.New("unknown uniqueness backend")
	ErrHealthcheckFailed  = errors.New("uniqueness backend healthcheck failed")
	ErrBackendUnavailable = errors.New("uniqueness backend did not become ready")
	ErrInvalidConnString  = errors.New("failed to parse connection string")
	ErrMigrationsFailed   = errors.New("failed to apply migrations")
)
