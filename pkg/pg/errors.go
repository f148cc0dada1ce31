package pg

import "errors"

var (
	// ErrFailedToParseConfig indicates the connection string is malformed.
	ErrFailedToParseConfig = errors.New("failed to parse postgres config")

	// ErrFailedToOpenConnection indicates no connection could be
	// established within the configured retry budget.
	ErrFailedToOpenConnection = errors.New("failed to open postgres connection")

	// ErrHealthcheckFailed indicates the database did not answer a ping.
	ErrHealthcheckFailed = errors.New("postgres healthcheck failed")

	// ErrFailedToApplyMigrations indicates schema migrations did not run.
	ErrFailedToApplyMigrations = errors.New("failed to apply migrations")
)
