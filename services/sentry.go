package services

import (
	"github.com/getsentry/sentry-go"
)

// InitSentry configures error reporting from SENTRY_DSN. With no DSN the
// client is still set up and drops every event.
func InitSentry(release string) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:              GetEnv("SENTRY_DSN", ""),
		Environment:      GetEnv("ENV", "local"),
		Release:          release,
		Debug:            false,
		TracesSampleRate: 1.0,
	})
}
