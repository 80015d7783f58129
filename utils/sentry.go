package utils

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/cppla/network/config"
)

// InitSentry enables error reporting when a DSN is configured.
func InitSentry(cfg config.AppConfig) (bool, error) {
	if cfg.SentryDSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.GinMode,
		ServerName:  cfg.ServiceName,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// FlushSentry waits for buffered events to be delivered.
func FlushSentry(ctx context.Context) error {
	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	sentry.Flush(timeout)
	return nil
}
