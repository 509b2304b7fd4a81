// Package gowrapper starts goroutines that log, rather than crash the
// process, when they panic.
package gowrapper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// Go runs goroutine in a new goroutine, logging any panic.
func Go(ctx context.Context, slogger *slog.Logger, goroutine func()) {
	GoWithRecoveryAction(ctx, slogger, goroutine, func(any) {})
}

// GoWithRecoveryAction runs goroutine in a new goroutine. If it panics, the
// panic and its stack are logged and then recoveryAction is called with the
// recovered value.
func GoWithRecoveryAction(ctx context.Context, slogger *slog.Logger, goroutine func(), recoveryAction func(r any)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slogger.Log(ctx, slog.LevelError,
					"exiting after goroutine panic",
					"err", r,
				)

				// errors.Errorf records the stack at this point, which still
				// includes the panicking frames.
				slogger.Log(ctx, slog.LevelError,
					"panic stack trace",
					"stack_trace", fmt.Sprintf("%+v", errors.Errorf("%+v", r)),
				)

				recoveryAction(r)
			}
		}()

		goroutine()
	}()
}
