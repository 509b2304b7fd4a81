package gowrapper

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/kolide/localipc/pkg/threadsafebuffer"
	"github.com/stretchr/testify/require"
)

func TestGo(t *testing.T) {
	t.Parallel()

	var logBytes threadsafebuffer.ThreadSafeBuffer
	slogger := slog.New(slog.NewTextHandler(&logBytes, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ran := make(chan struct{})
	Go(context.TODO(), slogger, func() {
		close(ran)
	})

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("goroutine did not run")
	}
	require.Empty(t, logBytes.String())
}

func TestGoWithRecoveryAction(t *testing.T) {
	t.Parallel()

	var logBytes threadsafebuffer.ThreadSafeBuffer
	slogger := slog.New(slog.NewTextHandler(&logBytes, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	recovered := make(chan any, 1)
	GoWithRecoveryAction(context.TODO(), slogger, func() {
		var m map[string]int
		m["boom"] = 1
	}, func(r any) {
		recovered <- r
	})

	select {
	case r := <-recovered:
		require.NotNil(t, r)
	case <-time.After(5 * time.Second):
		t.Fatal("recovery action not called")
	}

	logLines := logBytes.String()
	require.Contains(t, logLines, "exiting after goroutine panic")
	require.Contains(t, logLines, "panic stack trace")
	require.Contains(t, logLines, "assignment to entry in nil map")
}
