//go:build !windows

package listener

import (
	"errors"
	"log/slog"
	"os"
	"runtime"
	"testing"

	"github.com/kolide/kit/ulid"
	"github.com/kolide/localipc/ee/ipc/address"
	"github.com/kolide/localipc/pkg/threadsafebuffer"
	"github.com/stretchr/testify/require"
)

// TestStaleSocketReplaced confirms that a leftover file at the socket path
// does not prevent listening.
func TestStaleSocketReplaced(t *testing.T) {
	t.Parallel()

	addr := testAddress(t)
	require.NoError(t, os.WriteFile(string(addr), []byte("stale"), 0600))

	testListener, err := New(slog.New(slog.NewTextHandler(os.Stderr, nil)), addr)
	require.NoError(t, err)
	t.Cleanup(func() { testListener.Interrupt(errors.New("test error")) })

	info, err := os.Stat(string(addr))
	require.NoError(t, err)
	require.Equal(t, os.ModeSocket, info.Mode()&os.ModeSocket)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestAbstractAddress(t *testing.T) {
	t.Parallel()

	if runtime.GOOS != "linux" {
		t.Skip("abstract namespace sockets are linux only")
	}

	var logBytes threadsafebuffer.ThreadSafeBuffer
	slogger := slog.New(slog.NewTextHandler(&logBytes, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	addr := address.Address("\x00" + ulid.New() + "-calibre-gui.socket")
	testListener, err := New(slogger, addr)
	require.NoError(t, err)
	t.Cleanup(func() { testListener.Interrupt(errors.New("test error")) })

	require.NotContains(t, logBytes.String(), "removing existing socket")
}
