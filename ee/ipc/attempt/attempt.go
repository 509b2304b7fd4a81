// Package attempt makes a single background attempt to connect to a peer
// listening on a local IPC address. It is used to find out whether another
// instance of the application is already running; not finding one is the
// common case and is not treated as an error.
//
// An attempt cannot be cancelled once started. Callers that need a deadline
// pass one to Wait and abandon the attempt when it expires.
package attempt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/kolide/kit/ulid"
	"github.com/kolide/localipc/ee/gowrapper"
	"github.com/kolide/localipc/ee/ipc/address"
	"github.com/kolide/localipc/ee/ipc/transport"
	"github.com/kolide/localipc/pkg/log/multislogger"
	"github.com/pkg/errors"
)

type State int32

const (
	NotStarted State = iota
	Pending
	Connected
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Pending:
		return "pending"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("unknown_state_%d", int32(s))
	}
}

// ErrNotStarted is returned by Wait for an attempt whose Start was never called.
var ErrNotStarted = errors.New("connection attempt not started")

type Attempt struct {
	id          string
	addr        address.Address
	verbose     bool
	slogger     *slog.Logger
	diagnostics io.Writer
	dial        transport.DialFunc

	startOnce  sync.Once
	finishOnce sync.Once
	started    atomic.Bool
	done       chan struct{}

	// conn and err are written once, before done is closed.
	conn net.Conn
	err  error
}

type Option func(*Attempt)

func WithSlogger(slogger *slog.Logger) Option {
	return func(a *Attempt) {
		a.slogger = slogger
	}
}

// WithDiagnosticWriter replaces stderr as the destination for verbose
// failure reports.
func WithDiagnosticWriter(w io.Writer) Option {
	return func(a *Attempt) {
		a.diagnostics = w
	}
}

// WithDialer replaces the platform transport.
func WithDialer(dial transport.DialFunc) Option {
	return func(a *Attempt) {
		a.dial = dial
	}
}

// New prepares an attempt to connect to addr. Nothing happens until Start.
// When verboseOnFailure is set, a failed attempt writes the address and the
// full error, with stack, to stderr.
func New(addr address.Address, verboseOnFailure bool, opts ...Option) *Attempt {
	a := &Attempt{
		id:          ulid.New(),
		addr:        addr,
		verbose:     verboseOnFailure,
		slogger:     multislogger.NewNopLogger(),
		diagnostics: os.Stderr,
		dial:        transport.Dial,
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.slogger = a.slogger.With("component", "ipc_connection_attempt", "address", addr.String())

	return a
}

// NewGUIAttempt prepares an attempt against the main application's channel.
func NewGUIAttempt(r *address.Resolver, verboseOnFailure bool, opts ...Option) *Attempt {
	return New(r.GUIAddress(), verboseOnFailure, opts...)
}

// Start launches the attempt in the background and returns immediately.
// Only the first call has any effect.
func (a *Attempt) Start() {
	a.startOnce.Do(func() {
		a.started.Store(true)

		ctx := context.WithValue(context.Background(), multislogger.AttemptIdKey, a.id)
		gowrapper.GoWithRecoveryAction(ctx, a.slogger, func() {
			a.run(ctx)
		}, func(r any) {
			a.fail(ctx, errors.Errorf("connection attempt panicked: %v", r))
		})
	})
}

func (a *Attempt) run(ctx context.Context) {
	a.slogger.Log(ctx, slog.LevelDebug,
		"attempting connection to peer",
	)

	conn, err := a.dial(ctx, string(a.addr))
	if err == nil && conn == nil {
		err = errors.New("dialer returned neither a connection nor an error")
	}
	if err != nil {
		a.fail(ctx, errors.WithStack(err))
		return
	}

	a.finishOnce.Do(func() {
		a.conn = conn
		close(a.done)
	})

	a.slogger.Log(ctx, slog.LevelDebug,
		"connected to peer",
	)
}

func (a *Attempt) fail(ctx context.Context, err error) {
	a.finishOnce.Do(func() {
		a.err = err

		if a.verbose {
			fmt.Fprintf(a.diagnostics, "Failed to connect to address %q\n%+v\n", a.addr.String(), err)
		}

		a.slogger.Log(ctx, slog.LevelDebug,
			"could not connect to peer",
			"err", err,
		)

		close(a.done)
	})
}

func (a *Attempt) Address() address.Address {
	return a.addr
}

// Done is closed once the attempt has connected or failed.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

func (a *Attempt) IsDone() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

func (a *Attempt) State() State {
	select {
	case <-a.done:
		if a.err != nil {
			return Failed
		}
		return Connected
	default:
	}

	if a.started.Load() {
		return Pending
	}
	return NotStarted
}

// Conn returns the connection once the attempt has succeeded, and nil
// otherwise. The caller owns the connection and must close it.
func (a *Attempt) Conn() net.Conn {
	select {
	case <-a.done:
		return a.conn
	default:
		return nil
	}
}

// Err returns the reason the attempt failed, or nil if it has not failed.
func (a *Attempt) Err() error {
	select {
	case <-a.done:
		return a.err
	default:
		return nil
	}
}

// Wait blocks until the attempt finishes or ctx is done. When ctx ends first
// the attempt keeps running in the background and its result is never
// observed by this call.
func (a *Attempt) Wait(ctx context.Context) (net.Conn, error) {
	if !a.started.Load() {
		return nil, ErrNotStarted
	}

	select {
	case <-a.done:
		return a.conn, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
