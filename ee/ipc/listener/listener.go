package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/kolide/localipc/ee/ipc/address"
	"github.com/kolide/localipc/ee/ipc/transport"
	"github.com/kolide/localipc/pkg/log/multislogger"
)

const (
	minAcceptRetryDelay = 5 * time.Millisecond
	maxAcceptRetryDelay = 1 * time.Second
)

// ConnHandler takes ownership of an accepted connection.
type ConnHandler func(conn net.Conn)

// PeerListener is a rungroup actor that listens on an IPC address so that
// later instances of the application can find this one. It does not speak
// any protocol: accepted connections are handed to a ConnHandler, which by
// default just closes them.
type PeerListener struct {
	slogger     *slog.Logger
	addr        address.Address
	listener    net.Listener
	handleConn  ConnHandler
	interrupt   chan struct{}
	interrupted *atomic.Bool
}

type Option func(*PeerListener)

func WithConnHandler(handler ConnHandler) Option {
	return func(l *PeerListener) {
		l.handleConn = handler
	}
}

func New(slogger *slog.Logger, addr address.Address, opts ...Option) (*PeerListener, error) {
	if slogger == nil {
		slogger = multislogger.NewNopLogger()
	}
	listenerSlogger := slogger.With("component", "ipc_peer_listener", "address", addr.String())

	netListener, err := initSocket(listenerSlogger, addr)
	if err != nil {
		return nil, fmt.Errorf("initializing socket: %w", err)
	}

	l := &PeerListener{
		slogger:     listenerSlogger,
		addr:        addr,
		listener:    netListener,
		interrupt:   make(chan struct{}, 1), // Buffer so that Interrupt can send to this channel and return, even if Execute has already terminated
		interrupted: &atomic.Bool{},
	}
	l.handleConn = l.closeConn

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

func initSocket(slogger *slog.Logger, addr address.Address) (net.Listener, error) {
	// A socket file left behind by a peer that did not exit cleanly would make
	// listening fail. Abstract sockets and named pipes have no such file.
	if isSocketFile(addr) {
		if err := os.Remove(string(addr)); err != nil && !os.IsNotExist(err) {
			slogger.Log(context.TODO(), slog.LevelWarn,
				"removing existing socket",
				"err", err,
			)
		}
	}

	listener, err := transport.Listen(string(addr))
	if err != nil {
		return nil, fmt.Errorf("listening at %s: %w", addr.String(), err)
	}

	if isSocketFile(addr) {
		if err := setSocketPermissions(string(addr)); err != nil {
			listener.Close()
			return nil, fmt.Errorf("setting appropriate permissions on %s: %w", addr.String(), err)
		}
	}

	return listener, nil
}

func (l *PeerListener) Addr() address.Address {
	return l.addr
}

func (l *PeerListener) Execute() error {
	var retryDelay time.Duration
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			select {
			case <-l.interrupt:
				l.slogger.Log(context.TODO(), slog.LevelDebug,
					"received shutdown, exiting loop",
				)
				return nil
			default:
			}

			retryDelay = nextAcceptRetryDelay(retryDelay)
			l.slogger.Log(context.TODO(), slog.LevelError,
				"could not accept incoming connection",
				"err", err,
				"retry_in", retryDelay.String(),
			)

			select {
			case <-l.interrupt:
				l.slogger.Log(context.TODO(), slog.LevelDebug,
					"received shutdown, exiting loop",
				)
				return nil
			case <-time.After(retryDelay):
			}
			continue
		}
		retryDelay = 0

		l.slogger.Log(context.TODO(), slog.LevelInfo,
			"accepted peer connection",
		)

		l.handleConn(conn)
	}
}

// nextAcceptRetryDelay doubles the wait between failed accepts, up to a cap.
func nextAcceptRetryDelay(current time.Duration) time.Duration {
	if current == 0 {
		return minAcceptRetryDelay
	}
	if current*2 > maxAcceptRetryDelay {
		return maxAcceptRetryDelay
	}
	return current * 2
}

func (l *PeerListener) closeConn(conn net.Conn) {
	if err := conn.Close(); err != nil {
		l.slogger.Log(context.TODO(), slog.LevelWarn,
			"could not close connection",
			"err", err,
		)
	}
}

func (l *PeerListener) Interrupt(_ error) {
	// Only perform shutdown tasks on first call to interrupt -- no need to repeat on potential extra calls.
	if l.interrupted.Swap(true) {
		return
	}

	l.interrupt <- struct{}{}
	if err := l.listener.Close(); err != nil {
		l.slogger.Log(context.TODO(), slog.LevelWarn,
			"could not close listener during interrupt",
			"err", err,
		)
	}
}
