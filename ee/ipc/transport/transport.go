// Package transport opens and accepts local connections: unix domain sockets
// everywhere but windows, named pipes on windows.
package transport

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// DialFunc opens a client connection to a local address.
type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

// RetryOnInterrupt calls fn until it returns something other than EINTR.
// Every other error, and success, is returned unchanged.
func RetryOnInterrupt(fn func() error) error {
	for {
		err := fn()
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		return err
	}
}

// Dial connects to addr, retrying interrupted system calls.
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	var conn net.Conn
	err := RetryOnInterrupt(func() error {
		var dialErr error
		conn, dialErr = dial(ctx, addr)
		return dialErr
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Listen creates a listener at addr, retrying interrupted system calls.
func Listen(addr string) (net.Listener, error) {
	var listener net.Listener
	err := RetryOnInterrupt(func() error {
		var listenErr error
		listener, listenErr = listen(addr)
		return listenErr
	})
	if err != nil {
		return nil, err
	}
	return listener, nil
}
