//go:build !windows

package transport

import (
	"context"
	"net"
)

// A leading NUL in addr selects the linux abstract namespace.
func dial(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", addr)
}

func listen(addr string) (net.Listener, error) {
	return net.Listen("unix", addr)
}
