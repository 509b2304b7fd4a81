//go:build windows

package address

import "github.com/kolide/localipc/ee/ipc/identity"

// DefaultStrategy returns the named pipe strategy for the current user.
func DefaultStrategy() Strategy {
	return NewNamedPipeStrategy(identity.Current)
}
