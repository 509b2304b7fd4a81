//go:build linux

package address

import "github.com/kolide/localipc/ee/ipc/identity"

// DefaultStrategy returns the abstract namespace strategy for the current user.
func DefaultStrategy() Strategy {
	return NewAbstractSocketStrategy(identity.Current)
}
