//go:build !windows && !linux

package address

import (
	"os"

	"github.com/kolide/localipc/ee/ipc/identity"
)

// DefaultStrategy returns the temp directory socket strategy for the current user.
func DefaultStrategy() Strategy {
	return NewTempDirSocketStrategy(identity.Current, os.TempDir)
}
