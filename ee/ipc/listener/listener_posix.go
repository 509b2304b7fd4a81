//go:build !windows

package listener

import (
	"fmt"
	"os"

	"github.com/kolide/localipc/ee/ipc/address"
)

func isSocketFile(addr address.Address) bool {
	return len(addr) > 0 && !addr.IsAbstract()
}

func setSocketPermissions(socketPath string) error {
	if err := os.Chmod(socketPath, 0600); err != nil {
		return fmt.Errorf("chmodding %s: %w", socketPath, err)
	}
	return nil
}
