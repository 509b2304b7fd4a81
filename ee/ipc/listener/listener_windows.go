//go:build windows

package listener

import "github.com/kolide/localipc/ee/ipc/address"

// Named pipes live in their own namespace and are removed by the system when
// the last handle closes.
func isSocketFile(_ address.Address) bool {
	return false
}

func setSocketPermissions(_ string) error {
	return nil
}
