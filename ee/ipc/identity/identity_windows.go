//go:build windows

package identity

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Current returns the account name of the calling thread's user, without the
// domain qualifier.
func Current() (string, error) {
	n := uint32(128)
	for {
		buf := make([]uint16, n)
		err := windows.GetUserNameEx(windows.NameSamCompatible, &buf[0], &n)
		if err == nil {
			return stripDomain(windows.UTF16ToString(buf[:n])), nil
		}
		if err != windows.ERROR_MORE_DATA || n <= uint32(len(buf)) {
			return "", fmt.Errorf("getting user name: %w", err)
		}
	}
}
