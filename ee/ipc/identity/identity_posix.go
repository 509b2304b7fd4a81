//go:build !windows

package identity

import (
	"fmt"
	"os"
	"path/filepath"
)

// Current returns $USER, falling back to the last element of the home
// directory.
func Current() (string, error) {
	return current(os.Getenv, os.UserHomeDir)
}

func current(getenv func(string) string, homeDir func() (string, error)) (string, error) {
	if user := getenv("USER"); user != "" {
		return FromFilesystemEncoding([]byte(user)), nil
	}

	home, err := homeDir()
	if err != nil {
		return "", fmt.Errorf("looking up home directory: %w", err)
	}

	base := filepath.Base(home)
	if base == "." || base == string(filepath.Separator) {
		return "", ErrNoIdentity
	}

	return FromFilesystemEncoding([]byte(base)), nil
}
