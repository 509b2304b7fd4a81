// Package identity resolves the name of the user running the current process,
// as used to namespace per-user IPC addresses.
package identity

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrNoIdentity is returned when no username could be determined.
var ErrNoIdentity = errors.New("no username available for current process")

// FromFilesystemEncoding decodes raw bytes taken from the environment or the
// filesystem. Valid UTF-8 is returned unchanged; anything else is decoded as
// ISO-8859-1, which maps every byte to a rune and so never fails.
func FromFilesystemEncoding(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// stripDomain turns DOMAIN\user into user.
func stripDomain(samName string) string {
	if i := strings.LastIndex(samName, `\`); i >= 0 {
		return samName[i+1:]
	}
	return samName
}
