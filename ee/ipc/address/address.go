// Package address derives the per-user local IPC address that instances of
// the desktop application use to find each other. The address is a pure
// function of the channel name, the platform and the current user, so every
// process belonging to the same user computes the same value without any
// shared registry.
package address

import (
	"path/filepath"
	"strings"

	"github.com/kolide/localipc/ee/ipc/safename"
)

const (
	pipePrefix    = `\\.\pipe\Calibre`
	socketInfix   = "-calibre-"
	socketSuffix  = ".socket"
	pipeUserLimit = 100
	pipeMarker    = "x"
)

// Address is a resolved endpoint: a named pipe path, an abstract unix socket
// name (leading NUL), or a unix socket path. Values handed out by a Resolver
// are shared and must not be modified.
type Address []byte

// String is the display form. The leading NUL of an abstract socket name is
// shown as @, the way ss(8) and /proc/net/unix print them.
func (a Address) String() string {
	if a.IsAbstract() {
		return "@" + string(a[1:])
	}
	return string(a)
}

// IsAbstract reports whether a names a socket in the linux abstract namespace.
func (a Address) IsAbstract() bool {
	return len(a) > 0 && a[0] == 0
}

// IdentityFunc looks up the current user. Errors are never surfaced: the
// address falls back to its anonymous form instead.
type IdentityFunc func() (string, error)

// Channels are the platform-specific spellings of the well-known channels.
type Channels struct {
	GUI    string
	Viewer string
}

// Strategy builds addresses for one platform class. One strategy is chosen at
// startup and used for the life of the process.
type Strategy interface {
	Name() string
	Address(channel string) Address
	Channels() Channels
}

func identityToken(identity IdentityFunc) string {
	if identity == nil {
		return ""
	}
	user, err := identity()
	if err != nil {
		return ""
	}
	return safename.Token(user)
}

func socketName(identity IdentityFunc, channel string) string {
	return identityToken(identity) + socketInfix + channel + socketSuffix
}

type namedPipeStrategy struct {
	identity IdentityFunc
}

// NewNamedPipeStrategy builds windows named pipe addresses of the form
// \\.\pipe\Calibre<channel>-<user>x. The user part is capped at 100
// characters and omitted entirely when no user is known.
func NewNamedPipeStrategy(identity IdentityFunc) Strategy {
	return &namedPipeStrategy{identity: identity}
}

func (s *namedPipeStrategy) Name() string {
	return "named_pipe"
}

func (s *namedPipeStrategy) Channels() Channels {
	return Channels{GUI: "GUI", Viewer: "Viewer"}
}

func (s *namedPipeStrategy) Address(channel string) Address {
	var b strings.Builder
	b.WriteString(pipePrefix)
	b.WriteString(channel)

	if user := identityToken(s.identity); user != "" {
		b.WriteString("-")
		b.WriteString(truncate(user, pipeUserLimit))
		b.WriteString(pipeMarker)
	}

	return Address(b.String())
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

type abstractSocketStrategy struct {
	identity IdentityFunc
}

// NewAbstractSocketStrategy builds linux abstract namespace socket names,
// which have no filesystem entry and vanish with the listening process.
func NewAbstractSocketStrategy(identity IdentityFunc) Strategy {
	return &abstractSocketStrategy{identity: identity}
}

func (s *abstractSocketStrategy) Name() string {
	return "abstract_socket"
}

func (s *abstractSocketStrategy) Channels() Channels {
	return Channels{GUI: "gui", Viewer: "viewer"}
}

func (s *abstractSocketStrategy) Address(channel string) Address {
	return Address("\x00" + socketName(s.identity, channel))
}

type tempDirSocketStrategy struct {
	identity IdentityFunc
	tempDir  func() string
}

// NewTempDirSocketStrategy builds unix socket paths inside the system
// temporary directory, for platforms without an abstract namespace.
func NewTempDirSocketStrategy(identity IdentityFunc, tempDir func() string) Strategy {
	return &tempDirSocketStrategy{identity: identity, tempDir: tempDir}
}

func (s *tempDirSocketStrategy) Name() string {
	return "temp_dir_socket"
}

func (s *tempDirSocketStrategy) Channels() Channels {
	return Channels{GUI: "gui", Viewer: "viewer"}
}

func (s *tempDirSocketStrategy) Address(channel string) Address {
	return Address(joinUncleaned(s.tempDir(), socketName(s.identity, channel)))
}

// joinUncleaned appends name to dir without cleaning the result, so the
// channel bytes end up in the address exactly as given.
func joinUncleaned(dir, name string) string {
	if dir == "" || strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
