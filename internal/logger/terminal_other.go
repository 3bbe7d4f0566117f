//go:build !linux && !aix && !solaris && !illumos && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package logger

// IsTerminal always reports false on platforms without a terminal API.
func IsTerminal(fd uintptr) bool {
	return false
}
