//go:build linux || aix || solaris || illumos || darwin || freebsd || netbsd || openbsd || dragonfly

package logger

import "golang.org/x/sys/unix"

// IsTerminal reports whether fd refers to an interactive terminal.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), ioctlReadTermios)
	return err == nil
}
