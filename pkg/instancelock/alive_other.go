//go:build !linux && !aix && !solaris && !illumos && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package instancelock

// isProcessAlive cannot inspect processes here; every lock is treated as stale.
func isProcessAlive(pid int) bool {
	return false
}
