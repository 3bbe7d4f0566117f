//go:build linux || aix || solaris || illumos

package logger

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TCGETS
