// Completion: 100% - Platform-specific module complete
//go:build linux || darwin || freebsd
// +build linux darwin freebsd

package engine

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// HostOS asks the kernel which operating system is running
func HostOS() OS {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		if os, err := ParseOS(unix.ByteSliceToString(uts.Sysname[:])); err == nil {
			return os
		}
	}
	os, err := ParseOS(runtime.GOOS)
	if err != nil {
		return OSLinux
	}
	return os
}
