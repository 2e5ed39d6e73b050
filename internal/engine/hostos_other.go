// Completion: 100% - Platform-specific module complete
//go:build !linux && !darwin && !freebsd
// +build !linux,!darwin,!freebsd

package engine

import "runtime"

// HostOS returns the operating system the compiler was built for
func HostOS() OS {
	os, err := ParseOS(runtime.GOOS)
	if err != nil {
		return OSLinux
	}
	return os
}
