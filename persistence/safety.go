package persistence

import (
	"fmt"
	"runtime"
	"unsafe"
)

var littleEndian = detectLittleEndian()

// detectLittleEndian checks the byte order of the running host.
func detectLittleEndian() bool {
	var probe uint16 = 0x0001
	return *(*byte)(unsafe.Pointer(&probe)) == 1
}

// IsLittleEndian reports whether the host stores integers little-endian.
func IsLittleEndian() bool {
	return littleEndian
}

// PlatformInfo returns information about the current platform.
func PlatformInfo() string {
	endian := "little-endian"
	if !littleEndian {
		endian = "big-endian"
	}
	return fmt.Sprintf("GOOS=%s GOARCH=%s endianness=%s", runtime.GOOS, runtime.GOARCH, endian)
}
