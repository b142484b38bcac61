//go:build linux
// +build linux

// File: privmode/privmode_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux entry mechanism backed by the restricted-mode control device.
// The device takes ownership of the region's reserved header on entry.

package privmode

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/corebind/api"
)

// DevicePath is the restricted-mode control device.
const DevicePath = "/dev/dune"

// ioctlEnter encodes _IOW('d', 1, uintptr): write an 8-byte region base.
const ioctlEnter = (1 << 30) | ('d' << 8) | 1 | (8 << 16)

type devMechanism struct{}

func newMechanismPlatform() api.EntryMechanism {
	return &devMechanism{}
}

func (d *devMechanism) Enter(region []byte) error {
	fd, err := unix.Open(DevicePath, unix.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("privmode: open %s: %w", DevicePath, err)
	}
	// The device pins the region for the thread's lifetime; the fd itself
	// is not needed after a successful ioctl.
	defer unix.Close(fd)

	base := uintptr(unsafe.Pointer(&region[0]))
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), ioctlEnter,
		uintptr(unsafe.Pointer(&base))); errno != 0 {
		return fmt.Errorf("privmode: enter ioctl: %w", errno)
	}
	return nil
}
