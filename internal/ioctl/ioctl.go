//go:build linux

// Package ioctl issues ioctl requests on device handles.
package ioctl

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mode is the IOCTL direction.
type Mode uint8

// Modes
const (
	None Mode = iota
	Write
	Read
)

// Command to be sent over ioctl.
type Command uintptr

func (c Command) String() string {
	var (
		mode = Mode(c >> 30 & 0x03)
		size = c >> 16 & 0x3fff
		cmd  = c & 0xffff
		str  string
	)
	if mode&Write > 0 {
		str += " write"
	}
	if mode&Read > 0 {
		str += " read"
	}
	return fmt.Sprintf("ioctl%s (%d bytes) 0x%04x", str, size, uintptr(cmd))
}

// Encode an ioctl command from its direction, argument size, type and number.
func Encode(mode Mode, size uint16, typ, nr uint8) Command {
	return Command(mode)<<30 | Command(size&0x3fff)<<16 | Command(typ)<<8 | Command(nr)
}

// Do executes the ioctl call with arg pointing at the argument.
func Do(fd uintptr, command Command, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(command), uintptr(arg)); errno != 0 {
		return fmt.Errorf("%s failed: %w", command, errno)
	}
	return nil
}

// Read8 reads a byte sized value.
func Read8(fd uintptr, typ, nr uint8) (v uint8, err error) {
	err = Do(fd, Encode(Read, 1, typ, nr), unsafe.Pointer(&v))
	return
}

// Write8 writes a byte sized value.
func Write8(fd uintptr, typ, nr uint8, v uint8) error {
	return Do(fd, Encode(Write, 1, typ, nr), unsafe.Pointer(&v))
}

// Read32 reads a 32-bit value.
func Read32(fd uintptr, typ, nr uint8) (v uint32, err error) {
	err = Do(fd, Encode(Read, 4, typ, nr), unsafe.Pointer(&v))
	return
}

// Write32 writes a 32-bit value.
func Write32(fd uintptr, typ, nr uint8, v uint32) error {
	return Do(fd, Encode(Write, 4, typ, nr), unsafe.Pointer(&v))
}
