// Package emu is the emulated-computer harness: a fixed-size address
// space, a port router wiring the CPU's I/O instructions to the video
// display processor, an execution driver that runs a loaded program to
// completion, and a result exporter turning final register and frame
// state into text and image output.
package emu

import (
	"errors"
	"fmt"

	"github.com/ry755/rybot2/cpu"
)

// Historically used address space capacities.
const (
	CapacitySmall = 512
	CapacityFull  = 0x10000
)

// ErrBadCapacity is returned for capacities outside (0, 65536].
var ErrBadCapacity = errors.New("capacity must be between 1 and 65536 bytes")

// ErrProgramTooLarge is returned when a program exceeds the capacity.
var ErrProgramTooLarge = errors.New("program larger than address space")

// AddressSpace owns a fixed-capacity byte buffer. Addresses are taken
// modulo the capacity, so a CPU with a wider native address width can
// run against a smaller buffer.
type AddressSpace struct {
	buf []uint8
}

// NewAddressSpace allocates a zeroed buffer of the given capacity.
func NewAddressSpace(capacity int) (*AddressSpace, error) {
	if capacity <= 0 || capacity > CapacityFull {
		return nil, fmt.Errorf("%w: %d", ErrBadCapacity, capacity)
	}
	return &AddressSpace{buf: make([]uint8, capacity)}, nil
}

// LoadProgram copies the program left-aligned at address zero and
// pads every remaining byte with the halt opcode, so any program
// terminates even if it never halts explicitly.
func (a *AddressSpace) LoadProgram(program []uint8) error {
	if len(program) > len(a.buf) {
		return fmt.Errorf("%w: %d > %d", ErrProgramTooLarge, len(program), len(a.buf))
	}
	copy(a.buf, program)
	for i := len(program); i < len(a.buf); i++ {
		a.buf[i] = cpu.HaltOpcode
	}
	return nil
}

// Get reads the byte at addr, wrapped to the capacity.
func (a *AddressSpace) Get(addr uint16) uint8 {
	return a.buf[int(addr)%len(a.buf)]
}

// Set writes the byte at addr, wrapped to the capacity.
func (a *AddressSpace) Set(addr uint16, val uint8) {
	a.buf[int(addr)%len(a.buf)] = val
}

// Bytes returns the underlying buffer for debug traversals such as
// disassembly. Callers must not resize it.
func (a *AddressSpace) Bytes() []uint8 {
	return a.buf
}

// Len returns the configured capacity.
func (a *AddressSpace) Len() int {
	return len(a.buf)
}
