// Package cpu drives the external Z80 chip engine with an
// 8085-flavored view: a reset to documented initial state, single
// instruction stepping with break causes, a register snapshot of the
// accumulator and the three 16-bit pairs, and a table-driven single
// instruction decoder for disassembly.
package cpu

import (
	"github.com/koron-go/z80"
)

// HaltOpcode is the single byte that stops fetch-execute progress.
const HaltOpcode = 0x76

// BreakCause is the reason an execution step returned control.
type BreakCause int

const (
	// BreakNone means the instruction completed and execution can
	// continue with the next one.
	BreakNone BreakCause = iota
	// BreakHalt means the halt opcode latched the CPU's halt line.
	BreakHalt
	// BreakFault covers any abnormal condition reported by the chip
	// engine. Not expected for supported programs.
	BreakFault
)

func (b BreakCause) String() string {
	switch b {
	case BreakNone:
		return "none"
	case BreakHalt:
		return "halt"
	default:
		return "fault"
	}
}

// Registers is a snapshot of the externally visible register file.
type Registers struct {
	A  uint8
	BC uint16
	DE uint16
	HL uint16
	PC uint16
	SP uint16
}

// CPU wraps the chip engine together with its memory and I/O backends.
type CPU struct {
	core *z80.CPU
	mem  z80.Memory
}

// New creates a CPU executing against the given memory and I/O ports.
func New(mem z80.Memory, io z80.IO) *CPU {
	return &CPU{
		core: &z80.CPU{
			Memory: mem,
			IO:     io,
		},
		mem: mem,
	}
}

// Reset returns the CPU to its documented initial state: program
// counter zero, all register pairs and flags cleared, halt line
// released.
func (c *CPU) Reset() {
	c.core.States = z80.States{}
	c.core.HALT = false
}

// ExecuteNext runs a single instruction, advances the clock by the
// instruction's cycle cost and reports why control returned.
func (c *CPU) ExecuteNext(clock *uint64) BreakCause {
	opcode := c.mem.Get(c.core.PC)
	c.core.Step()
	*clock += uint64(cycleCost(opcode))

	if c.core.HALT {
		return BreakHalt
	}
	return BreakNone
}

// Registers returns a snapshot of the register file.
func (c *CPU) Registers() Registers {
	return Registers{
		A:  c.core.AF.Hi,
		BC: pair(c.core.BC),
		DE: pair(c.core.DE),
		HL: pair(c.core.HL),
		PC: c.core.PC,
		SP: c.core.SP,
	}
}

func pair(r z80.Register) uint16 {
	return uint16(r.Hi)<<8 | uint16(r.Lo)
}

// cycleCost returns the clock cost of an instruction by its first
// opcode byte. Prefixed opcodes fall outside the supported 8085-style
// instruction set and are charged a flat two-fetch cost.
func cycleCost(opcode uint8) int {
	switch opcode {
	case 0xCB, 0xDD, 0xED, 0xFD:
		return 8
	default:
		return baseCycles[opcode]
	}
}

// baseCycles holds per-opcode clock costs for unprefixed instructions.
// Conditional instructions are charged their taken cost.
var baseCycles = [256]int{
	//  0   1   2   3   4   5   6   7   8   9   A   B   C   D   E   F
	4, 10, 7, 6, 4, 4, 7, 4, 4, 11, 7, 6, 4, 4, 7, 4, // 0x
	8, 10, 7, 6, 4, 4, 7, 4, 12, 11, 7, 6, 4, 4, 7, 4, // 1x
	12, 10, 16, 6, 4, 4, 7, 4, 12, 11, 16, 6, 4, 4, 7, 4, // 2x
	12, 10, 13, 6, 11, 11, 10, 4, 12, 11, 13, 6, 4, 4, 7, 4, // 3x
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 4x
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 5x
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 6x
	7, 7, 7, 7, 7, 7, 4, 7, 4, 4, 4, 4, 4, 4, 7, 4, // 7x
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 8x
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 9x
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // Ax
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // Bx
	11, 10, 10, 10, 17, 11, 7, 11, 11, 10, 10, 8, 17, 17, 7, 11, // Cx
	11, 10, 10, 11, 17, 11, 7, 11, 11, 4, 10, 11, 17, 8, 7, 11, // Dx
	11, 10, 10, 19, 17, 11, 7, 11, 11, 4, 10, 4, 17, 8, 7, 11, // Ex
	11, 10, 10, 4, 17, 11, 7, 11, 11, 6, 10, 4, 17, 8, 7, 11, // Fx
}
