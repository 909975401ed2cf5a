package emu

import (
	"errors"
	"fmt"
	"iter"

	"github.com/ry755/rybot2/cpu"
	"github.com/ry755/rybot2/vdp"
)

// State tracks an invocation through its lifecycle. Halted and
// Faulted are terminal; running again requires a fresh Load.
type State int

const (
	StateLoaded State = iota
	StateRunning
	StateHalted
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// ErrAlreadyExecuted is returned when Execute is called on a driver
// that has already run.
var ErrAlreadyExecuted = errors.New("driver already executed; load a fresh program")

// Driver owns one invocation's address space, CPU and VDP instances
// and runs the loaded program to completion. Nothing is shared across
// invocations, so concurrent drivers need no locking.
type Driver struct {
	mem   *AddressSpace
	io    *IOPortRouter
	cpu   *cpu.CPU
	vdp   *vdp.VDP
	clock uint64
	state State
}

// Load builds a driver around a fresh address space of the given
// capacity with the program loaded and halt-padded.
func Load(program []uint8, capacity int) (*Driver, error) {
	mem, err := NewAddressSpace(capacity)
	if err != nil {
		return nil, err
	}
	if err := mem.LoadProgram(program); err != nil {
		return nil, err
	}

	v := vdp.New()
	io := NewIOPortRouter(v)
	return &Driver{
		mem:   mem,
		io:    io,
		cpu:   cpu.New(mem, io),
		vdp:   v,
		state: StateLoaded,
	}, nil
}

// Disassemble returns a lazy, finite sequence of decoded instruction
// records starting at address zero. The sequence ends after two
// consecutive single-byte halt records, which bounds the listing to
// roughly the real program plus one halt marker instead of the whole
// padded tail, or at the first malformed opcode, keeping the partial
// listing produced so far.
func (d *Driver) Disassemble() iter.Seq[cpu.Instruction] {
	return func(yield func(cpu.Instruction) bool) {
		buf := d.mem.Bytes()
		haltStreak := 0
		for addr := 0; addr < len(buf); {
			ins, err := cpu.DecodeOne(buf, uint16(addr))
			if err != nil {
				return
			}
			if !yield(ins) {
				return
			}
			if ins.IsHalt() {
				haltStreak++
				if haltStreak == 2 {
					return
				}
			} else {
				haltStreak = 0
			}
			addr += len(ins.Bytes)
		}
	}
}

// Execute resets the CPU and steps it until it halts. On halt the VDP
// is updated once to flush buffered video state. Any break cause
// other than halt is a fault: terminal, with no meaningful register
// state to report.
func (d *Driver) Execute() error {
	if d.state != StateLoaded {
		return fmt.Errorf("%w (state %s)", ErrAlreadyExecuted, d.state)
	}
	d.state = StateRunning
	d.cpu.Reset()

	for {
		switch cause := d.cpu.ExecuteNext(&d.clock); cause {
		case cpu.BreakNone:
			// Keep stepping.
		case cpu.BreakHalt:
			d.state = StateHalted
			d.vdp.Update()
			return nil
		default:
			d.state = StateFaulted
			return fmt.Errorf("execution stopped with break cause %q", cause)
		}
	}
}

// State returns the driver's lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// Clock returns the monotonic timestamp counter in CPU cycles.
func (d *Driver) Clock() uint64 {
	return d.clock
}

// Registers returns the CPU register snapshot.
func (d *Driver) Registers() cpu.Registers {
	return d.cpu.Registers()
}

// VDP returns the invocation's VDP instance.
func (d *Driver) VDP() *vdp.VDP {
	return d.vdp
}

// VDPUsed reports whether the program touched a VDP port.
func (d *Driver) VDPUsed() bool {
	return d.io.VDPUsed()
}
