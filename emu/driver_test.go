package emu

import (
	"errors"
	"testing"

	"github.com/ry755/rybot2/cpu"
)

// TestDriver_EmptyProgramHalts tests that an all-halt buffer finishes
// immediately with zeroed registers.
func TestDriver_EmptyProgramHalts(t *testing.T) {
	d, err := Load(nil, CapacitySmall)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.State() != StateLoaded {
		t.Fatalf("initial state: expected %s, got %s", StateLoaded, d.State())
	}

	if err := d.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if d.State() != StateHalted {
		t.Errorf("state: expected %s, got %s", StateHalted, d.State())
	}

	regs := d.Registers()
	if regs.A != 0 || regs.BC != 0 || regs.DE != 0 || regs.HL != 0 {
		t.Errorf("expected zero registers, got A=0x%02X BC=0x%04X DE=0x%04X HL=0x%04X",
			regs.A, regs.BC, regs.DE, regs.HL)
	}
	if d.VDPUsed() {
		t.Error("empty program must not touch the display chip")
	}
}

// TestDriver_LoadImmediate tests the canonical two-instruction
// program: load A with 5, then halt.
func TestDriver_LoadImmediate(t *testing.T) {
	d, err := Load([]uint8{0x3E, 0x05, 0x76}, CapacitySmall)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := d.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	regs := d.Registers()
	if regs.A != 0x05 {
		t.Errorf("A: expected 0x05, got 0x%02X", regs.A)
	}
	if regs.BC != 0 || regs.DE != 0 || regs.HL != 0 {
		t.Errorf("expected zero register pairs, got BC=0x%04X DE=0x%04X HL=0x%04X",
			regs.BC, regs.DE, regs.HL)
	}
	if d.Clock() == 0 {
		t.Error("clock must advance during execution")
	}
}

// TestDriver_ExecuteOnce tests that a driver cannot be run twice.
func TestDriver_ExecuteOnce(t *testing.T) {
	d, err := Load([]uint8{0x76}, CapacitySmall)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := d.Execute(); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if err := d.Execute(); !errors.Is(err, ErrAlreadyExecuted) {
		t.Errorf("second Execute: expected ErrAlreadyExecuted, got %v", err)
	}
}

// TestDriver_DisassembleStopsAtDoubleHalt tests that the listing ends
// after two consecutive halt records.
func TestDriver_DisassembleStopsAtDoubleHalt(t *testing.T) {
	d, err := Load([]uint8{0x3E, 0x05, 0x76}, CapacitySmall)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var records []cpu.Instruction
	for ins := range d.Disassemble() {
		records = append(records, ins)
	}

	// MVI A, halt, then the first padding halt.
	if len(records) != 3 {
		t.Fatalf("record count: expected 3, got %d", len(records))
	}
	if records[0].Mnemonic != "MVI A, $05" {
		t.Errorf("record 0: expected %q, got %q", "MVI A, $05", records[0].Mnemonic)
	}
	if !records[1].IsHalt() || !records[2].IsHalt() {
		t.Error("records 1 and 2 must both be halts")
	}
}

// TestDriver_DisassembleAllHalt tests that a fully padded buffer
// produces exactly two records.
func TestDriver_DisassembleAllHalt(t *testing.T) {
	d, err := Load(nil, CapacitySmall)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	count := 0
	for range d.Disassemble() {
		count++
	}
	if count != 2 {
		t.Errorf("record count: expected 2, got %d", count)
	}
}

// TestDriver_DisassembleBounded tests that the listing never exceeds
// one record per byte of capacity.
func TestDriver_DisassembleBounded(t *testing.T) {
	program := make([]uint8, 64)
	for i := range program {
		program[i] = 0x00 // NOP
	}
	d, err := Load(program, 128)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	count := 0
	for range d.Disassemble() {
		count++
	}
	if count > 128 {
		t.Errorf("record count %d exceeds capacity bound", count)
	}
}

// TestDriver_DisassembleTruncatesOnBadOpcode tests that an
// undecodable byte ends the listing while keeping earlier records.
func TestDriver_DisassembleTruncatesOnBadOpcode(t *testing.T) {
	// 0x08 has no encoding in the decoder's instruction set.
	d, err := Load([]uint8{0x3E, 0x05, 0x08}, CapacitySmall)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var records []cpu.Instruction
	for ins := range d.Disassemble() {
		records = append(records, ins)
	}
	if len(records) != 1 {
		t.Fatalf("record count: expected 1, got %d", len(records))
	}
	if records[0].Mnemonic != "MVI A, $05" {
		t.Errorf("record 0: expected %q, got %q", "MVI A, $05", records[0].Mnemonic)
	}
}

// TestDriver_StateString tests the lifecycle state labels.
func TestDriver_StateString(t *testing.T) {
	testCases := []struct {
		state State
		want  string
	}{
		{StateLoaded, "loaded"},
		{StateRunning, "running"},
		{StateHalted, "halted"},
		{StateFaulted, "faulted"},
		{State(99), "unknown"},
	}

	for _, tc := range testCases {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("State(%d).String(): expected %q, got %q", tc.state, tc.want, got)
		}
	}
}
