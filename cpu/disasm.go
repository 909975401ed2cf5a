package cpu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIllegalOpcode is returned by DecodeOne for byte values with no
// 8085 encoding. A listing is truncated at the first occurrence.
var ErrIllegalOpcode = errors.New("illegal opcode")

// ErrShortRead is returned when an instruction's operand bytes extend
// past the end of the buffer.
var ErrShortRead = errors.New("instruction extends past end of memory")

// Instruction is one decoded instruction record.
type Instruction struct {
	Addr     uint16
	Bytes    []uint8 // 1 to 3 bytes
	Mnemonic string
}

// IsHalt reports whether the record is the single-byte halt
// instruction, used to bound listings over halt-padded memory.
func (i Instruction) IsHalt() bool {
	return len(i.Bytes) == 1 && i.Bytes[0] == HaltOpcode
}

// String formats the record as one listing line: address, raw bytes
// and mnemonic in fixed-width hexadecimal.
func (i Instruction) String() string {
	var raw strings.Builder
	for n, b := range i.Bytes {
		if n > 0 {
			raw.WriteByte(' ')
		}
		fmt.Fprintf(&raw, "%02X", b)
	}
	return fmt.Sprintf("%04X: %-8s  %s", i.Addr, raw.String(), i.Mnemonic)
}

// DecodeOne decodes the single instruction at offset addr of buf.
func DecodeOne(buf []uint8, addr uint16) (Instruction, error) {
	if int(addr) >= len(buf) {
		return Instruction{}, ErrShortRead
	}
	opcode := buf[addr]
	info := opcodes[opcode]
	if info.size == 0 {
		return Instruction{}, fmt.Errorf("%w 0x%02X at 0x%04X", ErrIllegalOpcode, opcode, addr)
	}
	if int(addr)+info.size > len(buf) {
		return Instruction{}, ErrShortRead
	}

	ins := Instruction{
		Addr:  addr,
		Bytes: buf[addr : int(addr)+info.size],
	}
	switch info.size {
	case 1:
		ins.Mnemonic = info.format
	case 2:
		ins.Mnemonic = fmt.Sprintf(info.format, ins.Bytes[1])
	case 3:
		ins.Mnemonic = fmt.Sprintf(info.format, uint16(ins.Bytes[2])<<8|uint16(ins.Bytes[1]))
	}
	return ins, nil
}

// opcodeInfo describes one first-byte encoding: a mnemonic format
// (with a %02X or %04X verb for the immediate operand) and the total
// instruction size. Size zero marks an unused encoding.
type opcodeInfo struct {
	format string
	size   int
}

var opcodes = [256]opcodeInfo{
	0x00: {"NOP", 1},
	0x01: {"LXI B, $%04X", 3},
	0x02: {"STAX B", 1},
	0x03: {"INX B", 1},
	0x04: {"INR B", 1},
	0x05: {"DCR B", 1},
	0x06: {"MVI B, $%02X", 2},
	0x07: {"RLC", 1},
	0x09: {"DAD B", 1},
	0x0A: {"LDAX B", 1},
	0x0B: {"DCX B", 1},
	0x0C: {"INR C", 1},
	0x0D: {"DCR C", 1},
	0x0E: {"MVI C, $%02X", 2},
	0x0F: {"RRC", 1},
	0x11: {"LXI D, $%04X", 3},
	0x12: {"STAX D", 1},
	0x13: {"INX D", 1},
	0x14: {"INR D", 1},
	0x15: {"DCR D", 1},
	0x16: {"MVI D, $%02X", 2},
	0x17: {"RAL", 1},
	0x19: {"DAD D", 1},
	0x1A: {"LDAX D", 1},
	0x1B: {"DCX D", 1},
	0x1C: {"INR E", 1},
	0x1D: {"DCR E", 1},
	0x1E: {"MVI E, $%02X", 2},
	0x1F: {"RAR", 1},
	0x20: {"RIM", 1},
	0x21: {"LXI H, $%04X", 3},
	0x22: {"SHLD $%04X", 3},
	0x23: {"INX H", 1},
	0x24: {"INR H", 1},
	0x25: {"DCR H", 1},
	0x26: {"MVI H, $%02X", 2},
	0x27: {"DAA", 1},
	0x29: {"DAD H", 1},
	0x2A: {"LHLD $%04X", 3},
	0x2B: {"DCX H", 1},
	0x2C: {"INR L", 1},
	0x2D: {"DCR L", 1},
	0x2E: {"MVI L, $%02X", 2},
	0x2F: {"CMA", 1},
	0x30: {"SIM", 1},
	0x31: {"LXI SP, $%04X", 3},
	0x32: {"STA $%04X", 3},
	0x33: {"INX SP", 1},
	0x34: {"INR M", 1},
	0x35: {"DCR M", 1},
	0x36: {"MVI M, $%02X", 2},
	0x37: {"STC", 1},
	0x39: {"DAD SP", 1},
	0x3A: {"LDA $%04X", 3},
	0x3B: {"DCX SP", 1},
	0x3C: {"INR A", 1},
	0x3D: {"DCR A", 1},
	0x3E: {"MVI A, $%02X", 2},
	0x3F: {"CMC", 1},
	// 0x40-0xBF filled in by init below, except HLT.
	0x76: {"HLT", 1},
	0xC0: {"RNZ", 1},
	0xC1: {"POP B", 1},
	0xC2: {"JNZ $%04X", 3},
	0xC3: {"JMP $%04X", 3},
	0xC4: {"CNZ $%04X", 3},
	0xC5: {"PUSH B", 1},
	0xC6: {"ADI $%02X", 2},
	0xC7: {"RST 0", 1},
	0xC8: {"RZ", 1},
	0xC9: {"RET", 1},
	0xCA: {"JZ $%04X", 3},
	0xCC: {"CZ $%04X", 3},
	0xCD: {"CALL $%04X", 3},
	0xCE: {"ACI $%02X", 2},
	0xCF: {"RST 1", 1},
	0xD0: {"RNC", 1},
	0xD1: {"POP D", 1},
	0xD2: {"JNC $%04X", 3},
	0xD3: {"OUT $%02X", 2},
	0xD4: {"CNC $%04X", 3},
	0xD5: {"PUSH D", 1},
	0xD6: {"SUI $%02X", 2},
	0xD7: {"RST 2", 1},
	0xD8: {"RC", 1},
	0xDA: {"JC $%04X", 3},
	0xDB: {"IN $%02X", 2},
	0xDC: {"CC $%04X", 3},
	0xDE: {"SBI $%02X", 2},
	0xDF: {"RST 3", 1},
	0xE0: {"RPO", 1},
	0xE1: {"POP H", 1},
	0xE2: {"JPO $%04X", 3},
	0xE3: {"XTHL", 1},
	0xE4: {"CPO $%04X", 3},
	0xE5: {"PUSH H", 1},
	0xE6: {"ANI $%02X", 2},
	0xE7: {"RST 4", 1},
	0xE8: {"RPE", 1},
	0xE9: {"PCHL", 1},
	0xEA: {"JPE $%04X", 3},
	0xEB: {"XCHG", 1},
	0xEC: {"CPE $%04X", 3},
	0xEE: {"XRI $%02X", 2},
	0xEF: {"RST 5", 1},
	0xF0: {"RP", 1},
	0xF1: {"POP PSW", 1},
	0xF2: {"JP $%04X", 3},
	0xF3: {"DI", 1},
	0xF4: {"CP $%04X", 3},
	0xF5: {"PUSH PSW", 1},
	0xF6: {"ORI $%02X", 2},
	0xF7: {"RST 6", 1},
	0xF8: {"RM", 1},
	0xF9: {"SPHL", 1},
	0xFA: {"JM $%04X", 3},
	0xFB: {"EI", 1},
	0xFC: {"CM $%04X", 3},
	0xFE: {"CPI $%02X", 2},
	0xFF: {"RST 7", 1},
}

// The MOV and accumulator arithmetic blocks are regular in the
// register field bits, so they are generated instead of spelled out.
func init() {
	regs := [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}
	for op := 0x40; op <= 0x7F; op++ {
		if op == HaltOpcode {
			continue
		}
		dst := regs[(op>>3)&0x07]
		src := regs[op&0x07]
		opcodes[op] = opcodeInfo{"MOV " + dst + ", " + src, 1}
	}

	alu := [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
	for op := 0x80; op <= 0xBF; op++ {
		opcodes[op] = opcodeInfo{alu[(op>>3)&0x07] + " " + regs[op&0x07], 1}
	}
}
