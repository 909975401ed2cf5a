// Package vdp models a TMS9918A-class video display processor: eight
// write-indexed registers, 16KB of VRAM, the two-write control port
// sequence, a read-buffered data port and a frame buffer of packed
// 24-bit RGB samples. Update renders the current VRAM and register
// state into the frame buffer.
package vdp

const (
	// FrameWidth and FrameHeight are the active display dimensions.
	// All supported display modes produce a 256x192 frame; text mode
	// renders its 240 active pixels with backdrop-colored side borders.
	FrameWidth  = 256
	FrameHeight = 192

	vramSize     = 0x4000
	numRegisters = 8
)

// Status register bits.
const (
	StatusFrame         = 0x80 // set by Update when a frame is complete
	StatusFifthSprite   = 0x40 // more than four sprites on a scanline
	StatusCoincidence   = 0x20 // two visible sprite pixels overlapped
	fifthSpriteNumMask  = 0x1F
	spriteTerminatorY   = 0xD0
	spritesPerLineLimit = 4
)

// VDP holds the register file, VRAM and frame buffer state.
type VDP struct {
	vram [vramSize]uint8
	regs [numRegisters]uint8

	addr       uint16 // current VRAM address (14 bits)
	addrLatch  uint8  // first byte of a control write
	writeLatch bool   // true after the first control byte
	readBuffer uint8  // prefetched byte for data port reads
	status     uint8

	// Frame is the rendered output: packed 0xRRGGBB samples,
	// row-major, FrameWidth*FrameHeight entries.
	Frame []uint32
}

// New creates a VDP in its power-on state.
func New() *VDP {
	return &VDP{
		Frame: make([]uint32, FrameWidth*FrameHeight),
	}
}

// WriteControlPort handles the two-write control sequence. The first
// byte is latched; the second byte selects the operation:
// bit 7 set writes the latched byte into register (byte & 0x07),
// bit 6 set sets up a VRAM write address, otherwise a VRAM read
// address is set up and the read buffer is prefetched.
func (v *VDP) WriteControlPort(value uint8) {
	if !v.writeLatch {
		v.addrLatch = value
		v.writeLatch = true
		return
	}
	v.writeLatch = false

	if value&0x80 != 0 {
		v.regs[value&0x07] = v.addrLatch
		return
	}

	v.addr = (uint16(value&0x3F) << 8) | uint16(v.addrLatch)
	if value&0x40 == 0 {
		// Read setup: prefetch and advance, matching hardware.
		v.readBuffer = v.vram[v.addr]
		v.addr = (v.addr + 1) & 0x3FFF
	}
}

// WriteDataPort writes a byte to VRAM at the current address and
// advances it. A data access cancels a half-finished control write.
func (v *VDP) WriteDataPort(value uint8) {
	v.writeLatch = false
	v.vram[v.addr] = value
	v.readBuffer = value
	v.addr = (v.addr + 1) & 0x3FFF
}

// ReadDataPort returns the buffered byte and prefetches the next one.
func (v *VDP) ReadDataPort() uint8 {
	v.writeLatch = false
	data := v.readBuffer
	v.readBuffer = v.vram[v.addr]
	v.addr = (v.addr + 1) & 0x3FFF
	return data
}

// ReadRegister returns the value last written to register n. The
// hardware register file is write-only; this is the model's snapshot
// view used for register dumps.
func (v *VDP) ReadRegister(n uint8) uint8 {
	return v.regs[n&0x07]
}

// ReadStatus returns the status register and clears its flags.
func (v *VDP) ReadStatus() uint8 {
	status := v.status
	v.status = 0
	v.writeLatch = false
	return status
}

// displayEnabled reports whether the blank bit (register 1 bit 6)
// allows active display output.
func (v *VDP) displayEnabled() bool {
	return v.regs[1]&0x40 != 0
}

// Table base addresses derived from the register file.

func (v *VDP) nameTableBase() uint16 {
	return uint16(v.regs[2]&0x0F) << 10
}

func (v *VDP) colorTableBase() uint16 {
	return uint16(v.regs[3]) << 6
}

func (v *VDP) patternTableBase() uint16 {
	return uint16(v.regs[4]&0x07) << 11
}

func (v *VDP) spriteAttributeBase() uint16 {
	return uint16(v.regs[5]&0x7F) << 7
}

func (v *VDP) spritePatternBase() uint16 {
	return uint16(v.regs[6]&0x07) << 11
}

// backdrop returns the backdrop color index from register 7. Index 0
// (transparent) is rendered as black for the backdrop itself.
func (v *VDP) backdrop() uint8 {
	return v.regs[7] & 0x0F
}
