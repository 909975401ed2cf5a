package emu

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ry755/rybot2/vdp"
)

// upscaleFactor is the fixed nearest-neighbor scale applied to the
// exported frame.
const upscaleFactor = 4

// Result is the exported outcome of a halted invocation: the CPU and
// VDP register dump as fixed-width hexadecimal text, and a PNG of the
// upscaled frame when the program touched the video hardware.
type Result struct {
	RegisterText string
	FramePNG     []byte // nil when no VDP port was used
}

// Export snapshots the driver's final state. The frame is only
// exported when a VDP port was touched during execution, so a program
// that never uses video does not produce a misleading blank image.
func Export(d *Driver) (Result, error) {
	res := Result{RegisterText: registerText(d)}

	if !d.VDPUsed() {
		return res, nil
	}

	frame, err := encodeFrame(d.VDP())
	if err != nil {
		return res, fmt.Errorf("encoding frame: %w", err)
	}
	res.FramePNG = frame
	return res, nil
}

// registerText renders the CPU accumulator, the three 16-bit pairs
// and the eight VDP registers.
func registerText(d *Driver) string {
	regs := d.Registers()

	var b strings.Builder
	fmt.Fprintf(&b, "A:  0x%02X\n", regs.A)
	fmt.Fprintf(&b, "BC: 0x%04X\n", regs.BC)
	fmt.Fprintf(&b, "DE: 0x%04X\n", regs.DE)
	fmt.Fprintf(&b, "HL: 0x%04X\n", regs.HL)
	b.WriteByte('\n')
	for i := uint8(0); i < 8; i++ {
		fmt.Fprintf(&b, "VDP%d: 0x%02X\n", i, d.VDP().ReadRegister(i))
	}
	return b.String()
}

// encodeFrame converts the packed-RGB frame buffer into an RGBA
// image, applies the fixed nearest-neighbor upscale and encodes PNG.
func encodeFrame(v *vdp.VDP) ([]byte, error) {
	src := image.NewRGBA(image.Rect(0, 0, vdp.FrameWidth, vdp.FrameHeight))
	for y := 0; y < vdp.FrameHeight; y++ {
		for x := 0; x < vdp.FrameWidth; x++ {
			sample := v.Frame[y*vdp.FrameWidth+x]
			src.SetRGBA(x, y, color.RGBA{
				R: uint8(sample >> 16),
				G: uint8(sample >> 8),
				B: uint8(sample),
				A: 0xFF,
			})
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, vdp.FrameWidth*upscaleFactor, vdp.FrameHeight*upscaleFactor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Listing renders the driver's bounded disassembly, one decoded
// instruction per line.
func Listing(d *Driver) string {
	var b strings.Builder
	for ins := range d.Disassemble() {
		b.WriteString(ins.String())
		b.WriteByte('\n')
	}
	return b.String()
}
