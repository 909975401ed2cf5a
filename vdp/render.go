package vdp

// palette is the fixed TMS9918A color set as packed 0xRRGGBB samples.
// Entry 0 is transparent; where it shows through it takes the backdrop
// color instead.
var palette = [16]uint32{
	0x000000, // transparent
	0x000000, // black
	0x21C842, // medium green
	0x5EDC78, // light green
	0x5455ED, // dark blue
	0x7D76FC, // light blue
	0xD4524D, // dark red
	0x42EBF5, // cyan
	0xFC5554, // medium red
	0xFF7978, // light red
	0xD4C154, // dark yellow
	0xE6CE80, // light yellow
	0x21B03B, // dark green
	0xC95BBA, // magenta
	0xCCCCCC, // gray
	0xFFFFFF, // white
}

// color resolves a 4-bit color index against the backdrop.
func (v *VDP) color(index uint8) uint32 {
	if index == 0 {
		index = v.backdrop()
		if index == 0 {
			index = 1 // backdrop 0 shows as black
		}
	}
	return palette[index&0x0F]
}

// Update flushes pending VRAM and register state into the frame
// buffer, rendering all scanlines of the current display mode, and
// sets the frame flag in the status register.
func (v *VDP) Update() {
	for line := 0; line < FrameHeight; line++ {
		v.renderScanline(line)
	}
	v.status |= StatusFrame
}

// renderScanline draws one line of background plus sprites.
func (v *VDP) renderScanline(line int) {
	row := v.Frame[line*FrameWidth : (line+1)*FrameWidth]

	if !v.displayEnabled() {
		backdrop := v.color(0)
		for x := range row {
			row[x] = backdrop
		}
		return
	}

	// Mode bits: M1 = reg1 bit 4 (text), M2 = reg1 bit 3 (multicolor),
	// M3 = reg0 bit 1 (Graphics II). Text mode has no sprite plane.
	switch {
	case v.regs[1]&0x10 != 0:
		v.textLine(line, row)
		return
	case v.regs[1]&0x08 != 0:
		v.multicolorLine(line, row)
	case v.regs[0]&0x02 != 0:
		v.graphics2Line(line, row)
	default:
		v.graphics1Line(line, row)
	}

	v.spriteLine(line, row)
}

// graphics1Line renders one line of Graphics I: a 32x24 name table of
// 8x8 patterns, with one color byte per group of eight patterns.
func (v *VDP) graphics1Line(line int, row []uint32) {
	nameBase := v.nameTableBase()
	patternBase := v.patternTableBase()
	colorBase := v.colorTableBase()

	tileRow := uint16(line / 8)
	tileLine := uint16(line % 8)

	for col := uint16(0); col < 32; col++ {
		name := uint16(v.vram[(nameBase+tileRow*32+col)&0x3FFF])
		pattern := v.vram[(patternBase+name*8+tileLine)&0x3FFF]
		colors := v.vram[(colorBase+name/8)&0x3FFF]
		fg := colors >> 4
		bg := colors & 0x0F

		for px := uint16(0); px < 8; px++ {
			index := bg
			if pattern&(0x80>>px) != 0 {
				index = fg
			}
			row[col*8+px] = v.color(index)
		}
	}
}

// graphics2Line renders one line of Graphics II: as Graphics I, but
// the screen is split into thirds with 768 distinct patterns and a
// color byte per pattern line.
func (v *VDP) graphics2Line(line int, row []uint32) {
	nameBase := v.nameTableBase()
	patternBase := uint16(v.regs[4]&0x04) << 11
	colorBase := uint16(v.regs[3]&0x80) << 6

	tileRow := uint16(line / 8)
	tileLine := uint16(line % 8)
	third := (tileRow / 8) * 0x0800 // 256 patterns per screen third

	for col := uint16(0); col < 32; col++ {
		name := uint16(v.vram[(nameBase+tileRow*32+col)&0x3FFF])
		offset := third + name*8 + tileLine
		pattern := v.vram[(patternBase+offset)&0x3FFF]
		colors := v.vram[(colorBase+offset)&0x3FFF]
		fg := colors >> 4
		bg := colors & 0x0F

		for px := uint16(0); px < 8; px++ {
			index := bg
			if pattern&(0x80>>px) != 0 {
				index = fg
			}
			row[col*8+px] = v.color(index)
		}
	}
}

// multicolorLine renders one line of multicolor mode: 64x48 blocks of
// 4x4 pixels, two color nibbles per pattern byte.
func (v *VDP) multicolorLine(line int, row []uint32) {
	nameBase := v.nameTableBase()
	patternBase := v.patternTableBase()

	tileRow := uint16(line / 8)
	// Each pattern holds four byte pairs; the pair is chosen by the
	// tile row's position in its group of four, the byte within the
	// pair by the upper or lower half of the character line.
	lineSel := uint16(line%8) / 4

	for col := uint16(0); col < 32; col++ {
		name := uint16(v.vram[(nameBase+tileRow*32+col)&0x3FFF])
		colors := v.vram[(patternBase+name*8+(tileRow%4)*2+lineSel)&0x3FFF]
		left := colors >> 4
		right := colors & 0x0F

		for px := uint16(0); px < 8; px++ {
			index := left
			if px >= 4 {
				index = right
			}
			row[col*8+px] = v.color(index)
		}
	}
}

// textLine renders one line of text mode: 40 columns of 6x8 patterns
// using the register 7 text/backdrop colors, with 8-pixel borders on
// each side.
func (v *VDP) textLine(line int, row []uint32) {
	nameBase := v.nameTableBase()
	patternBase := v.patternTableBase()

	fg := v.regs[7] >> 4
	bg := v.regs[7] & 0x0F
	border := v.color(0)

	for x := 0; x < 8; x++ {
		row[x] = border
		row[FrameWidth-1-x] = border
	}

	tileRow := uint16(line / 8)
	tileLine := uint16(line % 8)

	for col := uint16(0); col < 40; col++ {
		name := uint16(v.vram[(nameBase+tileRow*40+col)&0x3FFF])
		pattern := v.vram[(patternBase+name*8+tileLine)&0x3FFF]

		for px := uint16(0); px < 6; px++ {
			index := bg
			if pattern&(0x80>>px) != 0 {
				index = fg
			}
			row[8+col*6+px] = v.color(index)
		}
	}
}

// spriteLine overlays the sprite plane onto one rendered line.
// Lower-numbered sprites have priority. Only four sprites are shown
// per line; the fifth sets the status flag along with its number.
func (v *VDP) spriteLine(line int, row []uint32) {
	attrBase := v.spriteAttributeBase()
	patternBase := v.spritePatternBase()

	size := 8
	if v.regs[1]&0x02 != 0 {
		size = 16
	}
	mag := 1
	if v.regs[1]&0x01 != 0 {
		mag = 2
	}
	height := size * mag

	shown := 0
	var drawn [FrameWidth]bool

	for n := 0; n < 32; n++ {
		attr := (attrBase + uint16(n)*4) & 0x3FFF
		y := v.vram[attr]
		if y == spriteTerminatorY {
			break
		}

		// Sprite Y is offset by one; 0xE1..0xFF bleed in from the top.
		top := int(y) + 1
		if y > 0xE0 {
			top = int(y) - 255
		}
		if line < top || line >= top+height {
			continue
		}

		shown++
		if shown > spritesPerLineLimit {
			v.status &^= fifthSpriteNumMask
			v.status |= StatusFifthSprite | uint8(n)&fifthSpriteNumMask
			break
		}

		x := int(v.vram[(attr+1)&0x3FFF])
		pattern := v.vram[(attr+2)&0x3FFF]
		colorByte := v.vram[(attr+3)&0x3FFF]
		if colorByte&0x80 != 0 {
			x -= 32 // early clock: shift left for partial entry
		}
		index := colorByte & 0x0F

		if size == 16 {
			pattern &= 0xFC
		}

		spriteY := (line - top) / mag
		for px := 0; px < size*mag; px++ {
			screenX := x + px
			if screenX < 0 || screenX >= FrameWidth {
				continue
			}

			spriteX := px / mag
			// 16x16 sprites are four 8x8 quadrants, left half first.
			p := uint16(pattern)
			bitY := spriteY
			if bitY >= 8 {
				p++
				bitY -= 8
			}
			if spriteX >= 8 {
				p += 2
			}
			bits := v.vram[(patternBase+p*8+uint16(bitY))&0x3FFF]
			if bits&(0x80>>(spriteX%8)) == 0 {
				continue
			}

			if drawn[screenX] {
				v.status |= StatusCoincidence
				continue
			}
			drawn[screenX] = true

			// Color 0 is transparent but still takes part in
			// coincidence detection.
			if index != 0 {
				row[screenX] = palette[index]
			}
		}
	}
}
