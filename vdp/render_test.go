package vdp

import "testing"

// TestRender_DisplayDisabled tests that a blanked display renders
// solid backdrop.
func TestRender_DisplayDisabled(t *testing.T) {
	v := New()
	v.regs[7] = 0x04 // dark blue backdrop, display disabled

	v.Update()

	for i, sample := range v.Frame {
		if sample != 0x5455ED {
			t.Fatalf("Frame[%d]: expected backdrop 0x5455ED, got 0x%06X", i, sample)
		}
	}
}

// TestRender_BackdropZeroIsBlack tests that backdrop color 0 falls
// back to black instead of transparent.
func TestRender_BackdropZeroIsBlack(t *testing.T) {
	v := New()
	v.Update()

	if v.Frame[0] != 0x000000 {
		t.Errorf("Frame[0]: expected black, got 0x%06X", v.Frame[0])
	}
}

// TestRender_Graphics1Tile tests pattern and color lookup in the
// standard tiled mode.
func TestRender_Graphics1Tile(t *testing.T) {
	v := New()
	v.regs[1] = 0x40 // display enable
	v.regs[2] = 0x01 // name table at 0x0400
	v.regs[3] = 0x20 // color table at 0x0800
	v.regs[5] = 0x20 // sprite attributes at 0x1000

	v.vram[0x0000] = 0xFF // tile 0, line 0: all foreground
	v.vram[0x0800] = 0x21 // tiles 0-7: fg medium green, bg black
	v.vram[0x1000] = spriteTerminatorY

	v.Update()

	if got := v.Frame[0]; got != 0x21C842 {
		t.Errorf("line 0 pixel 0: expected medium green 0x21C842, got 0x%06X", got)
	}
	if got := v.Frame[7]; got != 0x21C842 {
		t.Errorf("line 0 pixel 7: expected medium green 0x21C842, got 0x%06X", got)
	}
	if got := v.Frame[FrameWidth]; got != 0x000000 {
		t.Errorf("line 1 pixel 0: expected background black, got 0x%06X", got)
	}
}

// TestRender_Graphics2ColorPerLine tests the per-pattern-line color
// table of the bitmap mode.
func TestRender_Graphics2ColorPerLine(t *testing.T) {
	v := New()
	v.regs[0] = 0x02 // bitmap mode
	v.regs[1] = 0x40 // display enable
	v.regs[2] = 0x01 // name table at 0x0400
	v.regs[4] = 0x00 // pattern table at 0x0000
	v.regs[3] = 0x7F // color table at 0x0000 (bit 7 clear)
	v.regs[5] = 0x20 // sprite attributes at 0x1000

	v.vram[0x0000] = 0xF0 // tile 0, line 0: left half foreground
	v.vram[0x1000] = spriteTerminatorY

	// Pattern and color tables share the base here, so the color byte
	// for tile 0 line 0 is the same 0xF0: fg white, bg transparent.
	v.Update()

	if got := v.Frame[0]; got != 0xFFFFFF {
		t.Errorf("line 0 pixel 0: expected white, got 0x%06X", got)
	}
	if got := v.Frame[4]; got != 0x000000 {
		t.Errorf("line 0 pixel 4: expected backdrop black, got 0x%06X", got)
	}
}

// TestRender_MulticolorBlocks tests the two-nibble color blocks of
// multicolor mode.
func TestRender_MulticolorBlocks(t *testing.T) {
	v := New()
	v.regs[1] = 0x48 // display enable, multicolor
	v.regs[2] = 0x01 // name table at 0x0400
	v.regs[5] = 0x20 // sprite attributes at 0x1000

	v.vram[0x0000] = 0x23 // tile 0: left green, right light green
	v.vram[0x1000] = spriteTerminatorY

	v.Update()

	if got := v.Frame[0]; got != 0x21C842 {
		t.Errorf("left block: expected medium green, got 0x%06X", got)
	}
	if got := v.Frame[4]; got != 0x5EDC78 {
		t.Errorf("right block: expected light green, got 0x%06X", got)
	}
}

// TestRender_TextBorders tests the 40-column mode's side borders and
// register 7 colors.
func TestRender_TextBorders(t *testing.T) {
	v := New()
	v.regs[1] = 0x50 // display enable, text
	v.regs[2] = 0x01 // name table at 0x0400
	v.regs[7] = 0xF4 // white text on dark blue

	v.vram[0x0000] = 0xFC // tile 0, line 0: all six pixels set

	v.Update()

	if got := v.Frame[0]; got != 0x5455ED {
		t.Errorf("left border: expected dark blue, got 0x%06X", got)
	}
	if got := v.Frame[FrameWidth-1]; got != 0x5455ED {
		t.Errorf("right border: expected dark blue, got 0x%06X", got)
	}
	if got := v.Frame[8]; got != 0xFFFFFF {
		t.Errorf("first text pixel: expected white, got 0x%06X", got)
	}
	if got := v.Frame[FrameWidth+8]; got != 0x5455ED {
		t.Errorf("line 1 text pixel: expected background, got 0x%06X", got)
	}
}

// TestRender_SpriteOverlay tests sprite placement, transparency and
// the attribute table terminator.
func TestRender_SpriteOverlay(t *testing.T) {
	v := New()
	v.regs[1] = 0x40 // display enable
	v.regs[2] = 0x01 // name table at 0x0400
	v.regs[3] = 0x20 // color table at 0x0800
	v.regs[5] = 0x20 // sprite attributes at 0x1000
	v.regs[7] = 0x01 // black backdrop

	// Sprite 0: top line 1, x 10, pattern 0, white.
	v.vram[0x1000] = 0x00
	v.vram[0x1001] = 10
	v.vram[0x1002] = 0x00
	v.vram[0x1003] = 0x0F
	v.vram[0x1004] = spriteTerminatorY

	v.vram[0x0000] = 0x80 // sprite pattern 0, line 0: leftmost pixel

	v.Update()

	if got := v.Frame[1*FrameWidth+10]; got != 0xFFFFFF {
		t.Errorf("sprite pixel: expected white, got 0x%06X", got)
	}
	if got := v.Frame[1*FrameWidth+11]; got != 0x000000 {
		t.Errorf("pixel beside sprite: expected black, got 0x%06X", got)
	}
	if got := v.Frame[10]; got != 0x000000 {
		t.Errorf("line 0: sprite must start at line 1, got 0x%06X", got)
	}
}

// TestRender_FifthSpriteFlag tests the per-line sprite limit.
func TestRender_FifthSpriteFlag(t *testing.T) {
	v := New()
	v.regs[1] = 0x40
	v.regs[2] = 0x01
	v.regs[5] = 0x20

	// Five sprites on the same line.
	for n := 0; n < 5; n++ {
		base := 0x1000 + n*4
		v.vram[base] = 0x00           // y
		v.vram[base+1] = uint8(n * 8) // x
		v.vram[base+2] = 0x00         // pattern
		v.vram[base+3] = 0x0F         // white
	}
	v.vram[0x1000+5*4] = spriteTerminatorY

	v.Update()

	status := v.ReadStatus()
	if status&StatusFifthSprite == 0 {
		t.Errorf("expected fifth-sprite flag, got status 0x%02X", status)
	}
	if got := status & fifthSpriteNumMask; got != 4 {
		t.Errorf("fifth sprite number: expected 4, got %d", got)
	}
}
