package emu

import (
	"testing"

	"github.com/ry755/rybot2/vdp"
)

// TestIOPortRouter_ControlRouting tests that control port writes reach
// the display chip registers.
func TestIOPortRouter_ControlRouting(t *testing.T) {
	v := vdp.New()
	router := NewIOPortRouter(v)

	// Register write sequence: value, then 0x80|register.
	router.Out(VDPControlPort, 0x0F)
	router.Out(VDPControlPort, 0x80|0x07)

	if got := v.ReadRegister(7); got != 0x0F {
		t.Errorf("register 7: expected 0x0F, got 0x%02X", got)
	}
	if !router.VDPUsed() {
		t.Error("expected vdpUsed after control port write")
	}
}

// TestIOPortRouter_DataRouting tests data port write and read-back.
func TestIOPortRouter_DataRouting(t *testing.T) {
	v := vdp.New()
	router := NewIOPortRouter(v)

	// VRAM write setup at address 0.
	router.Out(VDPControlPort, 0x00)
	router.Out(VDPControlPort, 0x40)
	router.Out(VDPDataPort, 0xAB)
	router.Out(VDPDataPort, 0xCD)

	// Read setup at address 0.
	router.Out(VDPControlPort, 0x00)
	router.Out(VDPControlPort, 0x00)
	if got := router.In(VDPDataPort); got != 0xAB {
		t.Errorf("first data read: expected 0xAB, got 0x%02X", got)
	}
	if got := router.In(VDPDataPort); got != 0xCD {
		t.Errorf("second data read: expected 0xCD, got 0x%02X", got)
	}
}

// TestIOPortRouter_UnmappedPorts tests that ports outside the display
// chip window are inert.
func TestIOPortRouter_UnmappedPorts(t *testing.T) {
	v := vdp.New()
	router := NewIOPortRouter(v)

	router.Out(0x00, 0xFF)
	router.Out(0x7F, 0xFF)
	router.Out(0xFF, 0xFF)

	if got := router.In(0x00); got != 0 {
		t.Errorf("In(0x00): expected 0, got 0x%02X", got)
	}
	if got := router.In(0xFF); got != 0 {
		t.Errorf("In(0xFF): expected 0, got 0x%02X", got)
	}
	if router.VDPUsed() {
		t.Error("unmapped port access must not mark the display chip as used")
	}
}

// TestIOPortRouter_PassThrough tests that routed control writes have
// the same effect as writing the chip directly.
func TestIOPortRouter_PassThrough(t *testing.T) {
	routed := vdp.New()
	router := NewIOPortRouter(routed)
	router.Out(VDPControlPort, 0x3C)
	router.Out(VDPControlPort, 0x80)

	direct := vdp.New()
	direct.WriteControlPort(0x3C)
	direct.WriteControlPort(0x80)

	if routed.ReadRegister(0) != direct.ReadRegister(0) {
		t.Errorf("register 0 mismatch: routed 0x%02X, direct 0x%02X",
			routed.ReadRegister(0), direct.ReadRegister(0))
	}
}
