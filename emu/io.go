package emu

import "github.com/ry755/rybot2/vdp"

// VDP port assignments. The machine decodes the low 8 bits of the
// port number; everything outside these two ports is unmapped.
const (
	VDPDataPort    = 0x98
	VDPControlPort = 0x99
)

// IOPortRouter decodes port accesses and forwards the VDP ports to
// the VDP collaborator. Unmapped ports are silently ignored: writes
// are dropped and reads return zero; no trap or wait state exists.
type IOPortRouter struct {
	vdp     *vdp.VDP
	vdpUsed bool
}

// NewIOPortRouter creates a router forwarding to the given VDP.
func NewIOPortRouter(v *vdp.VDP) *IOPortRouter {
	return &IOPortRouter{vdp: v}
}

// Out forwards a port write to the VDP control or data port.
func (r *IOPortRouter) Out(port uint8, value uint8) {
	switch port {
	case VDPControlPort:
		r.vdp.WriteControlPort(value)
		r.vdpUsed = true
	case VDPDataPort:
		r.vdp.WriteDataPort(value)
		r.vdpUsed = true
	}
}

// In reads from a port. Only the VDP data port is readable; every
// other port floats to zero.
func (r *IOPortRouter) In(port uint8) uint8 {
	if port == VDPDataPort {
		r.vdpUsed = true
		return r.vdp.ReadDataPort()
	}
	return 0
}

// VDPUsed reports whether any VDP-mapped port was touched. A program
// that never touches the video ports produces no frame output.
func (r *IOPortRouter) VDPUsed() bool {
	return r.vdpUsed
}
