package at86rf231

import (
	"github.com/ecc1/at86rf231/payload"
)

const (
	// MACHeaderLength is the length of the header the driver sends:
	// frame control, sequence number, destination PAN ID,
	// destination address and source address.
	MACHeaderLength = 9

	// CRCLength is the length of the FCS appended by the hardware.
	CRCLength = 2

	// MaxFrameLength is the largest PSDU the transceiver accepts.
	MaxFrameLength = 127

	panIDLength = 2
)

// Packet types.
const (
	PacketTypeBeacon  = 0
	PacketTypeData    = 1
	PacketTypeAck     = 2
	PacketTypeCommand = 3
	PacketTypeReserve = 4
)

// Address modes.
const (
	AddrModeNone     = 0
	AddrModeShort    = 2
	AddrModeExtended = 3 // not supported
)

// FrameControl is the 16-bit frame control field of an 802.15.4 MAC header.
type FrameControl uint16

// Bit positions and widths of the frame control subfields.
const (
	fcTypeShift       = 0
	fcTypeMask        = 0x7
	fcSecurityShift   = 3
	fcPendingShift    = 4
	fcAckReqShift     = 5
	fcPANIDCompShift  = 6
	fcDestModeShift   = 10
	fcVersionShift    = 12
	fcSrcModeShift    = 14
	fcTwoBitFieldMask = 0x3
)

// DefaultFrameControl describes a data frame with acknowledgment requested,
// PAN ID compression, and short source and destination addresses.
var DefaultFrameControl = FrameControl(0).
	WithType(PacketTypeData).
	WithAckRequest(true).
	WithPANIDCompression(true).
	WithDestAddrMode(AddrModeShort).
	WithFrameVersion(1).
	WithSrcAddrMode(AddrModeShort)

func (fc FrameControl) field(shift uint, mask uint16) byte {
	return byte(uint16(fc) >> shift & mask)
}

func (fc FrameControl) withField(shift uint, mask uint16, v byte) FrameControl {
	cleared := uint16(fc) &^ (mask << shift)
	return FrameControl(cleared | (uint16(v)&mask)<<shift)
}

func (fc FrameControl) flag(shift uint) bool {
	return fc.field(shift, 1) != 0
}

func (fc FrameControl) withFlag(shift uint, on bool) FrameControl {
	v := byte(0)
	if on {
		v = 1
	}
	return fc.withField(shift, 1, v)
}

// Type returns the packet type.
func (fc FrameControl) Type() byte { return fc.field(fcTypeShift, fcTypeMask) }

// SecurityEnabled reports whether the security bit is set.
func (fc FrameControl) SecurityEnabled() bool { return fc.flag(fcSecurityShift) }

// FramePending reports whether the sender has more data for the recipient.
func (fc FrameControl) FramePending() bool { return fc.flag(fcPendingShift) }

// AckRequest reports whether the frame must be acknowledged.
func (fc FrameControl) AckRequest() bool { return fc.flag(fcAckReqShift) }

// PANIDCompression reports whether the source PAN ID is omitted.
func (fc FrameControl) PANIDCompression() bool { return fc.flag(fcPANIDCompShift) }

// DestAddrMode returns the destination addressing mode.
func (fc FrameControl) DestAddrMode() byte { return fc.field(fcDestModeShift, fcTwoBitFieldMask) }

// FrameVersion returns the frame version.
func (fc FrameControl) FrameVersion() byte { return fc.field(fcVersionShift, fcTwoBitFieldMask) }

// SrcAddrMode returns the source addressing mode.
func (fc FrameControl) SrcAddrMode() byte { return fc.field(fcSrcModeShift, fcTwoBitFieldMask) }

// WithType returns fc with the frame type set to t.
func (fc FrameControl) WithType(t byte) FrameControl {
	return fc.withField(fcTypeShift, fcTypeMask, t)
}

// WithSecurityEnabled returns fc with the security enabled bit set or cleared.
func (fc FrameControl) WithSecurityEnabled(on bool) FrameControl {
	return fc.withFlag(fcSecurityShift, on)
}

// WithFramePending returns fc with the frame pending bit set or cleared.
func (fc FrameControl) WithFramePending(on bool) FrameControl {
	return fc.withFlag(fcPendingShift, on)
}

// WithAckRequest returns fc with the acknowledgment request bit set or cleared.
func (fc FrameControl) WithAckRequest(on bool) FrameControl {
	return fc.withFlag(fcAckReqShift, on)
}

// WithPANIDCompression returns fc with the PAN ID compression bit set or cleared.
func (fc FrameControl) WithPANIDCompression(on bool) FrameControl {
	return fc.withFlag(fcPANIDCompShift, on)
}

// WithDestAddrMode returns fc with the destination addressing mode set to m.
func (fc FrameControl) WithDestAddrMode(m byte) FrameControl {
	return fc.withField(fcDestModeShift, fcTwoBitFieldMask, m)
}

// WithFrameVersion returns fc with the frame version set to v.
func (fc FrameControl) WithFrameVersion(v byte) FrameControl {
	return fc.withField(fcVersionShift, fcTwoBitFieldMask, v)
}

// WithSrcAddrMode returns fc with the source addressing mode set to m.
func (fc FrameControl) WithSrcAddrMode(m byte) FrameControl {
	return fc.withField(fcSrcModeShift, fcTwoBitFieldMask, m)
}

// MacPacket holds the MAC header fields of one frame and its payload.
type MacPacket struct {
	FrameControl  FrameControl
	Seq           byte
	DestPANID     uint16
	DestAddr      uint16
	SrcPANID      uint16 // only on air when PAN ID compression is off
	SrcAddr       uint16
	Payload       *payload.Payload
	PayloadLength int
}

func newMacPacket() *MacPacket {
	return &MacPacket{
		FrameControl: DefaultFrameControl,
		DestPANID:    DefaultDestPANID,
		DestAddr:     DefaultDestAddr,
		SrcPANID:     DefaultSrcPANID,
		SrcAddr:      DefaultSrcAddr,
	}
}

// frameLength returns the PHR length byte for a payload of n bytes.
func frameLength(n int) byte {
	return byte(n + MACHeaderLength + CRCLength)
}
