package at86rf231

// Command is the first byte of an SPI access to the AT86RF231.
// Register commands carry the register address in their low 6 bits.
type Command byte

const (
	CmdRegisterRead  Command = 0x80
	CmdRegisterWrite Command = 0xC0
	CmdFrameRead     Command = 0x20
	CmdFrameWrite    Command = 0x60
	CmdSRAMRead      Command = 0x00
	CmdSRAMWrite     Command = 0x40
)

const registerMask = 0x3F

// Register returns the command byte that accesses register addr.
func (c Command) Register(addr byte) byte {
	return byte(c) | addr&registerMask
}

func (c Command) String() string {
	switch c {
	case CmdRegisterRead:
		return "RegisterRead"
	case CmdRegisterWrite:
		return "RegisterWrite"
	case CmdFrameRead:
		return "FrameRead"
	case CmdFrameWrite:
		return "FrameWrite"
	case CmdSRAMRead:
		return "SRAMRead"
	case CmdSRAMWrite:
		return "SRAMWrite"
	}
	return "Command(?)"
}
