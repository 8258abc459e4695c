package at86rf231

// AT86RF231 register addresses.
const (
	TRX_STATUS   = 0x01
	TRX_STATE    = 0x02
	TRX_CTRL_0   = 0x03
	TRX_CTRL_1   = 0x04
	PHY_TX_PWR   = 0x05
	PHY_RSSI     = 0x06
	PHY_ED_LEVEL = 0x07
	PHY_CC_CCA   = 0x08
	IRQ_MASK     = 0x0E
	IRQ_STATUS   = 0x0F
	PART_NUM     = 0x1C
	VERSION_NUM  = 0x1D
	MAN_ID_0     = 0x1E
	MAN_ID_1     = 0x1F
	SHORT_ADDR_0 = 0x20
	SHORT_ADDR_1 = 0x21
	PAN_ID_0     = 0x22
	PAN_ID_1     = 0x23
	XAH_CTRL_0   = 0x2C
)

// Identification register values of the AT86RF231.
const (
	PartNumber     = 0x03
	ManufacturerID = 0x1F // Atmel JEDEC code, in MAN_ID_0
)

// A subRegister is a bit field within a register.
type subRegister struct {
	addr byte
	mask byte
	pos  uint
}

// Sub-registers used by the driver.
var (
	srTrxStatus       = subRegister{TRX_STATUS, 0x1F, 0}
	srTracStatus      = subRegister{TRX_STATE, 0xE0, 5}
	srClkmCtrl        = subRegister{TRX_CTRL_0, 0x07, 0}
	srTxAutoCRCOn     = subRegister{TRX_CTRL_1, 0x20, 5}
	srRxCRCValid      = subRegister{PHY_RSSI, 0x80, 7}
	srChannel         = subRegister{PHY_CC_CCA, 0x1F, 0}
	srMaxFrameRetries = subRegister{XAH_CTRL_0, 0xF0, 4}
	srMaxCSMARetries  = subRegister{XAH_CTRL_0, 0x0E, 1}
)

// TRX_STATUS values.
const (
	StatusPOn                byte = 0x00
	StatusBusyRx             byte = 0x01
	StatusBusyTx             byte = 0x02
	StatusRxOn               byte = 0x06
	StatusTrxOff             byte = 0x08
	StatusPLLOn              byte = 0x09
	StatusSleep              byte = 0x0F
	StatusBusyRxAACK         byte = 0x11
	StatusBusyTxARET         byte = 0x12
	StatusRxAACKOn           byte = 0x16
	StatusTxARETOn           byte = 0x19
	StatusRxOnNoClk          byte = 0x1C
	StatusRxAACKOnNoClk      byte = 0x1D
	StatusBusyRxAACKNoClk    byte = 0x1E
	StatusTransitionProgress byte = 0x1F
)

// TRX_STATE commands.
const (
	TrxCmdNOP         byte = 0x00
	TrxCmdTxStart     byte = 0x02
	TrxCmdForceTrxOff byte = 0x03
	TrxCmdForcePLLOn  byte = 0x04
	TrxCmdRxOn        byte = 0x06
	TrxCmdTrxOff      byte = 0x08
	TrxCmdPLLOn       byte = 0x09
	TrxCmdRxAACKOn    byte = 0x16
	TrxCmdTxARETOn    byte = 0x19
)

// IRQ_STATUS and IRQ_MASK bits.
const (
	IRQPLLLock   byte = 0x01
	IRQPLLUnlock byte = 0x02
	IRQRxStart   byte = 0x04
	IRQTrxEnd    byte = 0x08 // end of frame transmission or reception
	IRQCCAEDDone byte = 0x10
	IRQAMI       byte = 0x20 // address match
	IRQTrxUR     byte = 0x40 // frame buffer underrun
	IRQBatLow    byte = 0x80
)

// TracStatus is the outcome of an extended-mode transaction.
type TracStatus byte

const (
	TracSuccess              TracStatus = 0
	TracSuccessDataPending   TracStatus = 1
	TracSuccessWaitForAck    TracStatus = 2
	TracChannelAccessFailure TracStatus = 3
	TracNoAck                TracStatus = 5
	TracInvalid              TracStatus = 7
)

func (s TracStatus) String() string {
	switch s {
	case TracSuccess:
		return "success"
	case TracSuccessDataPending:
		return "success (data pending)"
	case TracSuccessWaitForAck:
		return "success (wait for ack)"
	case TracChannelAccessFailure:
		return "channel access failure"
	case TracNoAck:
		return "no ack"
	case TracInvalid:
		return "invalid"
	}
	return "unknown TRAC status"
}

// Succeeded reports whether the transaction completed.
func (s TracStatus) Succeeded() bool {
	switch s {
	case TracSuccess, TracSuccessDataPending, TracSuccessWaitForAck:
		return true
	}
	return false
}

// CLKM_CTRL value that disables the clock output.
const clkmNoClock = 0
