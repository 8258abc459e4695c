package at86rf231

import (
	"sync"
	"time"

	"github.com/ecc1/gpio"
	"github.com/ecc1/spi"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ecc1/at86rf231/payload"
)

const (
	verbose    = false
	verboseSPI = false
)

func init() {
	if verbose || verboseSPI {
		log.SetLevel(log.DebugLevel)
	}
}

// ErrUnexpectedPart is returned by Open when the chip on the bus is not an AT86RF231.
var ErrUnexpectedPart = errors.New("unexpected transceiver part number")

var errNoInterruptPin = errors.New("no interrupt pin")

// Bus is the SPI connection to the transceiver.
// Transfer exchanges len(buf) bytes in place.
type Bus interface {
	Transfer(buf []byte) error
	Close() error
}

// OutputPin is a digital output line. Write(true) asserts it.
type OutputPin interface {
	Write(bool) error
}

// InterruptPin reports rising edges on the transceiver's IRQ line.
type InterruptPin interface {
	Wait(timeout time.Duration) error
}

// spiBus adapts an spi.Device, which takes separate send and receive
// buffers, to Bus.
type spiBus struct {
	dev *spi.Device
}

func (b spiBus) Transfer(buf []byte) error {
	return b.dev.Transfer(buf, buf)
}

func (b spiBus) Close() error {
	return b.dev.Close()
}

// Statistics holds the packet and byte counts for the radio device.
type Statistics struct {
	Packets struct {
		Sent     int
		Received int
	}
	Bytes struct {
		Sent     int
		Received int
	}
}

// Hardware describes how the transceiver is connected.
type Hardware struct {
	Bus        Bus
	ChipSelect OutputPin // SEL, active low
	SlpTr      OutputPin // SLP_TR, strobed to start a transmission
	Reset      OutputPin // RST, active low; optional
	Interrupt  InterruptPin
}

// Radio represents an open radio device.
type Radio struct {
	hw  Hardware
	buf [1]byte

	// mu is held by the interrupt dispatcher for a whole dispatch
	// and by every caller that touches the fields below.
	mu       sync.Mutex
	state    State
	txPacket *MacPacket
	rxPacket *MacPacket
	txQueue  *payload.Queue
	rxQueue  *payload.Queue

	// Byte-stream reader state for GetChar.
	rxCurrent *payload.Payload
	rxOffset  int

	lqi        byte
	stats      Statistics
	txFailures int
	err        error
}

// Open opens the radio device using the board's SPI bus and GPIO lines,
// and sets it up with transmit and receive queues of the given capacities.
func Open(txQueueLen, rxQueueLen int) *Radio {
	hw, err := openHardware()
	if err != nil {
		return &Radio{err: err}
	}
	r := New(hw, txQueueLen, rxQueueLen)
	if r.Error() == nil {
		id := r.TrxID()
		if id[0] != PartNumber {
			r.SetError(errors.Wrapf(ErrUnexpectedPart, "PART_NUM %02X", id[0]))
		}
	}
	if r.Error() != nil {
		err := r.Error()
		r.Close()
		r.SetError(err)
	}
	return r
}

func openHardware() (Hardware, error) {
	var hw Hardware
	dev, err := spi.Open(spiDevice, spiSpeed, 0)
	if err != nil {
		return hw, errors.Wrapf(err, "open %s", spiDevice)
	}
	hw.Bus = spiBus{dev}
	fail := func(err error, what string) (Hardware, error) {
		_ = dev.Close()
		return hw, errors.Wrap(err, what)
	}
	if hw.ChipSelect, err = gpio.Output(chipSelect, true, false); err != nil {
		return fail(err, "chip select pin")
	}
	if hw.SlpTr, err = gpio.Output(slpTrPin, false, false); err != nil {
		return fail(err, "SLP_TR pin")
	}
	if hw.Reset, err = gpio.Output(resetPin, true, false); err != nil {
		return fail(err, "reset pin")
	}
	if hw.Interrupt, err = gpio.Interrupt(interruptPin, false, "rising"); err != nil {
		return fail(err, "interrupt pin")
	}
	return hw, nil
}

// New sets up a transceiver reached through hw.
// The radio starts out listening, in RX_AACK_ON.
func New(hw Hardware, txQueueLen, rxQueueLen int) *Radio {
	r := &Radio{
		hw:       hw,
		rxPacket: newMacPacket(),
		txPacket: newMacPacket(),
		txQueue:  payload.NewQueue(txQueueLen),
		rxQueue:  payload.NewQueue(rxQueueLen),
	}
	r.Reset()
	r.setup()
	return r
}

// Close closes the radio device.
func (r *Radio) Close() {
	if r.hw.Bus == nil {
		return
	}
	if err := r.hw.Bus.Close(); err != nil {
		r.SetError(err)
	}
}

// Name returns the radio's name.
func (r *Radio) Name() string {
	return "AT86RF231"
}

// Device returns the pathname of the radio's device.
func (r *Radio) Device() string {
	return spiDevice
}

// Reset pulses the transceiver's RST line, if it is connected.
func (r *Radio) Reset() {
	if r.Error() != nil || r.hw.Reset == nil {
		return
	}
	_ = r.hw.Reset.Write(true)
	time.Sleep(time.Microsecond)
	r.SetError(r.hw.Reset.Write(false))
	time.Sleep(time.Millisecond)
}

// Statistics returns the byte and packet counts for the radio device.
func (r *Radio) Statistics() Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// TxFailures returns the number of frames the transceiver
// could not deliver after all of its retries.
func (r *Radio) TxFailures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.txFailures
}

// LQI returns the link quality indicator of the last received frame.
func (r *Radio) LQI() byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lqi
}

// Error returns the error state of the radio device.
// Code running with r.mu held uses r.err directly.
func (r *Radio) Error() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// SetError sets the error state of the radio device.
func (r *Radio) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// CurrentState returns the driver's view of the transceiver mode.
func (r *Radio) CurrentState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// State returns the name of the driver's current transceiver mode.
func (r *Radio) State() string {
	return r.CurrentState().String()
}

func (r *Radio) setState(s State) {
	if verbose {
		log.Debugf("state %v -> %v", r.state, s)
	}
	r.state = s
}

func (r *Radio) setup() {
	r.deselectChip()
	r.writeRegister(TRX_STATE, TrxCmdForceTrxOff)
	r.setState(TrxOff)
	// Interrupt only at the end of frame transmission or reception.
	r.writeRegister(IRQ_MASK, IRQTrxEnd)
	r.writeSubRegister(srTxAutoCRCOn, 1)
	r.writeSubRegister(srClkmCtrl, clkmNoClock)
	r.writeSubRegister(srChannel, DefaultChannel)
	// Clear any pending interrupt.
	r.readRegister(IRQ_STATUS)
	r.writeRegister(SHORT_ADDR_0, lowByte(DefaultSrcAddr))
	r.writeRegister(SHORT_ADDR_1, highByte(DefaultSrcAddr))
	r.writeRegister(PAN_ID_0, lowByte(DefaultSrcPANID))
	r.writeRegister(PAN_ID_1, highByte(DefaultSrcPANID))
	r.writeSubRegister(srMaxFrameRetries, maxFrameRetries)
	r.writeSubRegister(srMaxCSMARetries, maxCSMARetries)
	r.writeRegister(TRX_STATE, TrxCmdRxAACKOn)
	r.setState(RxAACKOn)
}

// TrxID returns the PART_NUM, VERSION_NUM, MAN_ID_1 and MAN_ID_0 registers.
func (r *Radio) TrxID() [4]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return [4]byte{
		r.readRegister(PART_NUM),
		r.readRegister(VERSION_NUM),
		r.readRegister(MAN_ID_1),
		r.readRegister(MAN_ID_0),
	}
}

// TrxStatus returns the transceiver's TRX_STATUS value.
func (r *Radio) TrxStatus() byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readSubRegister(srTrxStatus)
}

// ReadRegister returns the value of an AT86RF231 register.
func (r *Radio) ReadRegister(addr byte) byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readRegister(addr)
}

// WriteRegister writes a value to an AT86RF231 register.
func (r *Radio) WriteRegister(addr byte, value byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeRegister(addr, value)
}

func (r *Radio) xfer(b byte) byte {
	if r.err != nil {
		return 0
	}
	r.buf[0] = b
	r.err = r.hw.Bus.Transfer(r.buf[:])
	c := r.buf[0]
	if verboseSPI {
		log.Debugf("xfer %02X -> %02X", b, c)
	}
	return c
}

func (r *Radio) selectChip() {
	if r.err != nil {
		return
	}
	r.err = r.hw.ChipSelect.Write(true)
}

// deselectChip releases the bus even after an error
// so the next transaction starts cleanly.
func (r *Radio) deselectChip() {
	err := r.hw.ChipSelect.Write(false)
	if r.err == nil {
		r.err = err
	}
}

func (r *Radio) readRegister(addr byte) byte {
	r.selectChip()
	r.xfer(CmdRegisterRead.Register(addr))
	v := r.xfer(0)
	r.deselectChip()
	return v
}

func (r *Radio) writeRegister(addr byte, value byte) {
	r.selectChip()
	r.xfer(CmdRegisterWrite.Register(addr))
	r.xfer(value)
	r.deselectChip()
}

// readSubRegister and writeSubRegister are not atomic:
// they must run with r.mu held.
func (r *Radio) readSubRegister(sr subRegister) byte {
	return r.readRegister(sr.addr) & sr.mask >> sr.pos
}

func (r *Radio) writeSubRegister(sr subRegister, value byte) {
	v := r.readRegister(sr.addr) &^ sr.mask
	v |= value << sr.pos & sr.mask
	r.writeRegister(sr.addr, v)
}

func (r *Radio) readUint16() uint16 {
	lo := r.xfer(0)
	hi := r.xfer(0)
	return unmarshalUint16(lo, hi)
}

func (r *Radio) writeUint16(n uint16) {
	r.xfer(lowByte(n))
	r.xfer(highByte(n))
}

// strobeSlpTr pulses SLP_TR to start the transmission of the staged frame.
func (r *Radio) strobeSlpTr() {
	if r.err != nil {
		return
	}
	r.err = r.hw.SlpTr.Write(true)
	time.Sleep(slpTrSettle)
	if r.err == nil {
		r.err = r.hw.SlpTr.Write(false)
	}
	time.Sleep(slpTrSettle)
}
