package at86rf231

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errWaitTimeout = errors.New("timeout")

var _ Bus = spiBus{}

// fakeChip models the parts of the AT86RF231 the driver uses:
// the register file, TRX_STATE commands, frame buffer access,
// the SLP_TR line and the IRQ line.
type fakeChip struct {
	t  *testing.T
	mu sync.Mutex

	regs     [64]byte
	selected bool
	slpTr    bool
	closed   bool

	// Current transaction.
	n        int
	cmd      byte
	frameOut []byte

	commands []byte   // first byte of every transaction
	frames   [][]byte // completed frame writes
	rxFrame  []byte   // PHR, PSDU, LQI served to frame reads
	statuses []byte   // TRX_STATUS history
	trxCmds  []byte   // TRX_STATE writes

	// autoComplete finishes every transmission successfully
	// as soon as its frame has been written.
	autoComplete bool
	irq          chan struct{}
	busErr       error
}

func newFakeChip(t *testing.T) *fakeChip {
	c := &fakeChip{t: t, irq: make(chan struct{}, 1)}
	c.regs[PART_NUM] = PartNumber
	c.regs[VERSION_NUM] = 0x02
	c.regs[MAN_ID_0] = ManufacturerID
	c.regs[TRX_STATUS] = StatusPOn
	return c
}

func (c *fakeChip) hardware() Hardware {
	return Hardware{
		Bus:        c,
		ChipSelect: chipSelectLine{c},
		SlpTr:      slpTrLine{c},
		Interrupt:  irqLine{c},
	}
}

// newTestRadio returns a radio set up on a fresh chip model,
// with the chip's history cleared.
func newTestRadio(t *testing.T, txQueueLen, rxQueueLen int) (*Radio, *fakeChip) {
	c := newFakeChip(t)
	r := New(c.hardware(), txQueueLen, rxQueueLen)
	require.NoError(t, r.Error())
	c.mu.Lock()
	c.commands, c.statuses, c.trxCmds = nil, nil, nil
	c.mu.Unlock()
	return r, c
}

func (c *fakeChip) Transfer(buf []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busErr != nil {
		return c.busErr
	}
	if !c.selected {
		c.t.Errorf("transfer % X without chip select", buf)
	}
	for i, b := range buf {
		buf[i] = c.exchange(b)
	}
	return nil
}

func (c *fakeChip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChip) exchange(b byte) byte {
	n := c.n
	c.n++
	if n == 0 {
		c.cmd = b
		c.commands = append(c.commands, b)
		return 0
	}
	addr := c.cmd & registerMask
	switch {
	case c.cmd&0xC0 == byte(CmdRegisterWrite):
		if n == 1 {
			c.writeReg(addr, b)
		}
	case c.cmd&0xC0 == byte(CmdRegisterRead):
		if n == 1 {
			return c.readReg(addr)
		}
	case c.cmd == byte(CmdFrameWrite):
		c.frameOut = append(c.frameOut, b)
	case c.cmd == byte(CmdFrameRead):
		if i := n - 1; i < len(c.rxFrame) {
			return c.rxFrame[i]
		}
	}
	return 0
}

func (c *fakeChip) readReg(addr byte) byte {
	v := c.regs[addr]
	if addr == IRQ_STATUS {
		c.regs[addr] = 0
	}
	return v
}

func (c *fakeChip) writeReg(addr byte, v byte) {
	switch addr {
	case TRX_STATUS, IRQ_STATUS:
		return
	case TRX_STATE:
		cmd := v & 0x1F
		c.trxCmds = append(c.trxCmds, cmd)
		c.regs[TRX_STATE] = c.regs[TRX_STATE]&0xE0 | cmd
		switch cmd {
		case TrxCmdForceTrxOff, TrxCmdTrxOff:
			c.setStatus(StatusTrxOff)
		case TrxCmdPLLOn:
			c.setStatus(StatusPLLOn)
		case TrxCmdRxAACKOn:
			c.setStatus(StatusRxAACKOn)
		case TrxCmdTxARETOn:
			c.setStatus(StatusTxARETOn)
		}
		return
	}
	c.regs[addr] = v
}

func (c *fakeChip) setStatus(s byte) {
	c.regs[TRX_STATUS] = c.regs[TRX_STATUS]&0xE0 | s
	c.statuses = append(c.statuses, s)
}

func (c *fakeChip) status() byte {
	return c.regs[TRX_STATUS] & 0x1F
}

func (c *fakeChip) setSelected(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		if c.selected {
			c.t.Errorf("chip selected twice")
		}
		c.selected = true
		c.n, c.cmd, c.frameOut = 0, 0, nil
		return
	}
	if !c.selected {
		return
	}
	c.selected = false
	if c.n > 0 && c.cmd == byte(CmdFrameWrite) {
		c.frames = append(c.frames, c.frameOut)
		if c.autoComplete {
			c.finishTx(TracSuccess)
			c.signal()
		}
	}
}

func (c *fakeChip) setSlpTr(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on && !c.slpTr && c.status() == StatusTxARETOn {
		c.setStatus(StatusBusyTxARET)
	}
	c.slpTr = on
}

func (c *fakeChip) finishTx(status TracStatus) {
	if c.status() != StatusBusyTxARET {
		c.t.Errorf("transmission finished in status %02X", c.status())
	}
	c.setStatus(StatusTxARETOn)
	c.regs[TRX_STATE] = byte(status)<<5 | c.regs[TRX_STATE]&0x1F
	c.regs[IRQ_STATUS] = IRQTrxEnd
}

// completeTx ends the transmission in flight with the given outcome.
func (c *fakeChip) completeTx(status TracStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finishTx(status)
}

// receive places psdu (header, payload, FCS) in the frame buffer
// and raises TRX_END.
func (c *fakeChip) receive(psdu []byte, crcValid bool, lqi byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rxFrame = append([]byte{byte(len(psdu))}, psdu...)
	c.rxFrame = append(c.rxFrame, lqi)
	if crcValid {
		c.regs[PHY_RSSI] |= 0x80
	} else {
		c.regs[PHY_RSSI] &^= 0x80
	}
	c.regs[IRQ_STATUS] = IRQTrxEnd
}

func (c *fakeChip) raise(cause byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[IRQ_STATUS] = cause
}

func (c *fakeChip) signal() {
	select {
	case c.irq <- struct{}{}:
	default:
	}
}

func (c *fakeChip) sentFrames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.frames...)
}

func (c *fakeChip) stateCommands() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.trxCmds...)
}

func (c *fakeChip) statusHistory() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.statuses...)
}

func (c *fakeChip) transactions() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.commands...)
}

func (c *fakeChip) register(addr byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[addr]
}

type chipSelectLine struct{ c *fakeChip }

func (l chipSelectLine) Write(on bool) error {
	l.c.setSelected(on)
	return nil
}

type slpTrLine struct{ c *fakeChip }

func (l slpTrLine) Write(on bool) error {
	l.c.setSlpTr(on)
	return nil
}

type irqLine struct{ c *fakeChip }

func (l irqLine) Wait(timeout time.Duration) error {
	select {
	case <-l.c.irq:
		return nil
	case <-time.After(timeout):
		return errWaitTimeout
	}
}
