package at86rf231

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ecc1/at86rf231/payload"
)

// interruptPollInterval bounds how long Serve waits for an edge
// before checking IRQ_STATUS anyway, in case an edge was missed.
const interruptPollInterval = 100 * time.Millisecond

// Serve dispatches transceiver interrupts until ctx is done
// or the radio records an error.
func (r *Radio) Serve(ctx context.Context) error {
	if r.hw.Interrupt == nil {
		return errNoInterruptPin
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.hw.Interrupt.Wait(interruptPollInterval); err != nil && verbose {
			log.Debugf("interrupt wait: %v", err)
		}
		if err := r.dispatch(); err != nil {
			return err
		}
	}
}

// HandleInterrupt services one interrupt from the transceiver.
// It is the entry point for the IRQ line's rising edge.
func (r *Radio) HandleInterrupt() {
	_ = r.dispatch()
}

func (r *Radio) dispatch() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cause := r.readRegister(IRQ_STATUS)
	if cause != IRQTrxEnd {
		if verbose && cause != 0 {
			log.Debugf("ignoring interrupt cause %02X", cause)
		}
		return r.err
	}
	if r.state == RxAACKOn {
		r.receivePacket()
	} else {
		r.transmitDone()
	}
	return r.err
}

// transmitDone handles the end of a transmission: it sends the next
// queued payload, or returns the transceiver to listening.
func (r *Radio) transmitDone() {
	status := TracStatus(r.readSubRegister(srTracStatus))
	if !status.Succeeded() {
		// The hardware has already used up its retries.
		r.txFailures++
		log.Warnf("transmission failed: %v", status)
	}
	if r.txQueue.Empty() {
		r.changeState(TrxCmdPLLOn, PLLOn)
		r.changeState(TrxCmdRxAACKOn, RxAACKOn)
		return
	}
	r.setState(TxARETOn)
	r.sendPacket()
}

func (r *Radio) changeState(cmd byte, s State) {
	r.writeRegister(TRX_STATE, cmd)
	r.setState(s)
}

// armTransmit waits until the transceiver is either ready to transmit
// or listening, and in the latter case switches it to TX_ARET_ON.
// There is no timeout: a chip that never reaches either state hangs here.
func (r *Radio) armTransmit() {
	for r.err == nil {
		switch r.readSubRegister(srTrxStatus) {
		case StatusTxARETOn:
			return
		case StatusRxAACKOn:
			r.changeState(TrxCmdPLLOn, PLLOn)
			r.changeState(TrxCmdTxARETOn, TxARETOn)
			return
		}
	}
}

// sendPacket writes the oldest outbound payload to the frame buffer
// and starts its transmission. It does nothing while a transfer is in flight.
func (r *Radio) sendPacket() {
	if r.state == BusyTxARET || r.txQueue.Empty() {
		return
	}
	r.armTransmit()
	p := r.txPacket
	p.Payload = r.txQueue.Pop()
	p.PayloadLength = p.Payload.PayloadLength()
	r.setState(BusyTxARET)
	r.strobeSlpTr()

	r.selectChip()
	r.xfer(byte(CmdFrameWrite))
	r.xfer(frameLength(p.PayloadLength))
	r.writeUint16(uint16(p.FrameControl))
	r.xfer(p.Seq)
	p.Seq++
	r.writeUint16(p.DestPANID)
	r.writeUint16(p.DestAddr)
	// The source PAN ID is elided: PAN ID compression is always set.
	r.writeUint16(p.SrcAddr)
	it := p.Payload.Iterator()
	for i := 0; i < p.PayloadLength; i++ {
		r.xfer(it.Next())
	}
	r.deselectChip()

	if r.err == nil {
		r.stats.Packets.Sent++
		r.stats.Bytes.Sent += p.PayloadLength
	}
	p.Payload.Delete()
	p.Payload = nil
}

// receivePacket reads a frame out of the frame buffer
// and queues its payload. Frames with a bad CRC are left unread.
func (r *Radio) receivePacket() {
	if r.readSubRegister(srRxCRCValid) == 0 {
		if verbose {
			log.Debugf("dropping frame with invalid CRC")
		}
		return
	}
	p := r.rxPacket
	r.selectChip()
	r.xfer(byte(CmdFrameRead))
	length := int(r.xfer(0) & MaxFrameLength)
	p.FrameControl = FrameControl(r.readUint16())
	p.Seq = r.xfer(0)
	p.DestPANID = r.readUint16()
	p.DestAddr = r.readUint16()
	header := MACHeaderLength
	if !p.FrameControl.PANIDCompression() {
		p.SrcPANID = r.readUint16()
		header += panIDLength
	}
	p.SrcAddr = r.readUint16()
	p.PayloadLength = length - header - CRCLength
	if p.PayloadLength < payload.HeaderLength {
		r.deselectChip()
		log.Debugf("dropping %d-byte frame", length)
		return
	}
	pld := payload.NewEmpty(p.PayloadLength - payload.HeaderLength)
	pld.SetStatus(r.xfer(0))
	pld.SetType(r.xfer(0))
	for i := 0; i < pld.DataLength(); i++ {
		pld.SetByteAt(i, r.xfer(0))
	}
	// Skip the FCS; the LQI follows the PSDU.
	for i := 0; i < CRCLength; i++ {
		r.xfer(0)
	}
	lqi := r.xfer(0)
	r.deselectChip()
	if r.err != nil {
		return
	}
	r.lqi = lqi
	pld.SetLQI(lqi)
	if !r.rxQueue.Push(pld) {
		log.Warnf("receive queue full; dropping %d-byte payload from %04X", pld.DataLength(), p.SrcAddr)
		pld.Delete()
		return
	}
	r.stats.Packets.Received++
	r.stats.Bytes.Received += p.PayloadLength
}
