package at86rf231

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ecc1/at86rf231/payload"
)

// 2.4 GHz band channel plan (IEEE 802.15.4 page 0).
const (
	MinChannel = 11
	MaxChannel = 26

	baseFrequency    = 2405000000 // Hz, channel 11
	channelSpacing   = 5000000    // Hz
	maxPayloadLength = MaxFrameLength - MACHeaderLength - CRCLength
)

// SendPayload queues p for transmission and starts sending it
// unless a frame is already in flight.
// It returns false, leaving p with the caller, if the transmit queue is full
// or p does not fit in a frame.
func (r *Radio) SendPayload(p *payload.Payload) bool {
	if p.PayloadLength() > maxPayloadLength {
		log.Warnf("%d-byte payload does not fit in a frame", p.PayloadLength())
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.txQueue.Push(p) {
		return false
	}
	r.sendPacket()
	return true
}

// RxPayload removes and returns the oldest received payload,
// or nil if there is none. The caller owns the result.
func (r *Radio) RxPayload() *payload.Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rxQueue.Pop()
}

// TxQueueFull reports whether SendPayload would fail for lack of room.
func (r *Radio) TxQueueFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.txQueue.Full()
}

// RxQueueEmpty reports whether there are no received payloads waiting.
func (r *Radio) RxQueueEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rxQueue.Empty()
}

// DeleteQueues releases every queued payload,
// including one partially consumed by GetChar.
func (r *Radio) DeleteQueues() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for !r.txQueue.Empty() {
		r.txQueue.Pop().Delete()
	}
	for !r.rxQueue.Empty() {
		r.rxQueue.Pop().Delete()
	}
	if r.rxCurrent != nil {
		r.rxCurrent.Delete()
		r.rxCurrent = nil
	}
}

// GetChar returns the next received data byte.
// Payloads are released as soon as their last byte has been read.
// It returns false immediately if no data is available.
func (r *Radio) GetChar() (byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.rxCurrent == nil {
		p := r.rxQueue.Pop()
		if p == nil {
			return 0, false
		}
		if p.DataLength() == 0 {
			p.Delete()
			continue
		}
		r.rxCurrent, r.rxOffset = p, 0
	}
	c := r.rxCurrent.ByteAt(r.rxOffset)
	r.rxOffset++
	if r.rxOffset == r.rxCurrent.DataLength() {
		r.rxCurrent.Delete()
		r.rxCurrent = nil
	}
	return c, true
}

// PutChar sends c as a one-byte payload.
func (r *Radio) PutChar(c byte) bool {
	return r.SendPayload(payload.New([]byte{c}, 0, 0))
}

// Init initializes the radio device.
func (r *Radio) Init(frequency uint32) {
	r.SetFrequency(frequency)
}

// Channel returns the radio's current channel.
func (r *Radio) Channel() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.readSubRegister(srChannel))
}

// SetChannel tunes the radio to the given channel.
// Channels outside 11 to 26 are clamped to the nearest valid one.
func (r *Radio) SetChannel(ch int) {
	switch {
	case ch < MinChannel:
		log.Warnf("channel %d out of range; using %d", ch, MinChannel)
		ch = MinChannel
	case ch > MaxChannel:
		log.Warnf("channel %d out of range; using %d", ch, MaxChannel)
		ch = MaxChannel
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeSubRegister(srChannel, byte(ch))
}

// Frequency returns the radio's current frequency, in Hertz.
func (r *Radio) Frequency() uint32 {
	return channelFrequency(r.Channel())
}

// SetFrequency tunes the radio to the channel nearest the given frequency, in Hertz.
func (r *Radio) SetFrequency(freq uint32) {
	r.SetChannel(frequencyChannel(freq))
}

func channelFrequency(ch int) uint32 {
	return uint32(baseFrequency + (ch-MinChannel)*channelSpacing)
}

func frequencyChannel(freq uint32) int {
	if freq <= baseFrequency {
		return MinChannel
	}
	ch := MinChannel + int((freq-baseFrequency+channelSpacing/2)/channelSpacing)
	if ch > MaxChannel {
		ch = MaxChannel
	}
	return ch
}

// Send transmits the given data as a payload with status and type 0.
func (r *Radio) Send(data []byte) {
	if r.Error() != nil {
		return
	}
	if !r.SendPayload(payload.New(data, 0, 0)) {
		log.Warnf("transmit queue full; dropping %d-byte packet", len(data))
	}
}

// Receive listens with the given timeout for an incoming packet.
// It returns the packet's data and its LQI.
func (r *Radio) Receive(timeout time.Duration) ([]byte, int) {
	const pollInterval = 1 * time.Millisecond
	for r.Error() == nil {
		if p := r.RxPayload(); p != nil {
			data, lqi := append([]byte(nil), p.Data()...), int(p.LQI())
			p.Delete()
			return data, lqi
		}
		if timeout <= 0 {
			break
		}
		time.Sleep(pollInterval)
		timeout -= pollInterval
	}
	return nil, 0
}

// SendAndReceive sends the given packet,
// then listens with the given timeout for an incoming packet.
func (r *Radio) SendAndReceive(data []byte, timeout time.Duration) ([]byte, int) {
	r.Send(data)
	return r.Receive(timeout)
}
