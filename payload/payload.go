// Package payload provides the byte buffers exchanged between application
// code and the radio driver, and the bounded queues that hold them.
package payload

// HeaderLength is the number of bytes (status and type) that precede the data.
const HeaderLength = 2

// Payload is a variable-length data buffer tagged with a status and a type byte.
// On air it is carried as status, type, data.
type Payload struct {
	status  byte
	typ     byte
	data    []byte
	lqi     byte
	next    int
	deleted bool
}

// New returns a payload holding a copy of data.
func New(data []byte, status byte, typ byte) *Payload {
	p := NewEmpty(len(data))
	copy(p.data, data)
	p.status = status
	p.typ = typ
	return p
}

// NewEmpty returns a payload with n zero data bytes.
func NewEmpty(n int) *Payload {
	if n < 0 {
		n = 0
	}
	return &Payload{data: make([]byte, n)}
}

// Status returns the status byte.
func (p *Payload) Status() byte { return p.status }

// SetStatus sets the status byte.
func (p *Payload) SetStatus(s byte) { p.status = s }

// Type returns the type byte.
func (p *Payload) Type() byte { return p.typ }

// SetType sets the type byte.
func (p *Payload) SetType(t byte) { p.typ = t }

// LQI returns the link quality indicator the payload was received with.
// It is 0 for payloads built locally.
func (p *Payload) LQI() byte { return p.lqi }

// SetLQI records the link quality indicator of the frame that carried the payload.
func (p *Payload) SetLQI(lqi byte) { p.lqi = lqi }

// ByteAt returns the data byte at offset i.
func (p *Payload) ByteAt(i int) byte {
	return p.data[i]
}

// SetByteAt sets the data byte at offset i.
func (p *Payload) SetByteAt(i int, v byte) {
	p.data[i] = v
}

// Data returns the data bytes.
func (p *Payload) Data() []byte {
	return p.data
}

// DataLength returns the number of data bytes.
func (p *Payload) DataLength() int {
	return len(p.data)
}

// PayloadLength returns the on-air length: status, type and data.
func (p *Payload) PayloadLength() int {
	return HeaderLength + len(p.data)
}

// Bytes returns the on-air representation.
func (p *Payload) Bytes() []byte {
	b := make([]byte, 0, p.PayloadLength())
	b = append(b, p.status, p.typ)
	return append(b, p.data...)
}

// Iterator rewinds the payload's sequential reader and returns it.
func (p *Payload) Iterator() *Payload {
	p.next = 0
	return p
}

// Next returns the next on-air byte (status, type, then data).
// It returns 0 past the end.
func (p *Payload) Next() byte {
	i := p.next
	p.next++
	switch {
	case i == 0:
		return p.status
	case i == 1:
		return p.typ
	case i-HeaderLength < len(p.data):
		return p.data[i-HeaderLength]
	}
	return 0
}

// Delete releases the payload's buffer.
// Deleting a payload twice is a programming error.
func (p *Payload) Delete() {
	if p.deleted {
		panic("payload deleted twice")
	}
	p.deleted = true
	p.data = nil
	p.next = 0
}

// Deleted reports whether the payload has been released.
func (p *Payload) Deleted() bool {
	return p.deleted
}
