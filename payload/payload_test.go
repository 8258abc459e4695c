package payload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayloadIterator(t *testing.T) {
	p := New([]byte{0xAA, 0xBB}, 0x01, 0x02)
	require.Equal(t, 2, p.DataLength())
	require.Equal(t, 4, p.PayloadLength())
	it := p.Iterator()
	var got []byte
	for i := 0; i < p.PayloadLength(); i++ {
		got = append(got, it.Next())
	}
	require.Equal(t, []byte{0x01, 0x02, 0xAA, 0xBB}, got)
	require.Equal(t, got, p.Bytes())
	require.Equal(t, byte(0), it.Next())

	// Iterator rewinds.
	require.Equal(t, byte(0x01), p.Iterator().Next())
}

func TestPayloadEmpty(t *testing.T) {
	p := NewEmpty(3)
	p.SetStatus(7)
	p.SetType(9)
	for i := 0; i < 3; i++ {
		p.SetByteAt(i, byte(i+1))
	}
	require.Equal(t, []byte{1, 2, 3}, p.Data())
	require.Equal(t, byte(2), p.ByteAt(1))
	require.Equal(t, byte(7), p.Status())
	require.Equal(t, byte(9), p.Type())
	require.Equal(t, 0, NewEmpty(-1).DataLength())
}

func TestPayloadNewCopies(t *testing.T) {
	data := []byte{1, 2}
	p := New(data, 0, 0)
	data[0] = 9
	require.Equal(t, byte(1), p.ByteAt(0))
}

func TestPayloadLQI(t *testing.T) {
	p := New([]byte{1}, 0, 0)
	require.Equal(t, byte(0), p.LQI())
	p.SetLQI(0xE5)
	require.Equal(t, byte(0xE5), p.LQI())
	require.Equal(t, []byte{0, 0, 1}, p.Bytes())
}

func TestPayloadDelete(t *testing.T) {
	p := New([]byte{1}, 0, 0)
	require.False(t, p.Deleted())
	p.Delete()
	require.True(t, p.Deleted())
	require.Panics(t, p.Delete)
}

func TestQueue(t *testing.T) {
	q := NewQueue(2)
	require.True(t, q.Empty())
	require.False(t, q.Full())
	require.Nil(t, q.Pop())

	a, b, c := New([]byte{1}, 0, 0), New([]byte{2}, 0, 0), New([]byte{3}, 0, 0)
	require.True(t, q.Push(a))
	require.True(t, q.Push(b))
	require.True(t, q.Full())
	require.False(t, q.Push(c))
	require.Equal(t, 2, q.Len())

	require.Same(t, a, q.Pop())
	require.True(t, q.Push(c))
	require.Same(t, b, q.Pop())
	require.Same(t, c, q.Pop())
	require.True(t, q.Empty())
	require.Equal(t, 2, q.Cap())
}

func TestQueueZeroCapacity(t *testing.T) {
	q := NewQueue(0)
	require.True(t, q.Full())
	require.True(t, q.Empty())
	require.False(t, q.Push(New(nil, 0, 0)))
	require.Nil(t, q.Pop())
}
