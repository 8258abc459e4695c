package main

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ecc1/at86rf231/payload"
)

func TestDecodePayload(t *testing.T) {
	p, err := decodePayload([]byte{1, 2, 0xAA, 0xBB})
	require.NoError(t, err)
	require.Equal(t, byte(1), p.Status())
	require.Equal(t, byte(2), p.Type())
	require.Equal(t, []byte{0xAA, 0xBB}, p.Data())
	require.Equal(t, []byte{1, 2, 0xAA, 0xBB}, encodePayload(p))

	p, err = decodePayload([]byte{3, 4})
	require.NoError(t, err)
	require.Equal(t, 0, p.DataLength())
}

func TestDecodeShortMessage(t *testing.T) {
	_, err := decodePayload([]byte{1})
	require.Error(t, err)
	require.Equal(t, errShortMessage, errors.Cause(err))
}

func TestEncodePayload(t *testing.T) {
	require.Equal(t, []byte{0, 0, 'x'}, encodePayload(payload.New([]byte("x"), 0, 0)))
}
