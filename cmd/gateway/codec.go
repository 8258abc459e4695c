package main

import (
	"github.com/pkg/errors"

	"github.com/ecc1/at86rf231/payload"
)

var errShortMessage = errors.New("message shorter than payload header")

// Messages carry a payload as it goes on air: status, type, data.

func encodePayload(p *payload.Payload) []byte {
	return p.Bytes()
}

func decodePayload(msg []byte) (*payload.Payload, error) {
	if len(msg) < payload.HeaderLength {
		return nil, errors.Wrapf(errShortMessage, "%d-byte message", len(msg))
	}
	return payload.New(msg[payload.HeaderLength:], msg[0], msg[1]), nil
}
