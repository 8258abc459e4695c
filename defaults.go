package at86rf231

import (
	"time"
)

// Addressing and channel assigned at setup.
const (
	DefaultChannel   = 0x16
	DefaultDestPANID = 0x2020
	DefaultSrcPANID  = 0x2020
	DefaultDestAddr  = 0x2021
	DefaultSrcAddr   = 0x2022
)

const (
	spiSpeed = 6666666 // Hz

	// Retries performed by the hardware in TX_ARET mode:
	// 2 retries give 3 attempts for both channel access and acknowledgment.
	maxFrameRetries = 2
	maxCSMARetries  = 2

	// Minimum time the SLP_TR line is held at each level.
	slpTrSettle = time.Microsecond
)
