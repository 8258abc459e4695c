package at86rf231

// Configuration for Raspberry Pi with an AT86RF231 module on SPI0.

const (
	spiDevice    = "/dev/spidev0.0"
	chipSelect   = 25
	resetPin     = 22
	slpTrPin     = 23
	interruptPin = 24
)
