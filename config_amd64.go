package at86rf231

// Configuration for Intel Edison in 64-bit mode with an AT86RF231 module on SPI5.

const (
	spiDevice    = "/dev/spidev5.1"
	chipSelect   = 110
	resetPin     = 14
	slpTrPin     = 15
	interruptPin = 48
)
