package at86rf231

// 802.15.4 header fields go on air least significant byte first.

func lowByte(n uint16) byte {
	return byte(n & 0xFF)
}

func highByte(n uint16) byte {
	return byte(n >> 8)
}

func unmarshalUint16(lo, hi byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}
