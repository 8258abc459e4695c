package at86rf231

// State is the driver's view of the transceiver's operating mode.
type State byte

const (
	Sleep State = iota
	TrxOff
	PLLOn
	RxOn // unused; listening is done in RxAACKOn
	RxAACKOn
	TxARETOn
	BusyTxARET // a frame transfer is in flight
)

func (s State) String() string {
	switch s {
	case Sleep:
		return "SLEEP"
	case TrxOff:
		return "TRX_OFF"
	case PLLOn:
		return "PLL_ON"
	case RxOn:
		return "RX_ON"
	case RxAACKOn:
		return "RX_AACK_ON"
	case TxARETOn:
		return "TX_ARET_ON"
	case BusyTxARET:
		return "BUSY_TX_ARET"
	}
	return "UNKNOWN"
}
