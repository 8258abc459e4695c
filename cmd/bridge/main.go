// bridge copies bytes between a serial port and the radio,
// so that a host without a transceiver can talk to 802.15.4 nodes.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/ecc1/serial"
	log "github.com/sirupsen/logrus"

	"github.com/ecc1/at86rf231"
)

const (
	queueLen     = 32
	pollInterval = 2 * time.Millisecond
)

var (
	serialDevice = "/dev/ttyUSB0"
	serialSpeed  = 115200
	verbose      = false
)

func init() {
	if val := os.Getenv("AT86RF231_SERIAL"); val != "" {
		serialDevice = val
	}
	flag.StringVar(&serialDevice, "d", serialDevice, "serial `device`")
	flag.IntVar(&serialSpeed, "s", serialSpeed, "serial `speed`")
	flag.BoolVar(&verbose, "v", verbose, "verbose logging")
}

func main() {
	flag.Parse()
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	port, err := serial.Open(serialDevice, serialSpeed)
	if err != nil {
		log.Fatal(err)
	}
	r := at86rf231.Open(queueLen, queueLen)
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	defer r.Close()
	defer r.DeleteQueues()

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()
	go func() {
		if err := r.Serve(ctx); err != nil && err != context.Canceled {
			log.Error(err)
			cancel()
		}
	}()
	go toRadio(ctx, port, r)
	fromRadio(ctx, port, r)
}

// toRadio sends each byte read from the serial port as its own frame.
func toRadio(ctx context.Context, port *serial.Port, r *at86rf231.Radio) {
	buf := make([]byte, 256)
	for ctx.Err() == nil {
		n, err := port.ReadAvailable(buf)
		if err != nil {
			log.Fatal(err)
		}
		if n == 0 {
			time.Sleep(pollInterval)
			continue
		}
		log.Debugf("serial -> radio: % X", buf[:n])
		for _, c := range buf[:n] {
			for !r.PutChar(c) {
				// Transmit queue is full.
				time.Sleep(pollInterval)
			}
		}
	}
}

// fromRadio writes received data bytes to the serial port.
func fromRadio(ctx context.Context, port *serial.Port, r *at86rf231.Radio) {
	var out []byte
	for ctx.Err() == nil {
		out = out[:0]
		for c, ok := r.GetChar(); ok; c, ok = r.GetChar() {
			out = append(out, c)
		}
		if len(out) == 0 {
			time.Sleep(pollInterval)
			continue
		}
		log.Debugf("radio -> serial: % X", out)
		if err := port.Write(out); err != nil {
			log.Fatal(err)
		}
	}
}
