package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ecc1/at86rf231"
)

func main() {
	r := at86rf231.Open(1, 1)
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	defer r.Close()
	id := r.TrxID()
	fmt.Printf("part: %02X version: %02X manufacturer: %02X%02X\n", id[0], id[1], id[2], id[3])
	fmt.Printf("status: %02X\n", r.TrxStatus())
	fmt.Printf("state: %s\n", r.State())
	fmt.Printf("old channel: %d (%d Hz)\n", r.Channel(), r.Frequency())
	r.SetFrequency(2480000000)
	fmt.Printf("new channel: %d (%d Hz)\n", r.Channel(), r.Frequency())
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
}
