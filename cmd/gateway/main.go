// gateway connects the radio to an MQTT broker.
// Received payloads are published on <topic>/rx;
// messages published on <topic>/tx are transmitted.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ecc1/at86rf231"
)

const (
	appID        = "at86rf231-gateway"
	qos          = 1
	pollInterval = 5 * time.Millisecond
)

var (
	mqttURL    = "tcp://localhost:1883"
	topic      = "at86rf231"
	txQueueLen = 16
	rxQueueLen = 16
	verbose    = false
)

func init() {
	if val := os.Getenv("AT86RF231_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL")
	flag.StringVar(&topic, "topic", topic, "MQTT topic prefix")
	flag.IntVar(&txQueueLen, "txq", txQueueLen, "transmit queue length")
	flag.IntVar(&rxQueueLen, "rxq", rxQueueLen, "receive queue length")
	flag.BoolVar(&verbose, "v", verbose, "verbose logging")
}

func clientID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		log.Warnf("machine ID: %v", err)
		return appID
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return appID + "-" + id
}

func main() {
	flag.Parse()
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	r := at86rf231.Open(txQueueLen, rxQueueLen)
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	defer r.Close()
	defer r.DeleteQueues()

	opts := paho.NewClientOptions().
		AddBroker(mqttURL).
		SetClientID(clientID()).
		SetAutoReconnect(true)
	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal(token.Error())
	}
	defer client.Disconnect(250)

	rxTopic, txTopic := topic+"/rx", topic+"/tx"
	token := client.Subscribe(txTopic, qos, func(_ paho.Client, msg paho.Message) {
		p, err := decodePayload(msg.Payload())
		if err != nil {
			log.Warnf("%s: %v", msg.Topic(), err)
			return
		}
		if !r.SendPayload(p) {
			log.Warnf("%s: dropping %d-byte payload", msg.Topic(), p.DataLength())
			return
		}
		log.Debugf("%s: queued %d-byte payload", msg.Topic(), p.DataLength())
	})
	if token.Wait() && token.Error() != nil {
		log.Fatal(token.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()
	errc := make(chan error, 1)
	go func() { errc <- r.Serve(ctx) }()

	log.Infof("%s on channel %d: publishing %s, subscribed to %s", r.Name(), r.Channel(), rxTopic, txTopic)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case err := <-errc:
			if err != context.Canceled {
				log.Error(err)
			}
			stats := r.Statistics()
			log.Infof("sent %d packets, received %d packets, %d failed", stats.Packets.Sent, stats.Packets.Received, r.TxFailures())
			return
		case <-ticker.C:
			publish(client, rxTopic, r)
		}
	}
}

// publish forwards every waiting received payload.
func publish(client paho.Client, rxTopic string, r *at86rf231.Radio) {
	for p := r.RxPayload(); p != nil; p = r.RxPayload() {
		token := client.Publish(rxTopic, qos, false, encodePayload(p))
		p.Delete()
		if token.Wait() && token.Error() != nil {
			log.Warnf("%s: %v", rxTopic, token.Error())
		}
	}
}
