// Command gateway runs one isa100.Host against a Simple API radio and
// bridges its attribute store and properties cache to Redis, the way the
// teacher's cmd/bluetooth-service wires one Service against a single
// nRF52 over USOCK.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/fieldlink/isa100gw/gateway/redisbridge"
	"github.com/fieldlink/isa100gw/isa100"
	"github.com/fieldlink/isa100gw/linkdriver/serialbridge"
)

var (
	serialDevice = pflag.StringP("serial", "s", "/dev/ttyUSB0", "Serial device path to the radio")
	baudRate     = pflag.IntP("baud", "b", 115200, "Serial baud rate")
	redisAddr    = pflag.String("redis-addr", "localhost:6379", "Redis server address")
	redisPass    = pflag.String("redis-pass", "", "Redis password")
	redisDB      = pflag.Int("redis-db", 0, "Redis database number")
	wakeup       = pflag.Bool("wakeup", true, "Pulse the wakeup pin after every send")
	publishEvery = pflag.Duration("publish-interval", 500*time.Millisecond, "How often to mirror the attribute store and properties cache to Redis")
)

func main() {
	pflag.Parse()

	log.Info("starting isa100 gateway", "serial", *serialDevice, "baud", *baudRate, "redis", *redisAddr)

	driver, err := serialbridge.Open(*serialDevice, *baudRate)
	if err != nil {
		log.Fatal("open serial link", "err", err)
	}
	defer driver.Close()

	host := isa100.New(driver)
	host.Begin(*wakeup)
	log.Info("radio link initialized")

	bridge, err := redisbridge.Open(*redisAddr, *redisPass, *redisDB)
	if err != nil {
		log.Fatal("connect to redis", "err", err)
	}
	defer bridge.Close()
	log.Info("connected to redis")

	go bridge.WatchCommands(host.Dispatcher)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go runExchangeLoop(host, done)

	ticker := time.NewTicker(*publishEvery)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			log.Info("shutting down")
			close(done)
			bridge.Stop()
			return
		case <-ticker.C:
			if err := bridge.PublishAttributes(host.Store); err != nil {
				log.Warn("publish attributes", "err", err)
			}
			if err := bridge.PublishProperties(host.Properties); err != nil {
				log.Warn("publish properties", "err", err)
			}
		}
	}
}

// runExchangeLoop clocks bytes to and from the radio as fast as the serial
// bridge's blocking write/read allows, standing in for the hardware
// interrupt source the original library assumes (spec.md §5).
func runExchangeLoop(host *isa100.Host, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		host.ExchangeByte()
		if host.HasNewMessage() {
			host.HandleMessage()
		}
	}
}
