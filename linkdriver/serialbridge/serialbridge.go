// Package serialbridge implements isa100.LinkDriver over a plain serial
// port, for bench testing against a loopback dongle or an SPI-to-UART
// bridge rather than a real SPI peripheral. It reuses the teacher's
// one-byte-at-a-time blocking read style (see
// github.com/librescoot/bluetooth-service/pkg/usock), adapted to the
// half-duplex write-then-read shape ExchangeByte requires instead of
// usock's independent read loop.
package serialbridge

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tarm/serial"
)

// pin models one of the reset/wakeup/provisioning/boot lines when they are
// not available as real GPIOs on the bench rig — the bridge just logs the
// intended transition, since the serial port itself carries no sideband
// control lines.
type pin struct {
	name string
}

func (p pin) set(high bool) {
	level := "low"
	if high {
		level = "high"
	}
	log.Debug("serialbridge pin", "pin", p.name, "level", level)
}

// Bridge drives the wire protocol over a serial port.
type Bridge struct {
	port *serial.Port

	wakeup       pin
	reset        pin
	provisioning pin
	boot         pin
}

// Open opens the serial device at devicePath/baudRate and returns a Bridge
// ready to be passed to isa100.New.
func Open(devicePath string, baudRate int) (*Bridge, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        devicePath,
		Baud:        baudRate,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("serialbridge: open %s: %w", devicePath, err)
	}

	return &Bridge{
		port:         port,
		wakeup:       pin{"WKU"},
		reset:        pin{"RESET"},
		provisioning: pin{"PROVISIONING"},
		boot:         pin{"BOOT"},
	}, nil
}

// Close releases the underlying serial port.
func (b *Bridge) Close() error {
	return b.port.Close()
}

// InitIO configures wakeup low and reset/provisioning/boot high. Boot is
// set before reset, matching the original's pin-sequencing requirement
// (spec.md §6).
func (b *Bridge) InitIO() {
	b.boot.set(true)
	b.reset.set(true)
	b.provisioning.set(true)
	b.wakeup.set(false)
}

// Enable is a no-op here: the serial port is already configured by Open.
func (b *Bridge) Enable() {}

// ResetRadio pulses reset low for 2ms then high.
func (b *Bridge) ResetRadio() {
	b.reset.set(false)
	time.Sleep(2 * time.Millisecond)
	b.reset.set(true)
}

// WakeupRadio pulses wakeup high for 2ms then low.
func (b *Bridge) WakeupRadio() {
	b.wakeup.set(true)
	time.Sleep(2 * time.Millisecond)
	b.wakeup.set(false)
}

// ProvisionRadio pulls the provisioning pin low for 11s then high.
//
// Deprecated: see isa100.LinkDriver.ProvisionRadio.
func (b *Bridge) ProvisionRadio() {
	b.provisioning.set(false)
	time.Sleep(11 * time.Second)
	b.provisioning.set(true)
}

// ExchangeByte writes tx and blocks for the single byte the peer sends
// back. On a read timeout or error it logs and returns a zero filler
// rather than propagating the error, since ExchangeByte's signature (used
// directly as the per-clock interrupt callback) has no error return.
func (b *Bridge) ExchangeByte(tx byte) byte {
	if _, err := b.port.Write([]byte{tx}); err != nil {
		log.Error("serialbridge write failed", "err", err)
		return 0x00
	}

	buf := make([]byte, 1)
	n, err := b.port.Read(buf)
	if err != nil || n == 0 {
		if err != nil {
			log.Error("serialbridge read failed", "err", err)
		}
		return 0x00
	}

	return buf[0]
}
