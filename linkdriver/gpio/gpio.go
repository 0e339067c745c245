// Package gpio implements the reset/wakeup/provisioning/boot pin control
// half of isa100.LinkDriver on Linux GPIO character devices, translating
// original_source/src/VN210RxTx_Arduino.cpp's AVR digitalWrite/pinMode
// calls to github.com/warthog618/go-gpiocdev line requests. Actual SPI
// byte transfer is out of scope for this repository (spec.md §1); a
// ByteExchanger is injected by the caller to perform it.
package gpio

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/warthog618/go-gpiocdev"
)

// ByteExchanger performs the simultaneous SPI byte transfer that
// ExchangeByte needs. The physical SPI peripheral driver itself is outside
// this repository's scope (spec.md §1); callers supply one (e.g. built on
// periph.io or golang.org/x/exp/io/spi).
type ByteExchanger func(tx byte) (rx byte)

// Lines names the GPIO offsets for the four control pins (spec.md §6).
type Lines struct {
	Chip         string
	Wakeup       int
	Reset        int
	Provisioning int
	Boot         int
}

// Driver drives the VN210-style control pins over gpiocdev and delegates
// the byte-level SPI exchange to an injected ByteExchanger.
type Driver struct {
	wakeup       *gpiocdev.Line
	reset        *gpiocdev.Line
	provisioning *gpiocdev.Line
	boot         *gpiocdev.Line

	exchange ByteExchanger
}

// Open requests all four control lines as outputs, already at their startup
// levels (wakeup low; reset, provisioning and boot high), and returns a
// Driver ready to be passed to isa100.New. InitIO drives the same levels
// again in the boot-before-reset order (spec.md §6).
func Open(lines Lines, exchange ByteExchanger) (*Driver, error) {
	wakeup, err := gpiocdev.RequestLine(lines.Chip, lines.Wakeup, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("gpio: request wakeup line: %w", err)
	}
	reset, err := gpiocdev.RequestLine(lines.Chip, lines.Reset, gpiocdev.AsOutput(1))
	if err != nil {
		return nil, fmt.Errorf("gpio: request reset line: %w", err)
	}
	provisioning, err := gpiocdev.RequestLine(lines.Chip, lines.Provisioning, gpiocdev.AsOutput(1))
	if err != nil {
		return nil, fmt.Errorf("gpio: request provisioning line: %w", err)
	}
	boot, err := gpiocdev.RequestLine(lines.Chip, lines.Boot, gpiocdev.AsOutput(1))
	if err != nil {
		return nil, fmt.Errorf("gpio: request boot line: %w", err)
	}

	return &Driver{
		wakeup:       wakeup,
		reset:        reset,
		provisioning: provisioning,
		boot:         boot,
		exchange:     exchange,
	}, nil
}

// Close releases all four GPIO lines.
func (d *Driver) Close() error {
	for _, l := range []*gpiocdev.Line{d.wakeup, d.reset, d.provisioning, d.boot} {
		if err := l.Close(); err != nil {
			return err
		}
	}
	return nil
}

// setLine drives a line and logs rather than panics on failure — a failed
// GPIO write here means a misconfigured chip, not a per-call condition
// callers can usefully recover from.
func setLine(l *gpiocdev.Line, name string, value int) {
	if err := l.SetValue(value); err != nil {
		log.Error("gpio set failed", "line", name, "value", value, "err", err)
	}
}

// InitIO drives boot high before reset, then provisioning high and wakeup
// low, matching the pin-sequencing requirement in spec.md §6 (boot must be
// set before reset so the correct firmware is selected at boot).
func (d *Driver) InitIO() {
	setLine(d.boot, "boot", 1)
	setLine(d.reset, "reset", 1)
	setLine(d.provisioning, "provisioning", 1)
	setLine(d.wakeup, "wakeup", 0)
}

// Enable is a no-op: SPI peripheral configuration is out of scope here
// (spec.md §1); the caller's ByteExchanger is assumed already configured.
func (d *Driver) Enable() {}

// ResetRadio pulses reset low for 2ms then high.
func (d *Driver) ResetRadio() {
	setLine(d.reset, "reset", 0)
	sleep2ms()
	setLine(d.reset, "reset", 1)
}

// WakeupRadio pulses wakeup high for 2ms then low.
func (d *Driver) WakeupRadio() {
	setLine(d.wakeup, "wakeup", 1)
	sleep2ms()
	setLine(d.wakeup, "wakeup", 0)
}

// ProvisionRadio pulls the provisioning pin low for 11s then high.
//
// Deprecated: see isa100.LinkDriver.ProvisionRadio.
func (d *Driver) ProvisionRadio() {
	setLine(d.provisioning, "provisioning", 0)
	sleep11s()
	setLine(d.provisioning, "provisioning", 1)
}

// ExchangeByte delegates to the injected ByteExchanger.
func (d *Driver) ExchangeByte(tx byte) byte {
	return d.exchange(tx)
}
