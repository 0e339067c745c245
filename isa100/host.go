// Package isa100 assembles the transport, protocol and dispatcher layers
// into the host-facing API surface described in spec.md §6, and defines
// the LinkDriver capability set the integrator must supply.
//
// Per the REDESIGN FLAGS in spec.md §9, there is no abstract base class and
// no global singleton: the integrator constructs a Host with a concrete
// LinkDriver and, if driving it from an interrupt handler, closes over that
// same Host instance rather than reaching for package-level state.
package isa100

import (
	"github.com/fieldlink/isa100gw/protocol"
	"github.com/fieldlink/isa100gw/transport"
	"github.com/fieldlink/isa100gw/uap"
)

// LinkDriver is the set of operations the physical link (in the reference
// deployment, SPI with the radio as master) must provide. It replaces the
// original's abstract base class with a plain interface passed into the
// constructor (spec.md §9).
type LinkDriver interface {
	// InitIO configures wakeup, reset, provisioning and boot pins as
	// outputs: wakeup low, reset/provisioning/boot high. Boot must be set
	// before reset so the correct firmware is selected at boot.
	InitIO()

	// Enable configures the byte link (for SPI: mode 0, MSB-first, slave,
	// interrupt on chip-select).
	Enable()

	// ResetRadio pulses reset low for 2ms then high.
	ResetRadio()

	// WakeupRadio pulses wakeup high for 1-2ms then low.
	WakeupRadio()

	// ProvisionRadio pulls the provisioning pin low for >=10s then high.
	//
	// Deprecated: provisioning should be triggered by a button press, not
	// a library call; this unconfigures the radio and blocks the caller
	// for the full duration.
	ProvisionRadio()

	// ExchangeByte transmits tx and returns the byte the peer clocked in
	// at the same time.
	ExchangeByte(tx byte) (rx byte)
}

// Host owns the transport, protocol and dispatcher layers and the
// LinkDriver they are wired to.
type Host struct {
	driver LinkDriver

	Transport  *transport.Transport
	Protocol   *protocol.Protocol
	Dispatcher *uap.Dispatcher
	Store      *uap.Store
	Properties *uap.Properties

	wakeupEnabled bool
}

// New constructs a Host bound to the given link driver. Call Begin before
// exchanging any bytes.
func New(driver LinkDriver) *Host {
	tr := transport.New()
	p := protocol.New(tr)
	store := &uap.Store{}
	props := &uap.Properties{}

	h := &Host{
		driver:     driver,
		Transport:  tr,
		Protocol:   p,
		Store:      store,
		Properties: props,
		Dispatcher: uap.New(p, store, props),
	}
	p.Wakeup = func() {
		if h.wakeupEnabled {
			h.driver.WakeupRadio()
		}
	}
	return h
}

// Begin resets both buffers, enables the link, configures IO, and pulses a
// radio reset, in that order (spec.md §4.3; order follows
// original_source/src/VN210RxTx.cpp's begin()). The radio takes roughly 5s
// after reset before it starts sending polling messages.
func (h *Host) Begin(wakeupEnabled bool) {
	h.wakeupEnabled = wakeupEnabled
	h.Transport.Reset()
	h.driver.Enable()
	h.driver.InitIO()
	h.driver.ResetRadio()
}

// ExchangeByte is the single operation the link driver invokes once per
// peer clock cycle (spec.md §2, §5): it pumps one byte out of the transmit
// buffer (or zero filler) and the simultaneously-received byte into the
// receive side.
func (h *Host) ExchangeByte() {
	h.Transport.ExchangeByte(h.driver.ExchangeByte)
}

// HasNewMessage peeks the "new message" flag and, on true, parses and
// CRC-checks the frame (spec.md §4.4).
func (h *Host) HasNewMessage() bool {
	return h.Protocol.HasNewMessage()
}

// HandleMessage dispatches the last parsed message. The caller must only
// invoke this after HasNewMessage returned true. If that parse failed its
// CRC check (h.Protocol.CRCValid is false), HandleMessage returns without
// dispatching; the receive buffer has already been cleared by the parse
// (spec.md §7, scenario S5).
func (h *Host) HandleMessage() {
	if !h.Protocol.CRCValid {
		return
	}
	h.Dispatcher.HandleMessage()
}

// ReceivedPollingMessage reports whether the last received frame was a
// radio-to-host poll.
func (h *Host) ReceivedPollingMessage() bool {
	return h.Dispatcher.ReceivedPollingMessage()
}

// ProvisionRadio puts the radio into provisioning mode.
//
// Deprecated: see LinkDriver.ProvisionRadio.
func (h *Host) ProvisionRadio() {
	h.driver.ProvisionRadio()
}
