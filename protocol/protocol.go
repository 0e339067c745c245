// Package protocol composes outgoing Simple API messages, drives the
// transport to send and receive them, and keeps the message-ID echo
// invariant described in spec.md §4.4: every outbound frame inherits the
// messageID of the most recently parsed inbound frame.
package protocol

import "github.com/fieldlink/isa100gw/transport"

// Protocol sits between the transport's raw byte framing and the
// dispatcher, tracking the last inbound message and its CRC validity.
type Protocol struct {
	Transport *transport.Transport

	// Wakeup is called after every Send, if non-nil. The owning Host wires
	// this to the link driver's wakeup pulse, gated on whether hardware
	// wakeup support is enabled (spec.md §4.3).
	Wakeup func()

	lastMessageID byte
	LastMessage   transport.Message
	CRCValid      bool
}

// New wraps a Transport in a Protocol, ready for use once the Transport has
// been Begin/Reset by the owning Host.
func New(t *transport.Transport) *Protocol {
	return &Protocol{Transport: t}
}

// Send assembles header/messageType/payload into a frame using the last
// received messageID (or 0 before any frame has ever been received),
// hands it to the transport, and pulses the radio's wakeup line if
// hardware wakeup is enabled.
func (p *Protocol) Send(header, messageType byte, payload []byte) {
	p.Transport.SendMessage(header, messageType, p.lastMessageID, byte(len(payload)), payload)
	if p.Wakeup != nil {
		p.Wakeup()
	}
}

// HasNewMessage peeks the transport's flag and, if set, triggers
// ParseMessage and records the CRC-valid outcome (spec.md §4.4).
func (p *Protocol) HasNewMessage() bool {
	if !p.Transport.HasNewMessage() {
		return false
	}

	msg, valid := p.Transport.ParseMessage()
	p.CRCValid = valid
	if valid {
		p.LastMessage = msg
		p.lastMessageID = msg.MessageID
	}
	return true
}

// MessageClass returns the high nibble of the last parsed message's header
// (spec.md §4.5).
func (p *Protocol) MessageClass() byte {
	return p.LastMessage.Header >> 4
}
