package uap

import "github.com/fieldlink/isa100gw/protocol"

// Message classes (high nibble of the header byte, spec.md §4.5).
const (
	ClassDataPassThrough byte = 0x1
	ClassAPICommand      byte = 0x4
	ClassACK             byte = 0x5
	ClassNACK            byte = 0x6
)

// Header byte values: class in the high nibble, request/response in bit 3.
const (
	headerDataPassThroughRequest  byte = 0x10
	headerDataPassThroughResponse byte = 0x18
	headerAPICommandRequest       byte = 0x40
	headerACKResponse             byte = 0x58
)

// Data pass-through message types.
const (
	WriteDataRequest  byte = 1
	ReadDataRequest   byte = 2
	ReadDataResponse  byte = 3
	ACKDataReceived   byte = 1
)

// API command message types (spec.md §4.5).
const (
	APIHWPlatform         byte = 1
	APIFWVersion          byte = 2
	APIMaxBuffer          byte = 3
	APIMaxSPISpeed        byte = 4
	APIUpdateSPISpeed     byte = 5
	APIUpdatePollingFreq  byte = 8
	APIPolling            byte = 9
	APIFWActivationReq    byte = 10
)

const writeRecordSize = 5

// Dispatcher classifies inbound messages by class and type, updates the
// Store on write requests, answers read requests, and updates Properties
// from API command responses (spec.md §4.5).
type Dispatcher struct {
	Protocol   *protocol.Protocol
	Store      *Store
	Properties *Properties
}

// New builds a Dispatcher bound to the given protocol, store and
// properties cache.
func New(p *protocol.Protocol, store *Store, props *Properties) *Dispatcher {
	return &Dispatcher{Protocol: p, Store: store, Properties: props}
}

// HandleMessage dispatches the protocol's last parsed message by class and
// type. Unknown classes and types are silently ignored (spec.md §7): the
// radio's protocol is forward-compatible.
func (d *Dispatcher) HandleMessage() {
	msg := d.Protocol.LastMessage

	switch d.Protocol.MessageClass() {
	case ClassDataPassThrough:
		switch msg.MessageType {
		case WriteDataRequest:
			d.writeDataRequest(msg.Payload)
		case ReadDataRequest:
			d.readDataRequest(msg.Payload)
		}
	case ClassAPICommand:
		d.handleAPICommand(msg.MessageType, msg.Payload)
	case ClassACK, ClassNACK:
		// Parsed and classified; no further side effects in this core.
	}
}

func (d *Dispatcher) writeDataRequest(payload []byte) {
	for i := 0; i+writeRecordSize <= len(payload); i += writeRecordSize {
		d.Store.writeRecord(payload[i : i+writeRecordSize])
	}
	d.Protocol.Send(headerACKResponse, ACKDataReceived, nil)
}

func (d *Dispatcher) readDataRequest(payload []byte) {
	buf := make([]byte, 0, len(payload)*writeRecordSize)
	for _, id := range payload {
		buf = d.Store.readRecord(buf, id)
	}
	d.Protocol.Send(headerDataPassThroughResponse, ReadDataResponse, buf)
}

func (d *Dispatcher) handleAPICommand(messageType byte, payload []byte) {
	switch messageType {
	case APIHWPlatform:
		if len(payload) > 1 {
			d.Properties.HWPlatform = payload[1]
		}
	case APIFWVersion:
		if len(payload) > 1 {
			d.Properties.FirmwareVersion = uint16(payload[0])<<8 | uint16(payload[1])
		}
	case APIMaxBuffer:
		if len(payload) > 1 {
			d.Properties.MaxBufferSize = uint16(payload[0])<<8 | uint16(payload[1])
		}
	case APIMaxSPISpeed:
		if len(payload) > 0 {
			d.Properties.MaxSPISpeed = payload[0]
		}
	case APIUpdateSPISpeed, APIUpdatePollingFreq:
		// Sent only; no response handling.
	case APIPolling:
		// Radio-to-host poll; nothing to do beyond the messageID echo that
		// Protocol.HasNewMessage already captured.
	case APIFWActivationReq:
		// Currently ignored.
	}
}

// ReceivedPollingMessage reports whether the last received frame was a
// radio-to-host poll (class API command, type POLLING) — the signal that
// the radio wants a host response turnaround (spec.md §4.5, Glossary).
func (d *Dispatcher) ReceivedPollingMessage() bool {
	msg := d.Protocol.LastMessage
	return d.Protocol.MessageClass() == ClassAPICommand && msg.MessageType == APIPolling
}
