// Package transport drives the receive and transmit frame buffers and the
// byte pump that couples them to the link driver, per spec.md §4.3.
package transport

import (
	"sync/atomic"

	"github.com/fieldlink/isa100gw/crc16"
	"github.com/fieldlink/isa100gw/frame"
)

// minFrameSize is STX + header + type + id + dataSize + 2 CRC bytes — the
// smallest legal frame, excluding payload (spec.md §4.3).
const minFrameSize = 7

// dataSizeIndex is the position of the dataSize field within the raw
// receive buffer (spec.md §6).
const dataSizeIndex = 4

// Message is the decoded view of a parsed inbound frame. Payload borrows
// directly from the receive buffer and is only valid until the next call
// that could overwrite it (ParseMessage, or further bytes arriving on the
// RX side) — callers must consume it before then (spec.md §9, "Pointer-into-
// buffer payload view").
type Message struct {
	Header      byte
	MessageType byte
	MessageID   byte
	DataSize    byte
	Payload     []byte
	CRC         uint16
}

// Transport owns the RX/TX buffer pair and the "new message" flag shared
// between the link driver's interrupt context and the foreground API.
type Transport struct {
	rx frame.Buffer
	tx frame.Buffer

	newMessage atomic.Bool
}

// New returns a zero-initialized Transport, ready for Begin.
func New() *Transport {
	return &Transport{}
}

// Reset clears both buffers and the new-message flag. Called by Begin; also
// usable by an integrator that needs to force resynchronization.
func (t *Transport) Reset() {
	t.rx.Reset()
	t.tx.Reset()
	t.newMessage.Store(false)
}

// HasNewMessage reports whether a complete, length-consistent frame is
// waiting in the receive buffer.
func (t *Transport) HasNewMessage() bool {
	return t.newMessage.Load()
}

// HasMessageToSend reports whether a frame is still being clocked out of
// the transmit buffer. The caller must not call SendMessage while this is
// true (spec.md §5 — enforced by the caller, not by Transport).
func (t *Transport) HasMessageToSend() bool {
	return t.tx.ByteCount > 0
}

// SendMessage serializes header/type/id/size/payload into the transmit
// buffer: a raw leading STX, then each field escaped and CRC'd in order,
// then the CRC's high byte followed by the low byte (also escaped). The
// transmit buffer is cleared first, so at most one outgoing frame is ever
// pending (spec.md §4.3, Non-goals).
func (t *Transport) SendMessage(header, messageType, messageID, dataSize byte, payload []byte) {
	t.tx.Reset()
	t.tx.Append(frame.STX)

	crc := crc16.Seed
	emit := func(v byte) {
		crc = crc16.Update(crc, v)
		frame.EncodeByte(&t.tx, v)
	}

	emit(header)
	emit(messageType)
	emit(messageID)
	emit(dataSize)
	for _, b := range payload {
		emit(b)
	}

	frame.EncodeByte(&t.tx, byte(crc>>8))
	frame.EncodeByte(&t.tx, byte(crc))
}

// ExchangeByte pumps one byte in each direction, as driven by the link's
// peer clock (spec.md §4.3, §5). It hands tx the next queued transmit byte
// (or a zero filler once the transmit buffer is exhausted), and feeds the
// byte tx returns into the receive-side decoder. When the transmit cursor
// reaches the byte count after having advanced at all, the transmit buffer
// is cleared so subsequent idle clocks emit zeros instead of re-sending the
// frame.
func (t *Transport) ExchangeByte(tx func(out byte) (in byte)) {
	var out byte
	if t.tx.Cursor < t.tx.ByteCount {
		out = t.tx.Bytes[t.tx.Cursor]
		t.tx.Cursor++
	}

	in := tx(out)

	if t.tx.Cursor > 0 && t.tx.Cursor == t.tx.ByteCount {
		t.tx.Reset()
	}

	frame.Decode(&t.rx, in)

	if t.rx.ByteCount >= minFrameSize && t.rx.ByteCount == int(t.rx.Bytes[dataSizeIndex])+minFrameSize {
		t.newMessage.Store(true)
	}
}

// ParseMessage extracts the trailing CRC, recomputes it over header..last
// payload byte and compares. The receive buffer is cleared either way
// (spec.md §4.3); the returned Message's Payload is only valid until the
// buffer is next touched.
func (t *Transport) ParseMessage() (Message, bool) {
	n := t.rx.ByteCount

	high := t.rx.Bytes[n-2]
	low := t.rx.Bytes[n-1]
	receivedCRC := uint16(high)<<8 | uint16(low)

	crc := crc16.Seed
	for i := 1; i < n-2; i++ {
		crc = crc16.Update(crc, t.rx.Bytes[i])
	}

	valid := crc == receivedCRC

	var msg Message
	if valid {
		msg = Message{
			Header:      t.rx.Bytes[1],
			MessageType: t.rx.Bytes[2],
			MessageID:   t.rx.Bytes[3],
			DataSize:    t.rx.Bytes[4],
			Payload:     t.rx.Bytes[5 : 5+int(t.rx.Bytes[4])],
			CRC:         receivedCRC,
		}
	}

	t.newMessage.Store(false)
	t.rx.Reset()

	return msg, valid
}
