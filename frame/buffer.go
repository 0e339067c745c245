// Package frame implements the Simple API wire framing: the fixed-capacity
// RX/TX buffer pair and the STX/CHX byte-stuffing codec described in
// spec.md §3 and §4.2.
package frame

// STX is the start-of-frame byte. It is never escaped when it leads a frame.
const STX byte = 0xF1

// CHX is the escape byte.
const CHX byte = 0xF2

// Escaped tail bytes: CHX is always followed by one of these two.
const (
	escSTX byte = 0x0E
	escCHX byte = 0x0D
)

// Capacity matches the radio's own buffer size (spec.md §3, §6).
const Capacity = 114

// Buffer is a fixed-capacity byte array with a count, a read cursor and an
// escape-pending flag, used for both the RX and TX sides of the transport.
//
// Invariants: ByteCount <= Capacity; Cursor <= ByteCount; Escape is true
// only between seeing a CHX and the byte that follows it.
type Buffer struct {
	Bytes     [Capacity]byte
	ByteCount int
	Cursor    int
	Escape    bool
}

// Reset clears the buffer back to its zero state.
func (b *Buffer) Reset() {
	b.ByteCount = 0
	b.Cursor = 0
	b.Escape = false
}

// Full reports whether the buffer has no room for another byte.
func (b *Buffer) Full() bool {
	return b.ByteCount >= Capacity
}

// Append writes a single raw byte (no escaping) and advances ByteCount. The
// caller must have checked Full() first; Append silently drops the byte if
// the buffer is already full, matching the original's unchecked array write
// on hardware where overflow cannot physically happen once the caller
// resets the buffer on Full() (see Decode).
func (b *Buffer) Append(v byte) {
	if b.ByteCount >= Capacity {
		return
	}
	b.Bytes[b.ByteCount] = v
	b.ByteCount++
}
