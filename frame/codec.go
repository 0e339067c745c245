package frame

// EncodeByte appends the on-wire representation of a single logical byte to
// the transmit buffer: STX and CHX are escaped, everything else passes
// through unchanged. The leading STX of a frame must be appended raw with
// Buffer.Append instead of going through EncodeByte (spec.md §4.2).
func EncodeByte(b *Buffer, v byte) {
	switch v {
	case STX:
		b.Append(CHX)
		b.Append(escSTX)
	case CHX:
		b.Append(CHX)
		b.Append(escCHX)
	default:
		b.Append(v)
	}
}

// Decode feeds one byte received from the link into the receive buffer,
// handling escape sequences and frame (re)synchronization as described in
// spec.md §4.2:
//
//   - CHX sets the escape-pending flag and consumes no buffer slot.
//   - STX, or a full buffer, resets the buffer first (aborting any
//     in-progress frame) and the byte that triggered the reset is then
//     deposited as the first byte of the new frame.
//   - Otherwise, if escape is pending, the byte is unescaped (0x0E -> STX,
//     0x0D -> CHX, anything else passes through unchanged — the tolerant
//     fallback documented as an open question in spec.md §9.3) before being
//     appended.
func Decode(b *Buffer, rxb byte) {
	if rxb == CHX {
		b.Escape = true
		return
	}

	if rxb == STX || b.Full() {
		b.Reset()
	}

	if b.Escape {
		b.Escape = false
		switch rxb {
		case escSTX:
			rxb = STX
		case escCHX:
			rxb = CHX
		}
	}

	b.Append(rxb)
}
