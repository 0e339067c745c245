package frame_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldlink/isa100gw/frame"
)

func TestEncodeByteEscapesReservedBytes(t *testing.T) {
	var buf frame.Buffer
	frame.EncodeByte(&buf, frame.STX)
	frame.EncodeByte(&buf, frame.CHX)
	frame.EncodeByte(&buf, 0x42)

	require.Equal(t, []byte{frame.CHX, 0x0E, frame.CHX, 0x0D, 0x42}, buf.Bytes[:buf.ByteCount])
}

func TestDecodeUnescapesReservedBytes(t *testing.T) {
	var buf frame.Buffer
	for _, b := range []byte{frame.CHX, 0x0E, frame.CHX, 0x0D, 0x42} {
		frame.Decode(&buf, b)
	}
	require.Equal(t, []byte{frame.STX, frame.CHX, 0x42}, buf.Bytes[:buf.ByteCount])
}

func TestDecodeToleratesUnknownEscapeTail(t *testing.T) {
	var buf frame.Buffer
	frame.Decode(&buf, frame.CHX)
	frame.Decode(&buf, 0x55) // neither 0x0E nor 0x0D: passed through unchanged

	require.Equal(t, []byte{0x55}, buf.Bytes[:buf.ByteCount])
	require.False(t, buf.Escape)
}

func TestDecodeSTXResetsBuffer(t *testing.T) {
	var buf frame.Buffer
	frame.Decode(&buf, 0x01)
	frame.Decode(&buf, 0x02)
	frame.Decode(&buf, frame.STX)

	require.Equal(t, []byte{frame.STX}, buf.Bytes[:buf.ByteCount])
}

func TestDecodeFullBufferResets(t *testing.T) {
	var buf frame.Buffer
	for i := 0; i < frame.Capacity; i++ {
		frame.Decode(&buf, 0x11)
	}
	require.True(t, buf.Full())

	frame.Decode(&buf, 0x22)
	require.Equal(t, []byte{0x22}, buf.Bytes[:buf.ByteCount])
}

func TestLeadingSTXIsAppendedRawNotEscaped(t *testing.T) {
	var buf frame.Buffer
	buf.Append(frame.STX)
	require.Equal(t, 1, buf.ByteCount)
	require.Equal(t, frame.STX, buf.Bytes[0])
}
