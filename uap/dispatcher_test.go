package uap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldlink/isa100gw/crc16"
	"github.com/fieldlink/isa100gw/frame"
	"github.com/fieldlink/isa100gw/protocol"
	"github.com/fieldlink/isa100gw/transport"
	"github.com/fieldlink/isa100gw/uap"
)

// encodeFrame mirrors transport_test.go's fixture builder: a well-formed
// wire frame with escaping and CRC applied.
func encodeFrame(header, msgType, id byte, payload []byte) []byte {
	var buf frame.Buffer
	buf.Append(frame.STX)

	crc := crc16.Seed
	emit := func(v byte) {
		crc = crc16.Update(crc, v)
		frame.EncodeByte(&buf, v)
	}
	emit(header)
	emit(msgType)
	emit(id)
	emit(byte(len(payload)))
	for _, b := range payload {
		emit(b)
	}
	frame.EncodeByte(&buf, byte(crc>>8))
	frame.EncodeByte(&buf, byte(crc))

	return buf.Bytes[:buf.ByteCount]
}

type harness struct {
	tr   *transport.Transport
	p    *protocol.Protocol
	d    *uap.Dispatcher
	st   *uap.Store
	info *uap.Properties
}

func newHarness() *harness {
	tr := transport.New()
	p := protocol.New(tr)
	st := &uap.Store{}
	info := &uap.Properties{}
	return &harness{tr: tr, p: p, d: uap.New(p, st, info), st: st, info: info}
}

func (h *harness) deliver(wire []byte) {
	for _, b := range wire {
		h.tr.ExchangeByte(func(byte) byte { return b })
	}
}

func (h *harness) receiveAndDispatch() {
	if h.p.HasNewMessage() && h.p.CRCValid {
		h.d.HandleMessage()
	}
}

// drainOutgoing reads out whatever is queued in the transmit buffer.
func (h *harness) drainOutgoing() []byte {
	var out []byte
	for h.tr.HasMessageToSend() {
		h.tr.ExchangeByte(func(b byte) byte {
			out = append(out, b)
			return 0x00
		})
	}
	return out
}

func TestS1PollSetsReceivedPollingAndEchoesID(t *testing.T) {
	h := newHarness()
	h.deliver(encodeFrame(0x48, uap.APIPolling, 0x07, []byte{0x00}))

	require.True(t, h.p.HasNewMessage())
	require.True(t, h.p.CRCValid)
	h.d.HandleMessage()

	require.True(t, h.d.ReceivedPollingMessage())

	h.d.GetHardwarePlatform()
	require.Equal(t, byte(0x07), h.drainOutgoing()[3]) // STX, header, type, messageID
}

func TestS2WriteDigitalSendsACK(t *testing.T) {
	h := newHarness()
	payload := []byte{16, 0x00, 0x00, 0x00, 0x01}
	h.deliver(encodeFrame(0x18, uap.WriteDataRequest, 0x02, payload))
	h.receiveAndDispatch()

	require.True(t, h.st.Digitals[0])

	ack := h.drainOutgoing()
	require.NotEmpty(t, ack)
	require.Equal(t, byte(frame.STX), ack[0])
}

func TestS3WriteAnalogStoresBytesReversed(t *testing.T) {
	h := newHarness()
	payload := []byte{0x01, 0x41, 0x20, 0x00, 0x00}
	h.deliver(encodeFrame(0x18, uap.WriteDataRequest, 0x02, payload))
	h.receiveAndDispatch()

	require.Equal(t, [4]byte{0x00, 0x00, 0x20, 0x41}, h.st.Analogs[0].Bytes)
}

func TestS4ReadAnalogAfterWrite(t *testing.T) {
	h := newHarness()
	h.deliver(encodeFrame(0x18, uap.WriteDataRequest, 0x02, []byte{0x01, 0x41, 0x20, 0x00, 0x00}))
	h.receiveAndDispatch()
	h.drainOutgoing() // discard the ACK

	h.deliver(encodeFrame(0x10, uap.ReadDataRequest, 0x03, []byte{0x01}))
	h.receiveAndDispatch()

	out := h.drainOutgoing()
	require.Equal(t, byte(frame.STX), out[0])
}

func TestAttributeWriteReadSymmetryForAllAnalogs(t *testing.T) {
	for id := byte(1); id <= 4; id++ {
		h := newHarness()
		value := []byte{id, 0xDE, 0xAD, 0xBE, 0xEF}
		h.deliver(encodeFrame(0x18, uap.WriteDataRequest, 0x01, value))
		h.receiveAndDispatch()
		h.drainOutgoing()

		require.Equal(t, [4]byte{0xEF, 0xBE, 0xAD, 0xDE}, h.st.Analogs[id-1].Bytes)

		h.deliver(encodeFrame(0x10, uap.ReadDataRequest, 0x02, []byte{id}))
		h.receiveAndDispatch()
		out := h.drainOutgoing()
		require.Equal(t, value, out[5:10]) // payload after STX, header, type, id, size
	}
}

func TestAPICommandResponsesUpdateProperties(t *testing.T) {
	h := newHarness()
	h.deliver(encodeFrame(0x48, uap.APIHWPlatform, 0x00, []byte{0x00, 0x05}))
	h.receiveAndDispatch()
	require.Equal(t, byte(0x05), h.info.HWPlatform)

	h2 := newHarness()
	h2.deliver(encodeFrame(0x48, uap.APIFWVersion, 0x00, []byte{0x02, 0x07}))
	h2.receiveAndDispatch()
	require.Equal(t, uint16(0x0207), h2.info.FirmwareVersion)
}
