package isa100_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldlink/isa100gw/crc16"
	"github.com/fieldlink/isa100gw/frame"
	"github.com/fieldlink/isa100gw/isa100"
)

// fakeDriver is an in-memory LinkDriver for exercising Host without real
// hardware: rxQueue holds bytes "clocked in" by a simulated peer, and
// ExchangeByte records every byte "clocked out".
type fakeDriver struct {
	rxQueue []byte
	txLog   []byte

	wakeups int
}

func (f *fakeDriver) InitIO()        {}
func (f *fakeDriver) Enable()        {}
func (f *fakeDriver) ResetRadio()    {}
func (f *fakeDriver) WakeupRadio()   { f.wakeups++ }
func (f *fakeDriver) ProvisionRadio() {}

func (f *fakeDriver) ExchangeByte(tx byte) byte {
	f.txLog = append(f.txLog, tx)
	if len(f.rxQueue) == 0 {
		return 0x00
	}
	b := f.rxQueue[0]
	f.rxQueue = f.rxQueue[1:]
	return b
}

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

func TestHostPollThenQueryEchoesMessageID(t *testing.T) {
	driver := &fakeDriver{rxQueue: encodeFrame(0x48, 0x09, 0x07, []byte{0x00})}
	host := isa100.New(driver)
	host.Begin(false)

	for len(driver.rxQueue) > 0 {
		host.ExchangeByte()
	}

	require.True(t, host.HasNewMessage())
	require.True(t, host.Protocol.CRCValid)
	host.HandleMessage()
	require.True(t, host.ReceivedPollingMessage())

	host.Dispatcher.GetHardwarePlatform()
	sentFrom := len(driver.txLog)
	for host.Transport.HasMessageToSend() {
		host.ExchangeByte()
	}
	require.Equal(t, byte(0x07), driver.txLog[sentFrom+3]) // STX, header, type, messageID
}

func TestHostCRCFailureDoesNotDispatch(t *testing.T) {
	wire := encodeFrame(0x18, 1, 0x02, []byte{16, 0, 0, 0, 1})
	wire[len(wire)-1] ^= 0xFF

	driver := &fakeDriver{rxQueue: wire}
	host := isa100.New(driver)
	host.Begin(false)

	for len(driver.rxQueue) > 0 {
		host.ExchangeByte()
	}

	require.True(t, host.HasNewMessage())
	require.False(t, host.Protocol.CRCValid)
	host.HandleMessage() // must be a no-op
	require.False(t, host.Store.Digitals[0])
}

func TestHostWakeupPulsesOnSend(t *testing.T) {
	driver := &fakeDriver{}
	host := isa100.New(driver)
	host.Begin(true)

	host.Dispatcher.GetHardwarePlatform()
	require.Equal(t, 1, driver.wakeups)
}

func TestHostNoWakeupWhenDisabled(t *testing.T) {
	driver := &fakeDriver{}
	host := isa100.New(driver)
	host.Begin(false)

	host.Dispatcher.GetHardwarePlatform()
	require.Equal(t, 0, driver.wakeups)
}
