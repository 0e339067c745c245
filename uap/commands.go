package uap

// Polling frequency codes (spec.md §6, supplemented from
// original_source/src/VN210SimpleAPI.h — codes 1-3 are unused on the wire).
type PollingFrequency byte

const (
	Poll500ms PollingFrequency = 4
	Poll1s    PollingFrequency = 5
	Poll60s   PollingFrequency = 6
)

// SPI speed codes (spec.md §6, supplemented from original_source).
type SPISpeed byte

const (
	SPI100KHz  SPISpeed = 4
	SPI200KHz  SPISpeed = 5
	SPI250KHz  SPISpeed = 6
	SPI500KHz  SPISpeed = 7
	SPI1MHz    SPISpeed = 8
	SPI2MHz    SPISpeed = 9
	SPIMaxSpeed = SPI2MHz
)

// query sends a one-byte, zero-value API command request — the shape
// shared by every pure "get" query (spec.md §4.4).
func (d *Dispatcher) query(messageType byte) {
	d.Protocol.Send(headerAPICommandRequest, messageType, []byte{0})
}

// GetHardwarePlatform requests the radio's hardware platform code.
func (d *Dispatcher) GetHardwarePlatform() {
	d.query(APIHWPlatform)
}

// GetFirmwareVersion requests the radio's firmware version.
func (d *Dispatcher) GetFirmwareVersion() {
	d.query(APIFWVersion)
}

// GetMaxBufferSize requests the radio's maximum receive buffer size.
func (d *Dispatcher) GetMaxBufferSize() {
	d.query(APIMaxBuffer)
}

// GetMaxSPISpeed requests the radio's maximum supported SPI bus speed.
func (d *Dispatcher) GetMaxSPISpeed() {
	d.query(APIMaxSPISpeed)
}

// UpdateSPISpeed asks the radio to switch the SPI bus to the given speed.
// The effect is transparent to the host; there is no response to handle.
func (d *Dispatcher) UpdateSPISpeed(speed SPISpeed) {
	d.Protocol.Send(headerAPICommandRequest, APIUpdateSPISpeed, []byte{byte(speed)})
}

// UpdatePollingFrequency asks the radio to change how often it polls the
// host. There is no response to handle.
func (d *Dispatcher) UpdatePollingFrequency(freq PollingFrequency) {
	d.Protocol.Send(headerAPICommandRequest, APIUpdatePollingFreq, []byte{byte(freq)})
}

// WriteAnalog pushes a host-to-radio write-data-request record for one
// analog attribute. value is encoded in the same byte-reversed order
// Store.writeRecord expects on the inbound side (spec.md §4.5).
func (d *Dispatcher) WriteAnalog(id byte, value uint32) {
	record := [writeRecordSize]byte{
		id,
		byte(value >> 24),
		byte(value >> 16),
		byte(value >> 8),
		byte(value),
	}
	d.Protocol.Send(headerDataPassThroughRequest, WriteDataRequest, record[:])
}

// WriteDigital pushes a host-to-radio write-data-request record for one
// digital attribute.
func (d *Dispatcher) WriteDigital(id byte, value bool) {
	var lsb byte
	if value {
		lsb = 1
	}
	record := [writeRecordSize]byte{id, 0, 0, 0, lsb}
	d.Protocol.Send(headerDataPassThroughRequest, WriteDataRequest, record[:])
}
