// Package uap implements the local attribute store, the radio properties
// cache, and the dispatcher that routes inbound Simple API messages by
// class and type (spec.md §3, §4.5).
package uap

// Attribute ID ranges (spec.md §3).
const (
	AnalogCount  = 4
	DigitalCount = 4

	firstAnalogID  = 1
	lastAnalogID   = 4
	firstDigitalID = 16
	lastDigitalID  = 19
)

// Analog is a 32-bit "analog" register, addressable byte-wise in the
// on-wire order used by WriteDataRequest/ReadDataRequest: wire byte 0 is
// stored at Bytes[3], wire byte 3 at Bytes[0] (spec.md §4.5). Interpreting
// Bytes as a little-endian float32 recovers the sampled value.
type Analog struct {
	Bytes [4]byte
}

// Store is the local attribute store: four analogs (IDs 1-4) and four
// digitals (IDs 16-19), zero-initialized at startup and otherwise written
// only by WriteDataRequest handling or directly by the application.
type Store struct {
	Analogs  [AnalogCount]Analog
	Digitals [DigitalCount]bool
}

// Properties is the radio properties cache: written only by the dispatcher
// when the matching API command response arrives (spec.md §3).
type Properties struct {
	CRCValid      bool
	HWPlatform    byte
	MaxBufferSize uint16
	MaxSPISpeed   byte
	FirmwareVersion uint16
}

func isAnalogID(id byte) bool {
	return id >= firstAnalogID && id <= lastAnalogID
}

func isDigitalID(id byte) bool {
	return id >= firstDigitalID && id <= lastDigitalID
}

// writeRecord stores one 5-byte write-data record: [attributeID, b3, b2,
// b1, b0]. For analogs the four value bytes are stored in reverse order
// (wire's first data byte becomes Bytes[3]); for digitals only the LSB
// (record[4]) is kept.
func (s *Store) writeRecord(record []byte) {
	id := record[0]
	switch {
	case isAnalogID(id):
		a := &s.Analogs[id-firstAnalogID]
		for j := 0; j < 4; j++ {
			a.Bytes[3-j] = record[1+j]
		}
	case isDigitalID(id):
		s.Digitals[id-firstDigitalID] = record[4] != 0
	}
}

// readRecord appends the 5-byte response record for attributeID to buf,
// mirroring the byte order used by writeRecord, and returns the extended
// slice.
func (s *Store) readRecord(buf []byte, id byte) []byte {
	buf = append(buf, id)
	switch {
	case isAnalogID(id):
		a := s.Analogs[id-firstAnalogID]
		for j := 3; j >= 0; j-- {
			buf = append(buf, a.Bytes[j])
		}
	case isDigitalID(id):
		buf = append(buf, 0, 0, 0)
		if s.Digitals[id-firstDigitalID] {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return buf
}
