package rdb

import (
	"github.com/cupcake/rdb/crc64"
)

// TypeTag identifies the logical type a payload's body encodes.
type TypeTag byte

const (
	TypeString    TypeTag = 0x00
	TypeSet       TypeTag = 0x02
	TypeHash      TypeTag = 0x04
	TypeZSet      TypeTag = 0x03
	TypeQuicklist TypeTag = 0x12
)

// RDBVersion is the version embedded in every payload's trailer.
const RDBVersion uint16 = 11

// MaxSupportedRDBVersion is the highest embedded version this
// implementation will restore; anything newer is rejected per §4.6.
const MaxSupportedRDBVersion uint16 = 11

// EncodeEnvelope wraps a body with its type tag and trailer:
// [optional versionHint] TypeTag Body RDBVersion(2B LE) CRC64(8B LE).
// versionHint is included only for DUMPX payloads, so peers learn the
// source's version epoch; pass 0 with includeHint=false to omit it.
func EncodeEnvelope(tag TypeTag, body []byte, versionHint uint64, includeHint bool) []byte {
	c := NewWriteCursor()
	if includeHint {
		PutLength(c, versionHint)
	}
	begin := c.Pos()
	c.PutUint8(byte(tag))
	c.PutBytes(body)
	c.PutUint16LE(RDBVersion)

	payload := c.Bytes()
	crc := crc64.Digest(payload[begin:])
	c.PutUint64LE(crc)
	return c.Bytes()
}

// DecodeEnvelope validates a payload per §4.6 and returns the type tag and
// body bytes (everything between the tag and the two-byte version).
// includeHint must mirror the includeHint EncodeEnvelope was called with:
// a DUMPX payload's leading version hint is skipped before the tag is
// read and excluded from both the checksum and the body, keeping the
// CRC window identical on both sides of the wire.
func DecodeEnvelope(payload []byte, includeHint bool) (TypeTag, []byte, error) {
	if len(payload) < 10 {
		return 0, nil, ErrParsePkt("payload too short")
	}
	trailerStart := len(payload) - 8
	version := uint16(payload[trailerStart-2]) | uint16(payload[trailerStart-1])<<8
	if version > MaxSupportedRDBVersion {
		return 0, nil, ErrChecksumOrVersionInvalid
	}

	begin := 0
	if includeHint {
		c := NewCursor(payload)
		if _, _, err := GetLength(c); err != nil {
			return 0, nil, err
		}
		begin = c.Pos()
	}
	if begin >= trailerStart-2 {
		return 0, nil, ErrParsePkt("payload too short")
	}

	expected := crc64.Digest(payload[begin:trailerStart])
	actual := uint64(0)
	for i := 7; i >= 0; i-- {
		actual = actual<<8 | uint64(payload[trailerStart+i])
	}
	if expected != actual {
		return 0, nil, ErrChecksumOrVersionInvalid
	}

	tag := TypeTag(payload[begin])
	body := payload[begin+1 : trailerStart-2]
	return tag, body, nil
}
