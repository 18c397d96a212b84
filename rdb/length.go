package rdb

// Length sub-tags carried in the low 6 bits of the first byte when the
// top two bits are 11 (the "encoded" form). These select the string
// codec's integer-compaction or LZF-compressed decode path.
const (
	EncInt8  = 0
	EncInt16 = 1
	EncInt32 = 2
	EncLZF   = 3
)

const (
	len6Bit  = 0x00
	len14Bit = 0x40
	lenEnc   = 0xC0
	len32Tag = 0x80
	len64Tag = 0x81
)

// PutLength encodes n per §4.2's table: 6-bit, 14-bit, 32-bit, or 64-bit
// header, choosing the narrowest form that fits.
func PutLength(c *Cursor, n uint64) int {
	switch {
	case n < 1<<6:
		return c.PutUint8(uint8(n))
	case n < 1<<14:
		written := c.PutUint8(len14Bit | uint8(n>>8))
		return written + c.PutUint8(uint8(n))
	case n <= 1<<32-1:
		written := c.PutUint8(len32Tag)
		return written + c.PutUint32BE(uint32(n))
	default:
		written := c.PutUint8(len64Tag)
		return written + c.PutUint64BE(n)
	}
}

// GetLength decodes a length header, returning (value, encoded) where
// encoded is set when the top two bits were 11 — in which case value is
// an encoding sub-tag (EncInt8/EncInt16/EncInt32/EncLZF), not a length.
func GetLength(c *Cursor) (value uint64, encoded bool, err error) {
	first, err := c.GetUint8()
	if err != nil {
		return 0, false, err
	}
	switch first & 0xC0 {
	case len6Bit:
		return uint64(first & 0x3F), false, nil
	case len14Bit:
		second, err := c.GetUint8()
		if err != nil {
			return 0, false, err
		}
		return uint64(first&0x3F)<<8 | uint64(second), false, nil
	case lenEnc:
		return uint64(first & 0x3F), true, nil
	default: // 0x80 tag space
		if first == len32Tag {
			v, err := c.GetUint32BE()
			return uint64(v), false, err
		}
		v, err := c.GetUint64BE()
		return v, false, err
	}
}
