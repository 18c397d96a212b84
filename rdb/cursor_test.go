package rdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_TypedRoundTrip(t *testing.T) {
	c := NewWriteCursor()
	c.PutUint8(0xAB)
	c.PutUint16LE(0x1234)
	c.PutUint32LE(0x11223344)
	c.PutUint32BE(0x11223344)
	c.PutUint64LE(0x1122334455667788)
	c.PutUint64BE(0x1122334455667788)

	rc := NewCursor(c.Bytes())
	u8, err := rc.GetUint8()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := rc.GetUint16LE()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32le, err := rc.GetUint32LE()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x11223344), u32le)

	u32be, err := rc.GetUint32BE()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x11223344), u32be)

	u64le, err := rc.GetUint64LE()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455667788), u64le)

	u64be, err := rc.GetUint64BE()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455667788), u64be)
}

func TestCursor_OutOfBounds(t *testing.T) {
	rc := NewCursor([]byte{0x01})
	_, err := rc.GetUint32LE()
	assert.ErrorIs(t, err, ErrOutOfBounds)
}
