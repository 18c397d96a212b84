package rdb

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLength_RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 63, 64, 16383, 16384, 1<<32 - 1, 1 << 32, 1<<64 - 1}
	for _, n := range cases {
		c := NewWriteCursor()
		PutLength(c, n)
		rc := NewCursor(c.Bytes())
		value, encoded, err := GetLength(rc)
		assert.NoError(t, err)
		assert.False(t, encoded)
		assert.Equal(t, n, value)
	}
}

func TestLength_EncodedFlag(t *testing.T) {
	c := NewWriteCursor()
	c.PutUint8(0xC0) // top bits 11 (encoded), low 6 bits = EncInt8
	rc := NewCursor(c.Bytes())
	value, encoded, err := GetLength(rc)
	assert.NoError(t, err)
	assert.True(t, encoded)
	assert.Equal(t, uint64(EncInt8), value)
}

func TestString_RoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("hello world"),
		make([]byte, 1000),
	}
	for _, s := range cases {
		c := NewWriteCursor()
		PutString(c, s)
		rc := NewCursor(c.Bytes())
		got, err := GetString(rc)
		assert.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

// TestString_IntegerEncodings exercises GetString's decode-only integer
// compaction path (§4.3): PutString never emits it, but real Redis
// payloads do, so decode must handle it.
func TestString_IntegerEncodings(t *testing.T) {
	c := NewWriteCursor()
	c.PutUint8(0xC0 | EncInt8)
	i8 := int8(-5)
	c.PutUint8(uint8(i8))
	rc := NewCursor(c.Bytes())
	got, err := GetString(rc)
	assert.NoError(t, err)
	assert.Equal(t, []byte(strconv.Itoa(-5)), got)

	c = NewWriteCursor()
	c.PutUint8(0xC0 | EncInt16)
	i16 := int16(-1000)
	c.PutUint16LE(uint16(i16))
	rc = NewCursor(c.Bytes())
	got, err = GetString(rc)
	assert.NoError(t, err)
	assert.Equal(t, []byte(strconv.Itoa(-1000)), got)

	c = NewWriteCursor()
	c.PutUint8(0xC0 | EncInt32)
	i32 := int32(-70000)
	c.PutUint32LE(uint32(i32))
	rc = NewCursor(c.Bytes())
	got, err = GetString(rc)
	assert.NoError(t, err)
	assert.Equal(t, []byte(strconv.Itoa(-70000)), got)
}
