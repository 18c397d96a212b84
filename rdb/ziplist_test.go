package rdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZiplist_RoundTrip(t *testing.T) {
	elements := [][]byte{
		[]byte("a"),
		[]byte("hello world"),
		make([]byte, 100),
		[]byte(""),
	}
	blob := BuildZiplist(elements)
	got, err := ParseZiplist(blob)
	assert.NoError(t, err)
	assert.Equal(t, elements, got)
}

func TestZiplist_LargePrevLen(t *testing.T) {
	// An element >= 254 bytes forces the next entry's prevlen field into
	// its 5-byte extended form.
	elements := [][]byte{
		make([]byte, 300),
		[]byte("after-big-prevlen"),
	}
	blob := BuildZiplist(elements)
	got, err := ParseZiplist(blob)
	assert.NoError(t, err)
	assert.Equal(t, elements, got)
}

func TestZiplist_DecodesIntegerEntries(t *testing.T) {
	// Real Redis ziplists may use integer-compacted entries the local
	// encoder never emits; the decoder must still accept every form.
	body := []byte{
		0x00, zipInt8B, 0xFB, // prevlen=0, int8 entry, value=-5
		0x03, zipInt16B, 0xE8, 0x03, // prevlen=3, int16 entry, value=1000 LE
	}
	blob := make([]byte, 0)
	blob = append(blob, leU32(uint32(4+4+2+len(body)+1))...)
	blob = append(blob, leU32(0)...)
	blob = append(blob, leU16(2)...)
	blob = append(blob, body...)
	blob = append(blob, zlEnd)

	got, err := ParseZiplist(blob)
	assert.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("-5"), []byte("1000")}, got)
}

func TestZiplist_DecodesImmediateEntries(t *testing.T) {
	// Immediate encodings (0xF1..0xFD) pack small integers 0..12 directly
	// into the header byte with no payload bytes at all.
	body := []byte{0x00, 0xF2} // prevlen=0, immediate value 1 (0xF2&0x0F - 1 = 1)
	blob := make([]byte, 0)
	blob = append(blob, leU32(uint32(4+4+2+len(body)+1))...)
	blob = append(blob, leU32(0)...)
	blob = append(blob, leU16(1)...)
	blob = append(blob, body...)
	blob = append(blob, zlEnd)

	got, err := ParseZiplist(blob)
	assert.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("1")}, got)
}

func TestZiplist_RejectsTruncatedBuffer(t *testing.T) {
	_, err := ParseZiplist([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestZiplist_RejectsHeaderOnlyBuffer(t *testing.T) {
	blob := []byte{0, 0, 0, 11, 0, 0, 0, 0, 0, 0} // 10-byte header, shorter than the 11-byte minimum
	_, err := ParseZiplist(blob)
	assert.Error(t, err)
}
