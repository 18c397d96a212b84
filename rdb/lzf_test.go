package rdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLZF_LiteralRun(t *testing.T) {
	in := []byte{4, 'h', 'e', 'l', 'l', 'o'} // ctrl=4 -> 5 literal bytes follow
	out, err := lzfDecompress(in, 5)
	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), out)
}

func TestLZF_BackReference(t *testing.T) {
	// one literal 'a', then a back-reference repeating it 4 more times
	in := []byte{0x00, 'a', 0x40, 0x00}
	out, err := lzfDecompress(in, 5)
	assert.NoError(t, err)
	assert.Equal(t, []byte("aaaaa"), out)
}

func TestLZF_RejectsBackReferenceBeforeAnyOutput(t *testing.T) {
	in := []byte{0x40, 0x00} // back-reference as the very first token: ref would be negative
	_, err := lzfDecompress(in, 4)
	assert.ErrorIs(t, err, ErrLZF)
}

func TestLZF_RejectsTruncatedLiteralRun(t *testing.T) {
	in := []byte{4, 'h', 'e'} // claims 5 literal bytes, only 2 present
	_, err := lzfDecompress(in, 5)
	assert.ErrorIs(t, err, ErrLZF)
}

func TestLZF_RejectsLengthMismatch(t *testing.T) {
	in := []byte{1, 'h', 'i'} // decompresses to exactly 2 bytes
	_, err := lzfDecompress(in, 5)
	assert.ErrorIs(t, err, ErrLZF)
}
