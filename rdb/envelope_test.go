package rdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	body := []byte("payload body bytes")
	payload := EncodeEnvelope(TypeString, body, 0, false)

	tag, got, err := DecodeEnvelope(payload, false)
	assert.NoError(t, err)
	assert.Equal(t, TypeString, tag)
	assert.Equal(t, body, got)
}

func TestEnvelope_RoundTrip_WithVersionHint(t *testing.T) {
	body := []byte("payload body bytes")
	payload := EncodeEnvelope(TypeHash, body, 77, true)

	tag, got, err := DecodeEnvelope(payload, true)
	assert.NoError(t, err)
	assert.Equal(t, TypeHash, tag)
	assert.Equal(t, body, got)
}

func TestEnvelope_RejectsTamperedPayload(t *testing.T) {
	payload := EncodeEnvelope(TypeHash, []byte("field-value-body"), 0, false)
	payload[3] ^= 0xFF // flip a body byte without touching the trailer

	_, _, err := DecodeEnvelope(payload, false)
	assert.ErrorIs(t, err, ErrChecksumOrVersionInvalid)
}

func TestEnvelope_RejectsTamperedHintedPayload(t *testing.T) {
	payload := EncodeEnvelope(TypeZSet, []byte("field-value-body"), 5, true)
	payload[len(payload)-11] ^= 0xFF // flip the last body byte before the trailer

	_, _, err := DecodeEnvelope(payload, true)
	assert.ErrorIs(t, err, ErrChecksumOrVersionInvalid)
}

func TestEnvelope_RejectsTooNewVersion(t *testing.T) {
	payload := EncodeEnvelope(TypeSet, []byte("x"), 0, false)
	trailerStart := len(payload) - 8
	payload[trailerStart-2] = 0xFF
	payload[trailerStart-1] = 0xFF // version = 65535, far past MaxSupportedRDBVersion

	_, _, err := DecodeEnvelope(payload, false)
	assert.ErrorIs(t, err, ErrChecksumOrVersionInvalid)
}

func TestEnvelope_RejectsShortPayload(t *testing.T) {
	_, _, err := DecodeEnvelope([]byte{0x00, 0x01}, false)
	assert.Error(t, err)
}
