package rdb

import (
	"strconv"

	"github.com/hdt3213/godis/lib/logger"
)

// PutString encodes a byte string as a length-encoded header followed by
// its raw bytes. The encoder never emits integer compaction or LZF
// compression — those are decode-only conveniences for interop with
// payloads produced by upstream Redis (§4.3).
func PutString(c *Cursor, s []byte) int {
	written := PutLength(c, uint64(len(s)))
	return written + c.PutBytes(s)
}

// GetString decodes a string at the cursor, dispatching on the encoded
// sub-tag (integer or LZF) when the length header signals one.
func GetString(c *Cursor) ([]byte, error) {
	length, encoded, err := GetLength(c)
	if err != nil {
		return nil, err
	}
	if !encoded {
		return c.GetBytes(int(length))
	}
	switch length {
	case EncInt8:
		v, err := c.GetUint8()
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatInt(int64(int8(v)), 10)), nil
	case EncInt16:
		v, err := c.GetUint16LE()
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatInt(int64(int16(v)), 10)), nil
	case EncInt32:
		v, err := c.GetUint32LE()
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatInt(int64(int32(v)), 10)), nil
	case EncLZF:
		compressedLen, _, err := GetLength(c)
		if err != nil {
			return nil, err
		}
		uncompressedLen, _, err := GetLength(c)
		if err != nil {
			return nil, err
		}
		compressed, err := c.GetBytes(int(compressedLen))
		if err != nil {
			return nil, err
		}
		out, err := lzfDecompress(compressed, int(uncompressedLen))
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return nil, ErrParsePkt("LZF decompression produced no bytes")
		}
		return out, nil
	default:
		// Unknown encoding: logged here, treated as empty per §4.3.
		logger.Warn("rdb: unknown string encoding sub-tag " + strconv.FormatUint(uint64(length), 10))
		return nil, nil
	}
}
