package rdb

import "errors"

// ErrLZF is returned when LZF decompression cannot be completed cleanly,
// e.g. when it produces fewer bytes than the declared uncompressed size.
var ErrLZF = errors.New("rdb: invalid LZF compressed string")

// lzfDecompress implements the LZF decompression algorithm used by Redis
// for compressed string encodings: a stream of control bytes each
// introducing either a literal run (ctrl < 32, ctrl+1 literal bytes
// follow) or a back-reference run (ctrl >= 32, encoding a length and a
// negative offset into the output already produced).
func lzfDecompress(in []byte, outLen int) ([]byte, error) {
	out := make([]byte, outLen)
	i, o := 0, 0
	for i < len(in) {
		ctrl := int(in[i])
		i++
		if ctrl < 32 {
			run := ctrl + 1
			if i+run > len(in) || o+run > outLen {
				return nil, ErrLZF
			}
			copy(out[o:o+run], in[i:i+run])
			i += run
			o += run
			continue
		}
		length := ctrl >> 5
		if length == 7 {
			if i >= len(in) {
				return nil, ErrLZF
			}
			length += int(in[i])
			i++
		}
		if i >= len(in) {
			return nil, ErrLZF
		}
		ref := o - (ctrl&0x1F)<<8 - int(in[i]) - 1
		i++
		if ref < 0 {
			return nil, ErrLZF
		}
		for x := 0; x <= length+1; x++ {
			if o >= outLen || ref >= len(out) {
				return nil, ErrLZF
			}
			out[o] = out[ref]
			ref++
			o++
		}
	}
	if o != outLen {
		return nil, ErrLZF
	}
	return out, nil
}
