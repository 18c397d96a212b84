package rdb

// ZLByteLimit bounds the pre-compression byte size of each ziplist a
// quicklist is split into on dump (§4.4.1).
const ZLByteLimit = 8 * 1024

// MaxQuicklistElements is the hard ceiling on total elements a quicklist
// dump will accept; lifting it is a documented future extension (§9), not
// implemented here.
const MaxQuicklistElements = 1<<16 - 1

// BuildQuicklistBody packs a list's elements into one or more ziplists so
// that no ziplist's pre-compression byte size exceeds ZLByteLimit, then
// emits len-encoded(zlCount) followed by each ziplist as a length-encoded
// string. The length prefix's width depends on the final ziplist count,
// which is not known until packing completes; rather than the 9-byte
// reservation trick described in §4.4.1, this builds the ziplist blobs
// into a side buffer first and prepends the length header once known —
// the spec treats both as conformant. A single element whose own entry
// does not fit under ZLByteLimit is placed alone in a ziplist, which is then
// larger than the limit.
func BuildQuicklistBody(elements [][]byte) ([]byte, error) {
	if len(elements) == 0 {
		return nil, ErrEmptyAggregate
	}
	if len(elements) > MaxQuicklistElements {
		return nil, ErrTooManyElements
	}

	// zlbytes + zltail + zllen + zlend
	const ziplistOverhead = 4 + 4 + 2 + 1
	var ziplists [][]byte
	var current [][]byte
	currentSize := ziplistOverhead
	prevLen := 0
	flush := func() {
		if len(current) == 0 {
			return
		}
		ziplists = append(ziplists, BuildZiplist(current))
		current = nil
		currentSize = ziplistOverhead
		prevLen = 0
	}
	for _, elem := range elements {
		entryLen := len(encodeZiplistEntry(prevLen, elem))
		if len(current) > 0 && currentSize+entryLen > ZLByteLimit {
			flush()
			entryLen = len(encodeZiplistEntry(prevLen, elem))
		}
		current = append(current, elem)
		currentSize += entryLen
		prevLen = entryLen
	}
	flush()

	c := NewWriteCursor()
	PutLength(c, uint64(len(ziplists)))
	for _, zl := range ziplists {
		PutString(c, zl)
	}
	return c.Bytes(), nil
}

// ParseQuicklistBody reads zlCount ziplist-encoded strings from the
// cursor and returns the logical list's elements, in order.
func ParseQuicklistBody(c *Cursor) ([][]byte, error) {
	zlCount, encoded, err := GetLength(c)
	if err != nil {
		return nil, err
	}
	if encoded {
		return nil, ErrUnknownLengthEncoding
	}

	var elements [][]byte
	for i := uint64(0); i < zlCount; i++ {
		blob, err := GetString(c)
		if err != nil {
			return nil, err
		}
		zlElements, err := ParseZiplist(blob)
		if err != nil {
			return nil, err
		}
		elements = append(elements, zlElements...)
	}
	return elements, nil
}
