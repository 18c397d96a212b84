package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_EncodeDecodeRoundTrip_NonList(t *testing.T) {
	md := metadata{dataType: Hash, expire: 1234567890, version: 42, size: 7}
	got := decodeMetadata(md.encode())

	assert.Equal(t, md.dataType, got.dataType)
	assert.Equal(t, md.expire, got.expire)
	assert.Equal(t, md.version, got.version)
	assert.Equal(t, md.size, got.size)
	assert.Equal(t, uint64(0), got.head)
	assert.Equal(t, uint64(0), got.tail)
}

func TestMetadata_EncodeDecodeRoundTrip_List(t *testing.T) {
	md := metadata{dataType: List, expire: 0, version: 1, size: 3, head: 100, tail: 103}
	got := decodeMetadata(md.encode())

	assert.Equal(t, md.dataType, got.dataType)
	assert.Equal(t, md.version, got.version)
	assert.Equal(t, md.size, got.size)
	assert.Equal(t, md.head, got.head)
	assert.Equal(t, md.tail, got.tail)
}

func TestMetadata_EncodeOmitsListFieldsForNonListTypes(t *testing.T) {
	md := metadata{dataType: String, expire: 0, version: 0, size: 1}
	// A String metadata record must not carry the extra head/tail varints
	// a List record needs, or prefix-scans over adjacent records would
	// misparse the boundary. dataType plus three one-byte varints; the List
	// form would add two more varints.
	assert.Equal(t, 4, len(md.encode()))
}

func TestRecordKey_EncodeIsPrefixStableAcrossSecondaryKeys(t *testing.T) {
	base := RecordKey{dbID: 0, recordType: RecordTypeHashField, version: 5, primaryKey: []byte("myhash")}
	prefix := base.encode()

	withField := RecordKey{dbID: 0, recordType: RecordTypeHashField, version: 5, primaryKey: []byte("myhash"), secondaryKey: []byte("field1")}
	got := withField.encode()

	assert.True(t, len(got) > len(prefix))
	assert.Equal(t, prefix, got[:len(prefix)])
}

func TestRecordKey_DiffersByDatabase(t *testing.T) {
	a := RecordKey{dbID: 0, recordType: RecordTypeSetMember, version: 1, primaryKey: []byte("k"), secondaryKey: []byte("m")}
	b := RecordKey{dbID: 1, recordType: RecordTypeSetMember, version: 1, primaryKey: []byte("k"), secondaryKey: []byte("m")}

	assert.NotEqual(t, a.encode(), b.encode())
}

func TestRecordKey_DiffersByVersionEvenWithSamePrimaryKey(t *testing.T) {
	a := RecordKey{dbID: 0, recordType: RecordTypeMeta, version: 1, primaryKey: []byte("k")}
	b := RecordKey{dbID: 0, recordType: RecordTypeMeta, version: 2, primaryKey: []byte("k")}

	assert.NotEqual(t, a.encode(), b.encode())
}

func TestListElementKey_OrdersByIndexUnderByteComparison(t *testing.T) {
	low := listElementKey(0, 1, []byte("l"), 5).encode()
	high := listElementKey(0, 1, []byte("l"), 6).encode()

	// The quicklist range reader depends on byte-ordered index encoding to
	// walk elements in list order via a prefix scan.
	assert.True(t, string(low) < string(high))
}
