package redis

import (
	"encoding/binary"
)

const (
	maxMetadataSize   = 1 + binary.MaxVarintLen64*2 + binary.MaxVarintLen32
	extraListMetadata = binary.MaxVarintLen64 * 2
	initialListMark   = binary.MaxVarintLen64 / 2
)

// RecordType distinguishes a meta record from the various element record
// kinds an aggregate value is made of.
type RecordType = byte

const (
	RecordTypeMeta RecordType = iota + 1
	RecordTypeHashField
	RecordTypeSetMember
	RecordTypeListElement
	RecordTypeZSetMember
)

type metadata struct {
	dataType byte
	expire   int64
	version  int64
	size     uint32
	head     uint64
	tail     uint64
}

func (md metadata) encode() []byte {
	size := maxMetadataSize
	if md.dataType == List {
		size += extraListMetadata
	}
	buf := make([]byte, size)

	buf[0] = md.dataType
	index := 1
	index += binary.PutVarint(buf[index:], md.expire)
	index += binary.PutVarint(buf[index:], md.version)
	index += binary.PutVarint(buf[index:], int64(md.size))

	if md.dataType == List {
		index += binary.PutUvarint(buf[index:], md.head)
		index += binary.PutUvarint(buf[index:], md.tail)
	}
	return buf[:index]
}

func decodeMetadata(buf []byte) *metadata {
	dataType := buf[0]

	index := 1
	expire, n := binary.Varint(buf[index:])
	index += n
	version, n := binary.Varint(buf[index:])
	index += n
	size, n := binary.Varint(buf[index:])
	index += n

	var head uint64
	var tail uint64

	if dataType == List {
		head, n = binary.Uvarint(buf[index:])
		index += n
		tail, _ = binary.Uvarint(buf[index:])
	}

	return &metadata{
		dataType: dataType,
		expire:   expire,
		version:  version,
		size:     uint32(size),
		head:     head,
		tail:     tail,
	}
}

// RecordKey is the physical key layout shared by every element record this
// server writes to the storage engine:
//
//	chunkID(1B) dbID(1B) recordType(1B) version(varint) pkLen(uvarint) primaryKey secondaryKey
//
// chunkID is always 0 today; the byte is reserved so the key shape does not
// need to change if physical sharding is added later. The primary key is
// length-prefixed so a prefix scan over one key's element records never
// wanders into a different, byte-prefixed, primary key's records. version
// is the owning aggregate's metadata version, so a DEL followed by a fresh
// write of the same user key makes the old version's element records
// unreachable via prefix scan without a synchronous fan-out delete.
type RecordKey struct {
	dbID         byte
	recordType   RecordType
	version      int64
	primaryKey   []byte
	secondaryKey []byte
}

const recordKeyChunkID = 0x00

func (rk RecordKey) encode() []byte {
	size := 3 + binary.MaxVarintLen64 + binary.MaxVarintLen64 + len(rk.primaryKey) + len(rk.secondaryKey)
	buf := make([]byte, size)

	index := 0
	buf[index] = recordKeyChunkID
	index++
	buf[index] = rk.dbID
	index++
	buf[index] = rk.recordType
	index++
	index += binary.PutVarint(buf[index:], rk.version)
	index += binary.PutUvarint(buf[index:], uint64(len(rk.primaryKey)))
	copy(buf[index:], rk.primaryKey)
	index += len(rk.primaryKey)
	copy(buf[index:], rk.secondaryKey)
	index += len(rk.secondaryKey)

	return buf[:index]
}

// listElementKey builds the RecordKey for one list element. The index is
// encoded big-endian so element records sort in list order under the
// engine's byte-ordered index, which the quicklist serializer's range read
// depends on.
func listElementKey(dbID byte, version int64, primaryKey []byte, index uint64) RecordKey {
	secondary := make([]byte, 8)
	binary.BigEndian.PutUint64(secondary, index)
	return RecordKey{
		dbID:         dbID,
		recordType:   RecordTypeListElement,
		version:      version,
		primaryKey:   primaryKey,
		secondaryKey: secondary,
	}
}
