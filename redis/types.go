package redis

import (
	"encoding/binary"
	"errors"
	"math"
	"time"

	bitcask "github.com/jhx1008/Tendis"
	"github.com/hdt3213/godis/datastruct/sortedset"
)

var ErrWrongTypeOperation = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

type DataType = byte

const (
	String DataType = iota + 1
	Hash
	Set
	List
	ZSet
)

// DataStructure is one logical Redis database: a Redis-shaped view over a
// single Tendis engine instance, translating the five logical value kinds
// into meta + element RecordKey records.
type DataStructure struct {
	db   *bitcask.DB
	dbID byte

	// zsets caches a skiplist-backed sorted-set structure for keys that
	// ZAdd has touched this session, keyed by user key. Each entry starts
	// empty and holds only the members ZAdd added this session; it is not
	// loaded from the persisted member->score records, and ZRange does not
	// read it.
	zsets map[string]*sortedset.SortedSet
}

func NewDataStructure(option bitcask.Options) (*DataStructure, error) {
	db, err := bitcask.Open(option)
	if err != nil {
		return nil, err
	}
	return &DataStructure{db: db, zsets: make(map[string]*sortedset.SortedSet)}, nil
}

func (rds *DataStructure) Close() error {
	return rds.db.Close()
}

// Merge compacts the underlying engine's data files, reclaiming the space
// left behind by DEL and RESTORE-REPLACE's version-salted element and
// $fields records, which the RecordKey scheme never deletes synchronously.
func (rds *DataStructure) Merge() error {
	return rds.db.Merge()
}

// SetDBID stamps this DataStructure's logical database index into every
// RecordKey it subsequently encodes, keeping per-database keyspaces
// distinct within a shared engine layout.
func (rds *DataStructure) SetDBID(id byte) {
	rds.dbID = id
}

// NewWriteBatch returns a batch handle for staging several element writes
// that must become visible as one transaction — a RESTORE deserializer
// loading a multi-element aggregate needs this so a failure partway
// through never leaves a partially-populated key (§4.7/§5).
func (rds *DataStructure) NewWriteBatch() *bitcask.WriteBatch {
	return rds.db.NewWriteBatch(bitcask.DefaultWriteBatchOptions)
}

// NewMetadata builds a fresh metadata record for a key the caller has
// already established does not exist, so a bulk loader staging many
// elements into one batch does not need to round-trip findMetadata's
// db.Get before every element.
func (rds *DataStructure) NewMetadata(dataType DataType) *metadata {
	meta := &metadata{dataType: dataType, version: time.Now().UnixNano()}
	if dataType == List {
		meta.head = initialListMark
		meta.tail = initialListMark
	}
	return meta
}

// CommitBatch stages meta's final state under key and commits wb, making
// every element write staged against wb visible atomically.
func (rds *DataStructure) CommitBatch(wb *bitcask.WriteBatch, key []byte, meta *metadata) error {
	if err := wb.Put(key, meta.encode()); err != nil {
		return err
	}
	return wb.Commit()
}

// ---- String ----

func (rds *DataStructure) Set(key []byte, ttl time.Duration, value []byte) error {
	if value == nil {
		return nil
	}

	buf := make([]byte, binary.MaxVarintLen64+1)
	buf[0] = String
	var expire int64 = 0
	if ttl != 0 {
		expire = time.Now().Add(ttl).UnixNano()
	}
	index := 1
	index += binary.PutVarint(buf[index:], expire)

	encValue := make([]byte, index+len(value))
	copy(encValue[:index], buf[:index])
	copy(encValue[index:], value)

	return rds.db.Put(key, encValue)
}

func (rds *DataStructure) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, nil
	}
	encValue, err := rds.db.Get(key)
	if err != nil {
		return nil, err
	}
	dataType := encValue[0]
	if dataType != String {
		return nil, ErrWrongTypeOperation
	}
	index := 1
	expire, n := binary.Varint(encValue[index:])
	index += n

	if expire > 0 && expire <= time.Now().UnixNano() {
		return nil, nil
	}
	return encValue[index:], nil
}

// ---- Hash ----

func (rds *DataStructure) HSet(key, field, value []byte) (bool, error) {
	meta, err := rds.findMetadata(key, Hash)
	if err != nil {
		return false, err
	}
	hk := RecordKey{dbID: rds.dbID, recordType: RecordTypeHashField, version: meta.version, primaryKey: key, secondaryKey: field}
	encKey := hk.encode()

	exist := true
	if _, err := rds.db.Get(encKey); errors.Is(err, bitcask.ErrKeyNotFound) {
		exist = false
	}

	wb := rds.db.NewWriteBatch(bitcask.DefaultWriteBatchOptions)
	if !exist {
		meta.size++
		_ = wb.Put(key, meta.encode())
		if err := rds.appendHashField(key, field, meta, wb); err != nil {
			return false, err
		}
	}
	_ = wb.Put(encKey, value)
	if err = wb.Commit(); err != nil {
		return false, err
	}

	return !exist, nil
}

func (rds *DataStructure) HGet(key, field []byte) ([]byte, error) {
	meta, err := rds.findMetadata(key, Hash)
	if err != nil {
		return nil, err
	}
	if meta.size == 0 {
		return nil, nil
	}
	hk := RecordKey{dbID: rds.dbID, recordType: RecordTypeHashField, version: meta.version, primaryKey: key, secondaryKey: field}
	return rds.db.Get(hk.encode())
}

func (rds *DataStructure) HDel(key, field []byte) (bool, error) {
	meta, err := rds.findMetadata(key, Hash)
	if err != nil {
		return false, err
	}
	if meta.size == 0 {
		return false, nil
	}
	hk := RecordKey{dbID: rds.dbID, recordType: RecordTypeHashField, version: meta.version, primaryKey: key, secondaryKey: field}
	encKey := hk.encode()

	exist := true
	if _, err = rds.db.Get(encKey); errors.Is(err, bitcask.ErrKeyNotFound) {
		exist = false
	}

	if exist {
		wb := rds.db.NewWriteBatch(bitcask.DefaultWriteBatchOptions)
		meta.size--
		_ = wb.Put(key, meta.encode())
		_ = wb.Delete(encKey)
		if err = wb.Commit(); err != nil {
			return false, err
		}
	}
	return exist, nil
}

// HGetAll reads every field of a hash. Field names are recorded in a
// meta-adjacent index record on first write (see hashFieldIndexKey) so
// HGETALL and the hash DUMP serializer can enumerate the field set
// without a keyspace scan.
func (rds *DataStructure) HGetAll(key []byte) (map[string][]byte, error) {
	meta, err := rds.findMetadata(key, Hash)
	if err != nil {
		return nil, err
	}
	result := make(map[string][]byte, meta.size)
	if meta.size == 0 {
		return result, nil
	}
	fields, err := rds.hashFields(key, meta)
	if err != nil {
		return nil, err
	}
	for _, field := range fields {
		hk := RecordKey{dbID: rds.dbID, recordType: RecordTypeHashField, version: meta.version, primaryKey: key, secondaryKey: field}
		value, err := rds.db.Get(hk.encode())
		if errors.Is(err, bitcask.ErrKeyNotFound) {
			// removed by HDel; the field index is never rewritten
			continue
		}
		if err != nil {
			return nil, err
		}
		result[string(field)] = value
	}
	return result, nil
}

// hashFieldIndexKey stores the ordered set of secondary keys (hash fields,
// set members, or zset members, depending on caller) belonging to one
// aggregate's current metadata version.
func hashFieldIndexKey(dbID byte, version int64, key []byte) []byte {
	return RecordKey{dbID: dbID, recordType: RecordTypeMeta, version: version, primaryKey: key, secondaryKey: []byte("$fields")}.encode()
}

func (rds *DataStructure) hashFields(key []byte, meta *metadata) ([][]byte, error) {
	raw, err := rds.db.Get(hashFieldIndexKey(rds.dbID, meta.version, key))
	if err != nil {
		if errors.Is(err, bitcask.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeByteSlices(raw), nil
}

func (rds *DataStructure) appendHashField(key, field []byte, meta *metadata, wb *bitcask.WriteBatch) error {
	fields, err := rds.hashFields(key, meta)
	if err != nil {
		return err
	}
	fields = append(fields, field)
	return wb.Put(hashFieldIndexKey(rds.dbID, meta.version, key), encodeByteSlices(fields))
}

// HSetBatch stages one hash field write into wb without committing,
// mutating meta and the running field list in place so a run of calls
// sharing one batch, one meta, and one fields slice commit together as a
// single transaction via CommitBatch.
func (rds *DataStructure) HSetBatch(wb *bitcask.WriteBatch, key, field, value []byte, meta *metadata, fields [][]byte) ([][]byte, error) {
	hk := RecordKey{dbID: rds.dbID, recordType: RecordTypeHashField, version: meta.version, primaryKey: key, secondaryKey: field}
	if err := wb.Put(hk.encode(), value); err != nil {
		return fields, err
	}
	meta.size++
	fields = append(fields, field)
	if err := wb.Put(hashFieldIndexKey(rds.dbID, meta.version, key), encodeByteSlices(fields)); err != nil {
		return fields, err
	}
	return fields, nil
}

func encodeByteSlices(items [][]byte) []byte {
	buf := make([]byte, 0, 64)
	tmp := make([]byte, binary.MaxVarintLen64)
	for _, item := range items {
		n := binary.PutUvarint(tmp, uint64(len(item)))
		buf = append(buf, tmp[:n]...)
		buf = append(buf, item...)
	}
	return buf
}

func decodeByteSlices(buf []byte) [][]byte {
	var items [][]byte
	for len(buf) > 0 {
		l, n := binary.Uvarint(buf)
		buf = buf[n:]
		items = append(items, buf[:l])
		buf = buf[l:]
	}
	return items
}

// ---- Set ----

func (rds *DataStructure) SAdd(key, member []byte) (bool, error) {
	meta, err := rds.findMetadata(key, Set)
	if err != nil {
		return false, err
	}
	sk := RecordKey{dbID: rds.dbID, recordType: RecordTypeSetMember, version: meta.version, primaryKey: key, secondaryKey: member}
	encKey := sk.encode()

	if _, err := rds.db.Get(encKey); err == nil {
		return false, nil
	} else if !errors.Is(err, bitcask.ErrKeyNotFound) {
		return false, err
	}

	wb := rds.db.NewWriteBatch(bitcask.DefaultWriteBatchOptions)
	meta.size++
	_ = wb.Put(key, meta.encode())
	_ = wb.Put(encKey, nil)
	if err := rds.appendHashField(key, member, meta, wb); err != nil {
		return false, err
	}
	if err := wb.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// SAddBatch stages one set member write into wb without committing,
// mutating meta and the running field list in place, the set counterpart
// to HSetBatch.
func (rds *DataStructure) SAddBatch(wb *bitcask.WriteBatch, key, member []byte, meta *metadata, fields [][]byte) ([][]byte, error) {
	sk := RecordKey{dbID: rds.dbID, recordType: RecordTypeSetMember, version: meta.version, primaryKey: key, secondaryKey: member}
	if err := wb.Put(sk.encode(), nil); err != nil {
		return fields, err
	}
	meta.size++
	fields = append(fields, member)
	if err := wb.Put(hashFieldIndexKey(rds.dbID, meta.version, key), encodeByteSlices(fields)); err != nil {
		return fields, err
	}
	return fields, nil
}

func (rds *DataStructure) SIsMember(key, member []byte) (bool, error) {
	meta, err := rds.findMetadata(key, Set)
	if err != nil {
		return false, err
	}
	if meta.size == 0 {
		return false, nil
	}
	sk := RecordKey{dbID: rds.dbID, recordType: RecordTypeSetMember, version: meta.version, primaryKey: key, secondaryKey: member}
	if _, err := rds.db.Get(sk.encode()); err != nil {
		if errors.Is(err, bitcask.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (rds *DataStructure) SCard(key []byte) (int, error) {
	meta, err := rds.findMetadata(key, Set)
	if err != nil {
		return 0, err
	}
	return int(meta.size), nil
}

func (rds *DataStructure) SMembers(key []byte) ([][]byte, error) {
	meta, err := rds.findMetadata(key, Set)
	if err != nil {
		return nil, err
	}
	if meta.size == 0 {
		return nil, nil
	}
	return rds.hashFields(key, meta)
}

// ---- List ----

func (rds *DataStructure) RPush(key, value []byte) (uint32, error) {
	meta, err := rds.findMetadata(key, List)
	if err != nil {
		return 0, err
	}
	lk := listElementKey(rds.dbID, meta.version, key, meta.tail)

	wb := rds.db.NewWriteBatch(bitcask.DefaultWriteBatchOptions)
	meta.size++
	meta.tail++
	_ = wb.Put(key, meta.encode())
	_ = wb.Put(lk.encode(), value)
	if err = wb.Commit(); err != nil {
		return 0, err
	}
	return meta.size, nil
}

// RPushBatch stages one list element write into wb without committing,
// advancing meta's tail in place, the list counterpart to HSetBatch.
func (rds *DataStructure) RPushBatch(wb *bitcask.WriteBatch, key, value []byte, meta *metadata) error {
	lk := listElementKey(rds.dbID, meta.version, key, meta.tail)
	if err := wb.Put(lk.encode(), value); err != nil {
		return err
	}
	meta.size++
	meta.tail++
	return nil
}

func (rds *DataStructure) LLen(key []byte) (uint32, error) {
	meta, err := rds.findMetadata(key, List)
	if err != nil {
		return 0, err
	}
	return meta.size, nil
}

// LRange returns elements in rank range [start, stop] inclusive, in list
// order, resolving Redis-style negative indices against the current size.
func (rds *DataStructure) LRange(key []byte, start, stop int) ([][]byte, error) {
	meta, err := rds.findMetadata(key, List)
	if err != nil {
		return nil, err
	}
	size := int(meta.size)
	if size == 0 {
		return nil, nil
	}
	start = normalizeListIndex(start, size)
	stop = normalizeListIndex(stop, size)
	if start > stop || start >= size {
		return nil, nil
	}
	if stop >= size {
		stop = size - 1
	}

	result := make([][]byte, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		lk := listElementKey(rds.dbID, meta.version, key, meta.head+uint64(i))
		value, err := rds.db.Get(lk.encode())
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}
	return result, nil
}

func normalizeListIndex(i, size int) int {
	if i < 0 {
		i = size + i
	}
	if i < 0 {
		i = 0
	}
	return i
}

// ---- Sorted set ----

// ZAdd adds or updates the score of one member, the concrete realization
// of the distilled spec's genericZadd collaborator.
func (rds *DataStructure) ZAdd(key []byte, member string, score float64) (bool, error) {
	meta, err := rds.findMetadata(key, ZSet)
	if err != nil {
		return false, err
	}
	zk := RecordKey{dbID: rds.dbID, recordType: RecordTypeZSetMember, version: meta.version, primaryKey: key, secondaryKey: []byte(member)}
	encKey := zk.encode()

	existed := true
	if _, err := rds.db.Get(encKey); errors.Is(err, bitcask.ErrKeyNotFound) {
		existed = false
	}

	scoreBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(scoreBuf, math.Float64bits(score))

	wb := rds.db.NewWriteBatch(bitcask.DefaultWriteBatchOptions)
	if !existed {
		meta.size++
		_ = wb.Put(key, meta.encode())
		if err := rds.appendHashField(key, []byte(member), meta, wb); err != nil {
			return false, err
		}
	}
	_ = wb.Put(encKey, scoreBuf)
	if err := wb.Commit(); err != nil {
		return false, err
	}

	rds.loadSortedSet(string(key)).Add(member, score)
	return !existed, nil
}

// ZAddBatch stages one member/score write into wb without committing,
// mutating meta and the running field list in place, the sorted-set
// counterpart to HSetBatch. It does not touch the in-memory zsets cache;
// ZRange always rebuilds ranking from the persisted records anyway.
func (rds *DataStructure) ZAddBatch(wb *bitcask.WriteBatch, key []byte, member string, score float64, meta *metadata, fields [][]byte) ([][]byte, error) {
	zk := RecordKey{dbID: rds.dbID, recordType: RecordTypeZSetMember, version: meta.version, primaryKey: key, secondaryKey: []byte(member)}
	scoreBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(scoreBuf, math.Float64bits(score))
	if err := wb.Put(zk.encode(), scoreBuf); err != nil {
		return fields, err
	}
	meta.size++
	fields = append(fields, []byte(member))
	if err := wb.Put(hashFieldIndexKey(rds.dbID, meta.version, key), encodeByteSlices(fields)); err != nil {
		return fields, err
	}
	return fields, nil
}

func (rds *DataStructure) ZScore(key []byte, member []byte) (float64, bool, error) {
	meta, err := rds.findMetadata(key, ZSet)
	if err != nil {
		return 0, false, err
	}
	if meta.size == 0 {
		return 0, false, nil
	}
	zk := RecordKey{dbID: rds.dbID, recordType: RecordTypeZSetMember, version: meta.version, primaryKey: key, secondaryKey: member}
	raw, err := rds.db.Get(zk.encode())
	if err != nil {
		if errors.Is(err, bitcask.ErrKeyNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(raw)), true, nil
}

// ZMembers returns every (member, score) pair currently stored for a
// sorted set, in arbitrary order — the shape the zset DUMP serializer
// reads before re-emitting them in reverse-rank order.
func (rds *DataStructure) ZMembers(key []byte) (map[string]float64, error) {
	meta, err := rds.findMetadata(key, ZSet)
	if err != nil {
		return nil, err
	}
	result := make(map[string]float64, meta.size)
	if meta.size == 0 {
		return result, nil
	}
	members, err := rds.hashFields(key, meta)
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		score, ok, err := rds.ZScore(key, member)
		if err != nil {
			return nil, err
		}
		if ok {
			result[string(member)] = score
		}
	}
	return result, nil
}

// ZRange returns members ordered by score ascending, by rank range
// [start, stop] inclusive (Redis-style negative indices supported),
// backed by the skiplist-based sorted set rebuilt from the persisted
// member->score records.
func (rds *DataStructure) ZRange(key []byte, start, stop int) ([]string, error) {
	members, err := rds.ZMembers(key)
	if err != nil {
		return nil, err
	}
	set := sortedset.Make()
	for member, score := range members {
		set.Add(member, score)
	}
	size := int(set.Len())
	if size == 0 {
		return nil, nil
	}
	start = normalizeListIndex(start, size)
	stop = normalizeListIndex(stop, size)
	if stop >= size {
		stop = size - 1
	}
	if start > stop {
		return nil, nil
	}
	// sortedset.Range takes a half-open rank range [start, stop).
	elements := set.Range(int64(start), int64(stop)+1, false)
	names := make([]string, 0, len(elements))
	for _, e := range elements {
		names = append(names, e.Member)
	}
	return names, nil
}

func (rds *DataStructure) loadSortedSet(key string) *sortedset.SortedSet {
	if set, ok := rds.zsets[key]; ok {
		return set
	}
	set := sortedset.Make()
	rds.zsets[key] = set
	return set
}

// ---- key-level operations ----

// Type reports the logical type of key, or 0 if it does not exist / has
// expired. It never returns an error for a missing key, since "no type"
// is itself meaningful to callers like the DUMP command entry point.
func (rds *DataStructure) Type(key []byte) (DataType, error) {
	metaBuf, err := rds.db.Get(key)
	if err != nil {
		if errors.Is(err, bitcask.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(metaBuf) == 0 {
		return 0, nil
	}
	dataType := metaBuf[0]
	if dataType == String {
		if expire, _ := binary.Varint(metaBuf[1:]); expire > 0 && expire <= time.Now().UnixNano() {
			return 0, nil
		}
		return String, nil
	}
	meta := decodeMetadata(metaBuf)
	if meta.expire != 0 && meta.expire <= time.Now().UnixNano() {
		return 0, nil
	}
	return meta.dataType, nil
}

// Del removes a key's meta record. Element records of a stale metadata
// version become unreachable (a fresh write picks a new version derived
// from the current timestamp) rather than being fanned out and deleted
// synchronously — see RecordKey's doc comment.
func (rds *DataStructure) Del(key []byte) error {
	return rds.db.Delete(key)
}

// Exists reports whether key currently holds a live, unexpired value.
func (rds *DataStructure) Exists(key []byte) (bool, error) {
	dataType, err := rds.Type(key)
	if err != nil {
		return false, err
	}
	return dataType != 0, nil
}

// ---- shared metadata lookup ----

func (rds *DataStructure) findMetadata(key []byte, dataType DataType) (*metadata, error) {
	metaBuf, err := rds.db.Get(key)
	if err != nil && !errors.Is(err, bitcask.ErrKeyNotFound) {
		return nil, err
	}
	var exist bool
	var meta *metadata
	if errors.Is(err, bitcask.ErrKeyNotFound) {
		exist = false
	} else {
		exist = true
		meta = decodeMetadata(metaBuf)

		if meta.dataType != dataType {
			return nil, ErrWrongTypeOperation
		}
		if meta.expire != 0 && meta.expire <= time.Now().UnixNano() {
			exist = false
		}
	}
	if !exist {
		meta = &metadata{
			dataType: dataType,
			expire:   0,
			version:  time.Now().UnixNano(),
			size:     0,
		}
		if dataType == List {
			meta.head = initialListMark
			meta.tail = initialListMark
		}
	}

	return meta, nil
}
