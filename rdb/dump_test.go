package rdb

import (
	"testing"

	tendis "github.com/jhx1008/Tendis"
	"github.com/jhx1008/Tendis/index"
	"github.com/jhx1008/Tendis/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *redis.DataStructure {
	opts := tendis.DefaultOptions
	opts.DirPath = t.TempDir()
	opts.IndexType = index.Btree
	rds, err := redis.NewDataStructure(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rds.Close() })
	return rds
}

func TestDump_String_RoundTrip(t *testing.T) {
	rds := newTestStore(t)
	require.NoError(t, rds.Set([]byte("greeting"), 0, []byte("hello world")))

	payload, err := Dump(rds, []byte("greeting"))
	require.NoError(t, err)
	require.NotNil(t, payload)

	require.NoError(t, Restore(rds, []byte("copy"), 0, payload, false))
	value, err := rds.Get([]byte("copy"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), value)
}

func TestDump_Hash_RoundTrip(t *testing.T) {
	rds := newTestStore(t)
	_, err := rds.HSet([]byte("h"), []byte("f1"), []byte("v1"))
	require.NoError(t, err)
	_, err = rds.HSet([]byte("h"), []byte("f2"), []byte("v2"))
	require.NoError(t, err)

	payload, err := Dump(rds, []byte("h"))
	require.NoError(t, err)

	require.NoError(t, Restore(rds, []byte("h2"), 0, payload, false))
	fields, err := rds.HGetAll([]byte("h2"))
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"f1": []byte("v1"), "f2": []byte("v2")}, fields)
}

func TestDump_Set_RoundTrip(t *testing.T) {
	rds := newTestStore(t)
	_, err := rds.SAdd([]byte("s"), []byte("m1"))
	require.NoError(t, err)
	_, err = rds.SAdd([]byte("s"), []byte("m2"))
	require.NoError(t, err)

	payload, err := Dump(rds, []byte("s"))
	require.NoError(t, err)

	require.NoError(t, Restore(rds, []byte("s2"), 0, payload, false))
	card, err := rds.SCard([]byte("s2"))
	require.NoError(t, err)
	assert.Equal(t, 2, card)
	ok, err := rds.SIsMember([]byte("s2"), []byte("m1"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDump_List_RoundTrip(t *testing.T) {
	rds := newTestStore(t)
	for _, v := range []string{"a", "b", "c"} {
		_, err := rds.RPush([]byte("l"), []byte(v))
		require.NoError(t, err)
	}

	payload, err := Dump(rds, []byte("l"))
	require.NoError(t, err)

	require.NoError(t, Restore(rds, []byte("l2"), 0, payload, false))
	elements, err := rds.LRange([]byte("l2"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, elements)
}

func TestDump_ZSet_RoundTrip(t *testing.T) {
	rds := newTestStore(t)
	_, err := rds.ZAdd([]byte("z"), "alice", 1.5)
	require.NoError(t, err)
	_, err = rds.ZAdd([]byte("z"), "bob", 2.5)
	require.NoError(t, err)

	payload, err := Dump(rds, []byte("z"))
	require.NoError(t, err)

	require.NoError(t, Restore(rds, []byte("z2"), 0, payload, false))
	aliceScore, ok, err := rds.ZScore([]byte("z2"), []byte("alice"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.5, aliceScore)
	bobScore, ok, err := rds.ZScore([]byte("z2"), []byte("bob"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.5, bobScore)
}

func TestDump_MissingKeyYieldsNilPayload(t *testing.T) {
	rds := newTestStore(t)
	payload, err := Dump(rds, []byte("does-not-exist"))
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestDump_EmptyAggregateRejected(t *testing.T) {
	rds := newTestStore(t)
	_, err := rds.HSet([]byte("h"), []byte("f"), []byte("v"))
	require.NoError(t, err)
	_, err = rds.HDel([]byte("h"), []byte("f"))
	require.NoError(t, err)

	_, err = Dump(rds, []byte("h"))
	assert.ErrorIs(t, err, ErrEmptyAggregate)
}

func TestRestore_RejectsBusyKeyWithoutReplace(t *testing.T) {
	rds := newTestStore(t)
	require.NoError(t, rds.Set([]byte("k"), 0, []byte("v1")))
	payload, err := Dump(rds, []byte("k"))
	require.NoError(t, err)

	require.NoError(t, rds.Set([]byte("k"), 0, []byte("v2")))
	err = Restore(rds, []byte("k"), 0, payload, false)
	assert.ErrorIs(t, err, ErrBusyKey)

	require.NoError(t, Restore(rds, []byte("k"), 0, payload, true))
	value, err := rds.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)
}

func TestRestore_RejectsTamperedPayload(t *testing.T) {
	rds := newTestStore(t)
	require.NoError(t, rds.Set([]byte("k"), 0, []byte("v1")))
	payload, err := Dump(rds, []byte("k"))
	require.NoError(t, err)
	payload[0] ^= 0xFF

	err = Restore(rds, []byte("other"), 0, payload, false)
	assert.ErrorIs(t, err, ErrChecksumOrVersionInvalid)
}

func TestRestore_RejectsNegativeTTL(t *testing.T) {
	rds := newTestStore(t)
	require.NoError(t, rds.Set([]byte("k"), 0, []byte("v1")))
	payload, err := Dump(rds, []byte("k"))
	require.NoError(t, err)

	err = Restore(rds, []byte("other"), -1, payload, false)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestDumpX_SkipsMissingKeys(t *testing.T) {
	rds0 := newTestStore(t)
	rds1 := newTestStore(t)
	require.NoError(t, rds0.Set([]byte("k0"), 0, []byte("v0")))
	require.NoError(t, rds1.Set([]byte("k1"), 0, []byte("v1")))

	entries, err := DumpX(
		[]*redis.DataStructure{rds0, rds1},
		[]int{0, 1, 1},
		[][]byte{[]byte("k0"), []byte("k1"), []byte("does-not-exist")},
		42,
	)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].DBID)
	assert.Equal(t, []byte("k0"), entries[0].Key)
	assert.Equal(t, 1, entries[1].DBID)
	assert.Equal(t, []byte("k1"), entries[1].Key)
}
