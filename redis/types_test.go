package redis

import (
	"testing"
	"time"

	tendis "github.com/jhx1008/Tendis"
	"github.com/jhx1008/Tendis/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDataStructure(t *testing.T) *DataStructure {
	opts := tendis.DefaultOptions
	opts.DirPath = t.TempDir()
	opts.IndexType = index.Btree
	rds, err := NewDataStructure(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rds.Close() })
	return rds
}

func TestString_SetGet(t *testing.T) {
	rds := newTestDataStructure(t)
	require.NoError(t, rds.Set([]byte("k"), 0, []byte("v")))

	value, err := rds.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func TestString_ExpiresAfterTTL(t *testing.T) {
	rds := newTestDataStructure(t)
	require.NoError(t, rds.Set([]byte("k"), time.Nanosecond, []byte("v")))
	time.Sleep(time.Millisecond)

	value, err := rds.Get([]byte("k"))
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestString_GetAgainstWrongTypeErrors(t *testing.T) {
	rds := newTestDataStructure(t)
	_, err := rds.HSet([]byte("h"), []byte("f"), []byte("v"))
	require.NoError(t, err)

	_, err = rds.Get([]byte("h"))
	assert.ErrorIs(t, err, ErrWrongTypeOperation)
}

func TestHash_SetGetDel(t *testing.T) {
	rds := newTestDataStructure(t)
	isNew, err := rds.HSet([]byte("h"), []byte("f"), []byte("v1"))
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = rds.HSet([]byte("h"), []byte("f"), []byte("v2"))
	require.NoError(t, err)
	assert.False(t, isNew)

	value, err := rds.HGet([]byte("h"), []byte("f"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)

	deleted, err := rds.HDel([]byte("h"), []byte("f"))
	require.NoError(t, err)
	assert.True(t, deleted)

	value, err = rds.HGet([]byte("h"), []byte("f"))
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSet_AddMembershipCard(t *testing.T) {
	rds := newTestDataStructure(t)
	added, err := rds.SAdd([]byte("s"), []byte("m"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = rds.SAdd([]byte("s"), []byte("m"))
	require.NoError(t, err)
	assert.False(t, added)

	card, err := rds.SCard([]byte("s"))
	require.NoError(t, err)
	assert.Equal(t, 1, card)

	isMember, err := rds.SIsMember([]byte("s"), []byte("m"))
	require.NoError(t, err)
	assert.True(t, isMember)

	isMember, err = rds.SIsMember([]byte("s"), []byte("other"))
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestList_RPushLLenLRange(t *testing.T) {
	rds := newTestDataStructure(t)
	for _, v := range []string{"a", "b", "c", "d"} {
		_, err := rds.RPush([]byte("l"), []byte(v))
		require.NoError(t, err)
	}

	length, err := rds.LLen([]byte("l"))
	require.NoError(t, err)
	assert.Equal(t, uint32(4), length)

	all, err := rds.LRange([]byte("l"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}, all)

	tail, err := rds.LRange([]byte("l"), -2, -1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("c"), []byte("d")}, tail)
}

func TestZSet_AddScoreRange(t *testing.T) {
	rds := newTestDataStructure(t)
	_, err := rds.ZAdd([]byte("z"), "alice", 3)
	require.NoError(t, err)
	_, err = rds.ZAdd([]byte("z"), "bob", 1)
	require.NoError(t, err)
	_, err = rds.ZAdd([]byte("z"), "carol", 2)
	require.NoError(t, err)

	score, ok, err := rds.ZScore([]byte("z"), []byte("carol"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(2), score)

	ordered, err := rds.ZRange([]byte("z"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol", "alice"}, ordered)
}

func TestKey_TypeDelExists(t *testing.T) {
	rds := newTestDataStructure(t)
	require.NoError(t, rds.Set([]byte("k"), 0, []byte("v")))

	dataType, err := rds.Type([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, String, dataType)

	exists, err := rds.Exists([]byte("k"))
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, rds.Del([]byte("k")))

	exists, err = rds.Exists([]byte("k"))
	require.NoError(t, err)
	assert.False(t, exists)

	dataType, err = rds.Type([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, DataType(0), dataType)
}

func TestKey_TypeReportsNoneForUnknownKey(t *testing.T) {
	rds := newTestDataStructure(t)
	dataType, err := rds.Type([]byte("nope"))
	require.NoError(t, err)
	assert.Equal(t, DataType(0), dataType)
}

func TestMerge_KeepsLiveValueAfterDeleteAndRewrite(t *testing.T) {
	opts := tendis.DefaultOptions
	opts.DirPath = t.TempDir()
	opts.IndexType = index.Btree
	opts.DataFileMergeRatio = 0
	rds, err := NewDataStructure(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rds.Close() })

	require.NoError(t, rds.Set([]byte("k"), 0, []byte("v1")))
	require.NoError(t, rds.Del([]byte("k")))
	require.NoError(t, rds.Set([]byte("k"), 0, []byte("v2")))

	require.NoError(t, rds.Merge())

	value, err := rds.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)
}
