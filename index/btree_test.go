package index

import (
	"testing"

	"github.com/jhx1008/Tendis/data"
	"github.com/stretchr/testify/assert"
)

func TestBTree_Put(t *testing.T) {
	bt := NewBTree()

	res1 := bt.Put(nil, &data.LogRecordPos{Fid: 1, Offset: 100})
	assert.Nil(t, res1)

	res2 := bt.Put([]byte("world"), &data.LogRecordPos{Fid: 1, Offset: 2})
	assert.Nil(t, res2)
}

func TestBTree_Get(t *testing.T) {
	bt := NewBTree()

	res1 := bt.Put(nil, &data.LogRecordPos{Fid: 1, Offset: 100})
	assert.Nil(t, res1)

	res2 := bt.Put([]byte("hello world"), &data.LogRecordPos{Fid: 1, Offset: 2})
	assert.Nil(t, res2)

	pos1 := bt.Get(nil)
	assert.Equal(t, uint32(1), pos1.Fid)
	assert.Equal(t, int64(100), pos1.Offset)

	pos2 := bt.Get([]byte("hello world"))
	assert.Equal(t, uint32(1), pos2.Fid)
	assert.Equal(t, int64(2), pos2.Offset)
}

func TestBTree_Delete(t *testing.T) {
	bt := NewBTree()

	_ = bt.Put(nil, &data.LogRecordPos{Fid: 1, Offset: 100})
	_, ok := bt.Delete(nil)
	assert.True(t, ok)

	_ = bt.Put([]byte("hello world"), &data.LogRecordPos{Fid: 1, Offset: 2})
	_, ok = bt.Delete([]byte("hello world"))
	assert.True(t, ok)

	_, ok = bt.Delete([]byte("does not exist"))
	assert.False(t, ok)
}
