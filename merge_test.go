package tendis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMergeTestDB(t *testing.T) *DB {
	opts := DefaultOptions
	opts.DirPath = t.TempDir()
	opts.DataFileSize = 32 * 1024
	opts.DataFileMergeRatio = 0
	db, err := Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMerge_ReclaimsOverwrittenKeys(t *testing.T) {
	db := newMergeTestDB(t)

	for i := 0; i < 200; i++ {
		key := []byte(fmt.Sprintf("key-%d", i%20))
		require.NoError(t, db.Put(key, []byte(fmt.Sprintf("value-%d", i))))
	}
	require.Greater(t, db.reclaimSize, int64(0))

	require.NoError(t, db.Merge())

	for i := 0; i < 20; i++ {
		key := []byte(fmt.Sprintf("key-%d", i))
		value, err := db.Get(key)
		require.NoError(t, err)
		assert.NotEmpty(t, value)
	}
}

func TestMerge_SurvivesReopen(t *testing.T) {
	dirPath := t.TempDir()
	opts := DefaultOptions
	opts.DirPath = dirPath
	opts.DataFileSize = 32 * 1024
	opts.DataFileMergeRatio = 0

	db, err := Open(opts)
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		key := []byte(fmt.Sprintf("key-%d", i%20))
		require.NoError(t, db.Put(key, []byte(fmt.Sprintf("value-%d", i))))
	}
	require.NoError(t, db.Merge())
	require.NoError(t, db.Close())

	reopened, err := Open(opts)
	require.NoError(t, err)
	defer reopened.Close()

	for i := 0; i < 20; i++ {
		key := []byte(fmt.Sprintf("key-%d", i))
		value, err := reopened.Get(key)
		require.NoError(t, err)
		assert.Equal(t, []byte(fmt.Sprintf("value-%d", 180+i)), value)
	}
}

func TestMerge_ErrorsWhileAlreadyInProgress(t *testing.T) {
	db := newMergeTestDB(t)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))

	db.isMerging = true
	defer func() { db.isMerging = false }()

	err := db.Merge()
	assert.ErrorIs(t, err, ErrMergeIsProgress)
}
