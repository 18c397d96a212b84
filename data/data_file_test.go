package data

import (
	"testing"

	"github.com/jhx1008/Tendis/fio"
	"github.com/stretchr/testify/assert"
)

func TestOpenDataFile(t *testing.T) {
	dir := t.TempDir()
	file1, err := OpenDataFile(dir, 0, fio.StandardFIO)
	assert.Nil(t, err)
	assert.NotNil(t, file1)

	file2, err := OpenDataFile(dir, 2, fio.StandardFIO)
	assert.Nil(t, err)
	assert.NotNil(t, file2)

	file3, err := OpenDataFile(dir, 2, fio.StandardFIO)
	assert.Nil(t, err)
	assert.NotNil(t, file3)
}

func TestDataFile_Write(t *testing.T) {
	dir := t.TempDir()
	file1, err := OpenDataFile(dir, 0, fio.StandardFIO)
	assert.Nil(t, err)
	assert.NotNil(t, file1)

	err = file1.Write([]byte("123"))
	assert.Nil(t, err)

	err = file1.Write([]byte("123"))
	assert.Nil(t, err)
}

func TestDataFile_Close(t *testing.T) {
	dir := t.TempDir()
	file1, err := OpenDataFile(dir, 0, fio.StandardFIO)
	assert.Nil(t, err)
	assert.NotNil(t, file1)

	err = file1.Close()
	assert.Nil(t, err)
}

func TestDataFile_Sync(t *testing.T) {
	dir := t.TempDir()
	file1, err := OpenDataFile(dir, 123, fio.StandardFIO)
	assert.Nil(t, err)
	assert.NotNil(t, file1)

	err = file1.Write([]byte("123"))
	assert.Nil(t, err)

	err = file1.Sync()
	assert.Nil(t, err)
}
