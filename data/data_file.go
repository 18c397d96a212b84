package data

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"path/filepath"

	"github.com/jhx1008/Tendis/fio"
)

var (
	ErrInvalidCRC = errors.New("invalid crc value, log record maybe corrupted")
)

const (
	DataFileNameSuffix    = ".data"
	SeqNoFileName         = "seq-no"
	HintFileName          = "hint-index"
	MergeFinishedFileName = "merge-finished"
)

// DataFile is one append-only segment on disk plus the IOManager used to touch it.
type DataFile struct {
	FileId    uint32
	WriteOff  int64
	IoManager fio.IOManager
}

// GetDataFileName returns the on-disk path for a segment with the given id.
func GetDataFileName(dirPath string, fileId uint32) string {
	return filepath.Join(dirPath, fmt.Sprintf("%d", fileId)+DataFileNameSuffix)
}

func OpenDataFile(dirPath string, fileId uint32, ioType fio.IOType) (*DataFile, error) {
	fileName := GetDataFileName(dirPath, fileId)
	return newDataFile(fileName, fileId, ioType)
}

// OpenSeqNoFile opens the auxiliary file that persists the write-batch sequence
// number across restarts, used by the index types that require ordered replay.
func OpenSeqNoFile(dirPath string) (*DataFile, error) {
	fileName := filepath.Join(dirPath, SeqNoFileName)
	return newDataFile(fileName, 0, fio.StandardFIO)
}

// OpenHintFile opens the merge side file that records each live key's final
// LogRecordPos, letting a restart rebuild the index without replaying every
// merged data file record by record.
func OpenHintFile(dirPath string) (*DataFile, error) {
	fileName := filepath.Join(dirPath, HintFileName)
	return newDataFile(fileName, 0, fio.StandardFIO)
}

// OpenMergeFinishedFile opens the sentinel file a merge writes on success,
// recording the id of the first data file the merge did not touch.
func OpenMergeFinishedFile(dirPath string) (*DataFile, error) {
	fileName := filepath.Join(dirPath, MergeFinishedFileName)
	return newDataFile(fileName, 0, fio.StandardFIO)
}

func newDataFile(fileName string, fileId uint32, ioType fio.IOType) (*DataFile, error) {
	ioManager, err := fio.NewIOManager(fileName, ioType)
	if err != nil {
		return nil, err
	}
	return &DataFile{
		FileId:    fileId,
		WriteOff:  0,
		IoManager: ioManager,
	}, nil
}

// SetIOManager swaps the file's IOManager, used to fall back from a memory-mapped
// reader (used only to speed up startup index loading) to standard file IO.
func (df *DataFile) SetIOManager(dirPath string, ioType fio.IOType) error {
	if err := df.IoManager.Close(); err != nil {
		return err
	}
	ioManager, err := fio.NewIOManager(GetDataFileName(dirPath, df.FileId), ioType)
	if err != nil {
		return err
	}
	df.IoManager = ioManager
	return nil
}

func (df *DataFile) Read(offset int64) ([]byte, error) {
	lr, _, err := df.GetLogRecord(offset)
	if err != nil {
		return nil, err
	}
	return lr.Value, nil
}

func (df *DataFile) GetLogRecord(offset int64) (*LogRecord, int64, error) {
	// 按照最大头部长度进行读取
	var headerBytes int64 = maxLogRecordHeaderSize
	fileSize, err := df.IoManager.Size()
	if err != nil {
		return nil, 0, err
	}
	// 特殊情况：长度超过了文件大小，则按实际的进行读取
	if headerBytes+offset > fileSize {
		headerBytes = fileSize - offset
	}
	if headerBytes <= 0 {
		return nil, 0, io.EOF
	}
	// 读取头部信息
	heardBuf, err := df.readNBytes(headerBytes, offset)
	if err != nil {
		return nil, 0, err
	}
	// 对头部信息进行解码
	header, headerSize := decodeLogRecordHeader(heardBuf)
	if header == nil || (header.crc == 0 && header.keySize == 0 && header.valueSize == 0) {
		return nil, 0, io.EOF
	}
	keySize, valueSize := int64(header.keySize), int64(header.valueSize)
	recordSize := headerSize + keySize + valueSize

	logRecord := &LogRecord{
		Type: header.recordType,
	}
	// 读取key和value值
	if keySize > 0 || valueSize > 0 {
		kvBuf, err := df.readNBytes(keySize+valueSize, offset+headerSize)
		if err != nil {
			return nil, 0, err
		}
		logRecord.Key = kvBuf[:keySize]
		logRecord.Value = kvBuf[keySize:]
	}
	// 根据解码出来的头部信息和key-value信息生成crc与记录crc进行对比
	crc := getLogRecordCRC(logRecord, heardBuf[crc32.Size:headerSize])
	if crc != header.crc {
		return nil, 0, ErrInvalidCRC
	}
	return logRecord, recordSize, nil
}

func (df *DataFile) Write(buf []byte) error {
	size, err := df.IoManager.Write(buf)
	if err != nil {
		return err
	}
	df.WriteOff += int64(size)
	return nil
}

func (df *DataFile) Sync() error {
	return df.IoManager.Sync()
}

func (df *DataFile) Close() error {
	return df.IoManager.Close()
}

func (df *DataFile) readNBytes(n int64, offset int64) (b []byte, err error) {
	b = make([]byte, n)
	_, err = df.IoManager.Read(b, offset)
	return
}

// WriteHintRecord appends one (key, pos) pair to a hint file, encoded as a
// plain LogRecord whose value is the encoded LogRecordPos.
func (df *DataFile) WriteHintRecord(key []byte, pos *LogRecordPos) error {
	record := &LogRecord{
		Key:   key,
		Value: EncodeLogRecordPos(pos),
	}
	encRecord, _ := EncodeLogRecord(record)
	return df.Write(encRecord)
}
