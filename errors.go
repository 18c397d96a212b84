package tendis

import "errors"

var (
	ErrKeyIsEmpty             = errors.New("the key is empty")
	ErrKeyNotFound            = errors.New("key not found in database")
	ErrDataFileNotFound       = errors.New("data file is not found")
	ErrIndexUpdateFailed      = errors.New("failed to update index")
	ErrDatabaseIsUsing        = errors.New("the database directory is used by another process")
	ErrDataDirectoryCorrupted = errors.New("the database directory maybe corrupted")
	ErrExceedMaxBatchNum      = errors.New("exceed the max batch num")
	ErrMergeIsProgress        = errors.New("merge is in progress, try again later")
	ErrMergeRatioUnreached    = errors.New("the merge ratio does not reach the option")
	ErrNoEnoughSpaceForMerge  = errors.New("no enough disk space for merge")
)
