package database

import (
	"strconv"

	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"
)

func execRPush(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.LockKey(string(key))
	defer db.seg.UnlockKey(string(key))
	var size uint32
	for _, value := range args[1:] {
		var err error
		size, err = db.data.RPush(key, value)
		if err != nil {
			return wrapDataErr(err)
		}
	}
	return protocol.MakeIntReply(int64(size))
}

func execLLen(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	size, err := db.data.LLen(key)
	if err != nil {
		return wrapDataErr(err)
	}
	return protocol.MakeIntReply(int64(size))
}

func execLRange(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	start, err := strconv.Atoi(string(args[1]))
	if err != nil {
		return protocol.MakeErrReply("ERR value is not an integer or out of range")
	}
	stop, err := strconv.Atoi(string(args[2]))
	if err != nil {
		return protocol.MakeErrReply("ERR value is not an integer or out of range")
	}
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	elements, dataErr := db.data.LRange(key, start, stop)
	if dataErr != nil {
		return wrapDataErr(dataErr)
	}
	if elements == nil {
		return protocol.MakeEmptyMultiBulkReply()
	}
	return protocol.MakeMultiBulkReply(elements)
}
