package database

import (
	"strconv"

	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"
)

func execZAdd(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	pairs := args[1:]
	if len(pairs)%2 != 0 {
		return protocol.MakeArgNumErrReply("zadd")
	}

	db.seg.LockKey(string(key))
	defer db.seg.UnlockKey(string(key))
	var addedCount int64
	for i := 0; i < len(pairs); i += 2 {
		score, err := strconv.ParseFloat(string(pairs[i]), 64)
		if err != nil {
			return protocol.MakeErrReply("ERR value is not a valid float")
		}
		member := string(pairs[i+1])
		added, dataErr := db.data.ZAdd(key, member, score)
		if dataErr != nil {
			return wrapDataErr(dataErr)
		}
		if added {
			addedCount++
		}
	}
	return protocol.MakeIntReply(addedCount)
}

func execZScore(db *DB, args [][]byte) redis.Reply {
	key, member := args[0], args[1]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	score, ok, err := db.data.ZScore(key, member)
	if err != nil {
		return wrapDataErr(err)
	}
	if !ok {
		return protocol.MakeNullBulkReply()
	}
	return protocol.MakeBulkReply([]byte(strconv.FormatFloat(score, 'g', -1, 64)))
}

func execZRange(db *DB, args [][]byte) redis.Reply {
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
	members, dataErr := db.data.ZRange(key, start, stop)
	if dataErr != nil {
		return wrapDataErr(dataErr)
	}
	if members == nil {
		return protocol.MakeEmptyMultiBulkReply()
	}
	result := make([][]byte, len(members))
	for i, m := range members {
		result[i] = []byte(m)
	}
	return protocol.MakeMultiBulkReply(result)
}
