package database

import (
	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"
)

func execHSet(db *DB, args [][]byte) redis.Reply {
	key, field, value := args[0], args[1], args[2]
	db.seg.LockKey(string(key))
	defer db.seg.UnlockKey(string(key))
	created, err := db.data.HSet(key, field, value)
	if err != nil {
		return wrapDataErr(err)
	}
	if created {
		return protocol.MakeIntReply(1)
	}
	return protocol.MakeIntReply(0)
}

func execHGet(db *DB, args [][]byte) redis.Reply {
	key, field := args[0], args[1]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	value, err := db.data.HGet(key, field)
	if err != nil {
		return wrapDataErr(err)
	}
	if value == nil {
		return protocol.MakeNullBulkReply()
	}
	return protocol.MakeBulkReply(value)
}

func execHDel(db *DB, args [][]byte) redis.Reply {
	key, field := args[0], args[1]
	db.seg.LockKey(string(key))
	defer db.seg.UnlockKey(string(key))
	deleted, err := db.data.HDel(key, field)
	if err != nil {
		return wrapDataErr(err)
	}
	if deleted {
		return protocol.MakeIntReply(1)
	}
	return protocol.MakeIntReply(0)
}

func execHGetAll(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	fields, err := db.data.HGetAll(key)
	if err != nil {
		return wrapDataErr(err)
	}
	result := make([][]byte, 0, len(fields)*2)
	for field, value := range fields {
		result = append(result, []byte(field), value)
	}
	return protocol.MakeMultiBulkReply(result)
}
