package database

import (
	redisds "github.com/jhx1008/Tendis/redis"
	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"
)

var typeNames = map[redisds.DataType]string{
	redisds.String: "string",
	redisds.Hash:   "hash",
	redisds.Set:    "set",
	redisds.List:   "list",
	redisds.ZSet:   "zset",
}

func execType(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	dataType, err := db.data.Type(key)
	if err != nil {
		return wrapDataErr(err)
	}
	name, ok := typeNames[dataType]
	if !ok {
		name = "none"
	}
	return protocol.MakeStatusReply(name)
}

func execDel(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.LockKey(string(key))
	defer db.seg.UnlockKey(string(key))
	exists, err := db.data.Exists(key)
	if err != nil {
		return wrapDataErr(err)
	}
	if !exists {
		return protocol.MakeIntReply(0)
	}
	if err := db.data.Del(key); err != nil {
		return wrapDataErr(err)
	}
	return protocol.MakeIntReply(1)
}

func execExists(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	exists, err := db.data.Exists(key)
	if err != nil {
		return wrapDataErr(err)
	}
	if exists {
		return protocol.MakeIntReply(1)
	}
	return protocol.MakeIntReply(0)
}
