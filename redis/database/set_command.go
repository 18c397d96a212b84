package database

import (
	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"
)

func execSAdd(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.LockKey(string(key))
	defer db.seg.UnlockKey(string(key))
	var addedCount int64
	for _, member := range args[1:] {
		added, err := db.data.SAdd(key, member)
		if err != nil {
			return wrapDataErr(err)
		}
		if added {
			addedCount++
		}
	}
	return protocol.MakeIntReply(addedCount)
}

func execSIsMember(db *DB, args [][]byte) redis.Reply {
	key, member := args[0], args[1]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	ok, err := db.data.SIsMember(key, member)
	if err != nil {
		return wrapDataErr(err)
	}
	if ok {
		return protocol.MakeIntReply(1)
	}
	return protocol.MakeIntReply(0)
}

func execSCard(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	card, err := db.data.SCard(key)
	if err != nil {
		return wrapDataErr(err)
	}
	return protocol.MakeIntReply(int64(card))
}

func execSMembers(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	members, err := db.data.SMembers(key)
	if err != nil {
		return wrapDataErr(err)
	}
	return protocol.MakeMultiBulkReply(members)
}
