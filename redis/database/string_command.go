package database

import (
	"strconv"
	"strings"
	"time"

	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"
)

// execSet implements SET key value [EX seconds].
func execSet(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	value := args[1]
	var ttl time.Duration
	if len(args) > 2 {
		if len(args) != 4 || strings.ToLower(string(args[2])) != "ex" {
			return protocol.MakeErrReply("ERR syntax error")
		}
		seconds, err := strconv.ParseInt(string(args[3]), 10, 64)
		if err != nil || seconds <= 0 {
			return protocol.MakeErrReply("ERR invalid expire time in 'set' command")
		}
		ttl = time.Duration(seconds) * time.Second
	}

	db.seg.LockKey(string(key))
	defer db.seg.UnlockKey(string(key))
	if err := db.data.Set(key, ttl, value); err != nil {
		return protocol.MakeErrReply(err.Error())
	}
	return protocol.MakeOkReply()
}

func execGet(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	value, err := db.data.Get(key)
	if err != nil {
		return wrapDataErr(err)
	}
	if value == nil {
		return protocol.MakeNullBulkReply()
	}
	return protocol.MakeBulkReply(value)
}
