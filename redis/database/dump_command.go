package database

import (
	"strconv"
	"strings"

	redisds "github.com/jhx1008/Tendis/redis"
	"github.com/jhx1008/Tendis/rdb"
	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"
)

// execDump implements DUMP key.
func execDump(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	db.seg.RLockKey(string(key))
	defer db.seg.RUnlockKey(string(key))
	payload, err := rdb.Dump(db.data, key)
	if err != nil {
		return wrapDataErr(err)
	}
	if payload == nil {
		return protocol.MakeNullBulkReply()
	}
	return protocol.MakeBulkReply(payload)
}

// execDumpX implements DUMPX db1 key1 [db2 key2 ...], serializing each key
// against its own logical database. Keys across every named database are
// locked together, in a fixed stripe order, so a concurrent RESTOREX batch
// touching the same keys cannot deadlock against this one (§5, §6).
func execDumpX(db *DB, args [][]byte) redis.Reply {
	if len(args)%2 != 0 || len(args) == 0 {
		return protocol.MakeErrReply("ERR wrong number of arguments for 'dumpx' command")
	}
	n := len(args) / 2
	dbIDs := make([]int, n)
	keys := make([][]byte, n)
	dbs := make([]*redisds.DataStructure, db.server.dbCount())
	for i := range dbs {
		dbs[i] = db.server.dbAt(i).data
	}
	for i := 0; i < n; i++ {
		idx, err := strconv.Atoi(string(args[2*i]))
		if err != nil || idx < 0 || idx >= len(dbs) {
			return protocol.MakeErrReply("ERR invalid DB index")
		}
		dbIDs[i] = idx
		keys[i] = args[2*i+1]
	}

	unlock := lockAcrossDatabases(db.server, dbIDs, keys, false)
	defer unlock()

	entries, err := rdb.DumpX(dbs, dbIDs, keys, db.server.versionEpoch)
	if err != nil {
		return wrapDataErr(err)
	}
	result := make([][]byte, 0, 1+len(entries)*3)
	result = append(result, []byte("RESTOREX"))
	for _, e := range entries {
		result = append(result, []byte(strconv.Itoa(e.DBID)), e.Key, e.Payload)
	}
	return protocol.MakeMultiBulkReply(result)
}

// execRestore implements RESTORE key ttl serialized-value [REPLACE].
func execRestore(db *DB, args [][]byte) redis.Reply {
	key := args[0]
	ttlMs, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return protocol.MakeErrReply("ERR Invalid TTL value, must be >= 0")
	}
	payload := args[2]
	replace := false
	if len(args) == 4 {
		if strings.ToUpper(string(args[3])) != "REPLACE" {
			return protocol.MakeErrReply("ERR syntax error")
		}
		replace = true
	}

	db.seg.LockKey(string(key))
	defer db.seg.UnlockKey(string(key))
	if err := rdb.Restore(db.data, key, ttlMs, payload, replace); err != nil {
		return protocol.MakeErrReply(err.Error())
	}
	return protocol.MakeOkReply()
}

// execRestoreX implements RESTOREX. The distilled spec documents this as an
// accept-and-acknowledge stub; see rdb.RestoreX's doc comment.
func execRestoreX(db *DB, args [][]byte) redis.Reply {
	if err := rdb.RestoreX(); err != nil {
		return protocol.MakeErrReply(err.Error())
	}
	return protocol.MakeOkReply()
}
