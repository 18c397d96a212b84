package database

import (
	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"
)

func execPing(db *DB, args [][]byte) redis.Reply {
	return &protocol.PongReply{}
}
