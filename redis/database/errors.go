package database

import (
	"errors"

	redisds "github.com/jhx1008/Tendis/redis"
	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"
)

// wrapDataErr maps a *redis.DataStructure error into the RESP error reply a
// client expects, giving redisds.ErrWrongTypeOperation its own well-known
// reply text and falling back to a generic ERR for everything else.
func wrapDataErr(err error) redis.Reply {
	if errors.Is(err, redisds.ErrWrongTypeOperation) {
		return protocol.MakeErrReply(redisds.ErrWrongTypeOperation.Error())
	}
	return protocol.MakeErrReply("ERR " + err.Error())
}
