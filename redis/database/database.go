package database

import (
	"strings"

	redisds "github.com/jhx1008/Tendis/redis"
	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"
)

// DB is one logical Redis database (as selected by SELECT): a command
// router in front of a *redis.DataStructure, with its own key-locking
// segment so DUMPX/RESTOREX batches spanning several keys in this database
// never deadlock against single-key commands.
type DB struct {
	index  int
	data   *redisds.DataStructure
	seg    *Segment
	server *Server
}

// ExecFunc is the signature every registered command handler implements.
// args does not include the command name itself.
type ExecFunc func(db *DB, args [][]byte) redis.Reply

// PreFunc analyses a command line when it is queued for `multi`,
// returning its write keys and read keys. Unused until transactions are
// implemented; kept as a named type so command registration stays
// forward-compatible with the teacher's shape.
type PreFunc func(args [][]byte) ([]string, []string)

// CmdLine is alias for [][]byte, representing one command line.
type CmdLine = [][]byte

// UndoFunc returns undo logs for the given command line, executed head to
// tail on rollback. Unused until transactions are implemented.
type UndoFunc func(db *DB, args [][]byte) []CmdLine

func makeDB(index int, data *redisds.DataStructure) *DB {
	return &DB{
		index: index,
		data:  data,
		seg:   NewSegment(),
	}
}

// Exec looks up cmdLine[0] in the command table, arity-checks it and
// dispatches to its handler.
func (db *DB) Exec(cmdLine CmdLine) redis.Reply {
	if len(cmdLine) == 0 {
		return protocol.MakeErrReply("ERR empty command")
	}
	cmdName := strings.ToLower(string(cmdLine[0]))
	cmd, ok := cmdTable[cmdName]
	if !ok {
		return protocol.MakeUnknownCommandErrReply(cmdName)
	}
	if !validateArity(cmd.arity, cmdLine) {
		return protocol.MakeArgNumErrReply(cmdName)
	}
	return cmd.executor(db, cmdLine[1:])
}

func validateArity(arity int, cmdLine CmdLine) bool {
	argNum := len(cmdLine)
	if arity >= 0 {
		return argNum == arity
	}
	return argNum >= -arity
}
