package database

import "strings"

type command struct {
	name     string
	executor ExecFunc
	//// prepare returns related keys command
	//prepare PreFunc
	//// undo generates undo-log before command actually executed, in case the command needs to be rolled back
	//undo UndoFunc
	// arity means allowed number of cmdArgs, arity < 0 means len(args) >= -arity.
	// for example: the arity of `get` is 2, `mget` is -2
	arity int
	flags int
	extra *commandExtra
}
type commandExtra struct {
	signs    []string
	firstKey int
	lastKey  int
	keyStep  int
}

// cmdTable holds every registered command, keyed by lowercased name.
// arity counts the whole command line, including the command name itself.
var cmdTable = make(map[string]*command)

// RegisterCommand adds a command to the router, generalizing over teacher
// command registration by keeping it a plain map rather than a fixed
// switch statement, so DUMP/DUMPX/RESTORE/RESTOREX register the same way
// as every pre-existing command.
func RegisterCommand(name string, executor ExecFunc, arity int) {
	cmdTable[strings.ToLower(name)] = &command{
		name:     strings.ToLower(name),
		executor: executor,
		arity:    arity,
	}
}

func init() {
	RegisterCommand("ping", execPing, 1)

	RegisterCommand("set", execSet, -3)
	RegisterCommand("get", execGet, 2)

	RegisterCommand("hset", execHSet, 4)
	RegisterCommand("hget", execHGet, 3)
	RegisterCommand("hdel", execHDel, 3)
	RegisterCommand("hgetall", execHGetAll, 2)

	RegisterCommand("sadd", execSAdd, -3)
	RegisterCommand("sismember", execSIsMember, 3)
	RegisterCommand("scard", execSCard, 2)
	RegisterCommand("smembers", execSMembers, 2)

	RegisterCommand("rpush", execRPush, -3)
	RegisterCommand("llen", execLLen, 2)
	RegisterCommand("lrange", execLRange, 4)

	RegisterCommand("zadd", execZAdd, -4)
	RegisterCommand("zscore", execZScore, 3)
	RegisterCommand("zrange", execZRange, 4)

	RegisterCommand("type", execType, 2)
	RegisterCommand("del", execDel, 2)
	RegisterCommand("exists", execExists, 2)

	RegisterCommand("dump", execDump, 2)
	RegisterCommand("dumpx", execDumpX, -2)
	RegisterCommand("restore", execRestore, -4)
	RegisterCommand("restorex", execRestoreX, -4)
}
