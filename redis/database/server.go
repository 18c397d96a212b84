package database

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	redisds "github.com/jhx1008/Tendis/redis"
	"github.com/jhx1008/Tendis/redis/config"
	"github.com/jhx1008/Tendis/redis/interface/redis"
	"github.com/jhx1008/Tendis/redis/protocol"

	tendis "github.com/jhx1008/Tendis"
	"github.com/hdt3213/godis/lib/logger"
)

// Server is a standalone multi-database Tendis instance: one
// *redis.DataStructure (its own Tendis engine handle) per logical database
// index, selected by SELECT and addressed by DUMPX/RESTOREX.
type Server struct {
	dbSet []*atomic.Value

	// versionEpoch is stamped into every DUMPX payload's version hint so a
	// RESTOREX peer can tell which generation of this server produced it.
	versionEpoch uint64
}

func (s *Server) dbCount() int {
	return len(s.dbSet)
}

func (s *Server) dbAt(index int) *DB {
	return s.dbSet[index].Load().(*DB)
}

// Exec selects the client's current database and dispatches cmdLine to it.
// SELECT is handled here, since it mutates connection state rather than
// database state.
func (s *Server) Exec(client redis.Connection, cmdLine [][]byte) (result redis.Reply) {
	defer func() {
		if err := recover(); err != nil {
			logger.Error(err)
			result = protocol.MakeErrReply("ERR unknown error")
		}
	}()

	if len(cmdLine) == 0 {
		return protocol.MakeErrReply("ERR empty command")
	}
	cmdName := strings.ToLower(string(cmdLine[0]))
	if cmdName == "select" {
		return execSelect(client, s, cmdLine[1:])
	}

	dbIndex := 0
	if client != nil {
		dbIndex = client.GetDBIndex()
	}
	if dbIndex < 0 || dbIndex >= s.dbCount() {
		return protocol.MakeErrReply("ERR DB index is out of range")
	}
	return s.dbAt(dbIndex).Exec(cmdLine)
}

func execSelect(client redis.Connection, server *Server, args [][]byte) redis.Reply {
	if len(args) != 1 {
		return protocol.MakeArgNumErrReply("select")
	}
	index, err := strconv.Atoi(string(args[0]))
	if err != nil {
		return protocol.MakeErrReply("ERR value is not an integer or out of range")
	}
	if index < 0 || index >= server.dbCount() {
		return protocol.MakeErrReply("ERR DB index is out of range")
	}
	if client != nil {
		client.SelectDB(index)
	}
	return protocol.MakeOkReply()
}

func (s *Server) AfterClientClose(c redis.Connection) {
	// Command execution holds no per-connection state in this design beyond
	// what redis.Connection itself tracks, so there is nothing to release.
}

func (s *Server) Close() error {
	for _, holder := range s.dbSet {
		db := holder.Load().(*DB)
		if err := db.data.Close(); err != nil {
			return err
		}
	}
	return nil
}

// NewStandaloneServer creates a standalone Tendis server with one Tendis
// engine instance per logical database.
func NewStandaloneServer() *Server {
	server := &Server{}
	if config.Properties.Databases == 0 {
		config.Properties.Databases = 16
	}
	server.dbSet = make([]*atomic.Value, config.Properties.Databases)
	server.versionEpoch = uint64(time.Now().UnixNano())

	baseDir := config.Properties.Dir
	if baseDir == "" {
		baseDir = "."
	}
	for i := range server.dbSet {
		opts := tendis.DefaultOptions
		opts.DirPath = baseDir + "/db" + strconv.Itoa(i)
		data, err := redisds.NewDataStructure(opts)
		if err != nil {
			logger.Fatal(err)
		}
		data.SetDBID(byte(i))
		db := makeDB(i, data)
		db.server = server
		holder := &atomic.Value{}
		holder.Store(db)
		server.dbSet[i] = holder
	}
	return server
}
