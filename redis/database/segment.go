package database

import (
	"hash/fnv"
	"sort"
	"sync"
)

// lockStripeCount is the number of independent lock stripes a Segment
// spreads per-key locking across. Two different keys hashing to the same
// stripe contend unnecessarily but never incorrectly.
const lockStripeCount = 1024

// Segment provides per-key locking and multi-key batch locking, the
// concrete realization of the distilled spec's segment manager collaborator
// (getDbWithKeyLock / getAllKeysLocked, §6).
type Segment struct {
	stripes []*sync.RWMutex
}

func NewSegment() *Segment {
	stripes := make([]*sync.RWMutex, lockStripeCount)
	for i := range stripes {
		stripes[i] = &sync.RWMutex{}
	}
	return &Segment{stripes: stripes}
}

func stripeIndex(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % lockStripeCount
}

// LockKey acquires the exclusive lock guarding key, for RESTORE.
func (s *Segment) LockKey(key string) { s.stripes[stripeIndex(key)].Lock() }

// UnlockKey releases LockKey's lock.
func (s *Segment) UnlockKey(key string) { s.stripes[stripeIndex(key)].Unlock() }

// RLockKey acquires the shared lock guarding key, for DUMP.
func (s *Segment) RLockKey(key string) { s.stripes[stripeIndex(key)].RLock() }

// RUnlockKey releases RLockKey's lock.
func (s *Segment) RUnlockKey(key string) { s.stripes[stripeIndex(key)].RUnlock() }

// lockAcrossDatabases locks the stripes guarding a batch of (dbIndex, key)
// pairs that may span several logical databases' own Segments, each pair
// naming the database it belongs to via dbIndices[i]. Locks are acquired in
// a fixed (dbIndex, stripe) order so two concurrent batch lockers — a
// DUMPX and a RESTOREX, or two DUMPXes — can never deadlock against each
// other even though they touch different Segment instances.
func lockAcrossDatabases(server *Server, dbIndices []int, keys [][]byte, write bool) func() {
	type target struct {
		dbIndex int
		stripe  uint32
	}
	seen := make(map[target]bool, len(keys))
	for i, key := range keys {
		seen[target{dbIndices[i], stripeIndex(string(key))}] = true
	}
	targets := make([]target, 0, len(seen))
	for t := range seen {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].dbIndex != targets[j].dbIndex {
			return targets[i].dbIndex < targets[j].dbIndex
		}
		return targets[i].stripe < targets[j].stripe
	})

	for _, t := range targets {
		mu := server.dbAt(t.dbIndex).seg.stripes[t.stripe]
		if write {
			mu.Lock()
		} else {
			mu.RLock()
		}
	}
	return func() {
		for _, t := range targets {
			mu := server.dbAt(t.dbIndex).seg.stripes[t.stripe]
			if write {
				mu.Unlock()
			} else {
				mu.RUnlock()
			}
		}
	}
}
