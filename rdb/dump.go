// Command entry points (C7): DUMP / DUMPX / RESTORE / RESTOREX.
package rdb

import (
	"time"

	"github.com/jhx1008/Tendis/redis"
)

var ErrBusyKey = ErrParsePkt("BUSYKEY Target key name already exists.")
var ErrInvalidTTL = ErrParsePkt("Invalid TTL value, must be >= 0")

// Dump serializes key's current value into a self-describing payload, or
// returns (nil, nil) if the key is missing or expired — the null-reply
// case DUMP maps to at the RESP layer.
func Dump(rds *redis.DataStructure, key []byte) ([]byte, error) {
	dataType, err := rds.Type(key)
	if err != nil {
		return nil, err
	}
	if dataType == 0 {
		return nil, nil
	}
	tag, body, err := serializeBody(rds, key, dataType)
	if err != nil {
		return nil, err
	}
	return EncodeEnvelope(tag, body, 0, false), nil
}

// DumpXEntry is one (dbID, key, payload) triple produced by DumpX.
type DumpXEntry struct {
	DBID    int
	Key     []byte
	Payload []byte
}

// DumpX serializes a batch of keys, each against its own DataStructure
// (one per logical database), skipping keys that are missing or expired
// rather than surfacing an error for them — the reading adopted for the
// distilled spec's always-true DUMPX guard (§9 Open Question #2). Each
// entry's payload carries a leading version-hint length so peers can
// learn the source's version epoch, per §4.6.
func DumpX(dbs []*redis.DataStructure, dbIDs []int, keys [][]byte, versionEpoch uint64) ([]DumpXEntry, error) {
	entries := make([]DumpXEntry, 0, len(keys))
	for i, key := range keys {
		rds := dbs[dbIDs[i]]
		dataType, err := rds.Type(key)
		if err != nil {
			return nil, err
		}
		if dataType == 0 {
			continue
		}
		tag, body, err := serializeBody(rds, key, dataType)
		if err != nil {
			return nil, err
		}
		payload := EncodeEnvelope(tag, body, versionEpoch, true)
		entries = append(entries, DumpXEntry{DBID: dbIDs[i], Key: key, Payload: payload})
	}
	return entries, nil
}

// Restore validates and deserializes payload into key. ttlMs of 0 means no
// expiry; a negative TTL is rejected. If key already exists and replace is
// false, ErrBusyKey is returned without touching the store.
func Restore(rds *redis.DataStructure, key []byte, ttlMs int64, payload []byte, replace bool) error {
	if ttlMs < 0 {
		return ErrInvalidTTL
	}
	exists, err := rds.Exists(key)
	if err != nil {
		return err
	}
	if exists && !replace {
		return ErrBusyKey
	}

	tag, body, err := DecodeEnvelope(payload, false)
	if err != nil {
		return err
	}

	if exists {
		if err := rds.Del(key); err != nil {
			return err
		}
	}

	var ttl time.Duration
	if ttlMs > 0 {
		ttl = time.Duration(ttlMs) * time.Millisecond
	}
	return deserializeBody(rds, key, ttl, tag, body)
}

// RestoreX is a stub, per the distilled spec: it accepts and acknowledges
// without consuming its arguments. Flagged in §9 as likely incomplete in
// the source this was distilled from; preserved as-is rather than guessed
// at.
func RestoreX() error {
	return nil
}
