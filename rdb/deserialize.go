package rdb

import (
	"math"
	"time"

	"github.com/jhx1008/Tendis/redis"
)

// deserializeBody parses a body of the given type tag and writes the
// equivalent record set into rds. TTL is applied only to the String path;
// aggregate types do not carry a per-key TTL in this design (matching the
// distilled spec, which only threads TTL through the String write).
//
// Every aggregate path stages its element records into a single
// WriteBatch and commits once, so a failure partway through a multi-
// element restore never leaves a partially-populated key (§4.7/§5).
func deserializeBody(rds *redis.DataStructure, key []byte, ttl time.Duration, tag TypeTag, body []byte) error {
	c := NewCursor(body)
	switch tag {
	case TypeString:
		value, err := GetString(c)
		if err != nil {
			return err
		}
		return rds.Set(key, ttl, value)

	case TypeSet:
		count, encoded, err := GetLength(c)
		if err != nil {
			return err
		}
		if encoded {
			return ErrUnknownLengthEncoding
		}
		if count == 0 {
			return nil
		}
		wb := rds.NewWriteBatch()
		meta := rds.NewMetadata(redis.Set)
		var fields [][]byte
		for i := uint64(0); i < count; i++ {
			member, err := GetString(c)
			if err != nil {
				return err
			}
			fields, err = rds.SAddBatch(wb, key, member, meta, fields)
			if err != nil {
				return err
			}
		}
		return rds.CommitBatch(wb, key, meta)

	case TypeHash:
		count, encoded, err := GetLength(c)
		if err != nil {
			return err
		}
		if encoded {
			return ErrUnknownLengthEncoding
		}
		if count == 0 {
			return nil
		}
		wb := rds.NewWriteBatch()
		meta := rds.NewMetadata(redis.Hash)
		var fields [][]byte
		for i := uint64(0); i < count; i++ {
			field, err := GetString(c)
			if err != nil {
				return err
			}
			value, err := GetString(c)
			if err != nil {
				return err
			}
			fields, err = rds.HSetBatch(wb, key, field, value, meta, fields)
			if err != nil {
				return err
			}
		}
		return rds.CommitBatch(wb, key, meta)

	case TypeZSet:
		return deserializeZSet(rds, key, c)

	case TypeQuicklist:
		elements, err := ParseQuicklistBody(c)
		if err != nil {
			return err
		}
		if len(elements) == 0 {
			return nil
		}
		wb := rds.NewWriteBatch()
		meta := rds.NewMetadata(redis.List)
		for _, elem := range elements {
			if err := rds.RPushBatch(wb, key, elem, meta); err != nil {
				return err
			}
		}
		return rds.CommitBatch(wb, key, meta)

	default:
		return ErrParsePkt("unknown type tag")
	}
}

// deserializeZSet reads (member, score) pairs into an in-memory map —
// last-write-wins for duplicate members within the same payload, per §4.7
// scenario 5 — then stages them into a single batch and commits once,
// mirroring the distilled spec's meta+head-sentinel-commit-then-
// genericZadd path (§4.7, §5) without its per-member commit.
func deserializeZSet(rds *redis.DataStructure, key []byte, c *Cursor) error {
	count, encoded, err := GetLength(c)
	if err != nil {
		return err
	}
	if encoded {
		return ErrUnknownLengthEncoding
	}
	if count == 0 {
		return nil
	}

	members := make(map[string]float64, count)
	order := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		member, err := GetString(c)
		if err != nil {
			return err
		}
		scoreBits, err := c.GetUint64LE()
		if err != nil {
			return err
		}
		score := math.Float64frombits(scoreBits)
		if _, seen := members[string(member)]; !seen {
			order = append(order, string(member))
		}
		members[string(member)] = score
	}

	wb := rds.NewWriteBatch()
	meta := rds.NewMetadata(redis.ZSet)
	var fields [][]byte
	for _, member := range order {
		fields, err = rds.ZAddBatch(wb, key, member, members[member], meta, fields)
		if err != nil {
			return err
		}
	}
	return rds.CommitBatch(wb, key, meta)
}
