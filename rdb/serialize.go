package rdb

import (
	"math"

	"github.com/jhx1008/Tendis/redis"
)

// serializeBody emits the RDB body for one key's current value, dispatched
// by logical type per §4.4. It returns ErrEmptyAggregate for an aggregate
// with no elements, per the "empty list rejected" invariant (§8 scenario 2)
// — generalized here to every aggregate type, since none of them are
// meaningful to DUMP empty.
func serializeBody(rds *redis.DataStructure, key []byte, dataType redis.DataType) (TypeTag, []byte, error) {
	switch dataType {
	case redis.String:
		value, err := rds.Get(key)
		if err != nil {
			return 0, nil, err
		}
		c := NewWriteCursor()
		PutString(c, value)
		return TypeString, c.Bytes(), nil

	case redis.Set:
		members, err := rds.SMembers(key)
		if err != nil {
			return 0, nil, err
		}
		if len(members) == 0 {
			return 0, nil, ErrEmptyAggregate
		}
		c := NewWriteCursor()
		PutLength(c, uint64(len(members)))
		for _, m := range members {
			PutString(c, m)
		}
		return TypeSet, c.Bytes(), nil

	case redis.Hash:
		fields, err := rds.HGetAll(key)
		if err != nil {
			return 0, nil, err
		}
		if len(fields) == 0 {
			return 0, nil, ErrEmptyAggregate
		}
		c := NewWriteCursor()
		PutLength(c, uint64(len(fields)))
		for field, value := range fields {
			PutString(c, []byte(field))
			PutString(c, value)
		}
		return TypeHash, c.Bytes(), nil

	case redis.ZSet:
		members, err := rds.ZMembers(key)
		if err != nil {
			return 0, nil, err
		}
		if len(members) == 0 {
			return 0, nil, ErrEmptyAggregate
		}
		ranked, err := rds.ZRange(key, 0, -1)
		if err != nil {
			return 0, nil, err
		}
		c := NewWriteCursor()
		PutLength(c, uint64(len(members)))
		// Emitted in reverse rank order (highest score first) per §4.4;
		// decode is order-agnostic.
		for i := len(ranked) - 1; i >= 0; i-- {
			member := ranked[i]
			PutString(c, []byte(member))
			c.PutUint64LE(math.Float64bits(members[member]))
		}
		return TypeZSet, c.Bytes(), nil

	case redis.List:
		size, err := rds.LLen(key)
		if err != nil {
			return 0, nil, err
		}
		if size == 0 {
			return 0, nil, ErrEmptyAggregate
		}
		elements, err := rds.LRange(key, 0, -1)
		if err != nil {
			return 0, nil, err
		}
		body, err := BuildQuicklistBody(elements)
		if err != nil {
			return 0, nil, err
		}
		return TypeQuicklist, body, nil

	default:
		return 0, nil, redis.ErrWrongTypeOperation
	}
}
