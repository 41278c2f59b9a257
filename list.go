package redisfacade

import (
	"context"

	"github.com/mediocregopher/radix/v3"
)

// ListLeftPush inserts item at the head of the list, creating it when
// needed, and returns the new length.
func (rs *RedisStore) ListLeftPush(ctx context.Context, key string, item []byte) (int64, error) {
	k, err := rs.key(key)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, configErr("nil item for key %q", key)
	}

	var n int64
	if err := rs.do(ctx, "LPUSH", radix.Cmd(&n, "LPUSH", k, string(item))); err != nil {
		return 0, err
	}
	return n, nil
}

// ListRightPop removes and returns the tail of the list.
func (rs *RedisStore) ListRightPop(ctx context.Context, key string) ([]byte, bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return nil, false, err
	}

	var b []byte
	mn := radix.MaybeNil{Rcv: &b}
	if err := rs.do(ctx, "RPOP", radix.Cmd(&mn, "RPOP", k)); err != nil {
		return nil, false, err
	}
	if mn.Nil {
		return nil, false, nil
	}
	if b == nil {
		b = []byte{}
	}
	return b, true, nil
}

// ListLength returns 0 for a missing key.
func (rs *RedisStore) ListLength(ctx context.Context, key string) (int64, error) {
	k, err := rs.key(key)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := rs.do(ctx, "LLEN", radix.Cmd(&n, "LLEN", k)); err != nil {
		return 0, err
	}
	return n, nil
}

// ListRange returns every element, head first.
func (rs *RedisStore) ListRange(ctx context.Context, key string) ([][]byte, error) {
	k, err := rs.key(key)
	if err != nil {
		return nil, err
	}

	var res [][]byte
	if err := rs.do(ctx, "LRANGE", radix.Cmd(&res, "LRANGE", k, "0", "-1")); err != nil {
		return nil, err
	}
	return res, nil
}

// ListRemove removes every element equal to item and returns how many
// were removed.
func (rs *RedisStore) ListRemove(ctx context.Context, key string, item []byte) (int64, error) {
	k, err := rs.key(key)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, configErr("nil item for key %q", key)
	}

	var n int64
	if err := rs.do(ctx, "LREM", radix.Cmd(&n, "LREM", k, "0", string(item))); err != nil {
		return 0, err
	}
	return n, nil
}
