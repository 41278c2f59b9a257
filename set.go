package redisfacade

import (
	"context"

	"github.com/mediocregopher/radix/v3"
)

// SetAdd adds member to the set at key. It reports whether the member was
// not present before.
func (rs *RedisStore) SetAdd(ctx context.Context, key string, member []byte) (bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return false, err
	}
	if member == nil {
		return false, configErr("nil member for key %q", key)
	}

	var n int
	if err := rs.do(ctx, "SADD", radix.Cmd(&n, "SADD", k, string(member))); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetContains compares payloads byte for byte.
func (rs *RedisStore) SetContains(ctx context.Context, key string, member []byte) (bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return false, err
	}
	if member == nil {
		return false, configErr("nil member for key %q", key)
	}

	var n int
	if err := rs.do(ctx, "SISMEMBER", radix.Cmd(&n, "SISMEMBER", k, string(member))); err != nil {
		return false, err
	}
	return n == 1, nil
}

func (rs *RedisStore) SetMembers(ctx context.Context, key string) ([][]byte, error) {
	k, err := rs.key(key)
	if err != nil {
		return nil, err
	}

	var res [][]byte
	if err := rs.do(ctx, "SMEMBERS", radix.Cmd(&res, "SMEMBERS", k)); err != nil {
		return nil, err
	}
	return res, nil
}
