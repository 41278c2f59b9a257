package redisfacade

import (
	"context"
	"strconv"
	"time"

	"github.com/mediocregopher/radix/v3"
)

// Set stores value under key. ttl of zero means no expiration. The result
// is false when the write condition was not met, or always false with
// FlagFireAndForget.
func (rs *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, when When, flags Flags) (bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return false, err
	}
	if value == nil {
		return false, configErr("nil value for key %q", key)
	}
	if ttl < 0 {
		return false, configErr("negative ttl %s", ttl)
	}

	args := []string{k, string(value)}
	if ttl > 0 {
		args = append(args, "PX", strconv.FormatInt(millis(ttl), 10))
	}
	if flags&FlagKeepTTL != 0 {
		if ttl > 0 {
			return false, configErr("KEEPTTL together with ttl")
		}
		args = append(args, "KEEPTTL")
	}
	switch when {
	case WhenNotExists:
		args = append(args, "NX")
	case WhenExists:
		args = append(args, "XX")
	}

	if flags&FlagFireAndForget != 0 {
		pool, err := rs.pool()
		if err != nil {
			return false, err
		}
		go func() {
			if err := pool.Do(radix.Cmd(nil, "SET", args...)); err != nil {
				rs.log.Error().Err(err).Str("key", k).Msg("fire and forget SET failed")
			}
		}()
		return false, nil
	}

	var status string
	mn := radix.MaybeNil{Rcv: &status}
	if err := rs.do(ctx, "SET", radix.Cmd(&mn, "SET", args...)); err != nil {
		return false, err
	}
	return !mn.Nil, nil
}

// SetUntil stores value under key until deadline.
func (rs *RedisStore) SetUntil(ctx context.Context, key string, value []byte, deadline time.Time) (bool, error) {
	ttl := time.Until(deadline)
	if ttl <= 0 {
		return false, configErr("deadline %s is in the past", deadline.Format(time.RFC3339))
	}
	return rs.Set(ctx, key, value, ttl, WhenAlways, FlagNone)
}

// Get returns the payload stored under key. found is false when the key
// does not exist.
func (rs *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return nil, false, err
	}

	var b []byte
	mn := radix.MaybeNil{Rcv: &b}
	if err := rs.do(ctx, "GET", radix.Cmd(&mn, "GET", k)); err != nil {
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

// MGet reads keys with a single MGET. Items follow the order of keys.
func (rs *RedisStore) MGet(ctx context.Context, keys []string) ([]Item[[]byte], error) {
	if len(keys) == 0 {
		return []Item[[]byte]{}, nil
	}
	pks, err := rs.keys(keys)
	if err != nil {
		return nil, err
	}

	var nb nullableBulks
	if err := rs.do(ctx, "MGET", radix.Cmd(&nb, "MGET", pks...)); err != nil {
		return nil, err
	}

	res := make([]Item[[]byte], len(keys))
	for i, k := range keys {
		res[i] = Item[[]byte]{Key: k}
		if i < len(nb.vals) {
			res[i].Value = nb.vals[i]
			res[i].Found = nb.found[i]
		}
	}
	return res, nil
}

// MSet writes entries with a single MSET, or MSETNX for WhenNotExists.
// The result covers the whole batch.
func (rs *RedisStore) MSet(ctx context.Context, entries []Entry[[]byte], when When) (bool, error) {
	if len(entries) == 0 {
		return true, nil
	}
	if when == WhenExists {
		return false, configErr("batch set does not support WhenExists")
	}

	args := make([]string, 0, len(entries)*2)
	for _, e := range entries {
		k, err := rs.key(e.Key)
		if err != nil {
			return false, err
		}
		if e.Value == nil {
			return false, configErr("nil value for key %q", e.Key)
		}
		args = append(args, k, string(e.Value))
	}

	if when == WhenNotExists {
		var n int
		if err := rs.do(ctx, "MSETNX", radix.Cmd(&n, "MSETNX", args...)); err != nil {
			return false, err
		}
		return n == 1, nil
	}

	if err := rs.do(ctx, "MSET", radix.Cmd(nil, "MSET", args...)); err != nil {
		return false, err
	}
	return true, nil
}

func millis(d time.Duration) int64 {
	ms := d.Milliseconds()
	if ms == 0 && d > 0 {
		ms = 1
	}
	return ms
}
