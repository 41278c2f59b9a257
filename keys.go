package redisfacade

import (
	"context"
	"strconv"
	"time"

	"github.com/mediocregopher/radix/v3"
)

func (rs *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return false, err
	}

	var n int
	if err := rs.do(ctx, "EXISTS", radix.Cmd(&n, "EXISTS", k)); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Expire sets the time to live of key. It reports false when the key does
// not exist.
func (rs *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return false, err
	}
	if ttl <= 0 {
		return false, configErr("non-positive ttl %s", ttl)
	}

	var n int
	if err := rs.do(ctx, "PEXPIRE", radix.Cmd(&n, "PEXPIRE", k, strconv.FormatInt(millis(ttl), 10))); err != nil {
		return false, err
	}
	return n == 1, nil
}

// Delete reports whether key existed.
func (rs *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return false, err
	}

	var n int
	if err := rs.do(ctx, "DEL", radix.Cmd(&n, "DEL", k)); err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteMany deletes keys one by one and keeps going after a failure. It
// returns how many deletes completed; when some failed the error is a
// *BatchError holding the first failure.
func (rs *RedisStore) DeleteMany(ctx context.Context, keys []string) (int, error) {
	if _, err := rs.keys(keys); err != nil {
		return 0, err
	}

	var (
		completed int
		failed    int
		first     error
	)
	for _, k := range keys {
		if _, err := rs.Delete(ctx, k); err != nil {
			failed++
			if first == nil {
				first = err
			}
			continue
		}
		completed++
	}
	if failed > 0 {
		return completed, &BatchError{Completed: completed, Failed: failed, Err: first}
	}
	return completed, nil
}

// DeleteByPrefix removes every key matching prefix inside one server-side
// script and returns the number of removed keys.
func (rs *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	pattern, err := rs.prefixPattern(prefix)
	if err != nil {
		return 0, err
	}
	return rs.evalPattern(ctx, "delete by prefix", deleteByPatternScript, pattern)
}

// CountByPrefix returns the number of keys matching prefix.
func (rs *RedisStore) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	pattern, err := rs.prefixPattern(prefix)
	if err != nil {
		return 0, err
	}
	return rs.evalPattern(ctx, "count by prefix", countByPatternScript, pattern)
}

// Clear removes every key of the selected database.
func (rs *RedisStore) Clear(ctx context.Context) (int64, error) {
	return rs.evalPattern(ctx, "clear", deleteByPatternScript, "*")
}
