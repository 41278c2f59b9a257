package redisfacade

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// AsyncStore starts store operations in the background. Each method has
// the result semantics of its RedisStore counterpart; reads that may miss
// resolve to an Item whose Found reports presence. Invalid arguments
// resolve the Future immediately, before any command is sent.
type AsyncStore struct {
	rs *RedisStore
}

// Async returns the asynchronous view of rs.
func (rs *RedisStore) Async() *AsyncStore {
	return &AsyncStore{rs: rs}
}

func asyncKey[T any](rs *RedisStore, key string) *Future[T] {
	if _, err := rs.key(key); err != nil {
		return failed[T](err)
	}
	return nil
}

func (as *AsyncStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, when When, flags Flags) *Future[bool] {
	if f := asyncKey[bool](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.Set(ctx, key, value, ttl, when, flags)
	})
}

func (as *AsyncStore) SetUntil(ctx context.Context, key string, value []byte, deadline time.Time) *Future[bool] {
	if f := asyncKey[bool](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.SetUntil(ctx, key, value, deadline)
	})
}

func (as *AsyncStore) Get(ctx context.Context, key string) *Future[Item[[]byte]] {
	if f := asyncKey[Item[[]byte]](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (Item[[]byte], error) {
		b, found, err := as.rs.Get(ctx, key)
		return Item[[]byte]{Key: key, Value: b, Found: found}, err
	})
}

func (as *AsyncStore) MGet(ctx context.Context, keys []string) *Future[[]Item[[]byte]] {
	if _, err := as.rs.keys(keys); err != nil {
		return failed[[]Item[[]byte]](err)
	}
	return Go(ctx, func(ctx context.Context) ([]Item[[]byte], error) {
		return as.rs.MGet(ctx, keys)
	})
}

func (as *AsyncStore) MSet(ctx context.Context, entries []Entry[[]byte], when When) *Future[bool] {
	for _, e := range entries {
		if f := asyncKey[bool](as.rs, e.Key); f != nil {
			return f
		}
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.MSet(ctx, entries, when)
	})
}

func (as *AsyncStore) SetAdd(ctx context.Context, key string, member []byte) *Future[bool] {
	if f := asyncKey[bool](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.SetAdd(ctx, key, member)
	})
}

func (as *AsyncStore) SetContains(ctx context.Context, key string, member []byte) *Future[bool] {
	if f := asyncKey[bool](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.SetContains(ctx, key, member)
	})
}

func (as *AsyncStore) SetMembers(ctx context.Context, key string) *Future[[][]byte] {
	if f := asyncKey[[][]byte](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) ([][]byte, error) {
		return as.rs.SetMembers(ctx, key)
	})
}

func (as *AsyncStore) ListLeftPush(ctx context.Context, key string, item []byte) *Future[int64] {
	if f := asyncKey[int64](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return as.rs.ListLeftPush(ctx, key, item)
	})
}

func (as *AsyncStore) ListRightPop(ctx context.Context, key string) *Future[Item[[]byte]] {
	if f := asyncKey[Item[[]byte]](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (Item[[]byte], error) {
		b, found, err := as.rs.ListRightPop(ctx, key)
		return Item[[]byte]{Key: key, Value: b, Found: found}, err
	})
}

func (as *AsyncStore) ListLength(ctx context.Context, key string) *Future[int64] {
	if f := asyncKey[int64](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return as.rs.ListLength(ctx, key)
	})
}

func (as *AsyncStore) ListRange(ctx context.Context, key string) *Future[[][]byte] {
	if f := asyncKey[[][]byte](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) ([][]byte, error) {
		return as.rs.ListRange(ctx, key)
	})
}

func (as *AsyncStore) ListRemove(ctx context.Context, key string, item []byte) *Future[int64] {
	if f := asyncKey[int64](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return as.rs.ListRemove(ctx, key, item)
	})
}

func (as *AsyncStore) HashExists(ctx context.Context, key, field string) *Future[bool] {
	if f := asyncKey[bool](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.HashExists(ctx, key, field)
	})
}

func (as *AsyncStore) HashGet(ctx context.Context, key, field string) *Future[Item[[]byte]] {
	if f := asyncKey[Item[[]byte]](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (Item[[]byte], error) {
		b, found, err := as.rs.HashGet(ctx, key, field)
		return Item[[]byte]{Key: field, Value: b, Found: found}, err
	})
}

func (as *AsyncStore) HashGetMany(ctx context.Context, key string, fields []string) *Future[map[string]Item[[]byte]] {
	if f := asyncKey[map[string]Item[[]byte]](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (map[string]Item[[]byte], error) {
		return as.rs.HashGetMany(ctx, key, fields)
	})
}

func (as *AsyncStore) HashGetAll(ctx context.Context, key string) *Future[map[string][]byte] {
	if f := asyncKey[map[string][]byte](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (map[string][]byte, error) {
		return as.rs.HashGetAll(ctx, key)
	})
}

func (as *AsyncStore) HashKeys(ctx context.Context, key string) *Future[[]string] {
	if f := asyncKey[[]string](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) ([]string, error) {
		return as.rs.HashKeys(ctx, key)
	})
}

func (as *AsyncStore) HashValues(ctx context.Context, key string) *Future[[][]byte] {
	if f := asyncKey[[][]byte](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) ([][]byte, error) {
		return as.rs.HashValues(ctx, key)
	})
}

func (as *AsyncStore) HashLength(ctx context.Context, key string) *Future[int64] {
	if f := asyncKey[int64](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return as.rs.HashLength(ctx, key)
	})
}

func (as *AsyncStore) HashSet(ctx context.Context, key, field string, value []byte, createOnly bool) *Future[bool] {
	if f := asyncKey[bool](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.HashSet(ctx, key, field, value, createOnly)
	})
}

func (as *AsyncStore) HashSetMany(ctx context.Context, key string, values map[string][]byte) *Future[struct{}] {
	if f := asyncKey[struct{}](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, as.rs.HashSetMany(ctx, key, values)
	})
}

func (as *AsyncStore) HashIncrement(ctx context.Context, key, field string, delta int64) *Future[int64] {
	if f := asyncKey[int64](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return as.rs.HashIncrement(ctx, key, field, delta)
	})
}

func (as *AsyncStore) HashIncrementFloat(ctx context.Context, key, field string, delta float64) *Future[float64] {
	if f := asyncKey[float64](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (float64, error) {
		return as.rs.HashIncrementFloat(ctx, key, field, delta)
	})
}

func (as *AsyncStore) HashScan(ctx context.Context, key, pattern string, pageSize int) *Future[map[string][]byte] {
	if f := asyncKey[map[string][]byte](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (map[string][]byte, error) {
		return as.rs.HashScan(ctx, key, pattern, pageSize)
	})
}

func (as *AsyncStore) HashDelete(ctx context.Context, key, field string) *Future[bool] {
	if f := asyncKey[bool](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.HashDelete(ctx, key, field)
	})
}

func (as *AsyncStore) HashDeleteMany(ctx context.Context, key string, fields []string) *Future[int64] {
	if f := asyncKey[int64](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return as.rs.HashDeleteMany(ctx, key, fields)
	})
}

func (as *AsyncStore) Exists(ctx context.Context, key string) *Future[bool] {
	if f := asyncKey[bool](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.Exists(ctx, key)
	})
}

func (as *AsyncStore) Expire(ctx context.Context, key string, ttl time.Duration) *Future[bool] {
	if f := asyncKey[bool](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.Expire(ctx, key, ttl)
	})
}

func (as *AsyncStore) Delete(ctx context.Context, key string) *Future[bool] {
	if f := asyncKey[bool](as.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return as.rs.Delete(ctx, key)
	})
}

// DeleteMany deletes every key concurrently and resolves once all deletes
// finished. The first failure cancels the deletes not yet sent and becomes
// the Future's error; the value counts the deletes that completed.
func (as *AsyncStore) DeleteMany(ctx context.Context, keys []string) *Future[int] {
	if _, err := as.rs.keys(keys); err != nil {
		return failed[int](err)
	}
	return Go(ctx, func(ctx context.Context) (int, error) {
		g, gctx := errgroup.WithContext(ctx)
		var completed atomic.Int64
		for _, k := range keys {
			k := k
			g.Go(func() error {
				if _, err := as.rs.Delete(gctx, k); err != nil {
					return err
				}
				completed.Add(1)
				return nil
			})
		}
		err := g.Wait()
		return int(completed.Load()), err
	})
}

func (as *AsyncStore) DeleteByPrefix(ctx context.Context, prefix string) *Future[int64] {
	if _, err := as.rs.prefixPattern(prefix); err != nil {
		return failed[int64](err)
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return as.rs.DeleteByPrefix(ctx, prefix)
	})
}

func (as *AsyncStore) CountByPrefix(ctx context.Context, prefix string) *Future[int64] {
	if _, err := as.rs.prefixPattern(prefix); err != nil {
		return failed[int64](err)
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return as.rs.CountByPrefix(ctx, prefix)
	})
}

func (as *AsyncStore) Clear(ctx context.Context) *Future[int64] {
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return as.rs.Clear(ctx)
	})
}

func (as *AsyncStore) Publish(ctx context.Context, channel string, payload []byte) *Future[int64] {
	if channel == "" {
		return failed[int64](configErr("empty channel"))
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return as.rs.Publish(ctx, channel, payload)
	})
}

func (as *AsyncStore) UnsubscribeAll(ctx context.Context) *Future[struct{}] {
	return Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, as.rs.UnsubscribeAll(ctx)
	})
}

func (as *AsyncStore) FlushDB(ctx context.Context) *Future[struct{}] {
	return Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, as.rs.FlushDB(ctx)
	})
}

func (as *AsyncStore) Save(ctx context.Context, st SaveType) *Future[struct{}] {
	if _, err := st.command(); err != nil {
		return failed[struct{}](err)
	}
	return Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, as.rs.Save(ctx, st)
	})
}

func (as *AsyncStore) Info(ctx context.Context) *Future[Info] {
	return Go(ctx, func(ctx context.Context) (Info, error) {
		return as.rs.Info(ctx)
	})
}
