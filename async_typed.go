package redisfacade

import (
	"context"
	"time"
)

// AsyncTyped is the asynchronous counterpart of Typed.
type AsyncTyped[T any] struct {
	t *Typed[T]
}

// Async returns the asynchronous view of t.
func (t *Typed[T]) Async() *AsyncTyped[T] {
	return &AsyncTyped[T]{t: t}
}

func (a *AsyncTyped[T]) Set(ctx context.Context, key string, v T, ttl time.Duration) *Future[bool] {
	if f := asyncKey[bool](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return a.t.Set(ctx, key, v, ttl)
	})
}

func (a *AsyncTyped[T]) SetUntil(ctx context.Context, key string, v T, deadline time.Time) *Future[bool] {
	if f := asyncKey[bool](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return a.t.SetUntil(ctx, key, v, deadline)
	})
}

func (a *AsyncTyped[T]) Get(ctx context.Context, key string) *Future[Item[T]] {
	if f := asyncKey[Item[T]](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (Item[T], error) {
		v, found, err := a.t.Get(ctx, key)
		return Item[T]{Key: key, Value: v, Found: found}, err
	})
}

func (a *AsyncTyped[T]) GetMany(ctx context.Context, keys []string) *Future[[]Item[T]] {
	if _, err := a.t.rs.keys(keys); err != nil {
		return failed[[]Item[T]](err)
	}
	return Go(ctx, func(ctx context.Context) ([]Item[T], error) {
		return a.t.GetMany(ctx, keys)
	})
}

func (a *AsyncTyped[T]) SetMany(ctx context.Context, entries []Entry[T], when When) *Future[bool] {
	for _, e := range entries {
		if f := asyncKey[bool](a.t.rs, e.Key); f != nil {
			return f
		}
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return a.t.SetMany(ctx, entries, when)
	})
}

func (a *AsyncTyped[T]) SetAdd(ctx context.Context, key string, item T) *Future[bool] {
	if f := asyncKey[bool](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return a.t.SetAdd(ctx, key, item)
	})
}

func (a *AsyncTyped[T]) SetContains(ctx context.Context, key string, item T) *Future[bool] {
	if f := asyncKey[bool](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return a.t.SetContains(ctx, key, item)
	})
}

func (a *AsyncTyped[T]) SetMembers(ctx context.Context, key string) *Future[[]T] {
	if f := asyncKey[[]T](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) ([]T, error) {
		return a.t.SetMembers(ctx, key)
	})
}

func (a *AsyncTyped[T]) ListLeftPush(ctx context.Context, key string, item T) *Future[int64] {
	if f := asyncKey[int64](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return a.t.ListLeftPush(ctx, key, item)
	})
}

func (a *AsyncTyped[T]) ListRightPop(ctx context.Context, key string) *Future[Item[T]] {
	if f := asyncKey[Item[T]](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (Item[T], error) {
		v, found, err := a.t.ListRightPop(ctx, key)
		return Item[T]{Key: key, Value: v, Found: found}, err
	})
}

func (a *AsyncTyped[T]) ListRange(ctx context.Context, key string) *Future[[]T] {
	if f := asyncKey[[]T](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) ([]T, error) {
		return a.t.ListRange(ctx, key)
	})
}

func (a *AsyncTyped[T]) ListRemove(ctx context.Context, key string, item T) *Future[int64] {
	if f := asyncKey[int64](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return a.t.ListRemove(ctx, key, item)
	})
}

func (a *AsyncTyped[T]) HashGet(ctx context.Context, key, field string) *Future[Item[T]] {
	if f := asyncKey[Item[T]](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (Item[T], error) {
		v, found, err := a.t.HashGet(ctx, key, field)
		return Item[T]{Key: field, Value: v, Found: found}, err
	})
}

func (a *AsyncTyped[T]) HashGetMany(ctx context.Context, key string, fields []string) *Future[map[string]Item[T]] {
	if f := asyncKey[map[string]Item[T]](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (map[string]Item[T], error) {
		return a.t.HashGetMany(ctx, key, fields)
	})
}

func (a *AsyncTyped[T]) HashGetAll(ctx context.Context, key string) *Future[map[string]T] {
	if f := asyncKey[map[string]T](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (map[string]T, error) {
		return a.t.HashGetAll(ctx, key)
	})
}

func (a *AsyncTyped[T]) HashValues(ctx context.Context, key string) *Future[[]T] {
	if f := asyncKey[[]T](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) ([]T, error) {
		return a.t.HashValues(ctx, key)
	})
}

func (a *AsyncTyped[T]) HashSet(ctx context.Context, key, field string, v T, createOnly bool) *Future[bool] {
	if f := asyncKey[bool](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (bool, error) {
		return a.t.HashSet(ctx, key, field, v, createOnly)
	})
}

func (a *AsyncTyped[T]) HashSetMany(ctx context.Context, key string, values map[string]T) *Future[struct{}] {
	if f := asyncKey[struct{}](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.t.HashSetMany(ctx, key, values)
	})
}

func (a *AsyncTyped[T]) HashScan(ctx context.Context, key, pattern string, pageSize int) *Future[map[string]T] {
	if f := asyncKey[map[string]T](a.t.rs, key); f != nil {
		return f
	}
	return Go(ctx, func(ctx context.Context) (map[string]T, error) {
		return a.t.HashScan(ctx, key, pattern, pageSize)
	})
}

func (a *AsyncTyped[T]) Publish(ctx context.Context, channel string, msg T) *Future[int64] {
	if channel == "" {
		return failed[int64](configErr("empty channel"))
	}
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return a.t.Publish(ctx, channel, msg)
	})
}

func (a *AsyncTyped[T]) Subscribe(ctx context.Context, channel string, h Handler[T]) *Future[struct{}] {
	if err := validHandler(h); err != nil {
		return failed[struct{}](err)
	}
	return Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.t.Subscribe(ctx, channel, h)
	})
}

func (a *AsyncTyped[T]) Unsubscribe(ctx context.Context, channel string, h Handler[T]) *Future[struct{}] {
	if err := validHandler(h); err != nil {
		return failed[struct{}](err)
	}
	return Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.t.Unsubscribe(ctx, channel, h)
	})
}
