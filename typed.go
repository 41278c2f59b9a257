package redisfacade

import (
	"context"
	"time"
)

// Typed encodes and decodes values of type T through the store's codec.
type Typed[T any] struct {
	rs *RedisStore
}

// For returns the typed view of rs for values of type T.
func For[T any](rs *RedisStore) *Typed[T] {
	return &Typed[T]{rs: rs}
}

// Store returns the underlying payload store.
func (t *Typed[T]) Store() *RedisStore {
	return t.rs
}

func (t *Typed[T]) encode(v T) ([]byte, error) {
	return encode(t.rs.codec, v)
}

func (t *Typed[T]) decode(b []byte) (T, error) {
	return decode[T](t.rs.codec, b)
}

func (t *Typed[T]) decodeAll(bs [][]byte) ([]T, error) {
	res := make([]T, 0, len(bs))
	for _, b := range bs {
		v, err := t.decode(b)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

func (t *Typed[T]) decodeMap(m map[string][]byte) (map[string]T, error) {
	res := make(map[string]T, len(m))
	for k, b := range m {
		v, err := t.decode(b)
		if err != nil {
			return nil, err
		}
		res[k] = v
	}
	return res, nil
}

// Set stores v under key. ttl of zero means no expiration.
func (t *Typed[T]) Set(ctx context.Context, key string, v T, ttl time.Duration) (bool, error) {
	return t.SetWhen(ctx, key, v, ttl, WhenAlways, FlagNone)
}

// SetWhen stores v under key honoring the write condition and flags.
func (t *Typed[T]) SetWhen(ctx context.Context, key string, v T, ttl time.Duration, when When, flags Flags) (bool, error) {
	if key == "" {
		return false, configErr("empty key")
	}
	b, err := t.encode(v)
	if err != nil {
		return false, err
	}
	return t.rs.Set(ctx, key, b, ttl, when, flags)
}

func (t *Typed[T]) SetUntil(ctx context.Context, key string, v T, deadline time.Time) (bool, error) {
	if key == "" {
		return false, configErr("empty key")
	}
	b, err := t.encode(v)
	if err != nil {
		return false, err
	}
	return t.rs.SetUntil(ctx, key, b, deadline)
}

// Get returns the value under key; found is false when the key is missing.
func (t *Typed[T]) Get(ctx context.Context, key string) (v T, found bool, err error) {
	b, found, err := t.rs.Get(ctx, key)
	if err != nil || !found {
		return v, false, err
	}
	v, err = t.decode(b)
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

// GetMany reads keys with one MGET, keeping the order of keys.
func (t *Typed[T]) GetMany(ctx context.Context, keys []string) ([]Item[T], error) {
	raw, err := t.rs.MGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	res := make([]Item[T], len(raw))
	for i, it := range raw {
		res[i] = Item[T]{Key: it.Key, Found: it.Found}
		if !it.Found {
			continue
		}
		if res[i].Value, err = t.decode(it.Value); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// SetMany writes entries with one multi-key command.
func (t *Typed[T]) SetMany(ctx context.Context, entries []Entry[T], when When) (bool, error) {
	raw := make([]Entry[[]byte], len(entries))
	for i, e := range entries {
		if e.Key == "" {
			return false, configErr("empty key")
		}
		b, err := t.encode(e.Value)
		if err != nil {
			return false, err
		}
		raw[i] = Entry[[]byte]{Key: e.Key, Value: b}
	}
	return t.rs.MSet(ctx, raw, when)
}

func (t *Typed[T]) SetAdd(ctx context.Context, key string, item T) (bool, error) {
	if key == "" {
		return false, configErr("empty key")
	}
	b, err := t.encode(item)
	if err != nil {
		return false, err
	}
	return t.rs.SetAdd(ctx, key, b)
}

// SetContains checks membership of the encoded item.
func (t *Typed[T]) SetContains(ctx context.Context, key string, item T) (bool, error) {
	if key == "" {
		return false, configErr("empty key")
	}
	b, err := t.encode(item)
	if err != nil {
		return false, err
	}
	return t.rs.SetContains(ctx, key, b)
}

func (t *Typed[T]) SetMembers(ctx context.Context, key string) ([]T, error) {
	raw, err := t.rs.SetMembers(ctx, key)
	if err != nil {
		return nil, err
	}
	return t.decodeAll(raw)
}

func (t *Typed[T]) ListLeftPush(ctx context.Context, key string, item T) (int64, error) {
	if key == "" {
		return 0, configErr("empty key")
	}
	b, err := t.encode(item)
	if err != nil {
		return 0, err
	}
	return t.rs.ListLeftPush(ctx, key, b)
}

func (t *Typed[T]) ListRightPop(ctx context.Context, key string) (v T, found bool, err error) {
	b, found, err := t.rs.ListRightPop(ctx, key)
	if err != nil || !found {
		return v, false, err
	}
	v, err = t.decode(b)
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

func (t *Typed[T]) ListRange(ctx context.Context, key string) ([]T, error) {
	raw, err := t.rs.ListRange(ctx, key)
	if err != nil {
		return nil, err
	}
	return t.decodeAll(raw)
}

func (t *Typed[T]) ListRemove(ctx context.Context, key string, item T) (int64, error) {
	if key == "" {
		return 0, configErr("empty key")
	}
	b, err := t.encode(item)
	if err != nil {
		return 0, err
	}
	return t.rs.ListRemove(ctx, key, b)
}

func (t *Typed[T]) HashGet(ctx context.Context, key, field string) (v T, found bool, err error) {
	b, found, err := t.rs.HashGet(ctx, key, field)
	if err != nil || !found {
		return v, false, err
	}
	v, err = t.decode(b)
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

func (t *Typed[T]) HashGetMany(ctx context.Context, key string, fields []string) (map[string]Item[T], error) {
	raw, err := t.rs.HashGetMany(ctx, key, fields)
	if err != nil {
		return nil, err
	}
	res := make(map[string]Item[T], len(raw))
	for f, it := range raw {
		out := Item[T]{Key: f, Found: it.Found}
		if it.Found {
			if out.Value, err = t.decode(it.Value); err != nil {
				return nil, err
			}
		}
		res[f] = out
	}
	return res, nil
}

func (t *Typed[T]) HashGetAll(ctx context.Context, key string) (map[string]T, error) {
	raw, err := t.rs.HashGetAll(ctx, key)
	if err != nil {
		return nil, err
	}
	return t.decodeMap(raw)
}

func (t *Typed[T]) HashValues(ctx context.Context, key string) ([]T, error) {
	raw, err := t.rs.HashValues(ctx, key)
	if err != nil {
		return nil, err
	}
	return t.decodeAll(raw)
}

// HashSet reports whether field was newly created.
func (t *Typed[T]) HashSet(ctx context.Context, key, field string, v T, createOnly bool) (bool, error) {
	if key == "" {
		return false, configErr("empty key")
	}
	b, err := t.encode(v)
	if err != nil {
		return false, err
	}
	return t.rs.HashSet(ctx, key, field, b, createOnly)
}

func (t *Typed[T]) HashSetMany(ctx context.Context, key string, values map[string]T) error {
	if key == "" {
		return configErr("empty key")
	}
	raw := make(map[string][]byte, len(values))
	for f, v := range values {
		b, err := t.encode(v)
		if err != nil {
			return err
		}
		raw[f] = b
	}
	return t.rs.HashSetMany(ctx, key, raw)
}

func (t *Typed[T]) HashScan(ctx context.Context, key, pattern string, pageSize int) (map[string]T, error) {
	raw, err := t.rs.HashScan(ctx, key, pattern, pageSize)
	if err != nil {
		return nil, err
	}
	return t.decodeMap(raw)
}

// Publish encodes msg and returns the number of receivers.
func (t *Typed[T]) Publish(ctx context.Context, channel string, msg T) (int64, error) {
	if channel == "" {
		return 0, configErr("empty channel")
	}
	b, err := t.encode(msg)
	if err != nil {
		return 0, err
	}
	return t.rs.Publish(ctx, channel, b)
}

// Subscribe delivers every message published on channel to h, decoded as T.
func (t *Typed[T]) Subscribe(ctx context.Context, channel string, h Handler[T]) error {
	if h == nil {
		return configErr("nil handler")
	}
	return t.rs.subscribe(ctx, channel, h, func(ch string, payload []byte) error {
		v, err := t.decode(payload)
		if err != nil {
			return err
		}
		h.HandleMessage(Message[T]{Channel: ch, Payload: v})
		return nil
	})
}

// Unsubscribe removes the subscription made with the same channel and h.
func (t *Typed[T]) Unsubscribe(ctx context.Context, channel string, h Handler[T]) error {
	if h == nil {
		return configErr("nil handler")
	}
	return t.rs.unsubscribe(ctx, channel, h)
}
