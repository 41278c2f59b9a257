package redisfacade

import (
	"context"
	"time"
)

// Storer is the payload-level API of a redis database. Values cross it as
// encoded payloads; use For to work with typed values.
type Storer interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, when When, flags Flags) (bool, error)
	SetUntil(ctx context.Context, key string, value []byte, deadline time.Time) (bool, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	MGet(ctx context.Context, keys []string) ([]Item[[]byte], error)
	MSet(ctx context.Context, entries []Entry[[]byte], when When) (bool, error)

	SetAdd(ctx context.Context, key string, member []byte) (bool, error)
	SetContains(ctx context.Context, key string, member []byte) (bool, error)
	SetMembers(ctx context.Context, key string) ([][]byte, error)

	ListLeftPush(ctx context.Context, key string, item []byte) (int64, error)
	ListRightPop(ctx context.Context, key string) ([]byte, bool, error)
	ListLength(ctx context.Context, key string) (int64, error)
	ListRange(ctx context.Context, key string) ([][]byte, error)
	ListRemove(ctx context.Context, key string, item []byte) (int64, error)

	HashExists(ctx context.Context, key, field string) (bool, error)
	HashGet(ctx context.Context, key, field string) ([]byte, bool, error)
	HashGetMany(ctx context.Context, key string, fields []string) (map[string]Item[[]byte], error)
	HashGetAll(ctx context.Context, key string) (map[string][]byte, error)
	HashKeys(ctx context.Context, key string) ([]string, error)
	HashValues(ctx context.Context, key string) ([][]byte, error)
	HashLength(ctx context.Context, key string) (int64, error)
	HashSet(ctx context.Context, key, field string, value []byte, createOnly bool) (bool, error)
	HashSetMany(ctx context.Context, key string, values map[string][]byte) error
	HashIncrement(ctx context.Context, key, field string, delta int64) (int64, error)
	HashIncrementFloat(ctx context.Context, key, field string, delta float64) (float64, error)
	HashScan(ctx context.Context, key, pattern string, pageSize int) (map[string][]byte, error)
	HashDelete(ctx context.Context, key, field string) (bool, error)
	HashDeleteMany(ctx context.Context, key string, fields []string) (int64, error)

	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) (bool, error)
	DeleteMany(ctx context.Context, keys []string) (int, error)
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
	Clear(ctx context.Context) (int64, error)

	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
	UnsubscribeAll(ctx context.Context) error

	Info(ctx context.Context) (Info, error)
	FlushDB(ctx context.Context) error
	Save(ctx context.Context, st SaveType) error

	DB() int
}

var _ Storer = (*RedisStore)(nil)

// StoreFarmer hands out shared connection handles by identifier.
type StoreFarmer interface {
	Conn(ctx context.Context, identifier string) (*Conn, error)
	ByCode(identifier string) *Conn
	Codes() []string
}

// When is the write condition of a set operation.
type When int

const (
	WhenAlways When = iota
	WhenNotExists
	WhenExists
)

// Flags alter how a command is sent.
type Flags int

const (
	FlagNone Flags = 0

	// FlagFireAndForget sends the command in the background. The call
	// returns false immediately and failures are only logged.
	FlagFireAndForget Flags = 1 << iota

	// FlagKeepTTL keeps the existing expiration on overwrite.
	FlagKeepTTL
)

// Entry is an input key/value pair of a batch write.
type Entry[T any] struct {
	Key   string
	Value T
}

// Item is one result of a batch read. Found is false when the key or field
// does not exist; Value is then the zero value.
type Item[T any] struct {
	Key   string
	Value T
	Found bool
}

// Message is a decoded pub/sub message.
type Message[T any] struct {
	Channel string
	Payload T
}
