package redisfacade

import (
	"bufio"
	"context"
	"strings"

	"github.com/mediocregopher/radix/v3"
	"github.com/mediocregopher/radix/v3/resp/resp2"
	"github.com/rs/zerolog"
)

// RedisStore wraps a shared redis connection and provides high-level API
// to deal with redis storage: strings, sets, lists, hashes, key lifecycle,
// pub/sub and a few administrative commands.
//
// Configuration is fixed at construction. A RedisStore is safe for
// concurrent use; every store built for the same connection identifier
// shares one Conn.
type RedisStore struct {
	farm        StoreFarmer
	conn        *Conn
	connection  string
	db          int
	codec       Codec
	ns          Namespacer
	log         zerolog.Logger
	subs        *subscriptions
	onDecodeErr func(channel string, err error)
}

// New returns a RedisStore for the connection identifier. The handle is
// taken from DefaultFarm unless WithFarm is given.
func New(ctx context.Context, connection string, opts ...Option) (*RedisStore, error) {
	rs := &RedisStore{
		farm:       DefaultFarm,
		connection: connection,
		codec:      JSONCodec{},
		ns:         IdentityNamespacer,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(rs)
	}

	if strings.TrimSpace(connection) == "" {
		return nil, configErr("empty connection identifier")
	}
	if rs.db < 0 {
		return nil, configErr("negative database index %d", rs.db)
	}

	conn, err := rs.farm.Conn(ctx, connection)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Database(rs.db); err != nil {
		return nil, err
	}

	rs.conn = conn
	rs.log = rs.log.With().Str("layer", "store").Str("connection", conn.Addr()).Int("db", rs.db).Logger()
	rs.subs = newSubscriptions()
	return rs, nil
}

// DB returns the selected database index.
func (rs *RedisStore) DB() int {
	return rs.db
}

// Codec returns the payload codec.
func (rs *RedisStore) Codec() Codec {
	return rs.codec
}

// Conn returns the shared connection handle.
func (rs *RedisStore) Conn() *Conn {
	return rs.conn
}

// Key returns the physical key for a logical key.
func (rs *RedisStore) Key(key string) string {
	return rs.ns(key)
}

func (rs *RedisStore) key(key string) (string, error) {
	if key == "" {
		return "", configErr("empty key")
	}
	return rs.ns(key), nil
}

func (rs *RedisStore) keys(keys []string) ([]string, error) {
	res := make([]string, len(keys))
	for i, k := range keys {
		pk, err := rs.key(k)
		if err != nil {
			return nil, err
		}
		res[i] = pk
	}
	return res, nil
}

// pool returns the database pool of the shared handle.
func (rs *RedisStore) pool() (*radix.Pool, error) {
	return rs.conn.Database(rs.db)
}

func (rs *RedisStore) do(ctx context.Context, op string, a radix.Action) error {
	if err := ctx.Err(); err != nil {
		return transportErr(op, err)
	}
	pool, err := rs.pool()
	if err != nil {
		return err
	}
	if err := pool.Do(a); err != nil {
		rs.log.Error().Err(err).Str("op", op).Msg("redis command failed")
		return transportErr(op, err)
	}
	return nil
}

// nullableBulks receives an array of bulk strings keeping nil elements
// apart from empty ones, as replied by MGET and HMGET.
type nullableBulks struct {
	vals  [][]byte
	found []bool
}

func (nb *nullableBulks) UnmarshalRESP(br *bufio.Reader) error {
	var ah resp2.ArrayHeader
	if err := ah.UnmarshalRESP(br); err != nil {
		return err
	}
	if ah.N < 0 {
		ah.N = 0
	}
	nb.vals = make([][]byte, ah.N)
	nb.found = make([]bool, ah.N)
	for i := range nb.vals {
		mn := radix.MaybeNil{Rcv: &nb.vals[i]}
		if err := mn.UnmarshalRESP(br); err != nil {
			return err
		}
		nb.found[i] = !mn.Nil
		if nb.found[i] && nb.vals[i] == nil {
			nb.vals[i] = []byte{}
		}
	}
	return nil
}
