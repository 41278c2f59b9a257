package redisfacade

import "github.com/rs/zerolog"

// Option customizes a RedisStore.
type Option func(*RedisStore)

// WithCodec sets the payload codec. JSONCodec is used by default.
func WithCodec(c Codec) Option {
	return func(rs *RedisStore) {
		if c != nil {
			rs.codec = c
		}
	}
}

// WithNamespacer sets the logical to physical key transform.
func WithNamespacer(ns Namespacer) Option {
	return func(rs *RedisStore) {
		if ns != nil {
			rs.ns = ns
		}
	}
}

// WithDB selects the database index.
func WithDB(db int) Option {
	return func(rs *RedisStore) {
		rs.db = db
	}
}

// WithLogger sets the logger. Without it the store does not log.
func WithLogger(zl *zerolog.Logger) Option {
	return func(rs *RedisStore) {
		if zl != nil {
			rs.log = *zl
		}
	}
}

// WithFarm sets the registry the connection handle is taken from.
func WithFarm(f StoreFarmer) Option {
	return func(rs *RedisStore) {
		if f != nil {
			rs.farm = f
		}
	}
}

// WithErrorHandler receives messages a subscription could not decode.
// The message is dropped either way and the subscription stays active.
func WithErrorHandler(fn func(channel string, err error)) Option {
	return func(rs *RedisStore) {
		rs.onDecodeErr = fn
	}
}
