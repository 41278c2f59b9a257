package redisfacade

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// DialFunc opens the handle for a connection identifier.
type DialFunc func(ctx context.Context, identifier string) (*Conn, error)

// RedisFarm holds the shared Conn of every connection identifier seen by
// the process. A Conn is created on first request and kept until Close.
type RedisFarm struct {
	dial  DialFunc
	conns lazyMap[string, *Conn]
	log   zerolog.Logger
}

var _ StoreFarmer = (*RedisFarm)(nil)

// DefaultFarm is used by stores that were not given a farm explicitly.
var DefaultFarm = NewRedisFarm(nil, nil)

// NewRedisFarm creates instance of RedisFarm. A nil dial uses Connect, a
// nil logger disables logging.
func NewRedisFarm(zl *zerolog.Logger, dial DialFunc) *RedisFarm {
	if dial == nil {
		dial = Connect
	}
	log := zerolog.Nop()
	if zl != nil {
		log = zl.With().Str("layer", "farm").Logger()
	}
	return &RedisFarm{dial: dial, log: log}
}

// Conn returns the handle for identifier, dialing it on first use.
// Concurrent first requests for the same identifier dial exactly once and
// share the result.
func (rf *RedisFarm) Conn(ctx context.Context, identifier string) (*Conn, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, configErr("empty connection identifier")
	}
	return rf.conns.get(identifier, func() (*Conn, error) {
		c, err := rf.dial(ctx, identifier)
		if err != nil {
			rf.log.Error().Err(err).Str("connection", identifier).Msg("connect failed")
			return nil, err
		}
		rf.log.Debug().Str("connection", identifier).Msg("connected")
		return c, nil
	})
}

// ByCode returns the handle already opened for identifier, or nil.
func (rf *RedisFarm) ByCode(identifier string) *Conn {
	c, ok := rf.conns.peek(identifier)
	if !ok {
		return nil
	}
	return c
}

// Codes returns identifiers with an opened handle, sorted.
func (rf *RedisFarm) Codes() []string {
	var res []string
	rf.conns.each(func(id string, _ *Conn) {
		res = append(res, id)
	})
	sort.Strings(res)
	return res
}

// Close closes every handle and empties the farm.
func (rf *RedisFarm) Close() {
	for _, id := range rf.conns.keys() {
		if c, ok := rf.conns.peek(id); ok {
			c.Close()
		}
		rf.conns.delete(id)
	}
}
