package redisfacade

import (
	"context"
	"strconv"

	"github.com/mediocregopher/radix/v3"
)

// SaveType selects how the server persists its dataset.
type SaveType int

const (
	SaveForeground SaveType = iota
	SaveBackground
	RewriteAppendOnlyFile
)

func (st SaveType) command() (string, error) {
	switch st {
	case SaveForeground:
		return "SAVE", nil
	case SaveBackground:
		return "BGSAVE", nil
	case RewriteAppendOnlyFile:
		return "BGREWRITEAOF", nil
	}
	return "", configErr("unknown save type %d", int(st))
}

// Server runs administrative commands against one endpoint.
type Server struct {
	conn *Conn
	addr string
}

func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) do(ctx context.Context, db int, op string, a radix.Action) error {
	if err := ctx.Err(); err != nil {
		return transportErr(op, err)
	}
	pool, err := s.conn.Database(db)
	if err != nil {
		return err
	}
	if err := pool.Do(a); err != nil {
		return transportErr(op, err)
	}
	return nil
}

// FlushDB removes every key of database db.
func (s *Server) FlushDB(ctx context.Context, db int) error {
	return s.do(ctx, db, "FLUSHDB "+strconv.Itoa(db), radix.Cmd(nil, "FLUSHDB"))
}

func (s *Server) Save(ctx context.Context, st SaveType) error {
	cmd, err := st.command()
	if err != nil {
		return err
	}
	return s.do(ctx, 0, cmd, radix.Cmd(nil, cmd))
}

// Info returns the parsed INFO output. Sections may narrow it down.
func (s *Server) Info(ctx context.Context, sections ...string) (Info, error) {
	var text string
	if err := s.do(ctx, 0, "INFO", radix.Cmd(&text, "INFO", sections...)); err != nil {
		return Info{}, err
	}
	return ParseInfo(text), nil
}

// Server returns the administrative view of the store's endpoint.
func (rs *RedisStore) Server() (*Server, error) {
	return rs.conn.Server("")
}

// FlushDB removes every key of the selected database on every endpoint.
func (rs *RedisStore) FlushDB(ctx context.Context) error {
	for _, ep := range rs.conn.Endpoints() {
		s, err := rs.conn.Server(ep)
		if err != nil {
			return err
		}
		if err := s.FlushDB(ctx, rs.db); err != nil {
			rs.log.Error().Err(err).Str("endpoint", ep).Msg("flushdb failed")
			return err
		}
	}
	return nil
}

// Save persists the dataset on every endpoint.
func (rs *RedisStore) Save(ctx context.Context, st SaveType) error {
	for _, ep := range rs.conn.Endpoints() {
		s, err := rs.conn.Server(ep)
		if err != nil {
			return err
		}
		if err := s.Save(ctx, st); err != nil {
			rs.log.Error().Err(err).Str("endpoint", ep).Msg("save failed")
			return err
		}
	}
	return nil
}

// Info returns the parsed INFO output of the store's endpoint.
func (rs *RedisStore) Info(ctx context.Context) (Info, error) {
	s, err := rs.Server()
	if err != nil {
		return Info{}, err
	}
	return s.Info(ctx)
}
