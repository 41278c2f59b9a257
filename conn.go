package redisfacade

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mediocregopher/radix/v3"
)

const (
	defaultPoolSize    = 10
	defaultDialTimeout = 5 * time.Second
	defaultRedisPort   = "6379"
)

var errConnClosed = errors.New("connection closed")

// Conn is the shared handle of one redis endpoint. Every RedisStore built
// for the same connection identifier uses the same Conn.
//
// Pools are opened per database index on first use. The pub/sub connection
// is opened on the first subscription.
type Conn struct {
	id          string
	network     string
	addr        string
	user        string
	pass        string
	poolSize    int
	dialTimeout time.Duration

	dbs    lazyMap[int, *radix.Pool]
	pubsub lazyMap[struct{}, radix.PubSubConn]
	closed atomic.Bool
}

// Connect parses the connection identifier and checks that the endpoint
// answers PING. Accepted identifiers are "host:port" and
// "redis://[user:password@]host[:port][?pool_size=N&dial_timeout=D]".
func Connect(ctx context.Context, identifier string) (*Conn, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, configErr("empty connection identifier")
	}
	c, err := parseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, transportErr("connect "+c.addr, err)
	}

	rc, err := radix.Dial(c.network, c.addr, c.dialOpts(0)...)
	if err != nil {
		return nil, transportErr("connect "+c.addr, err)
	}
	defer rc.Close()

	if err := rc.Do(radix.Cmd(nil, "PING")); err != nil {
		return nil, transportErr("ping "+c.addr, err)
	}
	return c, nil
}

func parseIdentifier(identifier string) (*Conn, error) {
	c := &Conn{
		id:          identifier,
		network:     "tcp",
		poolSize:    defaultPoolSize,
		dialTimeout: defaultDialTimeout,
	}

	if !strings.Contains(identifier, "://") {
		c.addr = withDefaultPort(identifier)
		return c, nil
	}

	u, err := url.Parse(identifier)
	if err != nil {
		return nil, configErr("connection identifier: %v", err)
	}
	if u.Scheme != "redis" {
		return nil, configErr("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, configErr("connection identifier %q has no host", identifier)
	}
	c.addr = withDefaultPort(u.Host)
	if u.User != nil {
		c.user = u.User.Username()
		c.pass, _ = u.User.Password()
	}

	q := u.Query()
	if v := q.Get("pool_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, configErr("invalid pool_size %q", v)
		}
		c.poolSize = n
	}
	if v := q.Get("dial_timeout"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, configErr("invalid dial_timeout %q", v)
		}
		c.dialTimeout = d
	}
	return c, nil
}

func withDefaultPort(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, defaultRedisPort)
}

func (c *Conn) dialOpts(db int) []radix.DialOpt {
	opts := []radix.DialOpt{radix.DialTimeout(c.dialTimeout)}
	if db != 0 {
		opts = append(opts, radix.DialSelectDB(db))
	}
	switch {
	case c.user != "":
		opts = append(opts, radix.DialAuthUser(c.user, c.pass))
	case c.pass != "":
		opts = append(opts, radix.DialAuthPass(c.pass))
	}
	return opts
}

// ID returns the identifier the handle was created for.
func (c *Conn) ID() string { return c.id }

// Addr returns the endpoint address.
func (c *Conn) Addr() string { return c.addr }

// Endpoints lists the server endpoints behind the handle.
func (c *Conn) Endpoints() []string { return []string{c.addr} }

// Database returns the pool bound to database index db. It fails with
// ErrTransport once the handle is closed.
func (c *Conn) Database(db int) (*radix.Pool, error) {
	if db < 0 {
		return nil, configErr("negative database index %d", db)
	}
	op := "open database " + strconv.Itoa(db)
	if c.closed.Load() {
		return nil, transportErr(op, errConnClosed)
	}
	pool, err := c.dbs.get(db, func() (*radix.Pool, error) {
		connFunc := func(network, addr string) (radix.Conn, error) {
			return radix.Dial(network, addr, c.dialOpts(db)...)
		}
		return radix.NewPool(c.network, c.addr, c.poolSize, radix.PoolConnFunc(connFunc))
	})
	if err != nil {
		return nil, transportErr(op, err)
	}
	if c.closed.Load() {
		// opened concurrently with Close
		c.dbs.delete(db)
		pool.Close()
		return nil, transportErr(op, errConnClosed)
	}
	return pool, nil
}

// Subscriber returns the persistent pub/sub connection of the endpoint.
// Pub/sub is not bound to a database index.
func (c *Conn) Subscriber() (radix.PubSubConn, error) {
	if c.closed.Load() {
		return nil, transportErr("open pubsub", errConnClosed)
	}
	ps, err := c.pubsub.get(struct{}{}, func() (radix.PubSubConn, error) {
		connFunc := func(network, addr string) (radix.Conn, error) {
			return radix.Dial(network, addr, c.dialOpts(0)...)
		}
		return radix.PersistentPubSubWithOpts(c.network, c.addr, radix.PersistentPubSubConnFunc(connFunc))
	})
	if err != nil {
		return nil, transportErr("open pubsub", err)
	}
	if c.closed.Load() {
		c.pubsub.delete(struct{}{})
		ps.Close()
		return nil, transportErr("open pubsub", errConnClosed)
	}
	return ps, nil
}

// Server returns the administrative view of endpoint. An empty endpoint
// selects the handle's only endpoint.
func (c *Conn) Server(endpoint string) (*Server, error) {
	if endpoint != "" && endpoint != c.addr {
		return nil, configErr("unknown endpoint %q", endpoint)
	}
	return &Server{conn: c, addr: c.addr}, nil
}

// Close releases every pool and the pub/sub connection. Later calls to
// Database and Subscriber fail; the farm dials a new handle for the
// identifier instead.
func (c *Conn) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	for _, db := range c.dbs.keys() {
		if p, ok := c.dbs.peek(db); ok {
			p.Close()
		}
		c.dbs.delete(db)
	}
	if ps, ok := c.pubsub.peek(struct{}{}); ok {
		ps.Close()
	}
	c.pubsub.delete(struct{}{})
}
