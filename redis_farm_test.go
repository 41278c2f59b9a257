package redisfacade

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingDial(calls *atomic.Int32, fail *atomic.Bool) DialFunc {
	return func(ctx context.Context, identifier string) (*Conn, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		if fail != nil && fail.Load() {
			return nil, transportErr("connect", errors.New("connection refused"))
		}
		return parseIdentifier(identifier)
	}
}

func TestFarmConnConcurrentFirstAccess(t *testing.T) {
	var calls atomic.Int32
	farm := NewRedisFarm(nil, countingDial(&calls, nil))

	const n = 64
	conns := make([]*Conn, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			c, err := farm.Conn(context.Background(), "conn-A:6379")
			assert.NoError(t, err)
			conns[i] = c
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, c := range conns {
		assert.Same(t, conns[0], c)
	}
}

func TestFarmConnDistinctIdentifiers(t *testing.T) {
	var calls atomic.Int32
	farm := NewRedisFarm(nil, countingDial(&calls, nil))
	ctx := context.Background()

	a, err := farm.Conn(ctx, "a:1")
	require.NoError(t, err)
	b, err := farm.Conn(ctx, "b:2")
	require.NoError(t, err)
	again, err := farm.Conn(ctx, "a:1")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Same(t, a, again)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []string{"a:1", "b:2"}, farm.Codes())
	assert.Same(t, b, farm.ByCode("b:2"))
	assert.Nil(t, farm.ByCode("c:3"))
}

func TestFarmConnEmptyIdentifier(t *testing.T) {
	var calls atomic.Int32
	farm := NewRedisFarm(nil, countingDial(&calls, nil))

	for _, id := range []string{"", "   "} {
		_, err := farm.Conn(context.Background(), id)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestFarmConnFailureIsNotCached(t *testing.T) {
	var calls atomic.Int32
	var fail atomic.Bool
	fail.Store(true)
	farm := NewRedisFarm(nil, countingDial(&calls, &fail))
	ctx := context.Background()

	_, err := farm.Conn(ctx, "down:6379")
	require.ErrorIs(t, err, ErrTransport)
	assert.Empty(t, farm.Codes())

	fail.Store(false)
	c, err := farm.Conn(ctx, "down:6379")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFarmClose(t *testing.T) {
	var calls atomic.Int32
	farm := NewRedisFarm(nil, countingDial(&calls, nil))

	_, err := farm.Conn(context.Background(), "a:1")
	require.NoError(t, err)
	farm.Close()
	assert.Empty(t, farm.Codes())

	_, err = farm.Conn(context.Background(), "a:1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestStoresShareConn(t *testing.T) {
	rs, mr := newTestStore(t)

	other, err := New(context.Background(), mr.Addr(), WithFarm(rs.farm), WithDB(1))
	require.NoError(t, err)

	assert.Same(t, rs.Conn(), other.Conn())

	p0, err := rs.pool()
	require.NoError(t, err)
	p1, err := other.pool()
	require.NoError(t, err)
	assert.NotSame(t, p0, p1)
}
