package redisfacade

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mediocregopher/radix/v3"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name  string   `json:"name"`
	Age   int      `json:"age"`
	Roles []string `json:"roles"`
}

func newTestStore(t *testing.T, opts ...Option) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	farm := NewRedisFarm(nil, nil)
	t.Cleanup(farm.Close)

	rs, err := New(context.Background(), mr.Addr(), append([]Option{WithFarm(farm)}, opts...)...)
	require.NoError(t, err)
	return rs, mr
}

// waitSubscribers blocks until the server reports n subscribers on channel.
func waitSubscribers(t *testing.T, rs *RedisStore, channel string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		pool, err := rs.pool()
		if err != nil {
			return false
		}
		var res []string
		if err := pool.Do(radix.Cmd(&res, "PUBSUB", "NUMSUB", channel)); err != nil {
			return false
		}
		return len(res) == 2 && res[1] == strconv.Itoa(n)
	}, 2*time.Second, 10*time.Millisecond)
}
