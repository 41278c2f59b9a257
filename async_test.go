package redisfacade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture(t *testing.T) {
	release := make(chan struct{})
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 7, nil
	})

	select {
	case <-f.Done():
		t.Fatal("future resolved early")
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	v, err := f.Result()
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFailedFutureIsResolved(t *testing.T) {
	boom := errors.New("boom")
	f := failed[string](boom)

	select {
	case <-f.Done():
	default:
		t.Fatal("failed future must be resolved")
	}
	_, err := f.Result()
	assert.ErrorIs(t, err, boom)
}

func TestAsyncStore(t *testing.T) {
	rs, mr := newTestStore(t)
	ctx := context.Background()
	as := rs.Async()

	ok, err := as.Set(ctx, "k", []byte("v"), 0, WhenAlways, FlagNone).Result()
	require.NoError(t, err)
	assert.True(t, ok)

	it, err := as.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, Item[[]byte]{Key: "k", Value: []byte("v"), Found: true}, it)

	it, err = as.Get(ctx, "missing").Result()
	require.NoError(t, err)
	assert.False(t, it.Found)

	n, err := as.HashIncrement(ctx, "H", "f", 5).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	require.NoError(t, mr.Set("sess:a", "1"))
	count, err := as.CountByPrefix(ctx, "sess:").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAsyncValidatesBeforeSending(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()
	as := rs.Async()

	futures := []interface{ Done() <-chan struct{} }{
		as.Get(ctx, ""),
		as.Set(ctx, "", []byte("v"), 0, WhenAlways, FlagNone),
		as.MGet(ctx, []string{"a", ""}),
		as.DeleteMany(ctx, []string{""}),
		as.CountByPrefix(ctx, ""),
		as.Publish(ctx, "", []byte("x")),
		as.Save(ctx, SaveType(99)),
		For[string](rs).Async().Subscribe(ctx, "c", nil),
	}
	for i, f := range futures {
		select {
		case <-f.Done():
		default:
			t.Fatalf("future %d not resolved immediately", i)
		}
	}

	_, err := as.Get(ctx, "").Result()
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = For[string](rs).Async().Subscribe(ctx, "c", nil).Result()
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAsyncDeleteMany(t *testing.T) {
	rs, mr := newTestStore(t)
	ctx := context.Background()

	keys := []string{"a", "b", "c", "d"}
	for _, k := range keys {
		require.NoError(t, mr.Set(k, "x"))
	}

	n, err := rs.Async().DeleteMany(ctx, keys).Result()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Empty(t, mr.Keys())
}

func TestAsyncDeleteManyFailsFast(t *testing.T) {
	rs, mr := newTestStore(t)
	require.NoError(t, mr.Set("a", "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := rs.Async().DeleteMany(ctx, []string{"a", "b"}).Result()
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
	assert.True(t, mr.Exists("a"))
}

func TestAsyncTyped(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()
	users := For[user](rs).Async()

	ok, err := users.Set(ctx, "u:1", user{Name: "Alice"}, time.Minute).Result()
	require.NoError(t, err)
	assert.True(t, ok)

	it, err := users.Get(ctx, "u:1").Result()
	require.NoError(t, err)
	assert.Equal(t, Item[user]{Key: "u:1", Value: user{Name: "Alice"}, Found: true}, it)

	items, err := users.GetMany(ctx, []string{"u:2", "u:1"}).Result()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.False(t, items[0].Found)
	assert.True(t, items[1].Found)

	_, err = users.ListLeftPush(ctx, "queue", user{Name: "Bob"}).Result()
	require.NoError(t, err)
	popped, err := users.ListRightPop(ctx, "queue").Result()
	require.NoError(t, err)
	assert.Equal(t, "Bob", popped.Value.Name)

	popped, err = users.ListRightPop(ctx, "queue").Result()
	require.NoError(t, err)
	assert.False(t, popped.Found)
}

func TestAsyncSubscribe(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()
	ch := For[string](rs).Async()

	h := &recorder[string]{}
	_, err := ch.Subscribe(ctx, "async", h).Result()
	require.NoError(t, err)
	waitSubscribers(t, rs, "async", 1)

	n, err := ch.Publish(ctx, "async", "hi").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.Eventually(t, func() bool { return len(h.received()) == 1 }, 2*time.Second, 5*time.Millisecond)

	_, err = ch.Unsubscribe(ctx, "async", h).Result()
	require.NoError(t, err)
	assert.Zero(t, rs.Subscriptions())
}
