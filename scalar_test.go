package redisfacade

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissingKey(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()

	v, found, err := For[user](rs).Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, user{}, v)

	b, found, err := rs.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, b)
}

func TestSetGetTyped(t *testing.T) {
	rs, mr := newTestStore(t)
	ctx := context.Background()
	users := For[user](rs)

	alice := user{Name: "Alice", Age: 30, Roles: []string{"admin"}}
	ok, err := users.Set(ctx, "user:1001", alice, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	got, found, err := users.Get(ctx, "user:1001")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, alice, got)

	raw, err := mr.Get("user:1001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice","age":30,"roles":["admin"]}`, raw)
	assert.Zero(t, mr.TTL("user:1001"))
}

func TestSetWithTTL(t *testing.T) {
	rs, mr := newTestStore(t)
	ctx := context.Background()

	ok, err := For[string](rs).Set(ctx, "session", "abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("session"))

	mr.FastForward(2 * time.Minute)
	_, found, err := For[string](rs).Get(ctx, "session")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetWhen(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()
	s := For[string](rs)

	ok, err := s.SetWhen(ctx, "k", "first", 0, WhenExists, FlagNone)
	require.NoError(t, err)
	assert.False(t, ok, "XX on a missing key")

	ok, err = s.SetWhen(ctx, "k", "first", 0, WhenNotExists, FlagNone)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetWhen(ctx, "k", "second", 0, WhenNotExists, FlagNone)
	require.NoError(t, err)
	assert.False(t, ok)

	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	ok, err = s.SetWhen(ctx, "k", "third", 0, WhenExists, FlagNone)
	require.NoError(t, err)
	assert.True(t, ok)

	v, _, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "third", v)
}

func TestSetKeepTTL(t *testing.T) {
	rs, mr := newTestStore(t)
	ctx := context.Background()

	_, err := rs.Set(ctx, "k", []byte("a"), time.Hour, WhenAlways, FlagNone)
	require.NoError(t, err)

	ok, err := rs.Set(ctx, "k", []byte("b"), 0, WhenAlways, FlagKeepTTL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Hour, mr.TTL("k"))

	_, err = rs.Set(ctx, "k", []byte("c"), time.Second, WhenAlways, FlagKeepTTL)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSetFireAndForget(t *testing.T) {
	rs, mr := newTestStore(t)

	ok, err := rs.Set(context.Background(), "bg", []byte("v"), 0, WhenAlways, FlagFireAndForget)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Eventually(t, func() bool { return mr.Exists("bg") }, time.Second, 5*time.Millisecond)
}

func TestSetUntil(t *testing.T) {
	rs, mr := newTestStore(t)
	ctx := context.Background()

	ok, err := For[int](rs).SetUntil(ctx, "k", 7, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL("k").Seconds(), 5)

	_, err = For[int](rs).SetUntil(ctx, "k", 7, time.Now().Add(-time.Second))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestScalarInvalidArguments(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()

	_, err := rs.Set(ctx, "", []byte("v"), 0, WhenAlways, FlagNone)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = rs.Set(ctx, "k", nil, 0, WhenAlways, FlagNone)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = rs.Set(ctx, "k", []byte("v"), -time.Second, WhenAlways, FlagNone)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, _, err = rs.Get(ctx, "")
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = rs.MGet(ctx, []string{"a", ""})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestGetDecodeFailure(t *testing.T) {
	rs, mr := newTestStore(t)
	require.NoError(t, mr.Set("broken", "{not json"))

	_, found, err := For[user](rs).Get(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrSerialization)
	assert.False(t, found)
}

func TestEncodeFailure(t *testing.T) {
	rs, mr := newTestStore(t)

	_, err := For[func()](rs).Set(context.Background(), "fn", func() {}, 0)
	assert.ErrorIs(t, err, ErrSerialization)
	assert.False(t, mr.Exists("fn"))
}

func TestEmptyPayloadIsFound(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()

	_, err := rs.Set(ctx, "empty", []byte{}, 0, WhenAlways, FlagNone)
	require.NoError(t, err)

	b, found, err := rs.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{}, b)
}

func TestGetManyKeepsOrder(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()
	s := For[string](rs)

	_, err := s.Set(ctx, "a", "1", 0)
	require.NoError(t, err)
	_, err = s.Set(ctx, "c", "3", 0)
	require.NoError(t, err)

	items, err := s.GetMany(ctx, []string{"c", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []Item[string]{
		{Key: "c", Value: "3", Found: true},
		{Key: "b"},
		{Key: "a", Value: "1", Found: true},
	}, items)

	items, err = s.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSetMany(t *testing.T) {
	rs, mr := newTestStore(t)
	ctx := context.Background()
	s := For[int](rs)

	ok, err := s.SetMany(ctx, []Entry[int]{{Key: "x", Value: 1}, {Key: "y", Value: 2}}, WhenAlways)
	require.NoError(t, err)
	assert.True(t, ok)
	mr.CheckGet(t, "x", "1")
	mr.CheckGet(t, "y", "2")

	ok, err = s.SetMany(ctx, []Entry[int]{{Key: "y", Value: 20}, {Key: "z", Value: 30}}, WhenNotExists)
	require.NoError(t, err)
	assert.False(t, ok)
	mr.CheckGet(t, "y", "2")
	assert.False(t, mr.Exists("z"))

	ok, err = s.SetMany(ctx, []Entry[int]{{Key: "z", Value: 30}}, WhenNotExists)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.SetMany(ctx, []Entry[int]{{Key: "x", Value: 1}}, WhenExists)
	assert.ErrorIs(t, err, ErrConfiguration)

	ok, err = s.SetMany(ctx, nil, WhenAlways)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreWithNamespaceAndDB(t *testing.T) {
	rs, mr := newTestStore(t, WithDB(2), WithNamespacer(PrefixNamespacer("myapp")))
	ctx := context.Background()

	_, err := For[string](rs).Set(ctx, "user:1", "alice", 0)
	require.NoError(t, err)

	assert.Equal(t, 2, rs.DB())
	assert.Equal(t, "myapp:user:1", rs.Key("user:1"))
	assert.True(t, mr.DB(2).Exists("myapp:user:1"))
	assert.False(t, mr.Exists("myapp:user:1"))

	v, found, err := For[string](rs).Get(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", v)
}

func TestNewInvalidConfiguration(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = New(context.Background(), "localhost:6379", WithDB(-1))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestCancelledContext(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := rs.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMillis(t *testing.T) {
	assert.Equal(t, int64(1), millis(time.Microsecond))
	assert.Equal(t, int64(1500), millis(1500*time.Millisecond))
	assert.Equal(t, int64(0), millis(0))
}
