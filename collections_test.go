package redisfacade

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMembership(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()
	tags := For[string](rs)

	added, err := tags.SetAdd(ctx, "tags", "go")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = tags.SetAdd(ctx, "tags", "go")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = tags.SetAdd(ctx, "tags", "redis")
	require.NoError(t, err)

	ok, err := tags.SetContains(ctx, "tags", "go")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tags.SetContains(ctx, "tags", "lua")
	require.NoError(t, err)
	assert.False(t, ok)

	members, err := tags.SetMembers(ctx, "tags")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "redis"}, members)

	members, err = tags.SetMembers(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = rs.SetAdd(ctx, "tags", nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestListOrder(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()
	l := For[string](rs)

	n, err := l.ListLeftPush(ctx, "L", "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = l.ListLeftPush(ctx, "L", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := l.ListRange(ctx, "L")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, items)

	length, err := rs.ListLength(ctx, "L")
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)

	v, found, err := l.ListRightPop(ctx, "L")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", v)
}

func TestListMissing(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()

	_, found, err := For[string](rs).ListRightPop(ctx, "none")
	require.NoError(t, err)
	assert.False(t, found)

	n, err := rs.ListLength(ctx, "none")
	require.NoError(t, err)
	assert.Zero(t, n)

	items, err := For[string](rs).ListRange(ctx, "none")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListRemove(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()
	l := For[int](rs)

	for _, v := range []int{1, 2, 1, 3, 1} {
		_, err := l.ListLeftPush(ctx, "nums", v)
		require.NoError(t, err)
	}

	removed, err := l.ListRemove(ctx, "nums", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	items, err := l.ListRange(ctx, "nums")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, items)

	removed, err = l.ListRemove(ctx, "nums", 42)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestHashIncrement(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()

	n, err := rs.HashIncrement(ctx, "H", "f", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = rs.HashIncrement(ctx, "H", "f", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	n, err = rs.HashIncrement(ctx, "H", "f", -10)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), n)

	f, err := rs.HashIncrementFloat(ctx, "H", "g", 1.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f, 1e-9)

	f, err = rs.HashIncrementFloat(ctx, "H", "g", 2.25)
	require.NoError(t, err)
	assert.InDelta(t, 3.75, f, 1e-9)
}

func TestHashReadWrite(t *testing.T) {
	rs, mr := newTestStore(t)
	ctx := context.Background()
	h := For[user](rs)

	alice := user{Name: "Alice", Age: 30}
	created, err := h.HashSet(ctx, "users", "1", alice, false)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = h.HashSet(ctx, "users", "1", user{Name: "Eve"}, true)
	require.NoError(t, err)
	assert.False(t, created)

	got, found, err := h.HashGet(ctx, "users", "1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, alice, got)

	_, found, err = h.HashGet(ctx, "users", "2")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = h.HashGet(ctx, "nobody", "1")
	require.NoError(t, err)
	assert.False(t, found)

	bob := user{Name: "Bob", Age: 25}
	require.NoError(t, h.HashSetMany(ctx, "users", map[string]user{"2": bob}))
	assert.NotEmpty(t, mr.HGet("users", "2"))

	exists, err := rs.HashExists(ctx, "users", "2")
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := rs.HashLength(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	fields, err := rs.HashKeys(ctx, "users")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, fields)

	values, err := h.HashValues(ctx, "users")
	require.NoError(t, err)
	assert.ElementsMatch(t, []user{alice, bob}, values)

	all, err := h.HashGetAll(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, map[string]user{"1": alice, "2": bob}, all)

	many, err := h.HashGetMany(ctx, "users", []string{"2", "3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]Item[user]{
		"2": {Key: "2", Value: bob, Found: true},
		"3": {Key: "3"},
	}, many)

	empty, err := h.HashGetAll(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHashDelete(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, rs.HashSetMany(ctx, "H", map[string][]byte{
		"a": []byte("1"), "b": []byte("2"), "c": []byte("3"),
	}))

	ok, err := rs.HashDelete(ctx, "H", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rs.HashDelete(ctx, "H", "a")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := rs.HashDeleteMany(ctx, "H", []string{"b", "c", "d"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	length, err := rs.HashLength(ctx, "H")
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestHashScan(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()
	h := For[int](rs)

	values := make(map[string]int)
	for i := 0; i < 25; i++ {
		values[fmt.Sprintf("user:%d", i)] = i
		values[fmt.Sprintf("group:%d", i)] = i
	}
	require.NoError(t, h.HashSetMany(ctx, "H", values))

	got, err := h.HashScan(ctx, "H", "user:*", 5)
	require.NoError(t, err)
	require.Len(t, got, 25)

	keys := make([]string, 0, len(got))
	for k, v := range got {
		keys = append(keys, k)
		assert.Equal(t, values[k], v)
	}
	sort.Strings(keys)
	assert.Equal(t, "user:0", keys[0])

	got, err = h.HashScan(ctx, "H", "", 0)
	require.NoError(t, err)
	assert.Len(t, got, 50)
}
