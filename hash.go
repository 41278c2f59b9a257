package redisfacade

import (
	"context"
	"strconv"

	"github.com/mediocregopher/radix/v3"
)

const defaultScanPageSize = 10

func (rs *RedisStore) HashExists(ctx context.Context, key, field string) (bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return false, err
	}

	var n int
	if err := rs.do(ctx, "HEXISTS", radix.Cmd(&n, "HEXISTS", k, field)); err != nil {
		return false, err
	}
	return n == 1, nil
}

// HashGet returns the payload of field. found is false when either the
// hash or the field does not exist.
func (rs *RedisStore) HashGet(ctx context.Context, key, field string) ([]byte, bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return nil, false, err
	}

	var b []byte
	mn := radix.MaybeNil{Rcv: &b}
	if err := rs.do(ctx, "HGET", radix.Cmd(&mn, "HGET", k, field)); err != nil {
		return nil, false, err
	}
	if mn.Nil {
		return nil, false, nil
	}
	if b == nil {
		b = []byte{}
	}
	return b, true, nil
}

// HashGetMany reads fields with a single HMGET. Every requested field has
// an entry in the result.
func (rs *RedisStore) HashGetMany(ctx context.Context, key string, fields []string) (map[string]Item[[]byte], error) {
	k, err := rs.key(key)
	if err != nil {
		return nil, err
	}
	res := make(map[string]Item[[]byte], len(fields))
	if len(fields) == 0 {
		return res, nil
	}

	var nb nullableBulks
	args := append([]string{k}, fields...)
	if err := rs.do(ctx, "HMGET", radix.Cmd(&nb, "HMGET", args...)); err != nil {
		return nil, err
	}
	for i, f := range fields {
		it := Item[[]byte]{Key: f}
		if i < len(nb.vals) {
			it.Value = nb.vals[i]
			it.Found = nb.found[i]
		}
		res[f] = it
	}
	return res, nil
}

func (rs *RedisStore) HashGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	k, err := rs.key(key)
	if err != nil {
		return nil, err
	}

	var flat []string
	if err := rs.do(ctx, "HGETALL", radix.Cmd(&flat, "HGETALL", k)); err != nil {
		return nil, err
	}
	return pairsToMap(flat), nil
}

func (rs *RedisStore) HashKeys(ctx context.Context, key string) ([]string, error) {
	k, err := rs.key(key)
	if err != nil {
		return nil, err
	}

	var res []string
	if err := rs.do(ctx, "HKEYS", radix.Cmd(&res, "HKEYS", k)); err != nil {
		return nil, err
	}
	return res, nil
}

func (rs *RedisStore) HashValues(ctx context.Context, key string) ([][]byte, error) {
	k, err := rs.key(key)
	if err != nil {
		return nil, err
	}

	var res [][]byte
	if err := rs.do(ctx, "HVALS", radix.Cmd(&res, "HVALS", k)); err != nil {
		return nil, err
	}
	return res, nil
}

func (rs *RedisStore) HashLength(ctx context.Context, key string) (int64, error) {
	k, err := rs.key(key)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := rs.do(ctx, "HLEN", radix.Cmd(&n, "HLEN", k)); err != nil {
		return 0, err
	}
	return n, nil
}

// HashSet writes field and reports whether it was newly created. With
// createOnly an existing field is left untouched.
func (rs *RedisStore) HashSet(ctx context.Context, key, field string, value []byte, createOnly bool) (bool, error) {
	k, err := rs.key(key)
	if err != nil {
		return false, err
	}
	if value == nil {
		return false, configErr("nil value for field %q", field)
	}

	cmd := "HSET"
	if createOnly {
		cmd = "HSETNX"
	}
	var n int
	if err := rs.do(ctx, cmd, radix.Cmd(&n, cmd, k, field, string(value))); err != nil {
		return false, err
	}
	return n == 1, nil
}

func (rs *RedisStore) HashSetMany(ctx context.Context, key string, values map[string][]byte) error {
	k, err := rs.key(key)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	args := make([]string, 0, 1+len(values)*2)
	args = append(args, k)
	for f, v := range values {
		if v == nil {
			return configErr("nil value for field %q", f)
		}
		args = append(args, f, string(v))
	}
	return rs.do(ctx, "HSET", radix.Cmd(nil, "HSET", args...))
}

// HashIncrement adds delta to field, starting from zero when the hash or
// field is missing, and returns the new value.
func (rs *RedisStore) HashIncrement(ctx context.Context, key, field string, delta int64) (int64, error) {
	k, err := rs.key(key)
	if err != nil {
		return 0, err
	}

	var n int64
	d := strconv.FormatInt(delta, 10)
	if err := rs.do(ctx, "HINCRBY", radix.Cmd(&n, "HINCRBY", k, field, d)); err != nil {
		return 0, err
	}
	return n, nil
}

func (rs *RedisStore) HashIncrementFloat(ctx context.Context, key, field string, delta float64) (float64, error) {
	k, err := rs.key(key)
	if err != nil {
		return 0, err
	}

	var s string
	d := strconv.FormatFloat(delta, 'f', -1, 64)
	if err := rs.do(ctx, "HINCRBYFLOAT", radix.Cmd(&s, "HINCRBYFLOAT", k, field, d)); err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, transportErr("HINCRBYFLOAT", err)
	}
	return f, nil
}

// HashScan walks the hash with HSCAN and returns the fields matching the
// glob pattern. pageSize is the COUNT hint of each HSCAN call.
func (rs *RedisStore) HashScan(ctx context.Context, key, pattern string, pageSize int) (map[string][]byte, error) {
	k, err := rs.key(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, transportErr("HSCAN", err)
	}
	if pageSize <= 0 {
		pageSize = defaultScanPageSize
	}

	pool, err := rs.pool()
	if err != nil {
		return nil, err
	}

	s := radix.NewScanner(pool, radix.ScanOpts{Command: "HSCAN", Key: k, Pattern: pattern, Count: pageSize})
	var flat []string
	var elem string
	for s.Next(&elem) {
		flat = append(flat, elem)
	}
	if err := s.Close(); err != nil {
		rs.log.Error().Err(err).Str("op", "HSCAN").Msg("redis command failed")
		return nil, transportErr("HSCAN", err)
	}
	return pairsToMap(flat), nil
}

// HashDelete reports whether field existed.
func (rs *RedisStore) HashDelete(ctx context.Context, key, field string) (bool, error) {
	n, err := rs.HashDeleteMany(ctx, key, []string{field})
	return n == 1, err
}

// HashDeleteMany returns the number of fields removed.
func (rs *RedisStore) HashDeleteMany(ctx context.Context, key string, fields []string) (int64, error) {
	k, err := rs.key(key)
	if err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, nil
	}

	var n int64
	args := append([]string{k}, fields...)
	if err := rs.do(ctx, "HDEL", radix.Cmd(&n, "HDEL", args...)); err != nil {
		return 0, err
	}
	return n, nil
}

func pairsToMap(flat []string) map[string][]byte {
	res := make(map[string][]byte, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		res[flat[i]] = []byte(flat[i+1])
	}
	return res
}
