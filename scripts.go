package redisfacade

import (
	"context"
	"fmt"
	"strings"

	"github.com/mediocregopher/radix/v3"
)

// deleteChunkSize bounds the number of keys passed to one DEL call inside
// the delete script.
const deleteChunkSize = 5000

var (
	deleteByPatternScript = radix.NewEvalScript(0, fmt.Sprintf(`
local keys = redis.call('keys', ARGV[1])
local deleted = 0
for i = 1, #keys, %d do
	deleted = deleted + redis.call('del', unpack(keys, i, math.min(i + %d, #keys)))
end
return deleted
`, deleteChunkSize, deleteChunkSize-1))

	countByPatternScript = radix.NewEvalScript(0, `
return #redis.call('keys', ARGV[1])
`)
)

// prefixPattern turns a logical prefix into the glob sent to the scripts.
// The namespacer is applied and a trailing '*' added when missing.
func (rs *RedisStore) prefixPattern(prefix string) (string, error) {
	if strings.TrimSpace(prefix) == "" {
		return "", configErr("empty prefix")
	}
	p := rs.ns(prefix)
	if !strings.HasSuffix(p, "*") {
		p += "*"
	}
	return p, nil
}

func (rs *RedisStore) evalPattern(ctx context.Context, op string, script radix.EvalScript, pattern string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, transportErr(op, err)
	}

	pool, err := rs.pool()
	if err != nil {
		return 0, err
	}

	var n int64
	mn := radix.MaybeNil{Rcv: &n}
	if err := pool.Do(script.Cmd(&mn, pattern)); err != nil {
		rs.log.Error().Err(err).Str("op", op).Str("pattern", pattern).Msg("script failed")
		return 0, scriptErr(op, err)
	}
	if mn.Nil {
		return 0, nil
	}
	rs.log.Debug().Str("op", op).Str("pattern", pattern).Int64("keys", n).Msg("script done")
	return n, nil
}
