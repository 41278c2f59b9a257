package redisfacade

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/mediocregopher/radix/v3"
)

// Handler receives the decoded messages of a subscription.
//
// The handler value identifies the subscription: Unsubscribe with the same
// channel and handler removes it, so the dynamic type must be comparable.
// Pointer types satisfy this; HandlerFunc returns a fresh pointer per call.
// Messages of one subscription are delivered sequentially in the order the
// server sent them. Each subscription queues its own messages, so a slow
// handler delays only itself.
type Handler[T any] interface {
	HandleMessage(msg Message[T])
}

type funcHandler[T any] struct {
	fn func(Message[T])
}

func (h *funcHandler[T]) HandleMessage(msg Message[T]) {
	h.fn(msg)
}

// HandlerFunc adapts fn to a Handler.
func HandlerFunc[T any](fn func(Message[T])) Handler[T] {
	if fn == nil {
		return nil
	}
	return &funcHandler[T]{fn: fn}
}

const subscriptionBuffer = 64

type subKey struct {
	channel string
	handler interface{}
}

// wrapper is what gets registered with the pub/sub connection in place of
// the caller's handler. forward drains msgCh into an unbounded queue so the
// connection's reader never waits on a handler; dispatch feeds the queue to
// the handler.
type wrapper struct {
	id      uuid.UUID
	channel string
	ps      radix.PubSubConn
	msgCh   chan radix.PubSubMessage
	wake    chan struct{}
	done    chan struct{}
	ready   chan struct{} // closed once the SUBSCRIBE attempt returned
	once    sync.Once

	mu    sync.Mutex
	queue []radix.PubSubMessage
}

func newWrapper(channel string, ps radix.PubSubConn) *wrapper {
	return &wrapper{
		id:      uuid.New(),
		channel: channel,
		ps:      ps,
		msgCh:   make(chan radix.PubSubMessage, subscriptionBuffer),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		ready:   make(chan struct{}),
	}
}

func (w *wrapper) forward() {
	for m := range w.msgCh {
		if w.stopped() {
			continue
		}
		w.mu.Lock()
		w.queue = append(w.queue, m)
		w.mu.Unlock()
		select {
		case w.wake <- struct{}{}:
		default:
		}
	}
}

func (w *wrapper) pop() (radix.PubSubMessage, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return radix.PubSubMessage{}, false
	}
	m := w.queue[0]
	w.queue[0] = radix.PubSubMessage{}
	w.queue = w.queue[1:]
	return m, true
}

func (w *wrapper) stopped() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// stop ends delivery. Queued messages are discarded.
func (w *wrapper) stop() {
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		w.queue = nil
		w.mu.Unlock()
	})
}

type subscriptions struct {
	mu    sync.Mutex
	byKey map[subKey]*wrapper
}

func newSubscriptions() *subscriptions {
	return &subscriptions{byKey: make(map[subKey]*wrapper)}
}

// Publish sends payload to channel and returns the number of subscribers
// that received it.
func (rs *RedisStore) Publish(ctx context.Context, channel string, payload []byte) (int64, error) {
	if channel == "" {
		return 0, configErr("empty channel")
	}
	if payload == nil {
		return 0, configErr("nil payload for channel %q", channel)
	}

	var n int64
	if err := rs.do(ctx, "PUBLISH", radix.Cmd(&n, "PUBLISH", channel, string(payload))); err != nil {
		return 0, err
	}
	if n > 0 {
		rs.log.Debug().Str("channel", channel).Int64("receivers", n).Msg("message sent succesfully")
	}
	return n, nil
}

func validHandler(handler interface{}) error {
	if handler == nil {
		return configErr("nil handler")
	}
	v := reflect.ValueOf(handler)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice:
		if v.IsNil() {
			return configErr("nil handler")
		}
	}
	if !v.Type().Comparable() {
		return configErr("handler type %s is not comparable", v.Type())
	}
	return nil
}

// subscribe registers a decode-wrapper for (channel, handler). Subscribing
// an already registered pair is a no-op.
func (rs *RedisStore) subscribe(ctx context.Context, channel string, handler interface{}, deliver func(channel string, payload []byte) error) error {
	if channel == "" {
		return configErr("empty channel")
	}
	if err := validHandler(handler); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return transportErr("SUBSCRIBE", err)
	}

	ps, err := rs.conn.Subscriber()
	if err != nil {
		return err
	}

	key := subKey{channel: channel, handler: handler}
	rs.subs.mu.Lock()
	if _, ok := rs.subs.byKey[key]; ok {
		rs.subs.mu.Unlock()
		return nil
	}
	w := newWrapper(channel, ps)
	rs.subs.byKey[key] = w
	rs.subs.mu.Unlock()

	go w.forward()
	go rs.dispatch(w, deliver)

	err = ps.Subscribe(w.msgCh, channel)
	close(w.ready)
	if err != nil {
		rs.log.Error().Err(err).Str("channel", channel).Msg("subscribe failed")
		rs.subs.mu.Lock()
		owned := rs.subs.byKey[key] == w
		if owned {
			delete(rs.subs.byKey, key)
		}
		rs.subs.mu.Unlock()
		if owned {
			rs.detach(w)
		}
		return transportErr("SUBSCRIBE "+channel, err)
	}
	rs.log.Debug().Str("channel", channel).Str("subscription", w.id.String()).Msg("subscribed")
	return nil
}

// dispatch feeds queued messages of one wrapper to its handler. A message
// that fails to decode is dropped and reported; the subscription stays
// active. Nothing is delivered once the wrapper is stopped.
func (rs *RedisStore) dispatch(w *wrapper, deliver func(channel string, payload []byte) error) {
	for {
		select {
		case <-w.done:
			return
		case <-w.wake:
		}
		for !w.stopped() {
			m, ok := w.pop()
			if !ok {
				break
			}
			if err := deliver(m.Channel, m.Message); err != nil {
				rs.log.Error().Err(err).
					Str("channel", m.Channel).
					Str("subscription", w.id.String()).
					Msg("message dropped")
				if rs.onDecodeErr != nil {
					rs.onDecodeErr(m.Channel, err)
				}
			}
		}
	}
}

// unsubscribe removes the wrapper registered for exactly (channel,
// handler). Other handlers of the channel keep receiving messages. It may
// be called from inside the handler being removed. A delivery already in
// progress on another goroutine may still complete after it returns.
func (rs *RedisStore) unsubscribe(ctx context.Context, channel string, handler interface{}) error {
	if channel == "" {
		return configErr("empty channel")
	}
	if err := validHandler(handler); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return transportErr("UNSUBSCRIBE", err)
	}

	key := subKey{channel: channel, handler: handler}
	rs.subs.mu.Lock()
	w, ok := rs.subs.byKey[key]
	if ok {
		delete(rs.subs.byKey, key)
	}
	rs.subs.mu.Unlock()

	if !ok {
		return nil
	}
	return rs.release(w)
}

// UnsubscribeAll removes every subscription made through this store. All
// wrappers are released even if some fail; the first error is returned.
func (rs *RedisStore) UnsubscribeAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return transportErr("UNSUBSCRIBE", err)
	}

	rs.subs.mu.Lock()
	ws := make([]*wrapper, 0, len(rs.subs.byKey))
	for key, w := range rs.subs.byKey {
		ws = append(ws, w)
		delete(rs.subs.byKey, key)
	}
	rs.subs.mu.Unlock()

	var first error
	for _, w := range ws {
		if err := rs.release(w); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Subscriptions returns the number of active subscriptions of the store.
func (rs *RedisStore) Subscriptions() int {
	rs.subs.mu.Lock()
	defer rs.subs.mu.Unlock()
	return len(rs.subs.byKey)
}

func (rs *RedisStore) release(w *wrapper) error {
	if err := rs.detach(w); err != nil {
		rs.log.Error().Err(err).Str("channel", w.channel).Msg("unsubscribe failed")
		return transportErr("UNSUBSCRIBE "+w.channel, err)
	}
	rs.log.Debug().Str("channel", w.channel).Str("subscription", w.id.String()).Msg("unsubscribed")
	return nil
}

// detach stops delivery and removes msgCh from the connection. msgCh is
// closed only when the connection confirmed the removal; otherwise forward
// keeps draining it.
func (rs *RedisStore) detach(w *wrapper) error {
	w.stop()
	<-w.ready
	if err := w.ps.Unsubscribe(w.msgCh, w.channel); err != nil {
		return err
	}
	close(w.msgCh)
	return nil
}
