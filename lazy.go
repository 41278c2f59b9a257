package redisfacade

import (
	"sync"
	"sync/atomic"
)

// lazy holds a value built at most once. Callers that wait on a failed
// build all observe the same error.
type lazy[T any] struct {
	once sync.Once
	ok   atomic.Bool
	v    T
	err  error
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.v, l.err = build()
		if l.err == nil {
			l.ok.Store(true)
		}
	})
	return l.v, l.err
}

// peek returns the value without building it.
func (l *lazy[T]) peek() (T, bool) {
	if !l.ok.Load() {
		var zero T
		return zero, false
	}
	return l.v, true
}

// lazyMap builds one value per key. The slot is installed with LoadOrStore
// so racing callers share it; a slot whose build failed is removed and the
// next caller starts a fresh attempt.
type lazyMap[K comparable, V any] struct {
	m sync.Map
}

func (lm *lazyMap[K, V]) get(k K, build func() (V, error)) (V, error) {
	v, _ := lm.m.LoadOrStore(k, new(lazy[V]))
	slot := v.(*lazy[V])

	val, err := slot.get(build)
	if err != nil {
		lm.m.CompareAndDelete(k, slot)
	}
	return val, err
}

func (lm *lazyMap[K, V]) peek(k K) (V, bool) {
	v, ok := lm.m.Load(k)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(*lazy[V]).peek()
}

// each visits every successfully built value.
func (lm *lazyMap[K, V]) each(fn func(K, V)) {
	lm.m.Range(func(k, v interface{}) bool {
		if val, ok := v.(*lazy[V]).peek(); ok {
			fn(k.(K), val)
		}
		return true
	})
}

func (lm *lazyMap[K, V]) delete(k K) {
	lm.m.Delete(k)
}

func (lm *lazyMap[K, V]) keys() []K {
	var res []K
	lm.m.Range(func(k, _ interface{}) bool {
		res = append(res, k.(K))
		return true
	})
	return res
}
