// Package redisfacade is a typed client facade over redis built on radix.
//
// # Overview
//
// A RedisStore combines a shared connection handle, a key Namespacer and a
// payload Codec. Handles come from a RedisFarm, which dials each connection
// identifier once and shares the result between every store built for it.
//
//	rs, err := redisfacade.New(ctx, "redis://localhost:6379",
//	    redisfacade.WithDB(1),
//	    redisfacade.WithNamespacer(redisfacade.PrefixNamespacer("myapp")))
//
//	users := redisfacade.For[User](rs)
//	users.Set(ctx, "user:1001", User{Name: "Alice"}, time.Hour)
//	u, found, err := users.Get(ctx, "user:1001")
//
// # Absent values
//
// Reading a missing key, field or list element is not an error: the typed
// readers return found == false and batch readers return Items with Found
// unset.
//
// # Bulk key operations
//
// DeleteByPrefix and CountByPrefix run as a single server-side script.
// Deletion happens in chunks of 5000 keys inside the script.
//
// # Pub/Sub
//
// Subscribe registers a decode-wrapper per (channel, handler) pair;
// Unsubscribe with the same pair removes exactly that wrapper. A message that
// cannot be decoded is dropped, logged and passed to the handler set with
// WithErrorHandler. Messages are queued per subscription, so a slow
// handler never stalls the shared connection, and nothing is delivered once
// Unsubscribe has returned apart from a delivery already running.
//
// # Errors
//
// Errors wrap ErrConfiguration, ErrSerialization, ErrTransport or ErrScript
// and can be tested with errors.Is.
package redisfacade
