package redisfacade

import "golang.org/x/text/unicode/norm"

// Namespacer maps a logical key to the physical key sent to redis.
// It must be pure: the same input always yields the same output.
type Namespacer func(key string) string

// IdentityNamespacer leaves keys unchanged.
func IdentityNamespacer(key string) string { return key }

// PrefixNamespacer stores keys as "prefix:key".
func PrefixNamespacer(prefix string) Namespacer {
	if prefix == "" {
		return IdentityNamespacer
	}
	p := prefix + ":"
	return func(key string) string {
		return p + key
	}
}

// NFCNamespacer normalizes keys to Unicode NFC so that canonically
// equivalent spellings address the same physical key.
func NFCNamespacer(key string) string {
	return norm.NFC.String(key)
}

// ChainNamespacers applies ns left to right.
func ChainNamespacers(ns ...Namespacer) Namespacer {
	return func(key string) string {
		for _, n := range ns {
			if n != nil {
				key = n(key)
			}
		}
		return key
	}
}
