package redisfacade

import "strings"

// Info is the parsed output of the INFO command. Keys keep the order in
// which they first appeared.
type Info struct {
	keys   []string
	values map[string]string
}

// ParseInfo parses "key:value" lines. Blank lines and lines starting with
// '#' are skipped, the line is split on its first colon and the value is
// trimmed. A repeated key keeps its first position and its last value.
func ParseInfo(text string) Info {
	info := Info{values: make(map[string]string)}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx <= 0 {
			continue
		}
		info.set(line[:idx], strings.TrimSpace(line[idx+1:]))
	}
	return info
}

func (in *Info) set(key, value string) {
	if _, ok := in.values[key]; !ok {
		in.keys = append(in.keys, key)
	}
	in.values[key] = value
}

// Get returns the value of key.
func (in Info) Get(key string) (string, bool) {
	v, ok := in.values[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (in Info) Keys() []string {
	return append([]string(nil), in.keys...)
}

func (in Info) Len() int {
	return len(in.keys)
}

// Map returns a copy of the parsed values.
func (in Info) Map() map[string]string {
	res := make(map[string]string, len(in.values))
	for k, v := range in.values {
		res[k] = v
	}
	return res
}
