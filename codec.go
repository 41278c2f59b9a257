package redisfacade

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Codec converts values to and from the payloads kept in redis.
//
// Implementations hold no per-call state and are safe for concurrent use.
// Two values considered equal by the application must encode to identical
// payloads, because set membership and list removal compare payloads.
type Codec interface {
	Name() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// JSONCodec encodes values as UTF-8 JSON text. It is the default codec.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v interface{}) error {
	if !utf8.Valid(data) {
		return fmt.Errorf("payload is not valid UTF-8")
	}
	return json.Unmarshal(data, v)
}

// YAMLCodec encodes values as YAML documents.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Marshal(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAMLCodec) Unmarshal(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}

// GobCodec is a binary codec for Go-only consumers.
type GobCodec struct{}

func (GobCodec) Name() string { return "gob" }

func (GobCodec) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (GobCodec) Unmarshal(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// CodecByName returns the builtin codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "yaml":
		return YAMLCodec{}, nil
	case "gob":
		return GobCodec{}, nil
	}
	return nil, configErr("unknown codec %q", name)
}

func encode(c Codec, v interface{}) ([]byte, error) {
	b, err := c.Marshal(v)
	if err != nil {
		return nil, serializationErr(c.Name()+" encode", err)
	}
	return b, nil
}

func decode[T any](c Codec, data []byte) (T, error) {
	var v T
	if err := c.Unmarshal(data, &v); err != nil {
		return v, serializationErr(c.Name()+" decode", err)
	}
	return v, nil
}
