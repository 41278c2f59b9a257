package redisfacade

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the store options.
//
//	connection: redis://:secret@localhost:6379?pool_size=20
//	db: 2
//	codec: json
//	namespace: myapp
//	normalize_keys: true
type Config struct {
	Connection    string `yaml:"connection"`
	DB            int    `yaml:"db"`
	Codec         string `yaml:"codec,omitempty"`
	Namespace     string `yaml:"namespace,omitempty"`
	NormalizeKeys bool   `yaml:"normalize_keys,omitempty"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfiguration, path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML document into a Config and validates it.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config: %w", ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Connection == "" {
		return configErr("connection is required")
	}
	if c.DB < 0 {
		return configErr("negative database index %d", c.DB)
	}
	if _, err := CodecByName(c.Codec); err != nil {
		return err
	}
	return nil
}

// Namespacer builds the key transform described by the config.
func (c *Config) Namespacer() Namespacer {
	ns := PrefixNamespacer(c.Namespace)
	if c.NormalizeKeys {
		return ChainNamespacers(NFCNamespacer, ns)
	}
	return ns
}

// Options converts the config into store options.
func (c *Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	codec, _ := CodecByName(c.Codec)
	return []Option{
		WithDB(c.DB),
		WithCodec(codec),
		WithNamespacer(c.Namespacer()),
	}, nil
}
