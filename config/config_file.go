package config

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	errMsgFileOpen   = "config: failed to open config file"
	errMsgFileDecode = "config: failed to decode config file"
	errMsgFileWrite  = "config: failed to write config file"
	errMsgFileEncode = "config: failed to encode config"
)

// FromFile loads a configuration from a toml file.
func FromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errMsgFileOpen)
	}
	defer file.Close()

	return FromReader(file)
}

// FromReader loads a configuration from a toml stream. Keys missing from
// the stream keep their defaults.
func FromReader(reader io.Reader) (*Config, error) {
	conf := New()
	if _, err := toml.DecodeReader(reader, conf); err != nil {
		return nil, errors.Wrap(err, errMsgFileDecode)
	}
	return conf, nil
}

// WriteFile writes the configuration out as a toml file.
func (c *Config) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errMsgFileWrite)
	}
	defer file.Close()

	return c.Encode(file)
}

// Encode writes the configuration as toml.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return errors.Wrap(err, errMsgFileEncode)
	}
	return nil
}
