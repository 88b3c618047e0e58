// Package config loads the settings shared by the command line and the http
// server.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forestrie/go-mmrproofs/mmr"
	"github.com/forestrie/go-mmrproofs/report"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// EnvVarPrefix prefixes environment overrides, eg MMRPROOF_INDEXER_URL
	// or MMRPROOF_SERVER_ADDR
	EnvVarPrefix = "MMRPROOF"

	DefaultLogLevel        = "INFO"
	DefaultTimeout         = 30 * time.Second
	DefaultServerAddr      = ":8080"
	DefaultShutdownTimeout = 5 * time.Second
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Config struct {
	IndexerURL string `mapstructure:"indexer_url"`
	// HashName is the mmr merge hash, blake2b-256 or keccak256
	HashName string `mapstructure:"hash"`
	// Format of reports, json or cbor
	Format   string `mapstructure:"format"`
	LogLevel string `mapstructure:"log_level"`
	// CachePath enables the on disk node cache when set
	CachePath string        `mapstructure:"cache_path"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// Headers are added to every indexer request, as "Name: value" pairs
	Headers []string     `mapstructure:"headers"`
	Server  ServerConfig `mapstructure:"server"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("indexer_url", "")
	v.SetDefault("hash", mmr.HashBlake2b256)
	v.SetDefault("format", report.FormatJSON)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("cache_path", "")
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("headers", []string{})
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvVarPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads the defaults, then the config file at path when path is not
// empty, then the environment. The file type is taken from its extension.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return unmarshal(v)
}

// LoadString is Load for configuration held in memory
func LoadString(data string, configType string) (Config, error) {
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewBufferString(data)); err != nil {
		return Config{}, fmt.Errorf("reading %s config: %w", configType, err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (Config, error) {
	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks the settings every command relies on. The indexer url is
// checked separately by the commands that need it.
func (c Config) Validate() error {
	if _, err := mmr.NewHasher(c.HashName); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.Format {
	case report.FormatJSON, report.FormatCBOR:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, report.ErrUnknownFormat, c.Format)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %v", ErrInvalidConfig, c.Timeout)
	}
	for _, h := range c.Headers {
		if _, _, ok := c.splitHeader(h); !ok {
			return fmt.Errorf("%w: header %q is not of the form 'Name: value'", ErrInvalidConfig, h)
		}
	}
	return nil
}

// RequireIndexerURL fails if no indexer is configured
func (c Config) RequireIndexerURL() error {
	if c.IndexerURL == "" {
		return fmt.Errorf("%w: the indexer url is required", ErrInvalidConfig)
	}
	return nil
}

// HeaderPairs returns the configured headers split into name and value
func (c Config) HeaderPairs() [][2]string {
	pairs := make([][2]string, 0, len(c.Headers))
	for _, h := range c.Headers {
		if name, value, ok := c.splitHeader(h); ok {
			pairs = append(pairs, [2]string{name, value})
		}
	}
	return pairs
}

func (c Config) splitHeader(h string) (string, string, bool) {
	name, value, ok := strings.Cut(h, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}
