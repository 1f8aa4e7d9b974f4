package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix marks environment variables that override configuration.
// SECIDX_DATA_DIR sets data.dir.
const EnvPrefix = "SECIDX_"

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Data    DataConfig    `mapstructure:"data"`
	Query   QueryConfig   `mapstructure:"query"`
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	SeqURL string `mapstructure:"seq"` // empty logs to the console only
}

type DataConfig struct {
	Dir         string `mapstructure:"dir"`  // snapshot directory
	LoadOnStart bool   `mapstructure:"load"` // load every snapshot at startup
	SaveOnExit  bool   `mapstructure:"save"` // save every index on shutdown
}

type QueryConfig struct {
	CacheSize int `mapstructure:"cache"` // normalized queries kept per index, 0 disables
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.seq", "")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.load", true)
	v.SetDefault("data.save", true)
	v.SetDefault("query.cache", 128)
	v.SetDefault("server.port", 4444)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9464")
}

// Load builds the configuration from defaults, the optional config file at
// path (YAML, TOML or JSON) and SECIDX_ environment variables, in
// increasing order of precedence
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// 1. Config file, only when one is given
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 2. Environment: SECIDX_QUERY_CACHE -> query.cache
	for _, envStr := range os.Environ() {
		key, value, ok := strings.Cut(envStr, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		propKey := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(key, EnvPrefix), "_", "."))
		v.Set(propKey, value)
	}

	// 3. Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.Query.CacheSize < 0 {
		return fmt.Errorf("query.cache must not be negative, got %d", c.Query.CacheSize)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir must be set")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	return nil
}
