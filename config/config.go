// Package config loads server and resolver settings from defaults, an
// optional YAML file and ALGEBRA_* environment variables.
package config

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = stderrors.New("invalid configuration")

// Cache drivers.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
)

// Config is the complete configuration of the algebra server.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" json:"server"`
	Cors      CorsConfig      `mapstructure:"cors" json:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit" json:"ratelimit"`
	Resolver  ResolverConfig  `mapstructure:"resolver" json:"resolver"`
	Cache     CacheConfig     `mapstructure:"cache" json:"cache"`
	Batch     BatchConfig     `mapstructure:"batch" json:"batch"`
	Log       LogConfig       `mapstructure:"log" json:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" json:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" json:"idle_timeout"`
}

type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" json:"allowed_origins"`
}

// RateLimitConfig bounds requests per client. RPS 0 disables the limiter.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" json:"rps"`
	Burst int     `mapstructure:"burst" json:"burst"`
}

type ResolverConfig struct {
	Timezone     string `mapstructure:"timezone" json:"timezone"`
	HorizonYears int    `mapstructure:"horizon_years" json:"horizon_years"`
}

// CacheConfig selects the memo and log store. The max_* bounds apply to
// the memory driver.
type CacheConfig struct {
	Driver     string `mapstructure:"driver" json:"driver"`
	Path       string `mapstructure:"path" json:"path"`
	MaxOutputs int    `mapstructure:"max_outputs" json:"max_outputs"`
	MaxRecords int    `mapstructure:"max_records" json:"max_records"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers" json:"workers"`
	MaxSize int `mapstructure:"max_size" json:"max_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// Flag binds a command line flag to a config key. An unchanged flag leaves
// the key to the other sources.
type Flag struct {
	Key  string
	Flag *pflag.Flag
}

// Load reads configuration. Precedence: flags, environment, file, defaults.
// An empty path skips the file.
func Load(path string, flags ...Flag) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for _, f := range flags {
		if f.Flag == nil {
			continue
		}
		if err := v.BindPFlag(f.Key, f.Flag); err != nil {
			return nil, errors.Wrapf(err, "bind flag %s", f.Flag.Name)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "read config")
		}
	}

	v.SetEnvPrefix("ALGEBRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("ratelimit.rps", 10.0)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("resolver.timezone", "UTC")
	v.SetDefault("resolver.horizon_years", 5)

	v.SetDefault("cache.driver", CacheMemory)
	v.SetDefault("cache.path", "./data/algebra.db")
	v.SetDefault("cache.max_outputs", 10000)
	v.SetDefault("cache.max_records", 10000)

	v.SetDefault("batch.workers", 8)
	v.SetDefault("batch.max_size", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Wrapf(ErrInvalid, "server.port %d", c.Server.Port)
	}
	if _, err := time.LoadLocation(c.Resolver.Timezone); err != nil {
		return errors.Wrapf(ErrInvalid, "resolver.timezone %q: %v", c.Resolver.Timezone, err)
	}
	if c.Resolver.HorizonYears <= 0 {
		return errors.Wrapf(ErrInvalid, "resolver.horizon_years %d", c.Resolver.HorizonYears)
	}
	switch c.Cache.Driver {
	case CacheNone:
	case CacheMemory:
		if c.Cache.MaxOutputs <= 0 || c.Cache.MaxRecords <= 0 {
			return errors.Wrapf(ErrInvalid, "cache.max_outputs %d, cache.max_records %d", c.Cache.MaxOutputs, c.Cache.MaxRecords)
		}
	case CacheSQLite:
		if c.Cache.Path == "" {
			return errors.Wrap(ErrInvalid, "cache.path is required for sqlite")
		}
	default:
		return errors.Wrapf(ErrInvalid, "cache.driver %q", c.Cache.Driver)
	}
	if c.Batch.Workers <= 0 {
		return errors.Wrapf(ErrInvalid, "batch.workers %d", c.Batch.Workers)
	}
	if c.Batch.MaxSize <= 0 {
		return errors.Wrapf(ErrInvalid, "batch.max_size %d", c.Batch.MaxSize)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.Wrap(ErrInvalid, "ratelimit must not be negative")
	}
	return nil
}
