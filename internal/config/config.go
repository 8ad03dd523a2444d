// Package config assembles service settings from an optional YAML file,
// a .env file and the process environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr     string `yaml:"addr"`
	TLSCert  string `yaml:"tls_cert"`
	TLSKey   string `yaml:"tls_key"`
	TokenKey string `yaml:"-"`

	DatabaseURL string        `yaml:"database_url"`
	RedisAddr   string        `yaml:"redis_addr"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`

	Segments             int     `yaml:"segments"`
	DeflectionLimitRatio float64 `yaml:"deflection_limit_ratio"`

	InboxDir string `yaml:"inbox_dir"`

	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`

	InsecureCookies bool `yaml:"insecure_cookies"`
}

func Default() Config {
	return Config{
		Addr:                 ":443",
		TLSCert:              "server.crt",
		TLSKey:               "server.key",
		CacheTTL:             10 * time.Minute,
		Segments:             500,
		DeflectionLimitRatio: 250,
		RateLimit:            1,
		RateBurst:            3,
	}
}

// Load reads path (skipped when missing), then .env, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)

	if cfg.TokenKey == "" {
		return Config{}, errors.New("TOKEN_KEY environment variable is not set")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str("STRATUM_ADDR", &cfg.Addr)
	str("STRATUM_TLS_CERT", &cfg.TLSCert)
	str("STRATUM_TLS_KEY", &cfg.TLSKey)
	str("TOKEN_KEY", &cfg.TokenKey)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("STRATUM_INBOX", &cfg.InboxDir)

	if v, ok := os.LookupEnv("STRATUM_CACHE_TTL"); ok {
		if d, err := cast.ToDurationE(v); err == nil {
			cfg.CacheTTL = d
		}
	}
	if v, ok := os.LookupEnv("STRATUM_SEGMENTS"); ok {
		if n, err := cast.ToIntE(v); err == nil && n > 0 {
			cfg.Segments = n
		}
	}
	if v, ok := os.LookupEnv("STRATUM_DEFLECTION_LIMIT"); ok {
		if f, err := cast.ToFloat64E(v); err == nil && f > 0 {
			cfg.DeflectionLimitRatio = f
		}
	}
	if v, ok := os.LookupEnv("STRATUM_RATE_LIMIT"); ok {
		if f, err := cast.ToFloat64E(v); err == nil && f > 0 {
			cfg.RateLimit = f
		}
	}
	if v, ok := os.LookupEnv("STRATUM_RATE_BURST"); ok {
		if n, err := cast.ToIntE(v); err == nil && n > 0 {
			cfg.RateBurst = n
		}
	}
	if v, ok := os.LookupEnv("STRATUM_INSECURE_COOKIES"); ok {
		cfg.InsecureCookies = cast.ToBool(v)
	}
}
