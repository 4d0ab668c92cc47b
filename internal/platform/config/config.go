package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Gateway captures everything the gateway binary needs to run.
type Gateway struct {
	Addr         string        `yaml:"addr"`
	APIBaseURL   string        `yaml:"api_base_url"`
	APITimeout   time.Duration `yaml:"api_timeout"`
	LoginPath    string        `yaml:"login_path"`
	GuardMemoTTL time.Duration `yaml:"guard_memo_ttl"`
	ProbeDelay   time.Duration `yaml:"probe_delay"`
	Redis        Redis         `yaml:"redis"`
}

// Redis configures the optional Redis-backed session store.
// An empty URL means sessions stay in process memory.
type Redis struct {
	URL      string `yaml:"url"`
	PoolSize int    `yaml:"pool_size"`
}

// Defaults returns the baseline gateway configuration.
func Defaults() Gateway {
	return Gateway{
		Addr:         ":8080",
		APIBaseURL:   "http://localhost:3000",
		APITimeout:   10 * time.Second,
		LoginPath:    "/login",
		GuardMemoTTL: 5 * time.Minute,
		ProbeDelay:   300 * time.Millisecond,
	}
}

// FromEnv builds a Gateway config from environment variables so main stays lean.
// If CAMPUS_CONFIG points at a YAML file, it is loaded first and env values
// override it.
func FromEnv() (Gateway, error) {
	cfg := Defaults()

	if path := os.Getenv("CAMPUS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if addr := os.Getenv("CAMPUS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if base := os.Getenv("CAMPUS_API_BASE_URL"); base != "" {
		cfg.APIBaseURL = base
	}
	if raw := os.Getenv("CAMPUS_API_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.APITimeout = d
		}
	}
	if raw := os.Getenv("CAMPUS_GUARD_MEMO_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.GuardMemoTTL = d
		}
	}
	if raw := os.Getenv("CAMPUS_PROBE_DELAY"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.ProbeDelay = d
		}
	}
	if url := os.Getenv("CAMPUS_REDIS_URL"); url != "" {
		cfg.Redis.URL = url
	}
	if path := os.Getenv("CAMPUS_LOGIN_PATH"); path != "" {
		cfg.LoginPath = path
	}

	return cfg, nil
}
