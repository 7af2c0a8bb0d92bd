package config

import "time"

// Config holds runtime settings for the store admin CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API.
//   - DatabasePath: path to the local sqlite database file.
//   - RequestTimeout: per-request HTTP timeout.
//   - CacheTTL: default freshness window for cached list responses.
//   - DebounceInterval: delay collapsing rapid refetch triggers into one fetch.
//   - MaxRetries: attempts for failed list fetches (0 disables retrying).
type Config struct {
	APIBaseURL       string        `env:"ADMIN_API_URL"`
	DatabasePath     string        `env:"ADMIN_DB_PATH"`
	RequestTimeout   time.Duration `env:"ADMIN_REQUEST_TIMEOUT"`
	CacheTTL         time.Duration `env:"ADMIN_CACHE_TTL"`
	DebounceInterval time.Duration `env:"ADMIN_DEBOUNCE_INTERVAL"`
	MaxRetries       int           `env:"ADMIN_MAX_RETRIES"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000/api"
	c.DatabasePath = "admin.db"
	c.RequestTimeout = 30 * time.Second
	c.CacheTTL = 30 * time.Second
	c.DebounceInterval = 300 * time.Millisecond
	c.MaxRetries = 3
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}
