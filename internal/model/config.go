package model

import "time"

// Config is the complete application configuration, resolved from flags,
// environment variables and the config file
type Config struct {
	Remote  RemoteConfig  `yaml:"remote" json:"remote"`
	Enrich  EnrichConfig  `yaml:"enrich" json:"enrich"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Rules   RulesConfig   `yaml:"rules" json:"rules"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Output  OutputConfig  `yaml:"output" json:"output"`
}

// RemoteConfig points at the claims sync server
type RemoteConfig struct {
	BaseURL    string        `yaml:"base_url" json:"base_url"`
	Token      string        `yaml:"token" json:"token"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"` // SSE reconnect delay
	HTTPProxy  string        `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" json:"https_proxy"`
}

// EnrichConfig controls the remote classification (AI enrichment) step
type EnrichConfig struct {
	Provider   string        `yaml:"provider" json:"provider"` // "proxy", "openai", "" = disabled
	Model      string        `yaml:"model" json:"model"`
	APIKey     string        `yaml:"api_key" json:"api_key"`
	BaseURL    string        `yaml:"base_url" json:"base_url"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	BatchSize  int           `yaml:"batch_size" json:"batch_size"`
	RatePerSec float64       `yaml:"rate_per_sec" json:"rate_per_sec"`
	Workers    int           `yaml:"workers" json:"workers"`
}

// ServerConfig configures the reference claims server
type ServerConfig struct {
	Addr   string `yaml:"addr" json:"addr"`
	Token  string `yaml:"token" json:"token"`
	DBPath string `yaml:"db_path" json:"db_path"`
}

// RulesConfig locates the persisted active rule set
type RulesConfig struct {
	Path string `yaml:"path" json:"path"` // Empty means ~/.claimlens/rules.json
}

// CacheConfig controls the enrichment result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"` // Empty means ~/.claimlens/cache
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			BaseURL:    "http://localhost:4000",
			Token:      "mock-token",
			Timeout:    30 * time.Second,
			RetryDelay: 10 * time.Second,
		},
		Enrich: EnrichConfig{
			Provider:   "", // Disabled by default
			Timeout:    30 * time.Second,
			BatchSize:  20,
			RatePerSec: 2,
			Workers:    2,
		},
		Server: ServerConfig{
			Addr:   ":4000",
			Token:  "mock-token",
			DBPath: "claims.db",
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
	}
}
