package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds

	// CORSAllowedOrigins restricts browser origins; empty allows every origin
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// AssetGraphConfig holds the remote asset graph configuration
type AssetGraphConfig struct {
	URL         string        `mapstructure:"url"`          // GraphQL endpoint
	TokenURL    string        `mapstructure:"token_url"`    // same-origin endpoint handing out {access_token}
	HTTPTimeout time.Duration `mapstructure:"http_timeout"` // transport timeout per request (e.g., "20s")

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds the outbound request budget of the asset graph
type RateLimitConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 disables limiting
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"` // how long a page fetch may wait for a token
}

// CacheConfig holds wallet asset cache configuration
type CacheConfig struct {
	TTL                time.Duration `mapstructure:"ttl"`                  // staleness window of a cache entry
	PageSize           int           `mapstructure:"page_size"`            // default page size when the caller passes none
	PageTimeout        time.Duration `mapstructure:"page_timeout"`         // timeout of a single background page fetch
	EvictAfter         time.Duration `mapstructure:"evict_after"`          // idle entries are dropped after this (0 = never)
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`     // how often evicted entries are purged
	MaxConcurrentLoads int           `mapstructure:"max_concurrent_loads"` // background fills running at once across wallets
}

// NATSConfig holds NATS JetStream configuration for the update relay
type NATSConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
	QueueSize      int           `mapstructure:"queue_size"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig     `mapstructure:"server"`
	AssetGraph AssetGraphConfig `mapstructure:"asset_graph"`
	Cache      CacheConfig      `mapstructure:"cache"`
	NATS       NATSConfig       `mapstructure:"nats"`
}

// Validate checks the settings the service cannot start without
func (c *APIConfig) Validate() error {
	if c.AssetGraph.URL == "" {
		return errors.New("asset_graph.url is required")
	}
	if c.AssetGraph.TokenURL == "" {
		return errors.New("asset_graph.token_url is required")
	}
	if c.Cache.PageSize <= 0 {
		return fmt.Errorf("cache.page_size must be positive, got %d", c.Cache.PageSize)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return errors.New("nats.url is required when nats.enabled is set")
	}
	return nil
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("asset_graph.http_timeout", "20s")
	v.SetDefault("asset_graph.rate_limit.requests_per_second", 10)
	v.SetDefault("asset_graph.rate_limit.burst", 20)
	v.SetDefault("asset_graph.rate_limit.max_queue_time", "30s")
	v.SetDefault("cache.ttl", domain.DEFAULT_CACHE_TTL)
	v.SetDefault("cache.page_size", domain.DEFAULT_PAGE_SIZE)
	v.SetDefault("cache.page_timeout", "30s")
	v.SetDefault("cache.evict_after", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.max_concurrent_loads", 32)
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.stream_name", "WALLET_ASSETS")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.connection_name", "ff-wallet-assets")
	v.SetDefault("nats.publish_timeout", "5s")
	v.SetDefault("nats.queue_size", 1024)

	if err := v.ReadInConfig(); err != nil && !isConfigNotFound(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// isConfigNotFound reports whether the config file is simply absent,
// in which case environment variables are used
func isConfigNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("FF_WALLET_ASSETS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_allowed_origins",
		// Asset graph
		"asset_graph.url",
		"asset_graph.token_url",
		"asset_graph.http_timeout",
		"asset_graph.rate_limit.requests_per_second",
		"asset_graph.rate_limit.burst",
		"asset_graph.rate_limit.max_queue_time",
		// Cache
		"cache.ttl",
		"cache.page_size",
		"cache.page_timeout",
		"cache.evict_after",
		"cache.cleanup_interval",
		"cache.max_concurrent_loads",
		// NATS
		"nats.enabled",
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.publish_timeout",
		"nats.queue_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}
