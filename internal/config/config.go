// Path: internal/config/config.go
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Browser   BrowserConfig
	Search    SearchConfig
	Cache     CacheConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds the API server settings.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the database connection settings.
type DatabaseConfig struct {
	URI               string `mapstructure:"uri"`
	Name              string `mapstructure:"name"`
	CacheCollection   string `mapstructure:"cache_collection"`
	TrackedCollection string `mapstructure:"tracked_collection"`
}

// BrowserConfig holds settings for the headless browser driver.
type BrowserConfig struct {
	BinPath               string  `mapstructure:"bin_path"`
	Headless              bool    `mapstructure:"headless"`
	ProxyURL              string  `mapstructure:"proxy_url"`
	NavigationTimeoutSecs int     `mapstructure:"navigation_timeout_seconds"`
	NavigationsPerSecond  float64 `mapstructure:"navigations_per_second"`
	NavigationBurst       int     `mapstructure:"navigation_burst"`
}

// SearchConfig holds the search-and-match engine settings. The price
// thresholds are empirical, tuned against currently observed storefront
// markup, and intentionally kept adjustable.
type SearchConfig struct {
	MaxSessions        int     `mapstructure:"max_sessions"`
	LiveItemLimit      int     `mapstructure:"live_item_limit"`
	CompareItemLimit   int     `mapstructure:"compare_item_limit"`
	MinPrice           float64 `mapstructure:"min_price"`
	MinorUnitThreshold float64 `mapstructure:"minor_unit_threshold"`
	SelectorWaitSecs   int     `mapstructure:"selector_wait_seconds"`
}

// CacheConfig holds the result cache settings.
type CacheConfig struct {
	TTLHours int `mapstructure:"ttl_hours"`
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// SchedulerConfig holds settings for the tracked-query refresh loop.
type SchedulerConfig struct {
	StaleAfterHours   int `mapstructure:"stale_after_hours"`
	EmptyBackoffSecs  int `mapstructure:"empty_backoff_seconds"`
	QueryDelaySecs    int `mapstructure:"query_delay_seconds"`
	RoundIntervalSecs int `mapstructure:"round_interval_seconds"`
}

// Load loads the configuration from file and environment variables.
func Load() (*Config, error) {
	// Set default values
	viper.SetDefault("SERVER.PORT", "8000")
	viper.SetDefault("SERVER.ALLOWED_ORIGINS", []string{
		"http://localhost:4200",
		"http://127.0.0.1:4200",
		"https://price-hunter-mx.web.app",
		"https://price-hunter-mx.firebaseapp.com",
	})
	viper.SetDefault("DATABASE.NAME", "price-hunter")
	viper.SetDefault("DATABASE.CACHE_COLLECTION", "cached_results")
	viper.SetDefault("DATABASE.TRACKED_COLLECTION", "tracked_queries")
	viper.SetDefault("BROWSER.HEADLESS", true)
	viper.SetDefault("BROWSER.NAVIGATION_TIMEOUT_SECONDS", 60)
	viper.SetDefault("BROWSER.NAVIGATIONS_PER_SECOND", 1.0)
	viper.SetDefault("BROWSER.NAVIGATION_BURST", 3)
	viper.SetDefault("SEARCH.MAX_SESSIONS", 3)
	viper.SetDefault("SEARCH.LIVE_ITEM_LIMIT", 15)
	viper.SetDefault("SEARCH.COMPARE_ITEM_LIMIT", 20)
	viper.SetDefault("SEARCH.MIN_PRICE", 50.0)
	viper.SetDefault("SEARCH.MINOR_UNIT_THRESHOLD", 500000.0)
	viper.SetDefault("SEARCH.SELECTOR_WAIT_SECONDS", 10)
	viper.SetDefault("CACHE.TTL_HOURS", 24)
	viper.SetDefault("SCHEDULER.STALE_AFTER_HOURS", 24)
	viper.SetDefault("SCHEDULER.EMPTY_BACKOFF_SECONDS", 60)
	viper.SetDefault("SCHEDULER.QUERY_DELAY_SECONDS", 10)
	viper.SetDefault("SCHEDULER.ROUND_INTERVAL_SECONDS", 3600)

	// Load from config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err // Only return error if it's not a "file not found" error
		}
	}

	// Load from environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
