package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Trace recording modes.
const (
	TraceOff             = "off"
	TraceOn              = "on"
	TraceRetainOnFailure = "retain-on-failure"
)

// Console/network log flush modes.
const (
	CaptureOnFailure = "on-failure"
	CaptureAlways    = "always"
)

// Config holds all configuration for the e2e suite. Values come from
// defaults, an optional e2e.yaml, and E2E_* environment variables, in
// rising precedence.
type Config struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	NavTimeout time.Duration `mapstructure:"nav_timeout"`

	Headless bool `mapstructure:"headless"`
	SlowMo   int  `mapstructure:"slow_mo"`

	// Retries is the number of automatic re-runs after a failed attempt.
	// A test that fails and then passes within its budget is recorded
	// as flaky.
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`

	Screenshots bool   `mapstructure:"screenshots"`
	Videos      bool   `mapstructure:"videos"`
	TraceMode   string `mapstructure:"trace"`
	CaptureLogs string `mapstructure:"capture_logs"`

	OutputDir string `mapstructure:"output_dir"`
	Project   string `mapstructure:"project"`

	StandardUser  string `mapstructure:"standard_user"`
	LockedOutUser string `mapstructure:"locked_out_user"`
	Password      string `mapstructure:"password"`
}

var (
	cfg      *Config
	loadOnce sync.Once
	logger   = log.New(log.Writer(), "[e2e-config] ", log.LstdFlags)
)

// Get returns the suite configuration, loading it on first use. A load
// failure falls back to defaults so a broken e2e.yaml cannot take the
// suite down before it has printed anything.
func Get() *Config {
	loadOnce.Do(func() {
		c, err := Load()
		if err != nil {
			logger.Printf("falling back to defaults: %v", err)
			c = defaultConfig()
		}
		cfg = c
		logger.Printf("BaseURL=%s headless=%v retries=%d trace=%s", c.BaseURL, c.Headless, c.Retries, c.TraceMode)
	})
	return cfg
}

// Load reads the configuration fresh from disk and environment.
func Load() (*Config, error) {
	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("e2e")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./tests/e2e")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read e2e config: %w", err)
		}
	}

	v.SetEnvPrefix("E2E")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse e2e config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://www.saucedemo.com")
	v.SetDefault("timeout", "30s")
	v.SetDefault("nav_timeout", "45s")
	v.SetDefault("headless", true)
	v.SetDefault("slow_mo", 0)
	v.SetDefault("retries", 1)
	v.SetDefault("retry_delay", "500ms")
	v.SetDefault("screenshots", true)
	v.SetDefault("videos", false)
	v.SetDefault("trace", TraceRetainOnFailure)
	v.SetDefault("capture_logs", CaptureOnFailure)
	v.SetDefault("output_dir", "test-results")
	v.SetDefault("project", "chromium")
	v.SetDefault("standard_user", "standard_user")
	v.SetDefault("locked_out_user", "locked_out_user")
	v.SetDefault("password", "secret_sauce")
}

func defaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		// Defaults are static; this cannot fail at runtime.
		panic(fmt.Sprintf("default e2e config: %v", err))
	}
	return &c
}

// MaxAttempts is the total attempt budget per test: the first run plus
// the configured retries.
func (c *Config) MaxAttempts() int {
	if c.Retries < 0 {
		return 1
	}
	return c.Retries + 1
}
