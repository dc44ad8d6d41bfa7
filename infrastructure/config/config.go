package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"slices"
	"strings"
	"time"

	"request_verifier/infrastructure/browser"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "VERIFY"
	DefaultBaseURL = "http://localhost:3000"
)

// Config holds all settings of a verification run
type Config struct {
	BaseURL       string        `mapstructure:"base_url"`
	Driver        string        `mapstructure:"driver"`
	Headless      bool          `mapstructure:"headless"`
	SlowMo        time.Duration `mapstructure:"slow_mo"`
	Timeout       time.Duration `mapstructure:"timeout"`
	SettleDelay   time.Duration `mapstructure:"settle_delay"`
	ScreenshotDir string        `mapstructure:"screenshot_dir"`
	Scenario      string        `mapstructure:"scenario"`
	Preflight     bool          `mapstructure:"preflight"`
	Install       bool          `mapstructure:"install"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFile       string        `mapstructure:"log_file"`
}

// SetDefaults - registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("driver", browser.DriverPlaywright)
	v.SetDefault("headless", true)
	v.SetDefault("slow_mo", time.Duration(0))
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("settle_delay", time.Second)
	v.SetDefault("screenshot_dir", "verification")
	v.SetDefault("scenario", "")
	v.SetDefault("preflight", true)
	v.SetDefault("install", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// LoadDotEnv - loads .env if present; existing variables win
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", strings.Join(paths, ", "), err)
	}
	return nil
}

// Init - wires env variables and an optional config file into v
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("verify")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars
	}
	return nil
}

// Load - unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q must be an absolute http(s) URL", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url %q must use http or https", c.BaseURL)
	}
	if !slices.Contains(browser.Drivers(), strings.ToLower(c.Driver)) {
		return fmt.Errorf("driver %q is not supported (supported: %s)", c.Driver, strings.Join(browser.Drivers(), ", "))
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay must not be negative, got %s", c.SettleDelay)
	}
	if c.ScreenshotDir == "" {
		return errors.New("screenshot_dir is required")
	}
	return nil
}
