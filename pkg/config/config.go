// Package config loads the server configuration from an optional YAML file,
// SITE_-prefixed environment variables, and built-in defaults, in that
// ascending order of precedence for env over file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Listen string `mapstructure:"listen"`
	// Env names the deployment environment (development, staging,
	// production). It selects the Secure cookie flag and the media key
	// prefix.
	Env string `mapstructure:"env"`

	DBType string `mapstructure:"db_type"`
	DBDSN  string `mapstructure:"db_dsn"`

	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
	SessionSecret string `mapstructure:"session_secret"`

	ContentDir string `mapstructure:"content_dir"`

	CORSOrigins []string `mapstructure:"cors_origins"`

	S3Bucket     string `mapstructure:"s3_bucket"`
	S3Region     string `mapstructure:"s3_region"`
	S3Endpoint   string `mapstructure:"s3_endpoint"`
	MediaBaseURL string `mapstructure:"media_base_url"`

	AuditEnabled   bool `mapstructure:"audit_enabled"`
	AuditLogDenied bool `mapstructure:"audit_log_denied"`

	CacheEnabled bool `mapstructure:"cache_enabled"`
	// CacheTTL is the read-cache entry lifetime in seconds.
	CacheTTL     int `mapstructure:"cache_ttl"`
	CacheMaxSize int `mapstructure:"cache_max_size"`
}

// Production reports whether the configuration targets production.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads the configuration. path may be empty, in which case only env
// vars and defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen", ":8080")
	v.SetDefault("env", "development")
	v.SetDefault("db_type", "sqlite")
	v.SetDefault("db_dsn", "site.db")
	v.SetDefault("content_dir", "content/posts")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("s3_region", "ap-southeast-1")
	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_log_denied", false)
	v.SetDefault("cache_enabled", true)
	v.SetDefault("cache_ttl", 60)
	v.SetDefault("cache_max_size", 512)

	// Keys without a meaningful default still need one registered, or
	// AutomaticEnv will not surface them through Unmarshal.
	for _, key := range []string{
		"admin_username", "admin_password", "session_secret",
		"s3_bucket", "s3_endpoint", "media_base_url",
	} {
		v.SetDefault(key, "")
	}

	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AdminUsername == "" || c.AdminPassword == "" {
		return errors.New("admin_username and admin_password are required")
	}
	if c.SessionSecret == "" {
		return errors.New("session_secret is required")
	}
	return nil
}
