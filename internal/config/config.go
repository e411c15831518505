package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration knobs for the admin service.
type Config struct {
	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		CheckTimeout    time.Duration `mapstructure:"check_timeout"`
	} `mapstructure:"http"`
	Storage struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"storage"`
	Matcher struct {
		CacheSize int `mapstructure:"cache_size"`
	} `mapstructure:"matcher"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Frontend struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"frontend"`
	Auth struct {
		Enabled   bool          `mapstructure:"enabled"`
		Username  string        `mapstructure:"username"`
		Password  string        `mapstructure:"password"`
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
}

// Load reads the configuration from disk/environment using Viper. An empty
// path or a missing file falls back to defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("status_admin")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			// SetConfigFile reports a missing file as a plain fs error
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !isNotExist(err) {
				return nil, fmt.Errorf("load config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8090")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.check_timeout", "5s")

	v.SetDefault("storage.path", "./data/status.db")

	v.SetDefault("matcher.cache_size", 1024)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("frontend.dir", "")

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password", "admin123")
	v.SetDefault("auth.jwt_secret", "change-me-secret")
	v.SetDefault("auth.token_ttl", "12h")
}
