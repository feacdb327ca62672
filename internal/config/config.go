package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string `mapstructure:"PORT"`
	UpstreamAPIURL  string `mapstructure:"UPSTREAM_API_URL"`
	UpstreamTimeout int    `mapstructure:"UPSTREAM_TIMEOUT_SECONDS"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	AllowedOrigins  string `mapstructure:"ALLOWED_ORIGINS"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`

	// Upload widget settings handed to the UI; the gateway never
	// touches the media itself.
	UploadCloudName    string `mapstructure:"UPLOAD_CLOUD_NAME"`
	UploadPreset       string `mapstructure:"UPLOAD_PRESET"`
	UploadMaxFileBytes int64  `mapstructure:"UPLOAD_MAX_FILE_BYTES"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.BindEnv("PORT")
	viper.BindEnv("UPSTREAM_API_URL")
	viper.BindEnv("UPSTREAM_TIMEOUT_SECONDS")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("ALLOWED_ORIGINS")
	viper.BindEnv("SESSION_TTL_HOURS")
	viper.BindEnv("UPLOAD_CLOUD_NAME")
	viper.BindEnv("UPLOAD_PRESET")
	viper.BindEnv("UPLOAD_MAX_FILE_BYTES")

	viper.SetDefault("PORT", ":8080")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 15)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("UPLOAD_MAX_FILE_BYTES", 15_000_000)

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}

// SessionTTL returns the configured session lifetime.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Timeout returns the upstream request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.UpstreamTimeout) * time.Second
}

// Origins splits the comma-separated allowed origins list.
func (c Config) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
