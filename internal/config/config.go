// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port            string `mapstructure:"PORT"`
	Env             string `mapstructure:"APP_ENV"`
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	DBHost          string `mapstructure:"DB_HOST"`
	DBPort          string `mapstructure:"DB_PORT"`
	DBUser          string `mapstructure:"DB_USER"`
	DBPassword      string `mapstructure:"DB_PASSWORD"`
	DBName          string `mapstructure:"DB_NAME"`
	DBSSLMode       string `mapstructure:"DB_SSLMODE"`
	RedisURL        string `mapstructure:"REDIS_URL"`
	AllowedOrigins  string `mapstructure:"ALLOWED_ORIGINS"`
	UploadDir       string `mapstructure:"UPLOAD_DIR"`
	UploadBaseURL   string `mapstructure:"UPLOAD_BASE_URL"`
	MaxUploadSizeMB int    `mapstructure:"MAX_UPLOAD_SIZE_MB"`
	ChatWSURL       string `mapstructure:"CHAT_WS_URL"`
	ChatAppID       string `mapstructure:"CHAT_APP_ID"`
	ChatAPIKey      string `mapstructure:"CHAT_API_KEY"`
	ChatAPISecret   string `mapstructure:"CHAT_API_SECRET"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars and defaults cover everything.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "tourdiary")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("UPLOAD_BASE_URL", "/uploads")
	viper.SetDefault("MAX_UPLOAD_SIZE_MB", 50)
	viper.SetDefault("CHAT_WS_URL", "wss://spark-api.xf-yun.com/v3.5/chat")
	viper.SetDefault("CHAT_APP_ID", "")
	viper.SetDefault("CHAT_API_KEY", "")
	viper.SetDefault("CHAT_API_SECRET", "")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.JWTSecret == "change-me-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.ChatAPIKey == "" || c.ChatAPISecret == "" {
			log.Println("WARNING: chat relay credentials are not set; /ws chat will reject requests")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
