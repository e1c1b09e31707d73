// Package config loads the process-wide, read-only configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Signing schemes.
const (
	SchemeV3     = "v3"
	SchemeLegacy = "legacy"
)

// Outbound transports.
const (
	TransportForm  = "form"
	TransportQuery = "query"
	TransportGet   = "get"
)

// DefaultAPIURL is the Youdao text translation endpoint.
const DefaultAPIURL = "https://openapi.youdao.com/api"

// Config holds all configuration for the translation proxy.
// It is built once at startup and never mutated afterwards.
type Config struct {
	AppKey                string
	AppSecret             string
	APIURL                string
	SignScheme            string
	Transport             string
	Timeout               time.Duration
	DefaultTargetLanguage string
	LogLevel              string
	LocalAddr             string
	Environment           string
}

// Load reads configuration from the environment (and an optional .env file)
// and validates it. A missing credential is an error.
func Load() (*Config, error) {
	// .env is optional when variables come from the Lambda environment.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("YOUDAO_API_URL", DefaultAPIURL)
	v.SetDefault("YOUDAO_SIGN_SCHEME", SchemeV3)
	v.SetDefault("YOUDAO_TRANSPORT", TransportForm)
	v.SetDefault("YOUDAO_TIMEOUT", 10*time.Second)
	v.SetDefault("DEFAULT_TARGET_LANGUAGE", "en")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOCAL_ADDR", ":8080")
	v.SetDefault("ENVIRONMENT", "dev")

	cfg := &Config{
		AppKey:                v.GetString("YOUDAO_APP_KEY"),
		AppSecret:             v.GetString("YOUDAO_APP_SECRET"),
		APIURL:                v.GetString("YOUDAO_API_URL"),
		SignScheme:            strings.ToLower(v.GetString("YOUDAO_SIGN_SCHEME")),
		Transport:             strings.ToLower(v.GetString("YOUDAO_TRANSPORT")),
		Timeout:               v.GetDuration("YOUDAO_TIMEOUT"),
		DefaultTargetLanguage: v.GetString("DEFAULT_TARGET_LANGUAGE"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		LocalAddr:             v.GetString("LOCAL_ADDR"),
		Environment:           v.GetString("ENVIRONMENT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.AppKey) == "" {
		return fmt.Errorf("config: YOUDAO_APP_KEY is required")
	}
	if strings.TrimSpace(c.AppSecret) == "" {
		return fmt.Errorf("config: YOUDAO_APP_SECRET is required")
	}
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("config: YOUDAO_API_URL must not be empty")
	}

	switch c.SignScheme {
	case SchemeV3, SchemeLegacy:
	default:
		return fmt.Errorf("config: unknown YOUDAO_SIGN_SCHEME %q", c.SignScheme)
	}

	switch c.Transport {
	case TransportForm, TransportQuery, TransportGet:
	default:
		return fmt.Errorf("config: unknown YOUDAO_TRANSPORT %q", c.Transport)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("config: YOUDAO_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.DefaultTargetLanguage == "" {
		c.DefaultTargetLanguage = "en"
	}

	return nil
}

// String describes the configuration without exposing credentials.
func (c *Config) String() string {
	return fmt.Sprintf("Config{hasAppKey:%t hasAppSecret:%t apiURL:%s scheme:%s transport:%s timeout:%s env:%s}",
		c.AppKey != "", c.AppSecret != "", c.APIURL, c.SignScheme, c.Transport, c.Timeout, c.Environment)
}
