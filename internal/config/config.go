package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env             string
	AppSecret       string
	Port            string
	SiteName        string
	SiteUrl         string
	APIBaseURL      string
	ImageBaseURL    string
	FetchTimeout    time.Duration
	LogLevel        string
	FacetCacheTTL   time.Duration
	SessionCapacity int
	SessionTTL      time.Duration
}

// Load 加载配置：默认值 < config.json < 环境变量
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_SECRET", defaultSecret)
	v.SetDefault("PORT", "5005")
	v.SetDefault("SITE_NAME", "CineHub")
	v.SetDefault("SITE_URL", "http://localhost:5005")
	v.SetDefault("API_BASE_URL", "https://ophim1.com/v1/api")
	v.SetDefault("IMAGE_BASE_URL", "https://img.ophim.live/uploads/movies/")
	v.SetDefault("FETCH_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FACET_CACHE_TTL", "1h")
	v.SetDefault("SESSION_CAPACITY", 4096)
	v.SetDefault("SESSION_TTL", "30m")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	cfg := &Config{
		Env:             v.GetString("APP_ENV"),
		AppSecret:       v.GetString("APP_SECRET"),
		Port:            v.GetString("PORT"),
		SiteName:        v.GetString("SITE_NAME"),
		SiteUrl:         strings.TrimRight(v.GetString("SITE_URL"), "/"),
		APIBaseURL:      strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		ImageBaseURL:    v.GetString("IMAGE_BASE_URL"),
		FetchTimeout:    v.GetDuration("FETCH_TIMEOUT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		FacetCacheTTL:   v.GetDuration("FACET_CACHE_TTL"),
		SessionCapacity: v.GetInt("SESSION_CAPACITY"),
		SessionTTL:      v.GetDuration("SESSION_TTL"),
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.SessionCapacity <= 0 {
		cfg.SessionCapacity = 4096
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.ImageBaseURL != "" && !strings.HasSuffix(cfg.ImageBaseURL, "/") {
		cfg.ImageBaseURL += "/"
	}

	return cfg, nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesDefaultSecret 是否仍在使用默认密钥
func (c *Config) UsesDefaultSecret() bool {
	return c.AppSecret == defaultSecret
}
