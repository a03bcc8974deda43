/*
Package config provides configuration management for the trident-rss backend.

This package separates configuration concerns from business logic and provides
a centralized way to manage application configuration: the scraped blog
location, feed channel metadata, enrichment limits, and HTTP server settings.
No component reads the environment directly; everything flows through Config.
*/
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tridentlabs/trident-rss/container"
	"github.com/tridentlabs/trident-rss/types"
)

// Config holds all application configuration
type Config struct {
	// Scrape targets
	ListingURL string
	SiteOrigin string
	UserAgent  string
	// Feed channel metadata
	FeedTitle       string
	FeedDescription string
	FeedLink        string
	// Pipeline limits
	MaxItems          int
	EnrichConcurrency int
	FetchTimeout      time.Duration
	// Response cache hints (seconds)
	CacheSharedMaxAge    int
	StaleWhileRevalidate int
	// Server settings
	LogLevel       string
	ServerPort     string
	JaegerEndpoint string
	// Rate limiting configuration
	RateLimitRequestsPerMinute float64
	RateLimitBurst             int
	ClientCleanupInterval      time.Duration
	// CORS configuration
	CORSConfig CORSConfig
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	Environment        string
	DevelopmentOrigins []string
	StagingOrigins     []string
	ProductionOrigins  []string
	AllowedMethods     []string
	AllowedHeaders     []string
	AllowCredentials   bool
	MaxAge             int
}

// Services holds all service dependencies
type Services struct {
	Container *container.Container
	Logger    *logrus.Logger
}

// AppConfig holds both configuration and services
type AppConfig struct {
	Config   *Config
	Services *Services
}

// NewConfig creates a new configuration instance from the environment
func NewConfig() *Config {
	environment := getEnv("ENVIRONMENT", "development")

	return &Config{
		ListingURL: getEnv("BLOG_LIST_URL", "https://www.trident.dev/blog"),
		SiteOrigin: getEnv("SITE_ORIGIN", "https://www.trident.dev"),
		UserAgent:  getEnv("SCRAPE_USER_AGENT", "trident-rss/1.0"),

		FeedTitle:       getEnv("FEED_TITLE", "Trident Blog"),
		FeedDescription: getEnv("FEED_DESCRIPTION", "Latest posts from the Trident blog"),
		FeedLink:        getEnv("FEED_LINK", "https://www.trident.dev/blog"),

		MaxItems:          getEnvInt("MAX_FEED_ITEMS", 15),
		EnrichConcurrency: getEnvInt("ENRICH_CONCURRENCY", 5),
		FetchTimeout:      getEnvDuration("FETCH_TIMEOUT", 10*time.Second),

		CacheSharedMaxAge:    getEnvInt("CACHE_S_MAXAGE", 900),
		StaleWhileRevalidate: getEnvInt("CACHE_STALE_WHILE_REVALIDATE", 300),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),

		// Rate limiting defaults (60 requests per minute, burst of 10)
		RateLimitRequestsPerMinute: getEnvFloat("RATE_LIMIT_RPM", 60.0),
		RateLimitBurst:             getEnvInt("RATE_LIMIT_BURST", 10),
		ClientCleanupInterval:      getEnvDuration("CLIENT_CLEANUP_INTERVAL", 1*time.Minute),

		CORSConfig: CORSConfig{
			Environment: environment,
			DevelopmentOrigins: getEnvSlice("DEV_CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:8080",
				"http://127.0.0.1:3000",
			}),
			StagingOrigins: getEnvSlice("STAGING_CORS_ORIGINS", []string{
				"https://staging.trident.dev",
			}),
			ProductionOrigins: getEnvSlice("PROD_CORS_ORIGINS", []string{
				"https://www.trident.dev",
				"https://trident.dev",
			}),
			AllowedMethods: getEnvSlice("CORS_ALLOWED_METHODS", []string{
				"GET", "HEAD", "OPTIONS",
			}),
			AllowedHeaders: getEnvSlice("CORS_ALLOWED_HEADERS", []string{
				"Content-Type", "X-Requested-With", "X-Request-ID", "Accept", "Origin", "Cache-Control",
			}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvInt("CORS_MAX_AGE", 86400),
		},
	}
}

// Channel returns the feed channel metadata derived from this configuration.
func (c *Config) Channel() types.ChannelMetadata {
	return types.ChannelMetadata{
		Title:       c.FeedTitle,
		Description: c.FeedDescription,
		Link:        c.FeedLink,
	}
}

// CacheControl returns the Cache-Control header value for successful feed
// responses.
func (c *Config) CacheControl() string {
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
		c.CacheSharedMaxAge, c.StaleWhileRevalidate)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.ListingURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("BLOG_LIST_URL must be an absolute URL, got %q", c.ListingURL)
	}
	o, err := url.Parse(c.SiteOrigin)
	if err != nil || !o.IsAbs() {
		return fmt.Errorf("SITE_ORIGIN must be an absolute URL, got %q", c.SiteOrigin)
	}
	if c.MaxItems <= 0 {
		return fmt.Errorf("MAX_FEED_ITEMS must be positive, got %d", c.MaxItems)
	}
	if c.EnrichConcurrency <= 0 {
		return fmt.Errorf("ENRICH_CONCURRENCY must be positive, got %d", c.EnrichConcurrency)
	}
	return nil
}

// NewLogger builds the structured logger from the configured log level.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// NewServices creates and initializes all service dependencies using the DI container
func NewServices(config *Config) (*Services, error) {
	logger := config.NewLogger()

	diContainer := container.NewContainer()
	if err := diContainer.InitializeServices(container.ServiceParams{
		Logger:            logger,
		ListingURL:        config.ListingURL,
		SiteOrigin:        config.SiteOrigin,
		UserAgent:         config.UserAgent,
		FetchTimeout:      config.FetchTimeout,
		MaxItems:          config.MaxItems,
		EnrichConcurrency: config.EnrichConcurrency,
		Channel:           config.Channel(),
		CacheControl:      config.CacheControl(),
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize dependency container: %v", err)
	}

	return &Services{
		Container: diContainer,
		Logger:    logger,
	}, nil
}

// NewAppConfig creates a new application configuration with all dependencies
func NewAppConfig() (*AppConfig, error) {
	config := NewConfig()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	services, err := NewServices(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %v", err)
	}

	return &AppConfig{
		Config:   config,
		Services: services,
	}, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as float64 with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt gets an environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as time.Duration with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as bool with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvSlice gets an environment variable as a string slice with a default value
func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
