package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application's configuration
type Config struct {
	AnalysisBaseURL string        `mapstructure:"ANALYSIS_BASE_URL"`
	WebPort         int           `mapstructure:"WEB_PORT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MaxUploadMB     int64         `mapstructure:"MAX_UPLOAD_MB"`
	RenderCacheSize int           `mapstructure:"RENDER_CACHE_SIZE"`
	EventBufferSize int           `mapstructure:"EVENT_BUFFER_SIZE"`
}

func Load(logger *zap.Logger) *Config {
	var config Config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")        // For running locally
	viper.AddConfigPath("../")      // For running from docker subdir
	viper.AddConfigPath("./config") // Common config folder
	viper.AutomaticEnv()

	// Set default values. ANALYSIS_BASE_URL resolves as: explicit
	// override (env or config file) first, local development origin last.
	viper.SetDefault("ANALYSIS_BASE_URL", "http://localhost:8000")
	viper.SetDefault("WEB_PORT", 8080)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REQUEST_TIMEOUT", 300)
	viper.SetDefault("MAX_UPLOAD_MB", 16)
	viper.SetDefault("RENDER_CACHE_SIZE", 256)
	viper.SetDefault("EVENT_BUFFER_SIZE", 16)

	if err := viper.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Warn("Could not read config file, using defaults/env vars", zap.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		// Config unmarshaling is critical - fail fast during bootstrap
		if logger != nil {
			logger.Fatal("Unable to decode config into struct", zap.Error(err))
		} else {
			// Fallback if logger not available (should not happen in practice)
			fmt.Fprintf(os.Stderr, "FATAL: Unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	// Normalize the base URL so request paths can always be appended directly.
	config.AnalysisBaseURL = strings.TrimRight(strings.TrimSpace(config.AnalysisBaseURL), "/")
	if config.AnalysisBaseURL == "" {
		config.AnalysisBaseURL = "http://localhost:8000"
	}

	// Convert seconds to proper time.Duration
	config.RequestTimeout = config.RequestTimeout * time.Second

	if config.RenderCacheSize <= 0 {
		config.RenderCacheSize = 256
	}
	if config.EventBufferSize <= 0 {
		config.EventBufferSize = 16
	}

	return &config
}
