package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Wikimedia scraper
type Config struct {
	// Commons API settings
	API APIConfig `yaml:"api" json:"api"`

	// Search settings
	Search SearchConfig `yaml:"search" json:"search"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Throttling between download candidates
	Throttle ThrottleConfig `yaml:"throttle" json:"throttle"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds MediaWiki API configuration
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// SearchConfig holds search query configuration
type SearchConfig struct {
	Limit     int `yaml:"limit" json:"limit"`
	Namespace int `yaml:"namespace" json:"namespace"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	BaseDirectory    string        `yaml:"base_directory" json:"base_directory"`
	ChunkSize        int           `yaml:"chunk_size" json:"chunk_size"`
	DownloadTimeout  time.Duration `yaml:"download_timeout" json:"download_timeout"`
	DefaultMaxImages int           `yaml:"default_max_images" json:"default_max_images"`
	MaxImagesCap     int           `yaml:"max_images_cap" json:"max_images_cap"`
}

// ThrottleConfig holds the fixed inter-candidate delay
type ThrottleConfig struct {
	Delay time.Duration `yaml:"delay" json:"delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://commons.wikimedia.org/w/api.php",
			UserAgent: "wikiscraper/1.0 (https://github.com/wikiscraper/wikiscraper)",
			Timeout:   30 * time.Second,
		},
		Search: SearchConfig{
			Limit:     50,
			Namespace: 6, // File namespace
		},
		Download: DownloadConfig{
			BaseDirectory:    "./downloads",
			ChunkSize:        8192,
			DownloadTimeout:  30 * time.Second,
			DefaultMaxImages: 10,
			MaxImagesCap:     500,
		},
		Throttle: ThrottleConfig{
			Delay: time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("WIKISCRAPER_API_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if userAgent := os.Getenv("WIKISCRAPER_USER_AGENT"); userAgent != "" {
		c.API.UserAgent = userAgent
	}
	if timeout := os.Getenv("WIKISCRAPER_TIMEOUT"); timeout != "" {
		if val, err := time.ParseDuration(timeout); err == nil && val > 0 {
			c.API.Timeout = val
		}
	}

	if outputDir := os.Getenv("WIKISCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Download.BaseDirectory = outputDir
	}

	if delay := os.Getenv("WIKISCRAPER_THROTTLE_DELAY"); delay != "" {
		if val, err := time.ParseDuration(delay); err == nil && val >= 0 {
			c.Throttle.Delay = val
		}
	}

	if logLevel := os.Getenv("WIKISCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".wikiscraper.yaml",
		".wikiscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "wikiscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "wikiscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".wikiscraper.yaml"),
		filepath.Join(os.Getenv("HOME"), ".wikiscraper.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("API timeout must be positive"))
	}

	if c.Search.Limit <= 0 {
		errs = append(errs, errors.New("search limit must be positive"))
	}
	if c.Search.Namespace < 0 {
		errs = append(errs, errors.New("search namespace cannot be negative"))
	}

	if c.Download.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Download.ChunkSize <= 0 {
		errs = append(errs, errors.New("chunk size must be positive"))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.DefaultMaxImages <= 0 {
		errs = append(errs, errors.New("default max images must be positive"))
	}
	if c.Download.MaxImagesCap < c.Download.DefaultMaxImages {
		errs = append(errs, errors.New("max images cap cannot be below the default"))
	}

	if c.Throttle.Delay < 0 {
		errs = append(errs, errors.New("throttle delay cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Download.BaseDirectory = outputDir
	}
	if delay, ok := flags["throttle-delay"].(time.Duration); ok && delay >= 0 {
		c.Throttle.Delay = delay
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".wikiscraper.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
