package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"call-analytics-server/pkg/errors"
)

// Config represents the complete application configuration
type Config struct {
	HTTP      HTTPConfig      `json:"http"`
	Logging   LoggingConfig   `json:"logging"`
	Rules     RulesConfig     `json:"rules"`
	Messaging MessagingConfig `json:"messaging"`
	STT       STTConfig       `json:"stt"`
}

// HTTPConfig holds HTTP server configurations
type HTTPConfig struct {
	// Whether the HTTP server is enabled
	Enabled bool `json:"enabled" env:"HTTP_ENABLED" default:"true"`

	// Port for the HTTP server
	Port int `json:"port" env:"HTTP_PORT" default:"8080"`

	// Whether to enable metrics endpoint
	EnableMetrics bool `json:"enable_metrics" env:"HTTP_ENABLE_METRICS" default:"true"`

	// Whether to enable the websocket result stream
	EnableWebsocket bool `json:"enable_websocket" env:"HTTP_ENABLE_WEBSOCKET" default:"true"`

	// Read timeout for HTTP requests
	ReadTimeout time.Duration `json:"read_timeout" env:"HTTP_READ_TIMEOUT" default:"10s"`

	// Write timeout for HTTP responses
	WriteTimeout time.Duration `json:"write_timeout" env:"HTTP_WRITE_TIMEOUT" default:"30s"`
}

// LoggingConfig holds logging-related configurations
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `json:"level" env:"LOG_LEVEL" default:"info"`

	// Log format (json, text)
	Format string `json:"format" env:"LOG_FORMAT" default:"json"`

	// Log output file (empty = stdout)
	OutputFile string `json:"output_file" env:"LOG_OUTPUT_FILE"`
}

// RulesConfig locates the analytics rule definitions
type RulesConfig struct {
	// Path to the YAML rule-set file
	Path string `json:"path" env:"RULES_PATH" default:"./config/rules.yaml"`
}

// MessagingConfig holds messaging configurations
type MessagingConfig struct {
	// AMQP URL for publishing analytics records (empty = disabled)
	AMQPUrl string `json:"amqp_url" env:"AMQP_URL"`

	// AMQP queue name for analytics records
	AMQPQueueName string `json:"amqp_queue_name" env:"AMQP_QUEUE_NAME" default:"call_analytics"`

	// Capacity of the in-memory fallback buffer used when AMQP is down
	BufferSize int `json:"buffer_size" env:"AMQP_BUFFER_SIZE" default:"1000"`
}

// STTConfig holds speech-to-text configurations
type STTConfig struct {
	// Default provider used when a request does not name one
	DefaultProvider string `json:"default_provider" env:"STT_DEFAULT_PROVIDER" default:"mock"`

	// Supported providers
	SupportedProviders []string `json:"supported_providers" env:"SUPPORTED_PROVIDERS" default:"mock"`
}

// Load loads the application configuration from environment variables,
// consulting a .env file when one is present.
func Load(logger *logrus.Logger) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		logger.WithError(err).Warn("Failed to get current working directory")
		wd = "unknown"
	}

	// Define possible locations for .env file
	possibleEnvFiles := []string{
		".env",                    // Current directory
		"../.env",                 // Parent directory
		filepath.Join(wd, ".env"), // Absolute path
	}

	var loadedFrom string
	for _, envFile := range possibleEnvFiles {
		if _, statErr := os.Stat(envFile); statErr == nil {
			absPath, _ := filepath.Abs(envFile)
			logger.WithField("path", absPath).Debug("Attempting to load .env file")

			if loadErr := godotenv.Load(envFile); loadErr == nil {
				loadedFrom = absPath
				break
			}
		}
	}

	if loadedFrom != "" {
		logger.WithFields(logrus.Fields{
			"working_dir": wd,
			"path":        loadedFrom,
		}).Info("Successfully loaded .env file")
	} else {
		logger.WithField("working_dir", wd).Debug("No .env file found, using environment variables only")
	}

	config := &Config{}

	if err := loadHTTPConfig(logger, &config.HTTP); err != nil {
		return nil, errors.Wrap(err, "failed to load HTTP configuration")
	}

	if err := loadLoggingConfig(logger, &config.Logging); err != nil {
		return nil, errors.Wrap(err, "failed to load logging configuration")
	}

	if err := loadRulesConfig(logger, &config.Rules); err != nil {
		return nil, errors.Wrap(err, "failed to load rules configuration")
	}

	if err := loadMessagingConfig(logger, &config.Messaging); err != nil {
		return nil, errors.Wrap(err, "failed to load messaging configuration")
	}

	if err := loadSTTConfig(logger, &config.STT); err != nil {
		return nil, errors.Wrap(err, "failed to load STT configuration")
	}

	if err := validateConfig(logger, config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// loadHTTPConfig loads the HTTP configuration section
func loadHTTPConfig(logger *logrus.Logger, config *HTTPConfig) error {
	config.Enabled = getEnvBool("HTTP_ENABLED", true)
	config.Port = getEnvInt("HTTP_PORT", 8080)
	config.EnableMetrics = getEnvBool("HTTP_ENABLE_METRICS", true)
	config.EnableWebsocket = getEnvBool("HTTP_ENABLE_WEBSOCKET", true)
	config.ReadTimeout = getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	config.WriteTimeout = getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)

	if config.Port <= 0 || config.Port > 65535 {
		logger.Warnf("Invalid HTTP_PORT '%d', defaulting to 8080", config.Port)
		config.Port = 8080
	}

	return nil
}

// loadLoggingConfig loads the logging configuration section
func loadLoggingConfig(logger *logrus.Logger, config *LoggingConfig) error {
	config.Level = getEnv("LOG_LEVEL", "info")

	// Validate log level
	_, err := logrus.ParseLevel(config.Level)
	if err != nil {
		logger.Warnf("Invalid LOG_LEVEL '%s', defaulting to 'info'", config.Level)
		config.Level = "info"
	}

	config.Format = getEnv("LOG_FORMAT", "json")
	if config.Format != "json" && config.Format != "text" {
		logger.Warn("Invalid LOG_FORMAT, must be 'json' or 'text', defaulting to 'json'")
		config.Format = "json"
	}

	config.OutputFile = getEnv("LOG_OUTPUT_FILE", "")

	return nil
}

// loadRulesConfig loads the rules configuration section
func loadRulesConfig(logger *logrus.Logger, config *RulesConfig) error {
	config.Path = getEnv("RULES_PATH", "./config/rules.yaml")
	return nil
}

// loadMessagingConfig loads the messaging configuration section
func loadMessagingConfig(logger *logrus.Logger, config *MessagingConfig) error {
	config.AMQPUrl = getEnv("AMQP_URL", "")
	config.AMQPQueueName = getEnv("AMQP_QUEUE_NAME", "call_analytics")
	config.BufferSize = getEnvInt("AMQP_BUFFER_SIZE", 1000)

	if config.AMQPUrl != "" && config.AMQPQueueName == "" {
		logger.Warn("Incomplete AMQP configuration: AMQP_QUEUE_NAME must be provided with AMQP_URL")
	}

	if config.BufferSize <= 0 {
		logger.Warnf("Invalid AMQP_BUFFER_SIZE '%d', defaulting to 1000", config.BufferSize)
		config.BufferSize = 1000
	}

	return nil
}

// loadSTTConfig loads the STT configuration section
func loadSTTConfig(logger *logrus.Logger, config *STTConfig) error {
	config.DefaultProvider = getEnv("STT_DEFAULT_PROVIDER", "mock")

	providersStr := getEnv("SUPPORTED_PROVIDERS", "mock")
	config.SupportedProviders = strings.Split(providersStr, ",")
	for i, provider := range config.SupportedProviders {
		config.SupportedProviders[i] = strings.TrimSpace(provider)
	}

	return nil
}

// validateConfig performs cross-section validation
func validateConfig(logger *logrus.Logger, config *Config) error {
	if config.Rules.Path == "" {
		return errors.New("RULES_PATH must not be empty")
	}

	// The default provider must be one of the supported providers
	found := false
	for _, provider := range config.STT.SupportedProviders {
		if provider == config.STT.DefaultProvider {
			found = true
			break
		}
	}
	if !found {
		logger.Warnf("Default STT provider '%s' is not in SUPPORTED_PROVIDERS, adding it", config.STT.DefaultProvider)
		config.STT.SupportedProviders = append(config.STT.SupportedProviders, config.STT.DefaultProvider)
	}

	return nil
}

// ApplyLogging configures the given logger according to the logging section.
func (c *Config) ApplyLogging(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	logger.SetLevel(level)

	if c.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if c.Logging.OutputFile != "" {
		file, err := os.OpenFile(c.Logging.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return errors.Wrap(err, "failed to open log output file")
		}
		logger.SetOutput(file)
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
