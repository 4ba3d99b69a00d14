package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/prefeitura-rio/app-cadastro/internal/models"
)

// Config holds all configuration values
type Config struct {
	Environment string `json:"environment"`

	// Postal code lookup configuration
	PostalLookupBaseURL string        `json:"postal_lookup_base_url"`
	PostalLookupTimeout time.Duration `json:"postal_lookup_timeout"`
	PostalCacheEnabled  bool          `json:"postal_cache_enabled"`
	AddressCacheTTL     time.Duration `json:"address_cache_ttl"`
	HTTPClientPoolSize  int           `json:"http_client_pool_size"`

	// Redis configuration
	RedisURI          string        `json:"redis_uri"`
	RedisPassword     string        `json:"redis_password"`
	RedisDB           int           `json:"redis_db"`
	RedisPoolSize     int           `json:"redis_pool_size"`
	RedisDialTimeout  time.Duration `json:"redis_dial_timeout"`
	RedisReadTimeout  time.Duration `json:"redis_read_timeout"`
	RedisWriteTimeout time.Duration `json:"redis_write_timeout"`

	// Form behaviour
	CPFChecksumSeverity models.ChecksumSeverity `json:"cpf_checksum_severity"`
	StreetPlaceholder   string                  `json:"street_placeholder"`
	PhoneDefaultRegion  string                  `json:"phone_default_region"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	cfg, err := FromEnv()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// FromEnv builds a Config from environment variables without touching AppConfig
func FromEnv() (*Config, error) {
	postalLookupTimeout, err := time.ParseDuration(getEnvOrDefault("POSTAL_LOOKUP_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid POSTAL_LOOKUP_TIMEOUT: %w", err)
	}
	if postalLookupTimeout <= 0 {
		return nil, fmt.Errorf("invalid POSTAL_LOOKUP_TIMEOUT: must be positive")
	}

	postalCacheEnabled, err := strconv.ParseBool(getEnvOrDefault("POSTAL_CACHE_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid POSTAL_CACHE_ENABLED: %w", err)
	}

	addressCacheTTL, err := time.ParseDuration(getEnvOrDefault("ADDRESS_CACHE_TTL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADDRESS_CACHE_TTL: %w", err)
	}

	httpClientPoolSize, err := strconv.Atoi(getEnvOrDefault("HTTP_CLIENT_POOL_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_CLIENT_POOL_SIZE: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisPoolSize, err := strconv.Atoi(getEnvOrDefault("REDIS_POOL_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_POOL_SIZE: %w", err)
	}

	redisDialTimeout, err := time.ParseDuration(getEnvOrDefault("REDIS_DIAL_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DIAL_TIMEOUT: %w", err)
	}

	redisReadTimeout, err := time.ParseDuration(getEnvOrDefault("REDIS_READ_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_READ_TIMEOUT: %w", err)
	}

	redisWriteTimeout, err := time.ParseDuration(getEnvOrDefault("REDIS_WRITE_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_WRITE_TIMEOUT: %w", err)
	}

	severity := models.ChecksumSeverity(getEnvOrDefault("CPF_CHECKSUM_SEVERITY", string(models.ChecksumSeverityBlock)))
	if !severity.IsValid() {
		return nil, fmt.Errorf("invalid CPF_CHECKSUM_SEVERITY %q: must be %q or %q",
			severity, models.ChecksumSeverityBlock, models.ChecksumSeverityAnnotate)
	}

	tracingEnabled, err := strconv.ParseBool(getEnvOrDefault("TRACING_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}

	return &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		PostalLookupBaseURL: getEnvOrDefault("POSTAL_LOOKUP_BASE_URL", "https://viacep.com.br/ws"),
		PostalLookupTimeout: postalLookupTimeout,
		PostalCacheEnabled:  postalCacheEnabled,
		AddressCacheTTL:     addressCacheTTL,
		HTTPClientPoolSize:  httpClientPoolSize,

		RedisURI:          getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword:     getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:           redisDB,
		RedisPoolSize:     redisPoolSize,
		RedisDialTimeout:  redisDialTimeout,
		RedisReadTimeout:  redisReadTimeout,
		RedisWriteTimeout: redisWriteTimeout,

		CPFChecksumSeverity: severity,
		StreetPlaceholder:   getEnvOrDefault("STREET_PLACEHOLDER", models.DefaultStreetPlaceholder),
		PhoneDefaultRegion:  getEnvOrDefault("PHONE_DEFAULT_REGION", "BR"),

		TracingEnabled:  tracingEnabled,
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
