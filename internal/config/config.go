package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"worklog/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	AI       AIConfig
	Server   ServerConfig
	Ops      OpsConfig
	Report   ReportConfig
	Security SecurityConfig
	Calendar CalendarConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string
	URL    string
}

// AIConfig holds settings for the narrative generation provider
type AIConfig struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string
	MaxTokens      int
	Temperature    float64
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	PromptsDir     string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// OpsConfig holds the health/profiling listener settings
type OpsConfig struct {
	Port    string
	Enabled bool
}

// ReportConfig holds report generation policy
type ReportConfig struct {
	CooldownDays  int
	MaxConcurrent int
}

// SecurityConfig holds field encryption and identity proxy settings
type SecurityConfig struct {
	FieldEncryptionKey string
	AuthProxySecret    string
}

// CalendarConfig holds calendar sync settings
type CalendarConfig struct {
	CalendarID  string
	SyncTimeout time.Duration
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	aiConfig, err := loadAIConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AI configuration")
	}
	config.AI = *aiConfig

	config.Server = ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}

	config.Ops = OpsConfig{
		Port:    getEnvOrDefault("OPS_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("OPS_ENABLED", true),
	}

	config.Report = ReportConfig{
		CooldownDays:  getEnvIntOrDefault("REPORT_COOLDOWN_DAYS", 10),
		MaxConcurrent: getEnvIntOrDefault("REPORT_MAX_CONCURRENT", 4),
	}

	config.Security = SecurityConfig{
		FieldEncryptionKey: os.Getenv("FIELD_ENCRYPTION_KEY"),
		AuthProxySecret:    os.Getenv("AUTH_PROXY_SECRET"),
	}

	config.Calendar = CalendarConfig{
		CalendarID:  getEnvOrDefault("CALENDAR_ID", "primary"),
		SyncTimeout: getEnvDurationOrDefault("CALENDAR_SYNC_TIMEOUT", 15*time.Second),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", DriverPostgres))
	url := os.Getenv("DATABASE_URL")
	if driver == DriverPostgres && url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		Driver: driver,
		URL:    url,
	}, nil
}

func loadAIConfig() (*AIConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderGemini))

	var apiKey, model string
	switch provider {
	case ProviderGemini:
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvOrDefault("LLM_MODEL", "gemini-2.5-flash")
	case ProviderOpenAI:
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvOrDefault("LLM_MODEL", "gpt-4o-mini")
	default:
		return nil, errors.ConfigInvalid("unsupported LLM_PROVIDER: " + provider)
	}

	return &AIConfig{
		Provider:       provider,
		APIKey:         apiKey,
		Model:          model,
		BaseURL:        os.Getenv("LLM_BASE_URL"),
		MaxTokens:      getEnvIntOrDefault("LLM_MAX_TOKENS", 2048),
		Temperature:    getEnvFloatOrDefault("LLM_TEMPERATURE", 0.7),
		Timeout:        getEnvDurationOrDefault("LLM_TIMEOUT", 60*time.Second),
		MaxRetries:     getEnvIntOrDefault("LLM_MAX_RETRIES", 2),
		RetryBaseDelay: getEnvDurationOrDefault("LLM_RETRY_BASE_DELAY", 500*time.Millisecond),
		PromptsDir:     getEnvOrDefault("PROMPTS_DIR", "./prompts"),
	}, nil
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return errors.ConfigInvalid("unsupported STORAGE_DRIVER: " + config.Database.Driver)
	}
	if config.Report.CooldownDays < 0 {
		return errors.ConfigInvalid("REPORT_COOLDOWN_DAYS must not be negative")
	}
	if config.Report.MaxConcurrent <= 0 {
		return errors.ConfigInvalid("REPORT_MAX_CONCURRENT must be positive")
	}
	if config.AI.MaxRetries < 0 {
		return errors.ConfigInvalid("LLM_MAX_RETRIES must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
