package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"worklog/ports"
)

// Config selects and tunes a text-generation provider
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// APIError is a non-2xx answer from a provider
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, truncate(e.Body, 300))
}

// Retryable reports whether repeating the request may succeed
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NewClient creates an LLM client based on config. A missing API key is
// not an error here; calls fail instead, so the service can still start.
func NewClient(config Config) (ports.LLMClient, error) {
	if config.MaxTokens <= 0 {
		config.MaxTokens = 2048
	}

	switch strings.ToLower(config.Provider) {
	case ProviderGemini, "":
		baseURL := strings.TrimSpace(config.BaseURL)
		if baseURL == "" {
			baseURL = "https://generativelanguage.googleapis.com/v1beta"
		}
		return &GeminiClient{
			APIKey:      config.APIKey,
			BaseURL:     baseURL,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
			HTTPClient:  &http.Client{Timeout: config.Timeout},
		}, nil
	case ProviderOpenAI:
		baseURL := strings.TrimSpace(config.BaseURL)
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		return &OpenAIClient{
			APIKey:      config.APIKey,
			BaseURL:     baseURL,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
			HTTPClient:  &http.Client{Timeout: config.Timeout},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
}

// MockLLMClient is a mock LLM client for testing
type MockLLMClient struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors
	Usage    *ports.UsageData
}

func (m *MockLLMClient) ChatCompletion(ctx context.Context, prompt string) (*ports.LLMResponse, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	if m.Response != "" {
		return &ports.LLMResponse{Content: m.Response, Usage: m.Usage}, nil
	}
	// Default mock response
	return &ports.LLMResponse{
		Content: "Key Achievements and Contributions\nShipped the work that was logged.\n\nSkills Demonstrated\nFollow-through.",
		Usage:   m.Usage,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
