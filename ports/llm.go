package ports

import "context"

// LLMResponse is a completion together with the provider's usage report
type LLMResponse struct {
	Content string
	Usage   *UsageData
}

// UsageData represents raw usage data from LLM provider APIs
type UsageData struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
	Provider         string
}

// LLMClient is a text-generation service: prompt in, completion out
type LLMClient interface {
	ChatCompletion(ctx context.Context, prompt string) (*LLMResponse, error)
}
