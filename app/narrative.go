package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"worklog/ai"
	"worklog/internal/errors"
	"worklog/ports"
)

const narrativePrompt = "report_narrative"

var markdownMarkers = strings.NewReplacer("#", "", "*", "")

// Narrative is generated report text plus the provider's usage report
type Narrative struct {
	Text  string
	Usage *ports.UsageData
}

// NarrativeGenerator turns compiled logs into prose via the LLM client
type NarrativeGenerator struct {
	client  ports.LLMClient
	prompts *ai.PromptManager
	timeout time.Duration
}

// NewNarrativeGenerator creates a generator; timeout <= 0 disables the
// per-call deadline.
func NewNarrativeGenerator(client ports.LLMClient, prompts *ai.PromptManager, timeout time.Duration) *NarrativeGenerator {
	return &NarrativeGenerator{
		client:  client,
		prompts: prompts,
		timeout: timeout,
	}
}

// Generate renders the prompt, calls the service and cleans the answer.
// Every failure is reported as an EXTERNAL_SERVICE_ERROR.
func (g *NarrativeGenerator) Generate(ctx context.Context, start, end string, logs []CompiledLog) (*Narrative, error) {
	if g.client == nil {
		return nil, errors.ExternalServiceError("report generation", fmt.Errorf("no LLM client configured"))
	}

	payload, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode logs for prompt")
	}

	prompt, err := g.prompts.RenderPrompt(narrativePrompt, map[string]string{
		"START_DATE": start,
		"END_DATE":   end,
		"LOGS":       string(payload),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render report prompt")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := g.client.ChatCompletion(ctx, prompt)
	if err != nil {
		log.Printf("[NarrativeGenerator] generation failed after %v: %v", time.Since(started), err)
		return nil, errors.ExternalServiceError("report generation", err)
	}

	text := CleanNarrative(resp.Content)
	if text == "" {
		return nil, errors.ExternalServiceError("report generation", fmt.Errorf("empty completion"))
	}

	log.Printf("[NarrativeGenerator] generated %d chars from %d logs in %v", len(text), len(logs), time.Since(started))
	return &Narrative{Text: text, Usage: resp.Usage}, nil
}

// CleanNarrative strips markdown heading and emphasis markers
func CleanNarrative(text string) string {
	return strings.TrimSpace(markdownMarkers.Replace(text))
}
