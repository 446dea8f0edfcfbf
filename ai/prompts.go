package ai

import (
	"embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.yaml
var builtinPrompts embed.FS

// PromptTemplate is one prompt file
type PromptTemplate struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Template    string `yaml:"template"`
}

// PromptManager loads prompt templates from PromptsDir, falling back to
// the templates compiled into the binary.
type PromptManager struct {
	PromptsDir string

	mu    sync.RWMutex
	cache map[string]*PromptTemplate
}

// NewPromptManager creates a prompt manager
func NewPromptManager(promptsDir string) *PromptManager {
	log.Printf("[PromptManager] Initialized for directory: %s", promptsDir)
	return &PromptManager{
		PromptsDir: promptsDir,
		cache:      make(map[string]*PromptTemplate),
	}
}

// LoadPrompt loads a prompt template by name
func (pm *PromptManager) LoadPrompt(name string) (*PromptTemplate, error) {
	pm.mu.RLock()
	cached, ok := pm.cache[name]
	pm.mu.RUnlock()
	if ok {
		return cached, nil
	}

	raw, err := pm.readPrompt(name)
	if err != nil {
		return nil, err
	}

	var tmpl PromptTemplate
	if err := yaml.Unmarshal(raw, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse prompt %s: %w", name, err)
	}
	if strings.TrimSpace(tmpl.Template) == "" {
		return nil, fmt.Errorf("prompt %s has an empty template", name)
	}

	pm.mu.Lock()
	pm.cache[name] = &tmpl
	pm.mu.Unlock()
	return &tmpl, nil
}

// RenderPrompt replaces {PLACEHOLDER} with values
func (pm *PromptManager) RenderPrompt(name string, replacements map[string]string) (string, error) {
	tmpl, err := pm.LoadPrompt(name)
	if err != nil {
		return "", err
	}

	// single pass so substituted values are never rescanned
	pairs := make([]string, 0, len(replacements)*2)
	for placeholder, value := range replacements {
		pairs = append(pairs, "{"+placeholder+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl.Template), nil
}

func (pm *PromptManager) readPrompt(name string) ([]byte, error) {
	if pm.PromptsDir != "" {
		content, err := os.ReadFile(filepath.Join(pm.PromptsDir, name+".yaml"))
		if err == nil {
			return content, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load prompt %s: %w", name, err)
		}
	}

	content, err := builtinPrompts.ReadFile("prompts/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("prompt template not found: %s", name)
	}
	return content, nil
}
