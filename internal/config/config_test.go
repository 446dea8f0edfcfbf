package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklog/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/worklog?sslmode=disable")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 10, cfg.Report.CooldownDays)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "primary", cfg.Calendar.CalendarID)
}

func TestLoad_MemoryDriverNeedsNoURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing database url",
			env:  map[string]string{"STORAGE_DRIVER": "postgres", "DATABASE_URL": ""},
		},
		{
			name: "unknown provider",
			env:  map[string]string{"STORAGE_DRIVER": "memory", "LLM_PROVIDER": "parrot"},
		},
		{
			name: "unknown driver",
			env:  map[string]string{"STORAGE_DRIVER": "mongo", "DATABASE_URL": "x"},
		},
		{
			name: "non-positive concurrency",
			env:  map[string]string{"STORAGE_DRIVER": "memory", "REPORT_MAX_CONCURRENT": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoad_OpenAIProvider(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("LLM_MODEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
}
