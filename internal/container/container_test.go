package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"worklog/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		AI: config.AIConfig{
			Provider:       config.ProviderGemini,
			Model:          "gemini-2.5-flash",
			Timeout:        time.Second,
			MaxRetries:     1,
			RetryBaseDelay: time.Millisecond,
		},
		Report:   config.ReportConfig{CooldownDays: 10, MaxConcurrent: 1},
		Calendar: config.CalendarConfig{CalendarID: "primary", SyncTimeout: time.Second},
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInitInMemory_WiresAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, err := New(memoryConfig())
	require.NoError(t, err)
	require.NoError(t, c.InitInMemory())
	defer c.Shutdown(context.Background())

	assert.NotNil(t, c.Reports)
	assert.NotNil(t, c.Tasks)
	assert.False(t, c.Cipher.Enabled())
	assert.Empty(t, c.OpsChecks())

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set("X-Auth-User-Id", "alice")
	rec := httptest.NewRecorder()
	c.APIServer().Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInitInMemory_UnknownProvider(t *testing.T) {
	cfg := memoryConfig()
	cfg.AI.Provider = "parrot"

	c, err := New(cfg)
	require.NoError(t, err)
	assert.Error(t, c.InitInMemory())
}
