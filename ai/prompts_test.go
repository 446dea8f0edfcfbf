package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptManager_FallsBackToBuiltin(t *testing.T) {
	pm := NewPromptManager(t.TempDir())

	out, err := pm.RenderPrompt("report_narrative", map[string]string{
		"START_DATE": "2024-01-01",
		"END_DATE":   "2024-01-31",
		"LOGS":       "[]",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "from 2024-01-01 to 2024-01-31")
	assert.Contains(t, out, "Summary of work done")
	assert.Contains(t, out, "Suggestions for areas of focus for the next period")
	assert.NotContains(t, out, "{LOGS}")
}

func TestPromptManager_DirectoryOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	content := "name: report_narrative\ntemplate: |\n  Custom {START_DATE}..{END_DATE}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report_narrative.yaml"), []byte(content), 0o600))

	pm := NewPromptManager(dir)
	out, err := pm.RenderPrompt("report_narrative", map[string]string{"START_DATE": "a", "END_DATE": "b"})
	require.NoError(t, err)
	assert.Equal(t, "Custom a..b\n", out)
}

func TestPromptManager_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.yaml"), []byte("name: empty\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("template: [unclosed"), 0o600))

	pm := NewPromptManager(dir)

	_, err := pm.LoadPrompt("missing")
	assert.Error(t, err)

	_, err = pm.LoadPrompt("empty")
	assert.Error(t, err)

	_, err = pm.LoadPrompt("broken")
	assert.Error(t, err)
}
