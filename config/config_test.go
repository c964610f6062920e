package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/effective-security/edugentic/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Orchestrator.TopicWindow)
	assert.Equal(t, 10, cfg.Orchestrator.KeywordWindow)
	assert.Equal(t, 30*time.Second, cfg.Orchestrator.CallTimeout())
	assert.Empty(t, cfg.Lexicon)
}

func Test_LoadConfig_File(t *testing.T) {
	body := `
server:
  host: 127.0.0.1
  port: 9000
logging:
  level: DEBUG
orchestrator:
  topic_window: 5
  tool_call_timeout: 10
lexicon:
  - keyword: trigonometry
    subject: Mathematics
`
	file := filepath.Join(t.TempDir(), "edugentic.yaml")
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))

	cfg, err := config.LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Orchestrator.TopicWindow)
	assert.Equal(t, 10*time.Second, cfg.Orchestrator.CallTimeout())
	// unset values still get defaults
	assert.Equal(t, 10, cfg.Orchestrator.KeywordWindow)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)

	require.Len(t, cfg.Lexicon, 1)
	assert.Equal(t, "trigonometry", cfg.Lexicon[0].Keyword)
	assert.Equal(t, "Mathematics", cfg.Lexicon[0].Subject)
}

func Test_LoadConfig_NotFound(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
