package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)

	// No config file on the search path: defaults apply.
	cfg, err := Load("")
	req.NoError(err)

	req.Equal(8081, cfg.Server.HealthPort)
	req.True(cfg.Transports.HTTP.Enabled)
	req.Equal(8080, cfg.Transports.HTTP.Port)
	req.False(cfg.Transports.GRPC.Enabled)
	req.Equal("TeamsGreetingBot", cfg.Bot.Name)
	req.Equal("pt-BR", cfg.Bot.DefaultLanguage)
	req.True(cfg.TTS.Enabled)
	req.Equal("openai", cfg.TTS.Backend)
	req.Equal("tts-1", cfg.TTS.OpenAI.Model)
	req.Equal(time.Hour, cfg.TTS.Cleanup.Interval)
	req.Equal(24*time.Hour, cfg.TTS.Cleanup.MaxAge)
	req.Equal("info", cfg.Logging.Level)
	req.Equal("json", cfg.Logging.Format)
}

func TestLoad_File(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "meetgreet.yaml")
	req.NoError(os.WriteFile(path, []byte(`
server:
  health_port: 9999
bot:
  name: GreeterDev
  default_language: en-US
transports:
  grpc:
    enabled: true
    port: 50099
tts:
  enabled: false
  cleanup:
    max_age: 2h
logging:
  level: debug
  format: text
`), 0o644))

	cfg, err := Load(path)
	req.NoError(err)
	req.Equal(9999, cfg.Server.HealthPort)
	req.Equal("GreeterDev", cfg.Bot.Name)
	req.Equal("en-US", cfg.Bot.DefaultLanguage)
	req.True(cfg.Transports.GRPC.Enabled)
	req.Equal(50099, cfg.Transports.GRPC.Port)
	req.False(cfg.TTS.Enabled)
	req.Equal(2*time.Hour, cfg.TTS.Cleanup.MaxAge)
	req.Equal("debug", cfg.Logging.Level)
}

func TestLoad_ResolvesEnvRefs(t *testing.T) {
	req := require.New(t)

	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")
	t.Setenv("TEST_BOT_SECRET", "hunter2")

	path := filepath.Join(t.TempDir(), "meetgreet.yaml")
	req.NoError(os.WriteFile(path, []byte(`
bot:
  app_id: app-123
  app_password: ${TEST_BOT_SECRET}
tts:
  openai:
    api_key: ${TEST_OPENAI_KEY}
`), 0o644))

	cfg, err := Load(path)
	req.NoError(err)
	req.Equal("app-123", cfg.Bot.AppID)
	req.Equal("hunter2", cfg.Bot.AppPassword)
	req.Equal("sk-from-env", cfg.TTS.OpenAI.APIKey)
}

func TestResolveEnvRef(t *testing.T) {
	req := require.New(t)

	t.Setenv("SOME_SECRET", "value")
	req.Equal("value", resolveEnvRef("${SOME_SECRET}"))
	req.Equal("literal", resolveEnvRef("literal"))
	// Unset references stay as-is
	req.Equal("${UNSET_VAR_XYZ}", resolveEnvRef("${UNSET_VAR_XYZ}"))
}
