package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validConfig = `
telegram:
  token: "123:abc"
  control_chat_id: -100200300
database:
  host: localhost
  port: "5432"
  user: bot
  name: bot
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "longpoll", cfg.Core.Telegram.RunMode)
	// Notify channel falls back to the control chat.
	assert.Equal(t, int64(-100200300), cfg.Core.Telegram.NotifyChannelID)
	assert.Equal(t, "memory", cfg.Session.Backend)
}

func TestLoadConfigRequiresControlChat(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "123:abc"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "control_chat_id")
}

func TestLoadConfigRedisBackendNeedsAddr(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, validConfig+`
session:
  backend: redis
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis_addr")
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, validConfig+`
session:
  backend: etcd
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.backend")
}
