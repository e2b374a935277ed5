package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_DSN", "LISTEN_ADDR", "UPLOAD_DIR", "HISTORY_LIMIT", "TG_TOKEN", "TG_CHAT_ID", "API_BASE_URL"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "", cfg.DbDsn)
	assert.Equal(t, ":8005", cfg.ListenAddr)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.Equal(t, int64(0), cfg.TgChatID)
	assert.Equal(t, "http://127.0.0.1:8005/api/", cfg.APIBaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DSN", "user:pass@tcp(db:3306)/equipment")
	t.Setenv("HISTORY_LIMIT", "10")
	t.Setenv("TG_CHAT_ID", "-100200")
	t.Setenv("LISTEN_ADDR", ":9000")

	cfg := Load()
	assert.Equal(t, "user:pass@tcp(db:3306)/equipment", cfg.DbDsn)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, int64(-100200), cfg.TgChatID)
	assert.Equal(t, ":9000", cfg.ListenAddr)
}

func TestLoadInvalidInt(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "many")
	assert.Equal(t, 5, Load().HistoryLimit)
}

func TestLoadSupergroupChatID(t *testing.T) {
	t.Setenv("TG_CHAT_ID", "-1001234567890")
	assert.Equal(t, int64(-1001234567890), Load().TgChatID)

	t.Setenv("TG_CHAT_ID", "chat")
	assert.Equal(t, int64(0), Load().TgChatID)
}
