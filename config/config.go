package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DbDsn        string
	ListenAddr   string
	UploadDir    string
	HistoryLimit int
	TgToken      string
	TgChatID     int64
	APIBaseURL   string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the process-wide configuration, loading .env on first use.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Warn().Err(err).Msg("no .env file, using environment only")
		}
		config = Load()
	})
	return config
}

// Load reads the configuration from the current environment.
func Load() *Config {
	return &Config{
		DbDsn:        os.Getenv("DB_DSN"),
		ListenAddr:   getEnv("LISTEN_ADDR", ":8005"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		HistoryLimit: getEnvInt("HISTORY_LIMIT", 5),
		TgToken:      os.Getenv("TG_TOKEN"),
		TgChatID:     getEnvInt64("TG_CHAT_ID", 0),
		APIBaseURL:   getEnv("API_BASE_URL", "http://127.0.0.1:8005/api/"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return fallback
	}
	return n
}
