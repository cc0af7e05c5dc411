package app

import (
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/utils"
)

type Config struct {
	HTTPAddr      string
	DBPath        string
	MaxConns      int
	BusyTimeoutMS int
	GeminiModel   string
	AllowOrigins  []string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		HTTPAddr:      utils.GetEnv("HTTP_ADDR", ":8080", log),
		DBPath:        utils.GetEnv("IDEAFORGE_DB_PATH", "ideaforge.db", log),
		MaxConns:      utils.GetEnvAsInt("IDEAFORGE_MAX_CONNS", 8, log),
		BusyTimeoutMS: utils.GetEnvAsInt("IDEAFORGE_BUSY_TIMEOUT_MS", 5000, log),
		GeminiModel:   utils.GetEnv("GEMINI_MODEL", "gemini-2.0-flash", log),
		AllowOrigins:  []string{utils.GetEnv("CORS_ALLOW_ORIGIN", "http://localhost:1420", log)},
	}
}
