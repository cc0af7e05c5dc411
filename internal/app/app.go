package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/db"
	"github.com/yungbote/ideaforge-backend/internal/llm"
	"github.com/yungbote/ideaforge-backend/internal/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	sqlite   *db.SQLiteService
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	sqlite, err := db.NewSQLiteService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init sqlite: %w", err)
	}
	theDB := sqlite.DB()

	if err := db.NewMigrator(theDB, log).Run(db.All()); err != nil {
		log.Sync()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	generator := llm.NewGeminiClient(log)

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, reposet, generator)
	if err != nil {
		log.Sync()
		return nil, err
	}

	user, _, err := serviceset.Seed.EnsureDefaults(context.Background())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	handlerset := wireHandlers(log, serviceset, user.ID)
	router := wireRouter(cfg, log, handlerset)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		sqlite:   sqlite,
	}, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil {
			a.Log.Warn("Failed to close database", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
