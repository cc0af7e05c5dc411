package db

import (
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/utils"
)

type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSQLiteService opens the embedded database and bounds the connection
// pool. Connections beyond the cap queue on acquire rather than failing.
func NewSQLiteService(log *logger.Logger) (*SQLiteService, error) {
	serviceLog := log.With("service", "SQLiteService")

	log.Info("Loading environment variables...")
	dbPath := utils.GetEnv("IDEAFORGE_DB_PATH", "ideaforge.db", log)
	maxConns := utils.GetEnvAsInt("IDEAFORGE_MAX_CONNS", 8, log)
	busyTimeoutMS := utils.GetEnvAsInt("IDEAFORGE_BUSY_TIMEOUT_MS", 5000, log)
	log.Debug("Environment variables loaded")

	if maxConns < 1 {
		maxConns = 8
	}

	dsn := fmt.Sprintf("file:%s?%s", dbPath, url.Values{
		"_busy_timeout": []string{fmt.Sprintf("%d", busyTimeoutMS)},
		"_journal_mode": []string{"WAL"},
		"_foreign_keys": []string{"on"},
	}.Encode())

	log.Info("Opening SQLite database...", "path", dbPath)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Error("Failed to open SQLite database", "error", err)
		return nil, apierr.New(500, apierr.CodeConnection,
			fmt.Errorf("failed to open sqlite database: %w", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Failed to access underlying connection pool", "error", err)
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("SQLite database ready", "max_conns", maxConns)
	return &SQLiteService{db: db, log: serviceLog}, nil
}

func (s *SQLiteService) DB() *gorm.DB {
	return s.db
}

func (s *SQLiteService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
