package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/tutusiji/lantu-next/config"
	"github.com/tutusiji/lantu-next/errs"
)

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the store selected by DB_TYPE and verifies the connection.
func Open(cfg map[string]string) (*gorm.DB, error) {
	dbType := strings.ToLower(config.GetString(cfg, "DB_TYPE", TypeSQLite))
	gormCfg := &gorm.Config{
		PrepareStmt: false,
		Logger:      NewLogger(cfg),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch dbType {
	case TypeSQLite:
		db, err = openSQLite(config.GetString(cfg, "SQLITE_PATH", "data/techmap.db"), gormCfg)
	case TypePostgres:
		db, err = openPostgres(cfg, gormCfg)
	default:
		return nil, errs.BadRequest(fmt.Sprintf("unsupported DB_TYPE %q", dbType))
	}
	if err != nil {
		return nil, err
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("testing database connection: %w", err)
	}

	log.Info().Str("dbType", dbType).Msg("database connected")
	return db, nil
}

// SQLiteDSN builds a mattn/go-sqlite3 DSN with foreign keys enforced.
func SQLiteDSN(path string) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", "5000")
	if !strings.Contains(path, "mode=memory") {
		params.Set("_journal_mode", "WAL")
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}

func openSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(SQLiteDSN(path)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sqlite handle: %w", err)
	}
	// a single connection serializes writers
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func openPostgres(cfg map[string]string, gormCfg *gorm.Config) (*gorm.DB, error) {
	dsn := config.GetString(cfg, "DATABASE_URL", "")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(cfg, "DB_HOST", "localhost"),
			config.GetString(cfg, "DB_USER", "postgres"),
			config.GetString(cfg, "DB_PASSWORD", ""),
			config.GetString(cfg, "DB_NAME", "techmap"),
			config.GetString(cfg, "DB_PORT", "5432"),
			config.GetString(cfg, "DB_SSLMODE", "disable"),
		)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}

	replicas := config.GetStrings(cfg, "DB_REPLICA_DSNS")
	if len(replicas) == 0 {
		return db, nil
	}

	dialectors := make([]gorm.Dialector, 0, len(replicas))
	for _, replica := range replicas {
		dialectors = append(dialectors, postgres.New(postgres.Config{
			DSN:                  replica,
			PreferSimpleProtocol: true,
		}))
	}
	if err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: dialectors,
		Policy:   dbresolver.RandomPolicy{},
	})); err != nil {
		return nil, fmt.Errorf("registering read replicas: %w", err)
	}
	log.Info().Int("replicas", len(replicas)).Msg("read replicas registered")
	return db, nil
}

// NewLogger routes gorm's SQL log through zerolog.
func NewLogger(cfg map[string]string) logger.Interface {
	return logger.New(
		gormWriter{logger: log.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             time.Duration(config.GetInt(cfg, "DB_SLOW_THRESHOLD_MS", 200)) * time.Millisecond,
			LogLevel:                  parseGormLevel(config.GetString(cfg, "DB_LOG_LEVEL", "warn")),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.Info().Msgf(format, args...)
}

func parseGormLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
