package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig конфигурация пула подключений к БД
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LookupDB журнал разрешения адресов в SQLite
type LookupDB struct {
	conn *sql.DB
	now  func() time.Time
}

// NewLookupDB открывает БД журнала с настройками пула по умолчанию
func NewLookupDB(dbPath string) (*LookupDB, error) {
	config := DBConfig{}

	// In-memory SQLite живет в одном соединении, иначе каждое новое получит пустую БД
	if isInMemoryDB(dbPath) {
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
	}

	return NewLookupDBWithConfig(dbPath, config)
}

func isInMemoryDB(dbPath string) bool {
	if dbPath == ":memory:" {
		return true
	}
	return strings.HasPrefix(dbPath, "file:") && strings.Contains(dbPath, "mode=memory")
}

// NewLookupDBWithConfig открывает БД журнала и применяет миграции
func NewLookupDBWithConfig(dbPath string, config DBConfig) (*LookupDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		// SQLite плохо переносит много одновременных писателей
		conn.SetMaxOpenConns(10)
	}

	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(3)
	}

	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping lookup database: %w", err)
	}

	// WAL позволяет читать журнал, пока навык пишет новые записи
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		slog.Warn("Failed to enable WAL mode", "path", dbPath, "error", err)
	}

	if err := applyMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize lookup schema: %w", err)
	}

	return &LookupDB{conn: conn, now: time.Now}, nil
}

// Close закрывает подключение к БД
func (db *LookupDB) Close() error {
	return db.conn.Close()
}

// Ping проверяет доступность БД
func (db *LookupDB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}
