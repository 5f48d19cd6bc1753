package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adamspd/quizdesk/utils"
	"github.com/mattn/go-sqlite3"
)

// DB is the explicitly constructed store. It owns the connection pool; call
// Close when done.
type DB struct {
	*sql.DB
}

const memoryPath = ":memory:"

func InitDB(dbPath string) (*DB, error) {
	utils.LogStartup("Initializing database at: %s", dbPath)

	if dbPath != memoryPath && !strings.HasPrefix(dbPath, "file:") {
		if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		utils.LogError("Failed to open database: %v", err)
		return nil, err
	}

	// Every connection to ":memory:" is a separate database.
	if dbPath == memoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		utils.LogError("Failed to ping database: %v", err)
		db.Close()
		return nil, err
	}

	utils.LogStartup("Database connection established")

	if err := createTables(db); err != nil {
		utils.LogError("Failed to create tables: %v", err)
		db.Close()
		return nil, err
	}

	utils.LogStartup("Database tables initialized successfully")
	return &DB{db}, nil
}

func (db *DB) Close() error {
	utils.LogShutdown("Closing database")
	return db.DB.Close()
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quiz_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			option_a TEXT,
			option_b TEXT,
			option_c TEXT,
			option_d TEXT,
			correct_option TEXT,
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS employees (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			position TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for i, query := range queries {
		utils.LogDB("Creating table %d/%d", i+1, len(queries))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_questions_quiz_id ON questions(quiz_id)",
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			utils.LogDB("Failed to create index (non-fatal): %v", err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint &&
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
