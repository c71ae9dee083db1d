package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// InitDatabase initializes SQLite database and creates tables
func InitDatabase(dbPath string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	var err error
	DB, err = sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Create tables
	if err := CreateTables(DB); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("Database initialized at: %s", dbPath)
	return nil
}

// CreateTables creates all necessary tables. Exported so tests can
// bootstrap an in-memory database.
func CreateTables(database *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS behavior_records (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			class_id TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'present',
			behavior_status TEXT NOT NULL DEFAULT 'neutral',
			note TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_behavior_student_date ON behavior_records(student_id, date);`,
		`CREATE INDEX IF NOT EXISTS idx_behavior_date ON behavior_records(date);`,
		`CREATE TABLE IF NOT EXISTS students (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			class_id TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_students_class ON students(class_id);`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id TEXT PRIMARY KEY,
			class_id TEXT NOT NULL,
			day INTEGER NOT NULL,
			period INTEGER NOT NULL,
			subject TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS teacher_assignments (
			id TEXT PRIMARY KEY,
			class_id TEXT NOT NULL,
			subject TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS lesson_links (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sticky_notes (
			id TEXT PRIMARY KEY,
			class_id TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, stmt := range statements {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	log.Println("Database tables created successfully")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
