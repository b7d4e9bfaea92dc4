package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"todotracker/config"

	_ "github.com/lib/pq"
)

var db *sql.DB

const schema = `
CREATE TABLE IF NOT EXISTS users (
    login         TEXT PRIMARY KEY CHECK (login <> ''),
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'USER',
    date_created  TIMESTAMPTZ NOT NULL,
    date_updated  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
    id            BIGSERIAL PRIMARY KEY,
    title         TEXT NOT NULL CHECK (title <> ''),
    description   TEXT NOT NULL DEFAULT '',
    completed     BOOLEAN NOT NULL DEFAULT FALSE,
    priority      TEXT NOT NULL DEFAULT 'MEDIUM',
    username      TEXT NOT NULL REFERENCES users (login) ON DELETE CASCADE,
    date_created  TIMESTAMPTZ NOT NULL,
    date_updated  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS todos_username_idx ON todos (username);
CREATE INDEX IF NOT EXISTS users_role_idx ON users (role);`

// DSN builds the lib/pq connection string.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)
}

func Connect(cfg *config.Config) error {
	conn, err := Open(DSN(cfg.Database))
	if err != nil {
		return err
	}
	db = conn
	log.Println("PostgreSQL connection established")
	return nil
}

// Open connects and pings without touching the package-level handle.
func Open(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return conn, nil
}

// Migrate creates the tables if they are missing.
func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// GetDB returns the connection opened by Connect.
func GetDB() *sql.DB {
	if db == nil {
		log.Fatal("database is not connected, call Connect first")
	}
	return db
}

func Close() {
	if db != nil {
		db.Close()
		db = nil
		log.Println("database connection closed")
	}
}
