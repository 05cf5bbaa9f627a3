package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory database that disappears with its connection.
const MemoryDSN = ":memory:"

type SQLite struct {
	dsn  string
	conn *sql.DB
}

func NewSQLite(dsn string) *SQLite {
	if dsn == "" {
		dsn = MemoryDSN
	}
	return &SQLite{
		dsn:  dsn,
		conn: nil,
	}
}

func (s *SQLite) InitDB() error {
	var err error
	s.conn, err = sql.Open("sqlite3", s.dsn)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	// Every connection to :memory: is a separate database, so the pool is pinned
	// to one connection. This also serializes writers.
	s.conn.SetMaxOpenConns(1)
	s.conn.SetMaxIdleConns(1)
	s.conn.SetConnMaxLifetime(0)

	res, err := s.conn.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    content BLOB,
    md_content_hash TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`)
	if err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}

	dbLogger.Info().Str("dsn", s.dsn).Any("db_result", res).Msg("Database initialized")
	return nil
}

func (s *SQLite) Get() *sql.DB {
	return s.conn
}

func (s *SQLite) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *SQLite) Query(query string, args ...interface{}) (*sql.Rows, error) {
	dbLogger.Debug().Str("query", query).Msg("Query")
	return s.conn.Query(query, args...)
}

func (s *SQLite) Exec(query string, args ...interface{}) (sql.Result, error) {
	dbLogger.Debug().Str("query", query).Msg("Exec")
	return s.conn.Exec(query, args...)
}

func (s *SQLite) Begin() (*sql.Tx, error) {
	return s.conn.Begin()
}
