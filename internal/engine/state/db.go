package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/hostfetch/hostfetch/internal/config"
	"github.com/hostfetch/hostfetch/internal/utils"
)

var (
	db     *sql.DB
	dbPath string
	dbMu   sync.Mutex
)

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
	id           TEXT PRIMARY KEY,
	session_id   TEXT,
	url          TEXT NOT NULL,
	direct_url   TEXT,
	dest_path    TEXT,
	filename     TEXT,
	status       TEXT NOT NULL,
	total_size   INTEGER NOT NULL DEFAULT -1,
	downloaded   INTEGER NOT NULL DEFAULT 0,
	error        TEXT,
	completed_at INTEGER,
	time_taken   INTEGER,
	url_hash     TEXT
);
CREATE INDEX IF NOT EXISTS idx_downloads_url_hash ON downloads(url_hash);
CREATE INDEX IF NOT EXISTS idx_downloads_session ON downloads(session_id);
`

// Configure sets the database file. It takes effect on the next open.
func Configure(path string) {
	dbMu.Lock()
	defer dbMu.Unlock()
	dbPath = path
}

func initDB() error {
	dbMu.Lock()
	defer dbMu.Unlock()
	return openLocked()
}

func openLocked() error {
	if db != nil {
		return nil
	}
	path := dbPath
	if path == "" {
		path = filepath.Join(config.GetStateDir(), "hostfetch.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Writers serialise on the file lock anyway
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to configure database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	utils.Debug("State: opened %s", path)
	db = conn
	return nil
}

// getDBHelper returns the open database, opening it on first use. It
// returns nil when the database cannot be opened.
func getDBHelper() *sql.DB {
	dbMu.Lock()
	defer dbMu.Unlock()
	if err := openLocked(); err != nil {
		utils.Debug("State: %v", err)
		return nil
	}
	return db
}

// CloseDB closes the database; the next call reopens it.
func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db != nil {
		db.Close()
		db = nil
	}
}

func withTx(fn func(tx *sql.Tx) error) error {
	conn := getDBHelper()
	if conn == nil {
		return fmt.Errorf("database not initialized")
	}
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
