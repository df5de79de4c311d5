package state

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

// Status values stored for finished items.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// URLHash returns a short hash of the URL for lookups by source.
func URLHash(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:8]) // 16 chars
}

// EntryFromItem converts a terminal item into a history row.
func EntryFromItem(sessionID string, item types.DownloadItem, elapsed time.Duration) types.DownloadEntry {
	entry := types.DownloadEntry{
		ID:          item.ID,
		SessionID:   sessionID,
		URL:         item.SourceURL,
		DirectURL:   item.DirectURL,
		DestPath:    item.DestPath,
		Status:      StatusCompleted,
		TotalSize:   item.TotalSize,
		Downloaded:  item.Downloaded,
		Error:       item.ErrorMessage,
		CompletedAt: time.Now().Unix(),
		TimeTaken:   elapsed.Milliseconds(),
	}
	if item.DestPath != "" {
		entry.Filename = filepath.Base(item.DestPath)
	}
	if item.State == types.StateFailed {
		entry.Status = StatusFailed
	}
	return entry
}

// RecordResult stores a terminal item.
func RecordResult(sessionID string, item types.DownloadItem, elapsed time.Duration) error {
	if !item.State.IsTerminal() {
		return fmt.Errorf("item %s is not finished (%s)", item.ID, item.State)
	}
	return AddToMasterList(EntryFromItem(sessionID, item, elapsed))
}

// LoadMasterList loads the full history, newest first.
func LoadMasterList() (*types.MasterList, error) {
	db := getDBHelper()
	if db == nil {
		// Behave like an empty history
		return &types.MasterList{Downloads: []types.DownloadEntry{}}, nil
	}

	rows, err := db.Query(`
		SELECT id, session_id, url, direct_url, dest_path, filename, status, total_size, downloaded,
			error, completed_at, time_taken, url_hash
		FROM downloads
		ORDER BY completed_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	list := types.MasterList{Downloads: []types.DownloadEntry{}}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		list.Downloads = append(list.Downloads, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read downloads: %w", err)
	}
	return &list, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*types.DownloadEntry, error) {
	var e types.DownloadEntry
	var sessionID, directURL, destPath, filename, errMsg, urlHash sql.NullString
	var completedAt, timeTaken sql.NullInt64

	if err := row.Scan(
		&e.ID, &sessionID, &e.URL, &directURL, &destPath, &filename, &e.Status, &e.TotalSize, &e.Downloaded,
		&errMsg, &completedAt, &timeTaken, &urlHash,
	); err != nil {
		return nil, err
	}

	e.SessionID = sessionID.String
	e.DirectURL = directURL.String
	e.DestPath = destPath.String
	e.Filename = filename.String
	e.Error = errMsg.String
	e.URLHash = urlHash.String
	if completedAt.Valid {
		e.CompletedAt = completedAt.Int64
	}
	if timeTaken.Valid {
		e.TimeTaken = timeTaken.Int64
	}
	return &e, nil
}

// AddToMasterList adds or updates a history entry.
func AddToMasterList(entry types.DownloadEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.URLHash == "" {
		entry.URLHash = URLHash(entry.URL)
	}

	return withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO downloads (
				id, session_id, url, direct_url, dest_path, filename, status, total_size, downloaded,
				error, completed_at, time_taken, url_hash
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				session_id=excluded.session_id,
				url=excluded.url,
				direct_url=excluded.direct_url,
				dest_path=excluded.dest_path,
				filename=excluded.filename,
				status=excluded.status,
				total_size=excluded.total_size,
				downloaded=excluded.downloaded,
				error=excluded.error,
				completed_at=excluded.completed_at,
				time_taken=excluded.time_taken,
				url_hash=excluded.url_hash
		`,
			entry.ID, entry.SessionID, entry.URL, entry.DirectURL, entry.DestPath, entry.Filename, entry.Status,
			entry.TotalSize, entry.Downloaded, entry.Error, entry.CompletedAt, entry.TimeTaken, entry.URLHash)
		if err != nil {
			return fmt.Errorf("failed to upsert download: %w", err)
		}
		return nil
	})
}

// RemoveFromMasterList removes a history entry. Removing an unknown ID is not an error.
func RemoveFromMasterList(id string) error {
	db := getDBHelper()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	_, err := db.Exec("DELETE FROM downloads WHERE id = ?", id)
	return err
}

// GetDownload returns a single entry by ID, or nil when there is none.
func GetDownload(id string) (*types.DownloadEntry, error) {
	db := getDBHelper()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	row := db.QueryRow(`
		SELECT id, session_id, url, direct_url, dest_path, filename, status, total_size, downloaded,
			error, completed_at, time_taken, url_hash
		FROM downloads
		WHERE id = ?
	`, id)

	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query download: %w", err)
	}
	return e, nil
}

// FindByURL returns every entry recorded for a source URL.
func FindByURL(url string) ([]types.DownloadEntry, error) {
	list, err := LoadMasterList()
	if err != nil {
		return nil, err
	}
	hash := URLHash(url)
	var found []types.DownloadEntry
	for _, e := range list.Downloads {
		if e.URLHash == hash && e.URL == url {
			found = append(found, e)
		}
	}
	return found, nil
}

// ListAllDownloads returns the full history.
func ListAllDownloads() ([]types.DownloadEntry, error) {
	list, err := LoadMasterList()
	if err != nil {
		return nil, err
	}
	return list.Downloads, nil
}

// RemoveCompletedDownloads removes all completed entries and returns the count.
func RemoveCompletedDownloads() (int64, error) {
	return removeByStatus(StatusCompleted)
}

// RemoveFailedDownloads removes all failed entries and returns the count.
func RemoveFailedDownloads() (int64, error) {
	return removeByStatus(StatusFailed)
}

func removeByStatus(status string) (int64, error) {
	db := getDBHelper()
	if db == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	result, err := db.Exec("DELETE FROM downloads WHERE status = ?", status)
	if err != nil {
		return 0, fmt.Errorf("failed to remove %s downloads: %w", status, err)
	}

	count, _ := result.RowsAffected()
	return count, nil
}
