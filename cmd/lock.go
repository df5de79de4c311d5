package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/hostfetch/hostfetch/internal/config"
	"github.com/hostfetch/hostfetch/internal/engine/state"
)

// DirLock wraps the file lock guarding one destination directory
type DirLock struct {
	flock *flock.Flock
	path  string
}

// Global lock instance
var dirLock *DirLock

// lockPathFor maps a destination directory to its lock file in the state dir.
func lockPathFor(destDir string) string {
	abs, err := filepath.Abs(destDir)
	if err != nil {
		abs = destDir
	}
	return filepath.Join(config.GetStateDir(), "locks", state.URLHash(abs)+".lock")
}

// AcquireLock attempts to take the lock for destDir so that two runs never
// write into the same directory at once.
// Returns true if the lock was acquired, false if another process holds it.
// Returns an error if the locking process failed unexpectedly.
func AcquireLock(destDir string) (bool, error) {
	lockPath := lockPathFor(destDir)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create lock dir: %w", err)
	}

	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock: %w", err)
	}
	if !locked {
		return false, nil
	}

	dirLock = &DirLock{
		flock: fileLock,
		path:  lockPath,
	}
	return true, nil
}

// ReleaseLock releases the lock if it is held by this process.
func ReleaseLock() error {
	if dirLock == nil || dirLock.flock == nil {
		return nil
	}
	err := dirLock.flock.Unlock()
	dirLock = nil
	return err
}
