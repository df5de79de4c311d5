package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hostfetch/hostfetch/internal/config"
)

var (
	debugMu   sync.Mutex
	debugOnce sync.Once
	debugDir  string
	logger    zerolog.Logger = zerolog.Nop()
)

// ConfigureDebug sets the directory debug logs are written to. It must be
// called before the first Debug call to take effect for that process.
func ConfigureDebug(dir string) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugDir = dir
}

func logsDir() string {
	debugMu.Lock()
	defer debugMu.Unlock()
	if debugDir == "" {
		return config.GetLogsDir()
	}
	return debugDir
}

func openLogger() {
	dir := logsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return
	}
	name := fmt.Sprintf("debug-%s.log", time.Now().Format("20060102-150405"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	l := zerolog.New(f).With().Timestamp().Logger()

	debugMu.Lock()
	logger = l
	debugMu.Unlock()
}

// Debug writes a formatted line to the session's debug log file.
func Debug(format string, args ...any) {
	debugOnce.Do(openLogger)

	debugMu.Lock()
	l := logger
	debugMu.Unlock()

	l.Debug().Msg(fmt.Sprintf(format, args...))
}

// CleanupLogs removes all but the newest keep debug log files.
func CleanupLogs(keep int) {
	dir := logsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var logs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), "debug-") && strings.HasSuffix(e.Name(), ".log") {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) <= keep {
		return
	}

	// Timestamped names sort chronologically
	sort.Strings(logs)
	for _, name := range logs[:len(logs)-keep] {
		_ = os.Remove(filepath.Join(dir, name))
	}
}
