package config

import (
	"fmt"
	"time"
)

// Option documents one setting: its key, default and effect.
type Option struct {
	Key     string
	Default string
	Effect  string
}

// Options enumerates every setting with its default.
func Options() []Option {
	d := DefaultSettings()
	return []Option{
		{"general.download_dir", d.General.DownloadDir, "destination directory, relative to the working directory, created if absent"},
		{"general.max_concurrent", fmt.Sprint(d.General.MaxConcurrent), "transfers running at once (1-20)"},
		{"transfer.resolve_timeout", fmtDuration(d.Transfer.ResolveTimeout), "upper bound on resolving one page link"},
		{"transfer.chunk_size", fmt.Sprint(d.Transfer.ChunkSize), "bytes read and written per streaming step"},
		{"transfer.speed_sample_interval", fmtDuration(d.Transfer.SpeedSampleInterval), "minimum spacing of speed updates per item"},
		{"transfer.idle_timeout", fmtDuration(d.Transfer.IdleTimeout), "a transfer with no data for this long fails as stalled"},
		{"transfer.user_agent", "browser UA", "User-Agent sent with page and file requests"},
		{"resolver.button_id", d.Resolver.ButtonID, "id of the page element whose href is the direct link"},
		{"logging.keep_logs", fmt.Sprint(d.Logging.KeepLogs), "debug log files kept on startup"},
	}
}

// Values returns the current value of every option key in s.
func (s *Settings) Values() map[string]string {
	return map[string]string{
		"general.download_dir":           s.General.DownloadDir,
		"general.max_concurrent":         fmt.Sprint(s.General.MaxConcurrent),
		"transfer.resolve_timeout":       fmtDuration(s.Transfer.ResolveTimeout),
		"transfer.chunk_size":            fmt.Sprint(s.Transfer.ChunkSize),
		"transfer.speed_sample_interval": fmtDuration(s.Transfer.SpeedSampleInterval),
		"transfer.idle_timeout":          fmtDuration(s.Transfer.IdleTimeout),
		"transfer.user_agent":            s.Transfer.UserAgent,
		"resolver.button_id":             s.Resolver.ButtonID,
		"logging.keep_logs":              fmt.Sprint(s.Logging.KeepLogs),
	}
}

func fmtDuration(d time.Duration) string {
	return d.String()
}
