package types

// DownloadEntry is one finished item as stored in the history database.
type DownloadEntry struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	URL         string `json:"url"`
	DirectURL   string `json:"direct_url,omitempty"`
	DestPath    string `json:"dest_path,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Status      string `json:"status"`
	TotalSize   int64  `json:"total_size"`
	Downloaded  int64  `json:"downloaded"`
	Error       string `json:"error,omitempty"`
	CompletedAt int64  `json:"completed_at"`
	TimeTaken   int64  `json:"time_taken"` // milliseconds
	URLHash     string `json:"url_hash"`
}

// MasterList is the full history.
type MasterList struct {
	Downloads []DownloadEntry `json:"downloads"`
}
