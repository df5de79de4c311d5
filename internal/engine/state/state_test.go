package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	// Keep anything derived from the config dir inside the test
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv("HOME", tempDir)

	CloseDB()
	Configure(filepath.Join(tempDir, "state", "test.db"))
	if err := initDB(); err != nil {
		t.Fatalf("Failed to init DB: %v", err)
	}
	t.Cleanup(func() {
		CloseDB()
		Configure("")
	})
	return tempDir
}

func TestURLHash(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"simple URL", "https://example.com/file.zip"},
		{"URL with path", "https://example.com/path/to/file.zip"},
		{"URL with query", "https://example.com/file.zip?token=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := URLHash(tt.url)
			if len(hash) != 16 {
				t.Errorf("URLHash(%s) length = %d, want 16", tt.url, len(hash))
			}
			if hash != URLHash(tt.url) {
				t.Errorf("URLHash(%s) is not stable", tt.url)
			}
		})
	}

	if URLHash("https://example.com/a") == URLHash("https://example.com/b") {
		t.Error("Different URLs produced same hash")
	}
}

func TestInitDB_CreatesFile(t *testing.T) {
	dir := setupTestDB(t)
	_, err := os.Stat(filepath.Join(dir, "state", "test.db"))
	assert.NoError(t, err)
}

func TestRecordResult_RoundTrip(t *testing.T) {
	setupTestDB(t)

	item := types.NewDownloadItem("https://host.example/file/abc")
	item.DirectURL = "https://cdn.host.example/abc/report.pdf"
	item.DestPath = "/tmp/downloads/report.pdf"
	item.TotalSize = 2048
	item.SetProgress(2048)
	item.Transition(types.StateSucceeded)

	require.NoError(t, RecordResult("session-1", item, 1500*time.Millisecond))

	got, err := GetDownload(item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "session-1", got.SessionID)
	assert.Equal(t, item.SourceURL, got.URL)
	assert.Equal(t, item.DirectURL, got.DirectURL)
	assert.Equal(t, "report.pdf", got.Filename)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, int64(2048), got.TotalSize)
	assert.Equal(t, int64(2048), got.Downloaded)
	assert.Equal(t, int64(1500), got.TimeTaken)
	assert.Equal(t, URLHash(item.SourceURL), got.URLHash)
	assert.NotZero(t, got.CompletedAt)
	assert.Empty(t, got.Error)
}

func TestRecordResult_Failed(t *testing.T) {
	setupTestDB(t)

	item := types.NewDownloadItem("https://host.example/file/broken")
	item.Fail(types.StatusError(404))
	require.NoError(t, RecordResult("s", item, time.Second))

	got, err := GetDownload(item.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.Error, "404")
	assert.Empty(t, got.Filename)
	assert.Equal(t, int64(-1), got.TotalSize)
}

func TestRecordResult_RejectsActiveItem(t *testing.T) {
	setupTestDB(t)

	item := types.NewDownloadItem("https://host.example/file/running")
	item.Transition(types.StateDownloading)
	assert.Error(t, RecordResult("s", item, 0))
}

func TestGetDownload_NotFound(t *testing.T) {
	setupTestDB(t)

	got, err := GetDownload("missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestAddToMasterList_Upsert(t *testing.T) {
	setupTestDB(t)

	entry := types.DownloadEntry{ID: "fixed", URL: "https://a.example/x", Status: StatusFailed, TotalSize: -1}
	require.NoError(t, AddToMasterList(entry))

	entry.Status = StatusCompleted
	entry.Downloaded = 10
	require.NoError(t, AddToMasterList(entry))

	all, err := ListAllDownloads()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, StatusCompleted, all[0].Status)
	assert.Equal(t, int64(10), all[0].Downloaded)
}

func TestAddToMasterList_GeneratesID(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, AddToMasterList(types.DownloadEntry{URL: "https://a.example/y", Status: StatusCompleted}))
	all, err := ListAllDownloads()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotEmpty(t, all[0].ID)
	assert.Equal(t, URLHash("https://a.example/y"), all[0].URLHash)
}

func TestListAllDownloads_NewestFirst(t *testing.T) {
	setupTestDB(t)

	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, AddToMasterList(types.DownloadEntry{
			ID: id, URL: "https://a.example/" + id, Status: StatusCompleted, CompletedAt: int64(100 + i),
		}))
	}

	all, err := ListAllDownloads()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "old", all[2].ID)
}

func TestFindByURL(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, AddToMasterList(types.DownloadEntry{ID: "1", URL: "https://a.example/same", Status: StatusFailed}))
	require.NoError(t, AddToMasterList(types.DownloadEntry{ID: "2", URL: "https://a.example/same", Status: StatusCompleted}))
	require.NoError(t, AddToMasterList(types.DownloadEntry{ID: "3", URL: "https://a.example/other", Status: StatusCompleted}))

	found, err := FindByURL("https://a.example/same")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestRemoveEntries(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, AddToMasterList(types.DownloadEntry{ID: "c1", URL: "u1", Status: StatusCompleted}))
	require.NoError(t, AddToMasterList(types.DownloadEntry{ID: "c2", URL: "u2", Status: StatusCompleted}))
	require.NoError(t, AddToMasterList(types.DownloadEntry{ID: "f1", URL: "u3", Status: StatusFailed}))
	require.NoError(t, AddToMasterList(types.DownloadEntry{ID: "f2", URL: "u4", Status: StatusFailed}))

	require.NoError(t, RemoveFromMasterList("f2"))
	require.NoError(t, RemoveFromMasterList("never-existed"))

	n, err := RemoveCompletedDownloads()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := ListAllDownloads()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "f1", all[0].ID)

	n, err = RemoveFailedDownloads()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err = ListAllDownloads()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCloseDB_Reopens(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, AddToMasterList(types.DownloadEntry{ID: "keep", URL: "u", Status: StatusCompleted}))
	CloseDB()

	got, err := GetDownload("keep")
	require.NoError(t, err)
	require.NotNil(t, got)
}
