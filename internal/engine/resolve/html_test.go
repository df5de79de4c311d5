package resolve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

const landingPage = `<!DOCTYPE html>
<html><body>
  <div class="dl-info">
    <a class="input popsok" aria-label="Download file" href="%s" id="downloadButton">Download (12MB)</a>
  </div>
</body></html>`

func TestFindHref(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		id      string
		want    string
		wantErr bool
	}{
		{"anchor with id", fmt.Sprintf(landingPage, "https://download.example/abc/file.zip"), "downloadButton", "https://download.example/abc/file.zip", false},
		{"custom id", `<a id="dl" href=" /x.bin ">x</a>`, "dl", "/x.bin", false},
		{"missing element", `<a id="other" href="/x">x</a>`, "downloadButton", "", true},
		{"element without href", `<button id="downloadButton">go</button>`, "downloadButton", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindHref(strings.NewReader(tt.page), tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTMLResolver_ResolvesButtonHref(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, landingPage, "/files/archive.rar?dkey=1")
	}))
	defer server.Close()

	r, err := NewHTMLResolver(nil)
	require.NoError(t, err)

	got, err := r.Resolve(context.Background(), server.URL+"/file/xyz/archive.rar/file")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/files/archive.rar?dkey=1", got)
}

func TestHTMLResolver_AttachmentIsDirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="data.bin"`)
		w.Write([]byte("binary"))
	}))
	defer server.Close()

	r, err := NewHTMLResolver(nil)
	require.NoError(t, err)

	got, err := r.Resolve(context.Background(), server.URL+"/get/data.bin")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/get/data.bin", got)
}

func TestHTMLResolver_PageErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   types.ErrorKind
	}{
		{"missing page", http.StatusNotFound, "gone", types.KindResolutionFailed},
		{"no button", http.StatusOK, "<html><body>nothing</body></html>", types.KindResolutionFailed},
		{"server error", http.StatusInternalServerError, "oops", types.KindResolutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			r, err := NewHTMLResolver(&types.RuntimeConfig{ButtonID: "downloadButton"})
			require.NoError(t, err)

			_, err = ResolveWithTimeout(context.Background(), r, server.URL, types.DefaultResolveTimeout)
			require.Error(t, err)
			assert.Equal(t, tt.want, types.KindOf(err))
		})
	}
}

func TestHTMLResolver_SendsCookiesBack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
		http.Redirect(w, r, "/page", http.StatusFound)
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err != nil || c.Value != "s1" {
			http.Error(w, "no session", http.StatusForbidden)
			return
		}
		fmt.Fprintf(w, landingPage, "/dl/file.zip")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	r, err := NewHTMLResolver(nil)
	require.NoError(t, err)

	got, err := r.Resolve(context.Background(), server.URL+"/start")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/dl/file.zip", got)
}
