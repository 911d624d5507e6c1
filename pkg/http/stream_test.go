package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Length", "1024")
		w.Header().Set("Content-Type", "application/zip")
	}))
	defer srv.Close()

	info, err := NewClient().Head(context.Background(), srv.URL+"/files/archive.zip?sig=1")
	require.NoError(t, err)
	assert.Equal(t, &FileInfo{Size: 1024, Filename: "archive.zip", ContentType: "application/zip"}, info)
}

func TestHeadFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/real/movie.mkv", http.StatusFound)
	})
	mux.HandleFunc("/real/movie.mkv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "42")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	info, err := NewClient().Head(context.Background(), srv.URL+"/short")
	require.NoError(t, err)
	assert.Equal(t, int64(42), info.Size)
	assert.Equal(t, "movie.mkv", info.Filename)
}

func TestHeadStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusBadGateway, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewClient().Head(context.Background(), srv.URL)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStreamRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		w.Header().Set("Content-Disposition", `attachment; filename="report final.pdf"`)
		_, _ = io.WriteString(w, "hello")
	}))
	defer srv.Close()

	body, info, err := NewClient().StreamRequest(context.Background(), srv.URL+"/dl", map[string]string{"X-Test": "yes"})
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "report final.pdf", info.Filename)
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/a/b/file.txt", "file.txt"},
		{"https://example.com/a/b/file.txt?x=1#frag", "file.txt"},
		{"https://example.com/my%20song.mp3", "my song.mp3"},
		{"https://example.com/dir/", "dir"},
		{"https://example.com/", FallbackFilename},
		{"https://example.com", FallbackFilename},
		{"://bad", FallbackFilename},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameFromURL(tt.url))
		})
	}
}
