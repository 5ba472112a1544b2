package fetch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csvhub/recommend/internal/fetch"
)

func TestGetContent(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		setupFunc   func(t *testing.T) (source string, cleanup func())
		expectError bool
		expectData  string
	}{
		{
			name:   "http URL success",
			source: "",
			setupFunc: func(t *testing.T) (string, func()) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
					_, _ = w.Write([]byte("dataset landing page"))
				}))
				return server.URL, server.Close
			},
			expectData: "dataset landing page",
		},
		{
			name:   "http URL with error status",
			source: "",
			setupFunc: func(t *testing.T) (string, func()) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNotFound)
				}))
				return server.URL, server.Close
			},
			expectError: true,
		},
		{
			name:   "local file success",
			source: "",
			setupFunc: func(t *testing.T) (string, func()) {
				path := filepath.Join(t.TempDir(), "page.html")
				if err := os.WriteFile(path, []byte("local page content"), 0o600); err != nil {
					t.Fatalf("failed to write temp file: %v", err)
				}
				return path, func() {}
			},
			expectData: "local page content",
		},
		{
			name:        "non-existent file",
			source:      "/path/that/does/not/exist.html",
			expectError: true,
		},
		{
			name:        "unreachable URL",
			source:      "http://invalid-domain-that-definitely-does-not-exist.local",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := tt.source
			if tt.setupFunc != nil {
				var cleanup func()
				source, cleanup = tt.setupFunc(t)
				defer cleanup()
			}

			reader, err := fetch.GetContent(context.Background(), source)
			if tt.expectError {
				if err == nil {
					t.Error("GetContent() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetContent() error = %v", err)
			}
			defer reader.Close()

			data, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("failed to read content: %v", err)
			}
			if string(data) != tt.expectData {
				t.Errorf("GetContent() data = %q, want %q", string(data), tt.expectData)
			}
		})
	}
}

func TestGetContentStdin(t *testing.T) {
	// stdin routing always succeeds; content comes back behind a size limit
	reader, err := fetch.GetContent(context.Background(), "-")
	if err != nil {
		t.Fatalf("GetContent(\"-\") error = %v", err)
	}
	if reader == nil {
		t.Fatal("GetContent(\"-\") returned nil reader")
	}
	reader.Close()
}

func TestGetContentErrorMessages(t *testing.T) {
	_, err := fetch.GetContent(context.Background(), "/no/such/file.html")
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("file error should mention missing file, got %v", err)
	}

	_, err = fetch.GetContent(context.Background(), "http://invalid-domain-that-definitely-does-not-exist.local")
	if err == nil || !strings.Contains(err.Error(), "failed to fetch URL") {
		t.Errorf("URL error should mention fetch failure, got %v", err)
	}
}
