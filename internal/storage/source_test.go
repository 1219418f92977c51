package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wordify/wordify/internal/config"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		ref  string
		want SourceType
	}{
		{"document.pdf", LocalSource},
		{"/abs/path/document.pdf", LocalSource},
		{"./relative/doc.pdf", LocalSource},
		{"http://example.com/doc.pdf", HTTPSource},
		{"https://example.com/doc.pdf", HTTPSource},
		{"https://myaccount.blob.core.windows.net/docs/doc.pdf", AzureSource},
		{"azure://docs/doc.pdf", AzureSource},
	}

	for _, tt := range tests {
		if got := detectType(tt.ref); got != tt.want {
			t.Errorf("detectType(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestNewSource_Unsupported(t *testing.T) {
	cfg := &config.Config{FetchTimeout: time.Second}
	if _, err := NewSource("ftp", "ftp://x/doc.pdf", cfg); err == nil {
		t.Error("Expected error for unsupported source type")
	}
}

func TestNewSource_AzureRequiresCredentials(t *testing.T) {
	cfg := &config.Config{FetchTimeout: time.Second}
	if _, err := NewSource(AzureSource, "azure://docs/doc.pdf", cfg); err == nil {
		t.Error("Expected error when azure credentials are missing")
	}
}

func TestLocalSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewLocalSource()
	got, cleanup, err := src.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	defer cleanup()

	if got != path {
		t.Errorf("Fetch path = %q, want %q", got, path)
	}
}

func TestLocalSource_FetchMissing(t *testing.T) {
	src := NewLocalSource()
	if _, _, err := src.Fetch(context.Background(), filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLocalSource_FetchDirectory(t *testing.T) {
	src := NewLocalSource()
	if _, _, err := src.Fetch(context.Background(), t.TempDir()); err == nil {
		t.Error("Expected error for directory path")
	}
}

func TestHTTPSource_Fetch(t *testing.T) {
	payload := []byte("%PDF-1.4 test document")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	src := NewHTTPSource(5 * time.Second)
	path, cleanup, err := src.Fetch(context.Background(), server.URL+"/doc.pdf")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading spooled file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("Downloaded content mismatch: %q", data)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Cleanup should remove the temp file")
	}
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var attempts int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	src := NewHTTPSource(30 * time.Second)
	_, cleanup, err := src.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch should succeed after retries: %v", err)
	}
	defer cleanup()

	if atomic.LoadInt64(&attempts) != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestHTTPSource_NoRetryOnClientError(t *testing.T) {
	var attempts int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src := NewHTTPSource(5 * time.Second)
	if _, _, err := src.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404 response")
	}
	if atomic.LoadInt64(&attempts) != 1 {
		t.Errorf("4xx responses must not be retried, got %d attempts", attempts)
	}
}

func TestParseBlobRef(t *testing.T) {
	tests := []struct {
		name          string
		ref           string
		wantContainer string
		wantBlob      string
		wantErr       bool
	}{
		{"azure scheme", "azure://docs/reports/q1.pdf", "docs", "reports/q1.pdf", false},
		{"https path style", "https://acct.blob.core.windows.net/docs/reports/q1.pdf", "docs", "reports/q1.pdf", false},
		{"query style", "https://acct.blob.core.windows.net/docs?blob=q1.pdf", "docs", "q1.pdf", false},
		{"missing blob", "azure://docs", "", "", true},
		{"missing container", "azure:///doc.pdf", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, blob, err := parseBlobRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBlobRef() error = %v, wantErr %v", err, tt.wantErr)
			}
			if container != tt.wantContainer || blob != tt.wantBlob {
				t.Errorf("parseBlobRef() = (%q, %q), want (%q, %q)", container, blob, tt.wantContainer, tt.wantBlob)
			}
		})
	}
}
