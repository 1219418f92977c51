package renderer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestTrailingPageNumber(t *testing.T) {
	tests := []struct {
		path string
		want int
		ok   bool
	}{
		{"page-1.png", 1, true},
		{"page-03.png", 3, true},
		{"page-12.jpg", 12, true},
		{"scan-page-7.png", 7, true},
		{"page.png", 0, false},
		{"page-.png", 0, false},
		{"page-abc.png", 0, false},
	}

	for _, tt := range tests {
		got, ok := trailingPageNumber(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("trailingPageNumber(%q) = (%d, %v), want (%d, %v)", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCollectPages(t *testing.T) {
	dir := t.TempDir()
	// Simulate pdftoppm output with zero-padded page numbers
	for _, name := range []string{"page-01.png", "page-02.png", "page-03.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	pages, err := collectPages(Options{OutputDir: dir, OutputPrefix: "page", Format: "png"}, 3)
	if err != nil {
		t.Fatalf("collectPages returned error: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(pages))
	}
	for i, p := range pages {
		if p.Index != i {
			t.Errorf("Page at position %d has index %d", i, p.Index)
		}
	}
}

func TestCollectPages_NumericOrder(t *testing.T) {
	dir := t.TempDir()
	// Unpadded names glob lexicographically (page-10 before page-2); the
	// result must still follow numeric page order.
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("page-%d.png", i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	pages, err := collectPages(Options{OutputDir: dir, OutputPrefix: "page", Format: "png"}, 12)
	if err != nil {
		t.Fatalf("collectPages returned error: %v", err)
	}
	for i, p := range pages {
		if p.Index != i {
			t.Errorf("Page at position %d has index %d", i, p.Index)
		}
		want := fmt.Sprintf("page-%d.png", i+1)
		if filepath.Base(p.Path) != want {
			t.Errorf("Page %d path = %q, want %q", i, p.Path, want)
		}
	}
}

func TestCollectPages_MissingPage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page-1.png"), []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := collectPages(Options{OutputDir: dir, OutputPrefix: "page", Format: "png"}, 2)
	if err == nil {
		t.Fatal("Expected error for missing page")
	}
	if !errors.Is(err, ErrCorruptDocument) {
		t.Errorf("Expected ErrCorruptDocument, got %v", err)
	}
}

func TestPageCount_MissingFile(t *testing.T) {
	r := New(ToolPdftoppm, nil)
	_, err := r.PageCount(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestPageCount_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(ToolPdftoppm, nil)
	_, err := r.PageCount(context.Background(), path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNew_ToolPathOverride(t *testing.T) {
	r := New(ToolPdftoppm, ToolPaths{ToolPdftoppm: "/custom/bin/pdftoppm"})
	if r.toolPaths[ToolPdftoppm] != "/custom/bin/pdftoppm" {
		t.Errorf("Custom tool path not applied: %q", r.toolPaths[ToolPdftoppm])
	}
	// Empty override keeps the default
	r = New(ToolMutool, ToolPaths{ToolMutool: ""})
	if r.toolPaths[ToolMutool] != "mutool" {
		t.Errorf("Default tool path lost: %q", r.toolPaths[ToolMutool])
	}
}

func TestIsAvailable_BogusTool(t *testing.T) {
	r := New(ToolPdftoppm, ToolPaths{ToolPdftoppm: "/nonexistent/tool/definitely-not-here"})
	if r.IsAvailable() {
		t.Error("Expected bogus tool path to be unavailable")
	}
}

func TestApplyDefaults(t *testing.T) {
	opts := Options{OutputDir: "out"}
	applyDefaults(&opts)
	if opts.OutputPrefix != "page" || opts.Format != "png" || opts.DPI != 300 {
		t.Errorf("Defaults not applied: %+v", opts)
	}

	opts = Options{OutputDir: "out", OutputPrefix: "p", Format: "jpg", DPI: 72}
	applyDefaults(&opts)
	if opts.OutputPrefix != "p" || opts.Format != "jpg" || opts.DPI != 72 {
		t.Errorf("Explicit options overwritten: %+v", opts)
	}
}
