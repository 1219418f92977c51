package renderer

import (
	"context"
	"errors"
)

// Rendering failures are not transient and are never retried.
var (
	// ErrUnsupportedFormat indicates the input is not a PDF document
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrCorruptDocument indicates the document could not be parsed
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrMissingTool indicates the external conversion tool is not installed
	ErrMissingTool = errors.New("conversion tool not available")
)

// PageImage is one rendered page. Pages are owned by the dispatch core for
// the duration of the job and discarded after OCR completes.
type PageImage struct {
	// Index is the 0-based page index, unique and contiguous.
	Index int

	// Path points at the rasterized page image on disk.
	Path string
}

// Options defines how pages are rasterized.
type Options struct {
	OutputDir    string
	OutputPrefix string
	Format       string // "png", "jpg", "tiff"
	DPI          int    // resolution, default 300
}

// Renderer converts a PDF document into an ordered sequence of page images.
// Rendering is a single blocking operation over the whole document; there is
// no streaming between rendering and OCR.
type Renderer interface {
	// PageCount reads the document's page count without rendering.
	PageCount(ctx context.Context, pdfPath string) (int, error)

	// Render rasterizes every page. A zero-page document yields an empty
	// slice and no error.
	Render(ctx context.Context, pdfPath string, opts Options) ([]PageImage, error)
}
