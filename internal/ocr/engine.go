package ocr

import (
	"context"
	"fmt"
)

// Input encapsulates a single page image submitted for OCR.
type Input struct {
	// Page is the 0-based page index, echoed back in the Result.
	Page int

	// ImagePath points at the rasterized page on disk.
	ImagePath string

	// Languages is a list of trained-data hints (e.g. "eng", "deu").
	Languages []string

	// DPI carries the effective resolution of the image; zero means
	// unknown. Engines use it for layout heuristics.
	DPI int
}

// Result captures OCR output for a single input image.
type Result struct {
	Page int
	Text string
}

// Engine is the OCR provider contract: one image in, one result out.
// Each call may fail independently; failures are isolated per page by the
// dispatcher and never retried.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
	Close() error
}

// NewEngine creates an OCR engine by kind.
func NewEngine(kind string) (Engine, error) {
	switch kind {
	case "gosseract", "":
		return NewGosseractEngine(), nil
	case "exec", "tesseract":
		return NewExecEngine(""), nil
	default:
		return nil, fmt.Errorf("unknown engine type: %s", kind)
	}
}
