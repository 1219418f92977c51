package models

import "time"

// PageResult represents the OCR outcome for a single page.
// It is created by a worker when its OCR call finishes and is immutable
// after that point.
type PageResult struct {
	// Index is the 0-based page index within the source document.
	Index int `json:"index"`

	// Text holds the recognized text. Empty when the page failed or the
	// engine found nothing.
	Text string `json:"text,omitempty"`

	// Success reports whether the OCR call completed without error.
	Success bool `json:"success"`

	// Error carries the engine error message when Success is false.
	Error string `json:"error,omitempty"`

	// Elapsed is the wall-clock duration of this page's OCR call.
	Elapsed time.Duration `json:"elapsed"`
}

// JobResult represents the overall outcome of one extraction job.
// Pages is always ordered by page index, never by completion order.
type JobResult struct {
	// Pages holds one entry per rendered page, indices {0..N-1} with no
	// duplicates and no gaps.
	Pages []PageResult `json:"pages"`

	// Text is the concatenation of all succeeded pages' text in page
	// order, separated by the page separator. Failed pages contribute
	// nothing.
	Text string `json:"-"`

	// TotalElapsed covers the whole job including rendering.
	TotalElapsed time.Duration `json:"total_elapsed"`

	// Succeeded and Failed count page outcomes.
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	// Success is true iff every page succeeded. A zero-page document is
	// vacuously successful.
	Success bool `json:"success"`

	// OutputPath is set when the aggregated text was persisted.
	OutputPath string `json:"output_path,omitempty"`

	// WriteErr records a persistence failure. The computed Text remains
	// available to the caller regardless.
	WriteErr error `json:"-"`
}

// PageCount returns the number of pages the job processed.
func (r *JobResult) PageCount() int {
	return len(r.Pages)
}

// FailedPages returns the indices of pages whose OCR call failed,
// in ascending order.
func (r *JobResult) FailedPages() []int {
	var failed []int
	for _, p := range r.Pages {
		if !p.Success {
			failed = append(failed, p.Index)
		}
	}
	return failed
}
