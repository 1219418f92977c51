package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/wordify/wordify/internal/errors"
	"github.com/wordify/wordify/internal/observer"
	"github.com/wordify/wordify/internal/ocr"
	"github.com/wordify/wordify/internal/renderer"
	"github.com/wordify/wordify/pkg/models"
)

// PageSeparator joins consecutive pages' text in the aggregated output.
const PageSeparator = "\n\n"

// Options configures one dispatch run.
type Options struct {
	// Threads bounds the worker pool. Must be positive; the caller
	// resolves the CPU-count default before calling Run.
	Threads int

	// Languages and DPI are passed through to the OCR engine.
	Languages []string
	DPI       int

	// Document labels observer events; informational only.
	Document string
}

// Dispatcher fans page OCR calls out over a bounded worker pool and
// collects the results back in page order.
type Dispatcher struct {
	engine    ocr.Engine
	publisher observer.Subject
}

// NewDispatcher creates a dispatcher. The publisher may be nil when no
// observers are wired.
func NewDispatcher(engine ocr.Engine, publisher observer.Subject) *Dispatcher {
	return &Dispatcher{engine: engine, publisher: publisher}
}

// Run submits one OCR task per page and waits for all of them. Output
// ordering is always by page index; completion order never leaks into the
// result. One failed page never aborts the job.
func (d *Dispatcher) Run(ctx context.Context, pages []renderer.PageImage, opts Options) (*models.JobResult, error) {
	if opts.Threads <= 0 {
		return nil, apperrors.NewInvalidConfigError(
			fmt.Sprintf("thread count must be positive (got %d)", opts.Threads), nil)
	}

	result := &models.JobResult{Pages: []models.PageResult{}}
	if len(pages) == 0 {
		// Vacuous success: nothing to recognize
		result.Success = true
		return result, nil
	}

	d.notify(ctx, observer.JobEvent{
		Type:      observer.JobStarted,
		Timestamp: time.Now(),
		Document:  opts.Document,
		Pages:     len(pages),
	})

	pool := NewWorkerPool(opts.Threads)
	pool.Start()
	defer pool.Close()

	// Each task writes its own slot, so collection needs no lock and the
	// output order is fixed by construction.
	slots := make([]models.PageResult, len(pages))
	for _, page := range pages {
		p := page
		pool.Submit(func() {
			slots[p.Index] = d.processPage(ctx, p, opts)
		})
	}
	pool.Wait()

	result.Pages = slots
	for _, p := range slots {
		if p.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	result.Success = result.Failed == 0
	result.Text = Aggregate(slots)
	return result, nil
}

// processPage times one OCR call and converts any failure, panics included,
// into a failed PageResult instead of propagating it across the pool.
func (d *Dispatcher) processPage(ctx context.Context, page renderer.PageImage, opts Options) (pr models.PageResult) {
	start := time.Now()
	pr = models.PageResult{Index: page.Index}

	defer func() {
		pr.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			pr.Success = false
			pr.Text = ""
			pr.Error = apperrors.NewPageOCRError(fmt.Sprintf("engine panic: %v", r), nil).Error()
		}
		d.notifyPage(ctx, opts.Document, pr)
	}()

	res, err := d.engine.Recognize(ctx, ocr.Input{
		Page:      page.Index,
		ImagePath: page.Path,
		Languages: opts.Languages,
		DPI:       opts.DPI,
	})
	if err != nil {
		pr.Error = apperrors.NewPageOCRError(
			fmt.Sprintf("page %d recognition failed", page.Index), err).Error()
		return pr
	}
	pr.Success = true
	pr.Text = res.Text
	return pr
}

// Aggregate concatenates succeeded pages' text in page-index order,
// separated by PageSeparator. Failed pages contribute nothing but remain
// enumerated in the result for diagnostics.
func Aggregate(pages []models.PageResult) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.Success {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, PageSeparator)
}

func (d *Dispatcher) notify(ctx context.Context, event observer.JobEvent) {
	if d.publisher != nil {
		d.publisher.Notify(ctx, event)
	}
}

func (d *Dispatcher) notifyPage(ctx context.Context, document string, pr models.PageResult) {
	event := observer.JobEvent{
		Timestamp: time.Now(),
		Document:  document,
		Page:      pr.Index,
		Elapsed:   pr.Elapsed,
	}
	if pr.Success {
		event.Type = observer.PageCompleted
	} else {
		event.Type = observer.PageFailed
		event.Error = pr.Error
	}
	d.notify(ctx, event)
}
