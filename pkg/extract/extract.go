// Package extract ties the document source, renderer, and OCR dispatcher
// together into the programmatic extraction entry point.
package extract

import (
	"context"
	"os"
	"time"

	"github.com/wordify/wordify/internal/config"
	"github.com/wordify/wordify/internal/dispatch"
	apperrors "github.com/wordify/wordify/internal/errors"
	"github.com/wordify/wordify/internal/logger"
	"github.com/wordify/wordify/internal/observer"
	"github.com/wordify/wordify/internal/ocr"
	"github.com/wordify/wordify/internal/renderer"
	"github.com/wordify/wordify/internal/storage"
	"github.com/wordify/wordify/pkg/models"
)

// Request describes one extraction job.
type Request struct {
	// Source is a local path, an http(s) URL, or an Azure blob URL.
	Source string

	// SourceType forces a specific source backend; AutoSource (the zero
	// value) selects one from the reference's scheme.
	SourceType storage.SourceType

	// OutputPath, when non-empty, persists the aggregated text. A write
	// failure is recorded on the result without discarding the text.
	OutputPath string

	// Threads bounds the OCR worker pool. Zero means the configured
	// default (CPU core count); a negative value is rejected.
	Threads int
}

// Service runs extraction jobs with a fixed set of collaborators.
type Service struct {
	cfg       *config.Config
	renderer  renderer.Renderer
	engine    ocr.Engine
	publisher observer.Subject
}

// NewService creates an extraction service. The publisher may be nil.
func NewService(cfg *config.Config, rend renderer.Renderer, engine ocr.Engine, publisher observer.Subject) *Service {
	return &Service{cfg: cfg, renderer: rend, engine: engine, publisher: publisher}
}

// Extract performs the full job: fetch the source, render pages, dispatch
// OCR over the worker pool, aggregate text in page order, and optionally
// persist it. Individual page failures are reported inside the JobResult;
// only configuration, fetch, and render failures return an error.
func (s *Service) Extract(ctx context.Context, req Request) (*models.JobResult, error) {
	start := time.Now()

	threads := req.Threads
	if threads == 0 {
		threads = s.cfg.Threads
	}
	effective := *s.cfg
	effective.Threads = threads
	// Fail fast: no fetch, render, or OCR happens on bad configuration
	if err := effective.Validate(); err != nil {
		return nil, err
	}

	src, err := storage.NewSource(req.SourceType, req.Source, &effective)
	if err != nil {
		return nil, apperrors.NewFetchError("cannot resolve document source", err)
	}
	localPath, cleanup, err := src.Fetch(ctx, req.Source)
	if err != nil {
		return nil, apperrors.NewFetchError("cannot fetch document", err)
	}
	defer cleanup()

	pageDir, err := os.MkdirTemp(effective.TempDir, "wordify-pages-")
	if err != nil {
		return nil, apperrors.NewRenderError("cannot create page directory", err)
	}
	// Page images are not retained past the job
	defer os.RemoveAll(pageDir)

	pages, err := s.renderer.Render(ctx, localPath, renderer.Options{
		OutputDir: pageDir,
		Format:    effective.Format,
		DPI:       effective.DPI,
	})
	if err != nil {
		return nil, apperrors.NewRenderError("document cannot be rendered", err)
	}

	dispatcher := dispatch.NewDispatcher(s.engine, s.publisher)
	result, err := dispatcher.Run(ctx, pages, dispatch.Options{
		Threads:   threads,
		Languages: effective.Languages,
		DPI:       effective.DPI,
		Document:  req.Source,
	})
	if err != nil {
		return nil, err
	}
	result.TotalElapsed = time.Since(start)

	if s.publisher != nil {
		s.publisher.Notify(ctx, observer.JobEvent{
			Type:      observer.JobCompleted,
			Timestamp: time.Now(),
			Document:  req.Source,
			Pages:     result.PageCount(),
			Elapsed:   result.TotalElapsed,
		})
	}

	if req.OutputPath != "" {
		if err := writeOutput(req.OutputPath, result.Text); err != nil {
			// The in-memory text stays available to the caller
			result.WriteErr = apperrors.NewWriteError("cannot write output file", err)
		} else {
			result.OutputPath = req.OutputPath
		}
	}
	return result, nil
}

// ExtractText performs the full job with default collaborators and returns
// the aggregated text. When outputPath is non-empty the text is also
// persisted; a persistence failure is returned as the error while the text
// is still returned.
func ExtractText(ctx context.Context, pdfPath, outputPath string, threads int) (string, error) {
	cfg := config.LoadFromEnv()

	engine, err := ocr.NewEngine(cfg.Engine)
	if err != nil {
		return "", apperrors.NewInvalidConfigError("cannot create OCR engine", err)
	}
	defer engine.Close()

	publisher := observer.NewPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))

	rend := renderer.New(renderer.ConvertTool(cfg.RenderTool), renderer.ToolPaths{
		renderer.ConvertTool(cfg.RenderTool): cfg.ToolPath,
	})

	svc := NewService(cfg, rend, engine, publisher)
	result, err := svc.Extract(ctx, Request{
		Source:     pdfPath,
		OutputPath: outputPath,
		Threads:    threads,
	})
	if err != nil {
		return "", err
	}
	return result.Text, result.WriteErr
}

// writeOutput performs a scoped write: create, write, close on every path.
func writeOutput(path, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
