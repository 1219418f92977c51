package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wordify/wordify/internal/config"
	apperrors "github.com/wordify/wordify/internal/errors"
	"github.com/wordify/wordify/internal/logger"
	"github.com/wordify/wordify/internal/observer"
	"github.com/wordify/wordify/internal/ocr"
	"github.com/wordify/wordify/internal/renderer"
	"github.com/wordify/wordify/internal/storage"
	"github.com/wordify/wordify/pkg/extract"
	"github.com/wordify/wordify/pkg/validation"
)

// CLI holds the parsed command-line options for one invocation.
type CLI struct {
	output     string
	threads    int
	dpi        int
	format     string
	languages  string
	engine     string
	renderTool string
	source     string
	expected   string
}

// NewCLI creates a CLI with zero-value options; real defaults come from the
// environment-driven config so flags can be layered on top.
func NewCLI() *CLI {
	return &CLI{}
}

// Run parses args and executes the extraction job.
func (c *CLI) Run(args []string) error {
	fs := flag.NewFlagSet("wordify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: wordify [flags] <pdf_path>\n\nExtract text from a PDF using OCR.\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&c.output, "output", "", "Path to save the extracted text")
	fs.StringVar(&c.output, "o", "", "Shorthand for --output")
	fs.IntVar(&c.threads, "threads", 0, "Number of OCR workers (default: CPU core count)")
	fs.IntVar(&c.threads, "t", 0, "Shorthand for --threads")
	fs.IntVar(&c.dpi, "dpi", 0, "Rendering resolution (default 300)")
	fs.StringVar(&c.format, "format", "", "Page image format: png, jpg, tiff (default png)")
	fs.StringVar(&c.languages, "lang", "", "Comma-separated OCR languages (default eng)")
	fs.StringVar(&c.engine, "engine", "", "OCR engine: gosseract, exec (default gosseract)")
	fs.StringVar(&c.renderTool, "render-tool", "", "Conversion tool: pdftoppm, mutool (default pdftoppm)")
	fs.StringVar(&c.source, "source", "auto", "Document source: auto, local, http, azure")
	fs.StringVar(&c.expected, "expected", "", "Reference text file for an accuracy report")

	if err := fs.Parse(args); err != nil {
		return apperrors.NewInvalidConfigError("invalid arguments", err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return apperrors.NewInvalidConfigError("exactly one pdf path is required", nil)
	}
	pdfPath := fs.Arg(0)

	threadsSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "threads" || f.Name == "t" {
			threadsSet = true
		}
	})
	// An explicitly requested non-positive worker count is rejected before
	// any rendering or OCR is attempted
	if threadsSet && c.threads <= 0 {
		return apperrors.NewInvalidConfigError(
			fmt.Sprintf("thread count must be positive (got %d)", c.threads), nil)
	}

	cfg := c.buildConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	engine, err := ocr.NewEngine(cfg.Engine)
	if err != nil {
		return apperrors.NewInvalidConfigError("cannot create OCR engine", err)
	}
	defer engine.Close()

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	rend := renderer.New(renderer.ConvertTool(cfg.RenderTool), renderer.ToolPaths{
		renderer.ConvertTool(cfg.RenderTool): cfg.ToolPath,
	})

	svc := extract.NewService(cfg, rend, engine, publisher)
	result, err := svc.Extract(context.Background(), extract.Request{
		Source:     pdfPath,
		SourceType: storage.SourceType(c.source),
		OutputPath: c.output,
		Threads:    c.threads,
	})
	if err != nil {
		return err
	}

	summary := result.Summarize()
	logger.WithFields(logrus.Fields{
		"pages":        summary.Pages,
		"succeeded":    summary.Succeeded,
		"failed":       summary.Failed,
		"total_time":   result.TotalElapsed.String(),
		"mean_latency": summary.MeanLatency.String(),
	}).Info("Processing complete")
	logger.WithFields(metrics.Metrics()).Debug("Worker metrics")

	for _, idx := range result.FailedPages() {
		logger.WithFields(logrus.Fields{
			"page":  idx,
			"error": result.Pages[idx].Error,
		}).Warn("Page produced no text")
	}

	if c.expected != "" {
		if err := c.reportAccuracy(result.Text); err != nil {
			return err
		}
	}

	switch {
	case result.WriteErr != nil:
		// Salvage the computed text before reporting the failure
		fmt.Println(result.Text)
		return result.WriteErr
	case result.OutputPath != "":
		logger.WithField("path", result.OutputPath).Info("Extracted text saved")
	default:
		fmt.Println(result.Text)
	}
	return nil
}

// buildConfig layers explicit flags over the environment-driven defaults.
func (c *CLI) buildConfig() *config.Config {
	cfg := config.LoadFromEnv()
	if c.dpi > 0 {
		cfg.DPI = c.dpi
	}
	if c.format != "" {
		cfg.Format = c.format
	}
	if c.languages != "" {
		cfg.Languages = splitLanguages(c.languages)
	}
	if c.engine != "" {
		cfg.Engine = c.engine
	}
	if c.renderTool != "" {
		cfg.RenderTool = c.renderTool
	}
	return cfg
}

func (c *CLI) reportAccuracy(actual string) error {
	expected, err := os.ReadFile(c.expected)
	if err != nil {
		return apperrors.NewInvalidConfigError("cannot read expected text file", err)
	}
	acc := validation.Compare(string(expected), actual)
	logger.WithFields(logrus.Fields{
		"word_error_rate": fmt.Sprintf("%.3f", acc.WER),
		"char_error_rate": fmt.Sprintf("%.3f", acc.CER),
		"match_score":     fmt.Sprintf("%.1f", acc.MatchScore),
	}).Info("Accuracy report")
	return nil
}

func splitLanguages(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
