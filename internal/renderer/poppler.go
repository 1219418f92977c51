package renderer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/wordify/wordify/internal/logger"
)

// ConvertTool defines supported PDF to image conversion tools
type ConvertTool string

const (
	// ToolPdftoppm is the poppler-utils tool
	ToolPdftoppm ConvertTool = "pdftoppm"
	// ToolMutool is the mupdf-tools tool
	ToolMutool ConvertTool = "mutool"
)

// ToolPaths contains custom executable paths for conversion tools
type ToolPaths map[ConvertTool]string

// CommandRenderer implements Renderer by shelling out to an external
// conversion tool. Page counting and document validation go through pdfcpu
// so a corrupt file is rejected before any subprocess is spawned.
type CommandRenderer struct {
	tool      ConvertTool
	toolPaths ToolPaths
}

// New creates a command-backed renderer with optional custom tool paths.
func New(tool ConvertTool, customPaths ToolPaths) *CommandRenderer {
	if tool == "" {
		tool = ToolPdftoppm
	}
	paths := ToolPaths{
		ToolPdftoppm: "pdftoppm",
		ToolMutool:   "mutool",
	}
	for t, p := range customPaths {
		if p != "" {
			paths[t] = p
		}
	}
	return &CommandRenderer{tool: tool, toolPaths: paths}
}

// IsAvailable checks whether the configured tool can be found on PATH.
func (r *CommandRenderer) IsAvailable() bool {
	_, err := exec.LookPath(r.toolPaths[r.tool])
	return err == nil
}

// PageCount reads the document page count using pdfcpu.
func (r *CommandRenderer) PageCount(ctx context.Context, pdfPath string) (int, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return 0, fmt.Errorf("stat document: %w", err)
	}
	if ext := strings.ToLower(filepath.Ext(pdfPath)); ext != "" && ext != ".pdf" {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	count, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return count, nil
}

// Render rasterizes every page of the document into opts.OutputDir.
func (r *CommandRenderer) Render(ctx context.Context, pdfPath string, opts Options) ([]PageImage, error) {
	applyDefaults(&opts)

	pageCount, err := r.PageCount(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	if pageCount == 0 {
		return []PageImage{}, nil
	}

	if !r.IsAvailable() {
		return nil, fmt.Errorf("%w: %s", ErrMissingTool, r.toolPaths[r.tool])
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"document": pdfPath,
		"pages":    pageCount,
		"tool":     string(r.tool),
		"dpi":      opts.DPI,
	}).Debug("Rendering document")

	switch r.tool {
	case ToolPdftoppm:
		err = r.convertWithPdftoppm(ctx, pdfPath, opts)
	case ToolMutool:
		err = r.convertWithMutool(ctx, pdfPath, opts)
	default:
		return nil, fmt.Errorf("unsupported conversion tool: %s", r.tool)
	}
	if err != nil {
		return nil, err
	}

	return collectPages(opts, pageCount)
}

func (r *CommandRenderer) convertWithPdftoppm(ctx context.Context, pdfPath string, opts Options) error {
	var formatFlag string
	switch opts.Format {
	case "jpg", "jpeg":
		formatFlag = "-jpeg"
	case "tiff":
		formatFlag = "-tiff"
	default:
		formatFlag = "-png"
	}

	outputPrefix := filepath.Join(opts.OutputDir, opts.OutputPrefix)
	args := []string{
		formatFlag,
		"-r", strconv.Itoa(opts.DPI),
		pdfPath,
		outputPrefix,
	}

	cmd := exec.CommandContext(ctx, r.toolPaths[ToolPdftoppm], args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pdftoppm failed: %w, output: %s", err, string(output))
	}
	return nil
}

func (r *CommandRenderer) convertWithMutool(ctx context.Context, pdfPath string, opts Options) error {
	outputPrefix := filepath.Join(opts.OutputDir, opts.OutputPrefix)
	args := []string{
		"convert",
		"-F", opts.Format,
		"-O", fmt.Sprintf("resolution=%d", opts.DPI),
		"-o", outputPrefix + "-%d." + opts.Format,
		pdfPath,
	}

	cmd := exec.CommandContext(ctx, r.toolPaths[ToolMutool], args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mutool failed: %w, output: %s", err, string(output))
	}
	return nil
}

func applyDefaults(opts *Options) {
	if opts.OutputPrefix == "" {
		opts.OutputPrefix = "page"
	}
	if opts.Format == "" {
		opts.Format = "png"
	}
	if opts.DPI <= 0 {
		opts.DPI = 300
	}
}

// collectPages globs the rendered files and maps them onto 0-based page
// indices. Tools number output files with varying zero padding, so files are
// matched by their trailing page number rather than a constructed name.
func collectPages(opts Options, pageCount int) ([]PageImage, error) {
	pattern := filepath.Join(opts.OutputDir, opts.OutputPrefix+"-*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob rendered pages: %w", err)
	}

	byPage := make(map[int]string, len(matches))
	for _, m := range matches {
		n, ok := trailingPageNumber(m)
		if !ok {
			continue
		}
		byPage[n] = m
	}

	pages := make([]PageImage, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		path, ok := byPage[i]
		if !ok {
			return nil, fmt.Errorf("%w: page %d missing from tool output", ErrCorruptDocument, i)
		}
		pages = append(pages, PageImage{Index: i - 1, Path: path})
	}
	return pages, nil
}

// trailingPageNumber extracts the 1-based page number from a rendered file
// name such as "page-03.png" or "page-3.jpg".
func trailingPageNumber(path string) (int, bool) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	idx := strings.LastIndex(base, "-")
	if idx < 0 || idx == len(base)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
