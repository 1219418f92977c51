package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/wordify/wordify/internal/errors"
)

// Supported image formats for rendered pages.
var supportedFormats = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"tiff": true,
}

// Config holds the recognized options for one extraction job.
type Config struct {
	// Threads bounds the OCR worker pool. Defaults to the number of
	// available CPU cores; an explicit zero or negative value is rejected.
	Threads int

	// DPI is the rendering resolution passed to the PDF renderer.
	DPI int

	// Format is the rendered page image format (png, jpg, tiff).
	Format string

	// Languages are trained-data hints for the OCR engine.
	Languages []string

	// Engine selects the OCR engine implementation (gosseract, exec).
	Engine string

	// RenderTool selects the external conversion tool (pdftoppm, mutool).
	RenderTool string

	// ToolPath overrides the executable path for the render tool.
	ToolPath string

	// TempDir is the parent directory for per-job page image directories.
	// Empty means the OS default.
	TempDir string

	// FetchTimeout bounds remote input downloads (http/azure sources).
	FetchTimeout time.Duration

	// Azure shared-key credentials for azure:// input sources.
	AzureAccount string
	AzureKey     string
}

// LoadFromEnv builds a Config from environment variables with computed
// defaults. Flag values layered on top by the CLI override these.
func LoadFromEnv() *Config {
	return &Config{
		Threads:      parseIntOrDefault("WORDIFY_THREADS", runtime.NumCPU()),
		DPI:          parseIntOrDefault("WORDIFY_DPI", 300),
		Format:       getEnvOrDefault("WORDIFY_FORMAT", "png"),
		Languages:    splitList(getEnvOrDefault("WORDIFY_LANGUAGES", "eng")),
		Engine:       getEnvOrDefault("WORDIFY_ENGINE", "gosseract"),
		RenderTool:   getEnvOrDefault("WORDIFY_RENDER_TOOL", "pdftoppm"),
		ToolPath:     os.Getenv("WORDIFY_RENDER_TOOL_PATH"),
		TempDir:      os.Getenv("WORDIFY_TEMP_DIR"),
		FetchTimeout: parseDurationOrDefault("WORDIFY_FETCH_TIMEOUT", 30*time.Second),
		AzureAccount: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureKey:     os.Getenv("AZURE_STORAGE_KEY"),
	}
}

// Validate rejects unusable option combinations before any work starts.
func (c *Config) Validate() error {
	if c.Threads <= 0 {
		return apperrors.NewInvalidConfigError(
			fmt.Sprintf("thread count must be positive (got %d)", c.Threads), nil)
	}
	if c.DPI <= 0 {
		return apperrors.NewInvalidConfigError(
			fmt.Sprintf("dpi must be positive (got %d)", c.DPI), nil)
	}
	if !supportedFormats[strings.ToLower(c.Format)] {
		return apperrors.NewInvalidConfigError(
			fmt.Sprintf("unsupported image format %q", c.Format), nil)
	}
	if len(c.Languages) == 0 {
		return apperrors.NewInvalidConfigError("at least one OCR language is required", nil)
	}
	if c.FetchTimeout <= 0 {
		return apperrors.NewInvalidConfigError(
			fmt.Sprintf("fetch timeout must be positive (got %s)", c.FetchTimeout), nil)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
