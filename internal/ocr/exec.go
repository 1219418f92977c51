package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ExecEngine shells out to the tesseract command-line tool. Useful where the
// C library bindings are unavailable but the binary is installed.
type ExecEngine struct {
	binPath string
}

// NewExecEngine creates an exec-based engine. If binPath is empty,
// "tesseract" is resolved from PATH.
func NewExecEngine(binPath string) *ExecEngine {
	if binPath == "" {
		binPath = "tesseract"
	}
	return &ExecEngine{binPath: binPath}
}

// Name returns the engine identifier.
func (e *ExecEngine) Name() string { return "tesseract" }

// Recognize runs `tesseract <image> stdout` and returns the captured text.
func (e *ExecEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	args := []string{in.ImagePath, "stdout"}
	if len(in.Languages) > 0 {
		args = append(args, "-l", strings.Join(in.Languages, "+"))
	}
	if in.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(in.DPI))
	}

	cmd := exec.CommandContext(ctx, e.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("tesseract failed for page %d: %w: %s",
			in.Page, err, strings.TrimSpace(stderr.String()))
	}
	return Result{Page: in.Page, Text: strings.TrimSpace(stdout.String())}, nil
}

// Close is a no-op for the exec engine.
func (e *ExecEngine) Close() error { return nil }
