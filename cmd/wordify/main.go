package main

import (
	"os"

	apperrors "github.com/wordify/wordify/internal/errors"
	"github.com/wordify/wordify/internal/logger"
)

func main() {
	cli := NewCLI()
	if err := cli.Run(os.Args[1:]); err != nil {
		logger.WithError(err).Error("Extraction failed")
		os.Exit(apperrors.ExitCode(err))
	}
}
