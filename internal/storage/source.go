package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wordify/wordify/internal/config"
)

// SourceType represents different kinds of input-document backends
type SourceType string

const (
	// LocalSource for documents on the local file system
	LocalSource SourceType = "local"
	// HTTPSource for documents fetched over http(s)
	HTTPSource SourceType = "http"
	// AzureSource for documents in Azure blob storage
	AzureSource SourceType = "azure"
	// AutoSource selects a backend from the reference's scheme
	AutoSource SourceType = "auto"
)

// Source fetches the input document to a local file so the renderer can
// operate on it. Fetch failures are fatal to the job, like render failures.
type Source interface {
	// Fetch resolves ref to a local path. The returned cleanup func
	// removes any temporary copy and is safe to call exactly once.
	Fetch(ctx context.Context, ref string) (localPath string, cleanup func(), err error)
}

// NewSource creates a document source of the given type.
func NewSource(sourceType SourceType, ref string, cfg *config.Config) (Source, error) {
	if sourceType == AutoSource || sourceType == "" {
		sourceType = detectType(ref)
	}
	switch sourceType {
	case LocalSource:
		return NewLocalSource(), nil
	case HTTPSource:
		return NewHTTPSource(cfg.FetchTimeout), nil
	case AzureSource:
		return NewAzureSource(cfg.AzureAccount, cfg.AzureKey)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

// detectType picks a backend from the reference's URL scheme. Anything that
// does not parse as a remote URL is treated as a local path.
func detectType(ref string) SourceType {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" {
		return LocalSource
	}
	switch u.Scheme {
	case "http", "https":
		if strings.HasSuffix(u.Hostname(), ".blob.core.windows.net") {
			return AzureSource
		}
		return HTTPSource
	case "azure":
		return AzureSource
	default:
		return LocalSource
	}
}
