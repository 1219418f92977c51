package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// httpSource downloads the input document over http(s) into a temp file.
type httpSource struct {
	client *http.Client
}

// NewHTTPSource creates an HTTP document source with a tuned transport.
func NewHTTPSource(timeout time.Duration) Source {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &httpSource{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

func (h *httpSource) Fetch(ctx context.Context, ref string) (string, func(), error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "application/pdf, */*")
	req.Header.Set("User-Agent", "wordify/1.0")

	// 3 attempts, transient failures only; 4xx responses are not retried
	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				resp = nil
				break
			}
			resp = nil
		}

		if attempt < 2 {
			select {
			case <-time.After(time.Duration(attempt+1) * time.Second):
			case <-ctx.Done():
				return "", nil, ctx.Err()
			}
		}
	}
	if resp == nil {
		return "", nil, fmt.Errorf("failed to fetch document after 3 attempts: %w", lastErr)
	}
	defer resp.Body.Close()

	return spoolToTemp(resp.Body)
}

// spoolToTemp copies the remote document into a temp file and returns its
// path plus a cleanup func that removes it.
func spoolToTemp(r io.Reader) (string, func(), error) {
	tmp, err := os.CreateTemp("", "wordify-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("download document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}
