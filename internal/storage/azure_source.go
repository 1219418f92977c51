package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// azureSource downloads the input document from Azure blob storage.
type azureSource struct {
	client *azblob.Client
}

// NewAzureSource creates an Azure blob document source with shared-key
// credentials.
func NewAzureSource(accountName, accountKey string) (Source, error) {
	if accountName == "" || accountKey == "" {
		return nil, fmt.Errorf("azure source requires account name and key")
	}

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureSource{client: client}, nil
}

// Fetch downloads the blob behind ref. The reference carries the container
// in the URL path and the blob name either as the remaining path segments or
// in the "blob" query parameter.
func (s *azureSource) Fetch(ctx context.Context, ref string) (string, func(), error) {
	containerName, blobName, err := parseBlobRef(ref)
	if err != nil {
		return "", nil, err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return "", nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	return spoolToTemp(retryReader)
}

func parseBlobRef(ref string) (container, blob string, err error) {
	parsedURL, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}

	path := strings.TrimPrefix(parsedURL.Path, "/")

	// azure://container/path/to/blob
	if parsedURL.Scheme == "azure" {
		if parsedURL.Host == "" || path == "" {
			return "", "", fmt.Errorf("blob URL must name a container and a blob: %s", ref)
		}
		return parsedURL.Host, path, nil
	}

	// https://account.blob.core.windows.net/container?blob=name
	if blob = parsedURL.Query().Get("blob"); blob != "" {
		return path, blob, nil
	}

	// https://account.blob.core.windows.net/container/path/to/blob
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("blob URL must name a container and a blob: %s", ref)
	}
	return parts[0], parts[1], nil
}
