package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxDownloadSize caps the dataset download.
const maxDownloadSize = 256 << 20

// HTTPSource downloads the dataset from a URL. The response may be the CSV
// itself or a ZIP archive containing it.
type HTTPSource struct {
	url        string
	token      string
	httpClient *http.Client
}

func NewHTTPSource(url, token string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPSource{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPSource) Location() string {
	return s.url
}

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.Header.Set("Accept", "text/csv, application/zip, */*")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset download failed: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxDownloadSize {
		return nil, fmt.Errorf("dataset exceeds %d bytes", maxDownloadSize)
	}

	slog.Debug("dataset downloaded", "url", s.url, "size", len(body))

	if isZip(body) {
		return extractCSV(body)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func isZip(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

// extractCSV returns the first .csv entry of a ZIP archive.
func extractCSV(zipData []byte) (io.ReadCloser, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(zipData), int64(len(zipData)))
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP: %w", err)
	}

	for _, file := range zipReader.File {
		if file.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(file.Name), ".csv") {
			continue
		}
		// macOS archives carry resource forks next to the real file.
		if strings.HasPrefix(file.Name, "__MACOSX/") {
			continue
		}

		slog.Debug("found dataset in archive", "file", file.Name)

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
		}
		return rc, nil
	}

	return nil, fmt.Errorf("no CSV file found in ZIP")
}
