package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// File is a fetched artifact: its bytes plus the content type the host
// reported (possibly empty).
type File struct {
	Data        []byte
	ContentType string
	Size        int64
}

// Fetcher resolves an uploaded-file reference to its bytes. The real one
// does a plain HTTP GET; tests substitute a stub.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*File, error)
}

type HTTPFetcher struct {
	httpClient *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create fetch request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s failed (%d)", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &File{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        int64(len(data)),
	}, nil
}
