package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrAudioUnavailable marks a download failure that retrying cannot fix:
// the server answered with a 4xx status (bad URL, expired link, forbidden).
// Network errors and 5xx responses stay unwrapped and count as transient.
var ErrAudioUnavailable = errors.New("audio unavailable")

// maxAudioBytes caps downloads at 100 MiB. The transcription API rejects
// larger files anyway.
const maxAudioBytes = 100 << 20

// Downloader fetches audio payloads by URL.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// HTTPDownloader fetches audio over HTTP.
type HTTPDownloader struct {
	httpClient *http.Client
}

var _ Downloader = (*HTTPDownloader)(nil)

// NewHTTPDownloader creates a downloader with a 2-minute per-file timeout.
func NewHTTPDownloader() *HTTPDownloader {
	return &HTTPDownloader{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Download fetches the audio payload at url. A 4xx response returns an error
// wrapping ErrAudioUnavailable; everything else is reported as-is so callers
// can treat it as transient.
func (d *HTTPDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url %q: %v", ErrAudioUnavailable, url, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, fmt.Errorf("%w: status %d from %s", ErrAudioUnavailable, resp.StatusCode, url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download audio: status %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read audio body: %w", err)
	}
	if len(data) > maxAudioBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrAudioUnavailable, maxAudioBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty audio payload", ErrAudioUnavailable)
	}

	return data, nil
}
