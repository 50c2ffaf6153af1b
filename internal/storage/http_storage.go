package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "go-image-quality/internal/errors"
)

const maxFetchAttempts = 3

// HTTPStorage downloads images over HTTP(S) with retries on transient errors
type HTTPStorage struct {
	client   *http.Client
	maxBytes int64
	backoff  time.Duration
}

// HTTPOption configures an HTTPStorage
type HTTPOption func(*HTTPStorage)

// WithMaxBytes caps the size of a downloaded image
func WithMaxBytes(n int64) HTTPOption {
	return func(s *HTTPStorage) { s.maxBytes = n }
}

// WithBackoff sets the base delay between attempts. Attempt n waits n times
// the base.
func WithBackoff(d time.Duration) HTTPOption {
	return func(s *HTTPStorage) { s.backoff = d }
}

// NewHTTPStorage creates an HTTP image source
func NewHTTPStorage(timeout time.Duration, opts ...HTTPOption) *HTTPStorage {
	transport := &http.Transport{
		MaxIdleConns:           10,
		MaxIdleConnsPerHost:    2,
		IdleConnTimeout:        30 * time.Second,
		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
		MaxResponseHeaderBytes: 4096,
	}

	s := &HTTPStorage{
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
		backoff: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source name
func (s *HTTPStorage) Name() string { return "http" }

// Fetch downloads ref into a temporary file that keeps the URL's extension
func (s *HTTPStorage) Fetch(ctx context.Context, ref string) (*LocalImage, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid URL", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		img, retry, err := s.fetchOnce(ctx, ref, u.Path)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if !retry || attempt == maxFetchAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, contextError(ctx.Err())
		case <-time.After(time.Duration(attempt+1) * s.backoff):
		}
	}

	if ctx.Err() != nil {
		return nil, contextError(ctx.Err())
	}
	var appErr *apperrors.AppError
	if errors.As(lastErr, &appErr) {
		return nil, lastErr
	}
	return nil, apperrors.NewNetworkError(fmt.Sprintf("failed to fetch image after %d attempts", maxFetchAttempts), lastErr)
}

// fetchOnce performs one request. retry reports whether a failure is
// transient.
func (s *HTTPStorage) fetchOnce(ctx context.Context, ref, urlPath string) (img *LocalImage, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, false, apperrors.NewValidationError("invalid URL", err)
	}
	req.Header.Set("Accept", "image/*, */*")
	req.Header.Set("User-Agent", "go-image-quality/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, apperrors.NewNotFoundError("remote image not found",
			fmt.Errorf("client error: status code %d", resp.StatusCode))
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	img, err = NewTempImage(resp.Body, urlPath, ref, s.maxBytes)
	if errors.Is(err, ErrTooLarge) {
		return nil, false, apperrors.NewValidationError(fmt.Sprintf("image larger than %d bytes", s.maxBytes), err)
	}
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	return img, false, nil
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("image download timed out", err)
	}
	return apperrors.NewNetworkError("image download cancelled", err)
}
