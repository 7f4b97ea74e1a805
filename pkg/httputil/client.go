package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Jaganpro/sf-schema-viewer/pkg/observability"
)

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 30 * time.Second

// NewClient returns an http.Client with the default timeout.
func NewClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// StatusError reports a non-2xx upstream response. The body is captured
// (truncated) for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// DoJSON performs req with retries and decodes the JSON response body
// into v (skipped when v is nil). 5xx responses and transport errors are
// retried with backoff; 4xx responses fail immediately with a
// StatusError so callers can map them to their own error codes.
func DoJSON(ctx context.Context, client *http.Client, req *http.Request, v any) error {
	if client == nil {
		client = NewClient()
	}

	return RetryWithBackoff(ctx, func() error {
		observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
		start := time.Now()

		attempt := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return err
			}
			attempt.Body = body
		}

		resp, err := client.Do(attempt)
		if err != nil {
			observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
			return Retryable(err)
		}
		defer resp.Body.Close()
		observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

		if resp.StatusCode >= 500 {
			return Retryable(&StatusError{StatusCode: resp.StatusCode, Body: readSnippet(resp.Body)})
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &StatusError{StatusCode: resp.StatusCode, Body: readSnippet(resp.Body)}
		}

		if v == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

// readSnippet reads at most 1 KiB of the body for error messages.
func readSnippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 1024))
	return string(data)
}
