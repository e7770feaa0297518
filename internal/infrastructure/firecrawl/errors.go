package firecrawl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/resilience"
)

// HTTPStatusError carries the upstream status so the HTTP adapter can relay
// provider failures verbatim instead of flattening them to 502.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("firecrawl %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("firecrawl %s: status %d", e.Operation, e.StatusCode)
}

func newHTTPStatusError(operation string, resp *http.Response) *HTTPStatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	message := strings.TrimSpace(string(raw))
	var wire struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &wire); err == nil && wire.Error != "" {
		message = wire.Error
	}
	return &HTTPStatusError{Operation: operation, StatusCode: resp.StatusCode, Message: message}
}

// ClassifyProviderError marks timeouts, throttling and upstream 5xx as
// retryable; client errors fail fast and stay out of the breaker stats.
func ClassifyProviderError(err error) resilience.Classification {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= 500:
			return resilience.Classification{Retryable: true, RecordFailure: true}
		default:
			return resilience.Classification{Retryable: false, RecordFailure: false}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Classification{Retryable: true, RecordFailure: true}
	}
	return resilience.Classification{Retryable: false, RecordFailure: true}
}
