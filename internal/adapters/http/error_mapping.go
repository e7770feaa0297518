package httpadapter

import (
	"errors"
	"net/http"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/firecrawl"
)

func mapErrorToHTTPStatus(err error) int {
	var statusErr *firecrawl.HTTPStatusError
	if errors.As(err, &statusErr) {
		// Relay provider failures verbatim so 402/429 stay diagnosable.
		return statusErr.StatusCode
	}

	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrProjectNotFound),
		domain.IsKind(err, domain.ErrTenderNotFound),
		domain.IsKind(err, domain.ErrConfigNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrConflict):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrNotConfigured):
		return http.StatusInternalServerError
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// rootMessage digs out the innermost error so clients see "URL is required"
// rather than the whole operation/kind wrap chain. Multi-wrapped errors keep
// the last branch, which carries the detail.
func rootMessage(err error) string {
	for {
		switch unwrapped := err.(type) {
		case interface{ Unwrap() error }:
			inner := unwrapped.Unwrap()
			if inner == nil {
				return err.Error()
			}
			err = inner
		case interface{ Unwrap() []error }:
			inners := unwrapped.Unwrap()
			if len(inners) == 0 {
				return err.Error()
			}
			err = inners[len(inners)-1]
		default:
			return err.Error()
		}
	}
}
