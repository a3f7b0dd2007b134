package sources

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Classified upstream failures. Every *APIError also matches ErrUpstreamUnavailable.
var (
	ErrUpstreamUnavailable = errors.New("youtube upstream unavailable")
	ErrQuotaExceeded       = errors.New("youtube quota exceeded")
	ErrRateLimited         = errors.New("youtube rate limited")
	ErrCommentsDisabled    = errors.New("comments disabled")
	ErrForbidden           = errors.New("youtube access forbidden")
	ErrNotFound            = errors.New("youtube resource not found")
	ErrBadRequest          = errors.New("youtube rejected request")
	ErrTransport           = errors.New("youtube transport failure")
)

// APIError is a classified failure of one Data API call.
type APIError struct {
	Endpoint string
	Status   int    // HTTP status, 0 for transport failures
	Reason   string // first upstream reason code, if any
	Kind     error  // one of the Err* sentinels above
	Err      error  // underlying error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("youtube %s: %s (%d %s): %v", e.Endpoint, e.Kind, e.Status, e.Reason, e.Err)
	}
	return fmt.Sprintf("youtube %s: %s: %v", e.Endpoint, e.Kind, e.Err)
}

// Unwrap lets errors.Is match the kind, the umbrella sentinel and the cause.
func (e *APIError) Unwrap() []error {
	return []error{e.Kind, ErrUpstreamUnavailable, e.Err}
}

// classify maps a Data API client error onto the sentinels. Anything that is
// not an API error response (dial failures, per-call timeouts) is ErrTransport.
func classify(endpoint string, err error) error {
	if err == nil {
		return nil
	}

	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return &APIError{Endpoint: endpoint, Kind: ErrTransport, Err: err}
	}

	reason := ""
	if len(gErr.Errors) > 0 {
		reason = gErr.Errors[0].Reason
	}
	ae := &APIError{Endpoint: endpoint, Status: gErr.Code, Reason: reason, Err: err}
	switch {
	case hasReason(gErr, "quotaExceeded", "dailyLimitExceeded"):
		ae.Kind = ErrQuotaExceeded
	case gErr.Code == http.StatusTooManyRequests || hasReason(gErr, "rateLimitExceeded", "userRateLimitExceeded"):
		ae.Kind = ErrRateLimited
	case hasReason(gErr, "commentsDisabled"):
		ae.Kind = ErrCommentsDisabled
	case gErr.Code == http.StatusForbidden:
		ae.Kind = ErrForbidden
	case gErr.Code == http.StatusNotFound:
		ae.Kind = ErrNotFound
	case gErr.Code >= 400 && gErr.Code < 500:
		ae.Kind = ErrBadRequest
	default:
		ae.Kind = ErrTransport
	}
	return ae
}

func hasReason(e *googleapi.Error, reasons ...string) bool {
	for _, item := range e.Errors {
		for _, r := range reasons {
			if item.Reason == r {
				return true
			}
		}
	}
	return false
}
