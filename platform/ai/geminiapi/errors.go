package geminiapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"videosummary_backend/platform/apperr"
)

// apiError is the error payload returned by the Gemini REST API.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (e *apiError) text() string {
	if e == nil || e.Message == "" {
		return "backend returned an error without detail"
	}
	return e.Message
}

// classifyStatus maps a Gemini HTTP status to the local error taxonomy.
// 401/403 mean the credential was rejected; 429 and 5xx are retryable by the
// caller; everything else is surfaced as an unknown backend failure.
func classifyStatus(status int, apiErr *apiError) *apperr.Error {
	message := apiErr.text()

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.Authentication("backend rejected the API key: " + message)
	case http.StatusBadRequest:
		if apiErr != nil && apiErr.Status == "INVALID_ARGUMENT" {
			// An invalid key also surfaces as INVALID_ARGUMENT on this API.
			if containsFold(message, "api key") {
				return apperr.Authentication("backend rejected the API key: " + message)
			}
			if containsFold(message, "mime") || containsFold(message, "unsupported") {
				return apperr.UnsupportedFormat("backend rejected the media format: " + message)
			}
		}
		return apperr.UnknownBackend("backend rejected the request: " + message)
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return apperr.TransientBackend(fmt.Sprintf("backend temporarily unavailable (%d): %s", status, message))
	default:
		return apperr.UnknownBackend(fmt.Sprintf("backend request failed (%d): %s", status, message))
	}
}

// classifyTransport maps transport-level failures (DNS, connect, timeout) to
// the transient category so callers may retry.
func classifyTransport(err error) *apperr.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindTransientBackend, "backend call timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.Wrap(apperr.KindTransientBackend, "backend call timed out", err)
	}
	return apperr.Wrap(apperr.KindTransientBackend, "backend unreachable", err)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
