package api

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Kind classifies an API failure so callers can decide between retrying,
// re-prompting the user, or refreshing stale state.
type Kind int

const (
	// KindAuth means the credential is missing, invalid, or lacks permission.
	// Fatal to the operation, never retried.
	KindAuth Kind = iota
	// KindValidation means the request was malformed (bad user arguments).
	KindValidation
	// KindNotFound means the referenced resource no longer exists.
	KindNotFound
	// KindRateLimited means the server returned 429.
	KindRateLimited
	// KindTimeout means the per-call deadline elapsed.
	KindTimeout
	// KindTransport means a network-level failure (connection reset, DNS, ...).
	KindTransport
	// KindServer means an unmapped 5xx from the service.
	KindServer
	// KindParse means the response body did not match the expected schema.
	KindParse
	// KindStreamInterrupted means a stream failed or was cancelled after
	// delivering partial content; the accumulated text rides on the error.
	KindStreamInterrupted
)

// String returns the string representation of the error kind
func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindParse:
		return "parse"
	case KindStreamInterrupted:
		return "stream_interrupted"
	default:
		return "unknown"
	}
}

// APIError is the error type produced by the transport and client layers.
// StatusCode is zero when the failure happened before an HTTP response
// (missing credential, timeout, connection error). Partial holds the
// accumulated text for stream interruptions.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Partial    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Retryable reports whether the retry policy may re-attempt the call.
func (e *APIError) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindTimeout, KindTransport, KindServer:
		return true
	default:
		return false
	}
}

// AsAPIError unwraps err into an *APIError if possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

// classifyStatus maps an HTTP status code to an error kind.
func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServer
	default:
		// Remaining 4xx (400, 422, ...) are malformed requests.
		return KindValidation
	}
}

// classifyTransportError maps a request-level failure (no HTTP response)
// to an error kind. Deadline expiry counts as a timeout; everything else
// is a transport failure.
func classifyTransportError(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindTransport
}
