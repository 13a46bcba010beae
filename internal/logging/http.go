package logging

import (
	"net/http"
	"strings"
	"time"
)

// RoundTripperWrapper wraps an http.RoundTripper and logs every request
// and response at debug level. Bodies are never logged; knowledge-base
// content is user data and API keys ride in headers.
type RoundTripperWrapper struct {
	wrapped http.RoundTripper
	logger  *Logger
}

// NewLoggingRoundTripper creates a new logging round tripper
func NewLoggingRoundTripper(wrapped http.RoundTripper, logger *Logger) *RoundTripperWrapper {
	if wrapped == nil {
		wrapped = http.DefaultTransport
	}
	if logger == nil {
		logger = DefaultLogger
	}
	return &RoundTripperWrapper{
		wrapped: wrapped,
		logger:  logger,
	}
}

// RoundTrip implements http.RoundTripper
func (rt *RoundTripperWrapper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	rt.logger.Debug("HTTP request", Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": redactHeaders(req.Header),
	})

	resp, err := rt.wrapped.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		rt.logger.Error("HTTP request failed", err, Fields{
			"method":      req.Method,
			"url":         req.URL.String(),
			"duration_ms": duration.Milliseconds(),
		})
		return nil, err
	}

	rt.logger.Debug("HTTP response", Fields{
		"status":      resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
		"streaming":   isStreamingResponse(resp),
	})

	return resp, nil
}

// redactHeaders returns a loggable copy of the headers with credentials masked.
func redactHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for k, v := range h {
		if isSensitiveHeader(k) {
			headers[k] = "[REDACTED]"
		} else if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return headers
}

// isSensitiveHeader checks if a header should be redacted
func isSensitiveHeader(name string) bool {
	sensitive := []string{
		"authorization",
		"api-key",
		"x-api-key",
		"x-auth-token",
		"cookie",
		"set-cookie",
	}
	nameLower := strings.ToLower(name)
	for _, s := range sensitive {
		if nameLower == s {
			return true
		}
	}
	return false
}

// isStreamingResponse checks if response is a streaming response
func isStreamingResponse(resp *http.Response) bool {
	contentType := resp.Header.Get("Content-Type")
	return strings.Contains(contentType, "text/event-stream") ||
		strings.Contains(contentType, "application/x-ndjson")
}
