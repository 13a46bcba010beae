package api

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/selflayer/selflayer-cli/internal/logging"
)

// StreamSession is a pull-based handle on an open server-sent event
// stream. The caller drives it by calling Recv until io.EOF and may
// Cancel from another goroutine at any point.
type StreamSession struct {
	body   io.ReadCloser
	reader *bufio.Reader
	text   strings.Builder

	mu        sync.Mutex
	cancelled bool
	closed    bool
}

// NewStreamSession wraps an open response body. Normally created by
// the transport; exported so tests can drive a session from any reader.
func NewStreamSession(body io.ReadCloser) *StreamSession {
	return &StreamSession{
		body:   body,
		reader: bufio.NewReader(body),
	}
}

// streamChunk covers both shapes the ask endpoint emits:
// {"content": "..."} and {"data": {"response": "..."}}.
type streamChunk struct {
	Content string `json:"content"`
	Data    struct {
		Response string `json:"response"`
	} `json:"data"`
}

func (c streamChunk) text() string {
	if c.Content != "" {
		return c.Content
	}
	return c.Data.Response
}

// Recv returns the next text chunk of the stream. It returns io.EOF
// when the server signals completion, and a stream interruption error
// carrying the partial text if the session was cancelled or the
// connection failed mid-stream. Chunks arrive as complete SSE data
// lines, so a multi-byte character is never split across two returns.
func (s *StreamSession) Recv() (string, error) {
	for {
		if s.isCancelled() {
			return "", s.interrupted("stream cancelled")
		}

		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Server closed without [DONE]; treat as a clean end.
				s.close()
				return "", io.EOF
			}
			if s.isCancelled() {
				return "", s.interrupted("stream cancelled")
			}
			return "", s.interrupted("stream failed: " + err.Error())
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			s.close()
			return "", io.EOF
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			logging.Debug("skipping malformed stream chunk", logging.Fields{"data": data})
			continue
		}

		if text := chunk.text(); text != "" {
			s.text.WriteString(text)
			return text, nil
		}
	}
}

// Cancel stops the stream. Safe to call from a goroutine other than
// the one calling Recv; the in-flight read fails promptly because the
// underlying body is closed.
func (s *StreamSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
	if !s.closed {
		s.closed = true
		_ = s.body.Close()
	}
}

// Text returns everything received so far.
func (s *StreamSession) Text() string {
	return s.text.String()
}

// Close releases the stream without marking it cancelled.
func (s *StreamSession) Close() error {
	s.close()
	return nil
}

func (s *StreamSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		_ = s.body.Close()
	}
}

func (s *StreamSession) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *StreamSession) interrupted(message string) *APIError {
	s.close()
	return &APIError{
		Kind:    KindStreamInterrupted,
		Message: message,
		Partial: s.text.String(),
	}
}
