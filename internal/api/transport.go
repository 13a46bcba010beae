package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/selflayer/selflayer-cli/internal/config"
	"github.com/selflayer/selflayer-cli/internal/constants"
	"github.com/selflayer/selflayer-cli/internal/logging"
)

// CredentialFunc supplies the API key for each request. Returning an
// empty string fails the request before any I/O happens.
type CredentialFunc func() string

// Transport issues single HTTP requests against the SelfLayer API.
// It knows nothing about retries or caching; those wrap around it.
type Transport struct {
	httpClient   *http.Client
	streamClient *http.Client
	baseURL      string
	credential   CredentialFunc
	sessionID    string
	logger       *logging.Logger
}

// NewTransport creates a Transport from the given configuration.
func NewTransport(cfg *config.Config, credential CredentialFunc, logger *logging.Logger) *Transport {
	if logger == nil {
		logger = logging.DefaultLogger
	}

	rt := logging.NewLoggingRoundTripper(http.DefaultTransport, logger)

	return &Transport{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: rt,
		},
		// Streaming responses arrive token by token; the stream client
		// gets a longer deadline covering the whole body.
		streamClient: &http.Client{
			Timeout:   cfg.StreamTimeout,
			Transport: rt,
		},
		baseURL:    cfg.BaseURL,
		credential: credential,
		sessionID:  uuid.NewString(),
		logger:     logger,
	}
}

// SessionID returns the identifier sent with every request of this
// process, used by the server to group a conversation.
func (t *Transport) SessionID() string {
	return t.sessionID
}

// Do issues a buffered request for op and returns the raw response
// body. body, when non-nil, is JSON-encoded as the request payload.
func (t *Transport) Do(ctx context.Context, op Operation, params Params, body interface{}) ([]byte, error) {
	req, err := t.newRequest(ctx, op, params, body)
	if err != nil {
		return nil, err
	}
	return t.send(req)
}

// DoMultipart issues a multipart/form-data request for op, attaching
// content as a file part named "file" alongside the given form fields.
func (t *Transport) DoMultipart(ctx context.Context, op Operation, params Params, fields map[string]string, fileName string, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, &APIError{
				Kind:    KindValidation,
				Message: fmt.Sprintf("failed to encode request: %v", err),
			}
		}
	}
	part, err := w.CreateFormFile("file", fileName)
	if err == nil {
		_, err = part.Write(content)
	}
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		return nil, &APIError{
			Kind:    KindValidation,
			Message: fmt.Sprintf("failed to encode request: %v", err),
		}
	}

	req, err := t.newRawRequest(ctx, op, params, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return t.send(req)
}

// send issues req on the buffered client and returns the response body,
// converting non-2xx statuses and I/O failures into APIErrors.
func (t *Transport) send(req *http.Request) ([]byte, error) {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Kind:    classifyTransportError(err),
			Message: fmt.Sprintf("request failed: %v", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Kind:    classifyTransportError(err),
			Message: fmt.Sprintf("failed to read response: %v", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, payload)
	}

	return payload, nil
}

// OpenStream issues a streaming request for op and hands the open
// response body to a StreamSession. The caller owns the session and
// must drain or cancel it.
func (t *Transport) OpenStream(ctx context.Context, op Operation, params Params, body interface{}) (*StreamSession, error) {
	req, err := t.newRequest(ctx, op, params, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := t.streamClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Kind:    classifyTransportError(err),
			Message: fmt.Sprintf("request failed: %v", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, statusError(resp.StatusCode, payload)
	}

	return NewStreamSession(resp.Body), nil
}

func (t *Transport) newRequest(ctx context.Context, op Operation, params Params, body interface{}) (*http.Request, error) {
	var reqBody io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{
				Kind:    KindValidation,
				Message: fmt.Sprintf("failed to encode request: %v", err),
			}
		}
		reqBody = bytes.NewReader(data)
		contentType = "application/json"
	}
	return t.newRawRequest(ctx, op, params, reqBody, contentType)
}

func (t *Transport) newRawRequest(ctx context.Context, op Operation, params Params, body io.Reader, contentType string) (*http.Request, error) {
	key := t.credential()
	if key == "" {
		return nil, &APIError{
			Kind:    KindAuth,
			Message: "no API key configured. Set SELFLAYER_API_KEY or run /key",
		}
	}

	url := t.baseURL + op.path(params)
	if query := op.queryParams(params); len(query) > 0 {
		url += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, url, body)
	if err != nil {
		return nil, &APIError{
			Kind:    KindValidation,
			Message: fmt.Sprintf("failed to build request: %v", err),
		}
	}

	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("User-Agent", constants.UserAgent)
	req.Header.Set("X-Session-ID", t.sessionID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

// statusError converts a non-2xx response into an APIError, extracting
// the server's message when the body carries one.
func statusError(status int, payload []byte) *APIError {
	message := fmt.Sprintf("API request failed with status %d", status)

	var detail struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &detail); err == nil {
		switch {
		case detail.Detail != "":
			message = detail.Detail
		case detail.Message != "":
			message = detail.Message
		case detail.Error != "":
			message = detail.Error
		}
	}

	return &APIError{
		Kind:       classifyStatus(status),
		StatusCode: status,
		Message:    message,
	}
}
