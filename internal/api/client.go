package api

import (
	"context"
	"strconv"
	"sync"

	"github.com/selflayer/selflayer-cli/internal/cache"
	"github.com/selflayer/selflayer-cli/internal/config"
	"github.com/selflayer/selflayer-cli/internal/constants"
	"github.com/selflayer/selflayer-cli/internal/logging"
	"github.com/selflayer/selflayer-cli/internal/models"
)

// Client is the typed SelfLayer API client. Read-only calls go through
// the result cache, every call goes through the retry policy, and
// mutations invalidate the cache entries they make stale.
type Client struct {
	transport *Transport
	cache     *cache.Cache
	cfg       *config.Config
	logger    *logging.Logger

	mu           sync.Mutex
	activeStream *StreamSession
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg *config.Config, credential CredentialFunc, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Client{
		transport: NewTransport(cfg, credential, logger),
		cache:     cache.New(constants.DefaultCacheEntries),
		cfg:       cfg,
		logger:    logger,
	}
}

// call routes a request through the cache and retry layers according
// to the operation's declaration.
func (c *Client) call(ctx context.Context, op Operation, params Params, body interface{}) ([]byte, error) {
	if op.Cacheable {
		key := Fingerprint(op, params)
		return c.cache.GetOrFetch(key, op.TTL, func() ([]byte, error) {
			return WithRetry(ctx, func() ([]byte, error) {
				return c.transport.Do(ctx, op, params, body)
			})
		})
	}

	payload, err := WithRetry(ctx, func() ([]byte, error) {
		return c.transport.Do(ctx, op, params, body)
	})
	if err != nil {
		return nil, err
	}

	c.invalidateFor(op)
	return payload, nil
}

// invalidateFor wipes the cache prefixes a successful mutation made stale.
func (c *Client) invalidateFor(op Operation) {
	for _, prefix := range op.Invalidates {
		if n := c.cache.Invalidate(prefix); n > 0 {
			c.logger.Debug("cache invalidated", logging.Fields{"prefix": prefix, "entries": n})
		}
	}
}

func (c *Client) pageParams(limit, offset int) Params {
	if limit <= 0 {
		limit = c.cfg.PageSize
	}
	params := Params{"limit": strconv.Itoa(limit)}
	if offset > 0 {
		params["offset"] = strconv.Itoa(offset)
	}
	return params
}

// Ask sends a question to the assistant and returns the open stream.
// Starting a new ask cancels any stream still active from a previous
// one; the two cannot interleave on a terminal.
func (c *Client) Ask(ctx context.Context, query string) (*StreamSession, error) {
	c.mu.Lock()
	if c.activeStream != nil {
		c.activeStream.Cancel()
		c.activeStream = nil
	}
	c.mu.Unlock()

	body := map[string]interface{}{
		"query":         query,
		"context_limit": c.cfg.ContextLimit,
		"stream":        true,
	}

	session, err := WithStreamRetry(ctx, func() (*StreamSession, error) {
		return c.transport.OpenStream(ctx, OpAsk, nil, body)
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.activeStream = session
	c.mu.Unlock()
	return session, nil
}

// CancelActiveStream cancels the stream opened by the last Ask, if any.
func (c *Client) CancelActiveStream() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeStream != nil {
		c.activeStream.Cancel()
		c.activeStream = nil
	}
}

// Search queries the knowledge base.
func (c *Client) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	payload, err := c.call(ctx, OpSearch, Params{"query": query}, nil)
	if err != nil {
		return nil, err
	}
	result, err := models.DecodeObject[models.SearchResult](payload)
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return &result, nil
}

// ListDocuments returns a page of documents.
func (c *Client) ListDocuments(ctx context.Context, limit, offset int) ([]models.Document, error) {
	payload, err := c.call(ctx, OpListDocuments, c.pageParams(limit, offset), nil)
	if err != nil {
		return nil, err
	}
	docs, err := models.DecodeList[models.Document](payload, "documents")
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return docs, nil
}

// UploadDocument sends a local file for ingestion. Processing happens
// server-side; a fresh listing shows the document's status.
func (c *Client) UploadDocument(ctx context.Context, fileName string, content []byte) error {
	fields := map[string]string{"visibility": "personal"}
	_, err := WithRetry(ctx, func() ([]byte, error) {
		return c.transport.DoMultipart(ctx, OpUploadDocument, nil, fields, fileName, content)
	})
	if err != nil {
		return err
	}
	c.invalidateFor(OpUploadDocument)
	return nil
}

// DeleteDocument removes a document from the knowledge base.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.call(ctx, OpDeleteDocument, Params{"id": id}, nil)
	return err
}

// ListNotes returns a page of notes.
func (c *Client) ListNotes(ctx context.Context, limit, offset int) ([]models.Note, error) {
	payload, err := c.call(ctx, OpListNotes, c.pageParams(limit, offset), nil)
	if err != nil {
		return nil, err
	}
	notes, err := models.DecodeList[models.Note](payload, "notes")
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return notes, nil
}

// CreateNote stores a new note.
func (c *Client) CreateNote(ctx context.Context, title, content string) (*models.Note, error) {
	body := map[string]interface{}{
		"title":      title,
		"content":    content,
		"visibility": "personal",
	}
	payload, err := c.call(ctx, OpCreateNote, nil, body)
	if err != nil {
		return nil, err
	}
	note, err := models.DecodeObject[models.Note](payload)
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return &note, nil
}

// UpdateNote changes a note's title and/or content. Empty fields are
// left untouched.
func (c *Client) UpdateNote(ctx context.Context, id, title, content string) (*models.Note, error) {
	body := map[string]interface{}{}
	if title != "" {
		body["title"] = title
	}
	if content != "" {
		body["content"] = content
	}
	payload, err := c.call(ctx, OpUpdateNote, Params{"id": id}, body)
	if err != nil {
		return nil, err
	}
	note, err := models.DecodeObject[models.Note](payload)
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return &note, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	_, err := c.call(ctx, OpDeleteNote, Params{"id": id}, nil)
	return err
}

// ListNotifications returns a page of notifications.
func (c *Client) ListNotifications(ctx context.Context, limit, offset int) ([]models.Notification, error) {
	payload, err := c.call(ctx, OpListNotifications, c.pageParams(limit, offset), nil)
	if err != nil {
		return nil, err
	}
	notifs, err := models.DecodeList[models.Notification](payload, "notifications")
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return notifs, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := c.call(ctx, OpReadNotification, Params{"id": id}, nil)
	return err
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.call(ctx, OpReadAllNotifications, nil, nil)
	return err
}

// ListIntegrations returns the connected integrations.
func (c *Client) ListIntegrations(ctx context.Context) ([]models.Integration, error) {
	payload, err := c.call(ctx, OpListIntegrations, nil, nil)
	if err != nil {
		return nil, err
	}
	integrations, err := models.DecodeList[models.Integration](payload, "connections")
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return integrations, nil
}

// ConnectIntegration starts the connection flow for a provider.
func (c *Client) ConnectIntegration(ctx context.Context, provider string) ([]byte, error) {
	return c.call(ctx, OpConnectIntegration, Params{"id": provider}, nil)
}

// DisconnectIntegration removes an integration connection.
func (c *Client) DisconnectIntegration(ctx context.Context, connectionID string) error {
	_, err := c.call(ctx, OpDisconnectIntegration, Params{"id": connectionID}, nil)
	return err
}

// ListAutomations returns all automations.
func (c *Client) ListAutomations(ctx context.Context) ([]models.Automation, error) {
	payload, err := c.call(ctx, OpListAutomations, nil, nil)
	if err != nil {
		return nil, err
	}
	autos, err := models.DecodeList[models.Automation](payload, "automations")
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return autos, nil
}

// RunAutomation triggers a manual run of an automation.
func (c *Client) RunAutomation(ctx context.Context, id string) error {
	_, err := c.call(ctx, OpRunAutomation, Params{"id": id}, nil)
	return err
}

// ToggleAutomation enables or disables an automation.
func (c *Client) ToggleAutomation(ctx context.Context, id string, enabled bool) error {
	_, err := c.call(ctx, OpToggleAutomation, Params{"id": id}, map[string]interface{}{
		"is_enabled": enabled,
	})
	return err
}

// GetProfile returns the account profile.
func (c *Client) GetProfile(ctx context.Context) (*models.Profile, error) {
	payload, err := c.call(ctx, OpProfile, nil, nil)
	if err != nil {
		return nil, err
	}
	profile, err := models.DecodeObject[models.Profile](payload)
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return &profile, nil
}

// SurfaceMemory asks the server to surface a memory, optionally biased
// by partial text the user has typed. The parameter is omitted when
// blank rather than sent empty.
func (c *Client) SurfaceMemory(ctx context.Context, partialText string) (*models.SurfaceResult, error) {
	params := Params{}
	if partialText != "" {
		params["partial_text"] = partialText
	}
	payload, err := c.call(ctx, OpSurface, params, nil)
	if err != nil {
		return nil, err
	}
	result, err := models.DecodeObject[models.SurfaceResult](payload)
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return &result, nil
}

// PersonaBriefing asks the persona agent for a relationship
// micro-summary of a contact. At least one identifying field must be
// set; that is validated before any request goes out.
func (c *Client) PersonaBriefing(ctx context.Context, email, name, company, title string) (*models.PersonaBriefing, error) {
	body := map[string]interface{}{}
	if email != "" {
		body["email"] = email
	}
	if name != "" {
		body["name"] = name
	}
	if company != "" {
		body["company"] = company
	}
	if title != "" {
		body["title"] = title
	}
	if len(body) == 0 {
		return nil, &APIError{
			Kind:    KindValidation,
			Message: "provide at least one of email, name, company, or title",
		}
	}

	payload, err := c.call(ctx, OpPersona, nil, body)
	if err != nil {
		return nil, err
	}
	briefing, err := models.DecodeObject[models.PersonaBriefing](payload)
	if err != nil {
		return nil, &APIError{Kind: KindParse, Message: err.Error()}
	}
	return &briefing, nil
}

// InvalidateCache drops every cached entry whose key starts with
// prefix. An empty prefix clears the whole cache.
func (c *Client) InvalidateCache(prefix string) int {
	return c.cache.Invalidate(prefix)
}
