package api

import (
	"net/url"
	"strings"
	"time"

	"github.com/selflayer/selflayer-cli/internal/constants"
)

// Operation is a named, versioned request shape defined at build time.
// PathTemplate may contain a single "{id}" placeholder filled from params
// before the request is issued.
type Operation struct {
	Name         string
	Method       string
	PathTemplate string
	Streams      bool
	// Cacheable operations are read-only and go through the result cache
	// with the given TTL. Mutating and streaming operations never do.
	Cacheable bool
	TTL       time.Duration
	// Invalidates lists fingerprint prefixes wiped after a successful call.
	Invalidates []string
}

// The full operation surface of the SelfLayer API.
var (
	OpAsk = Operation{Name: "ask", Method: "POST", PathTemplate: "/exocortex/ask", Streams: true}

	OpSearch = Operation{Name: "search", Method: "GET", PathTemplate: "/search",
		Cacheable: true, TTL: constants.DefaultCacheTTL}

	OpListDocuments = Operation{Name: "documents.list", Method: "GET", PathTemplate: "/documents/",
		Cacheable: true, TTL: constants.DefaultCacheTTL}
	OpUploadDocument = Operation{Name: "documents.upload", Method: "POST", PathTemplate: "/documents/ingest",
		Invalidates: []string{"documents."}}
	OpDeleteDocument = Operation{Name: "documents.delete", Method: "DELETE", PathTemplate: "/documents/{id}",
		Invalidates: []string{"documents."}}

	OpListNotes = Operation{Name: "notes.list", Method: "GET", PathTemplate: "/notes/",
		Cacheable: true, TTL: constants.DefaultCacheTTL}
	OpCreateNote = Operation{Name: "notes.create", Method: "POST", PathTemplate: "/notes/",
		Invalidates: []string{"notes."}}
	OpUpdateNote = Operation{Name: "notes.update", Method: "PUT", PathTemplate: "/notes/{id}",
		Invalidates: []string{"notes."}}
	OpDeleteNote = Operation{Name: "notes.delete", Method: "DELETE", PathTemplate: "/notes/{id}",
		Invalidates: []string{"notes."}}

	OpListNotifications = Operation{Name: "notifications.list", Method: "GET", PathTemplate: "/notifications/",
		Cacheable: true, TTL: constants.NotificationCacheTTL}
	OpReadNotification = Operation{Name: "notifications.read", Method: "POST", PathTemplate: "/notifications/{id}/read",
		Invalidates: []string{"notifications."}}
	OpReadAllNotifications = Operation{Name: "notifications.readall", Method: "POST", PathTemplate: "/notifications/read-all",
		Invalidates: []string{"notifications."}}

	OpListIntegrations = Operation{Name: "integrations.list", Method: "GET", PathTemplate: "/integrations/connections",
		Cacheable: true, TTL: constants.DefaultCacheTTL}
	OpConnectIntegration = Operation{Name: "integrations.connect", Method: "POST", PathTemplate: "/integrations/{id}/connect",
		Invalidates: []string{"integrations."}}
	OpDisconnectIntegration = Operation{Name: "integrations.disconnect", Method: "DELETE", PathTemplate: "/integrations/connections/{id}",
		Invalidates: []string{"integrations."}}

	OpListAutomations = Operation{Name: "automations.list", Method: "GET", PathTemplate: "/automations",
		Cacheable: true, TTL: constants.DefaultCacheTTL}
	OpRunAutomation = Operation{Name: "automations.run", Method: "POST", PathTemplate: "/automations/{id}/run",
		Invalidates: []string{"automations."}}
	OpToggleAutomation = Operation{Name: "automations.toggle", Method: "PATCH", PathTemplate: "/automations/{id}",
		Invalidates: []string{"automations."}}

	OpProfile = Operation{Name: "profile", Method: "GET", PathTemplate: "/profile",
		Cacheable: true, TTL: constants.ProfileCacheTTL}
	OpSurface = Operation{Name: "surface", Method: "GET", PathTemplate: "/surface"}
	OpPersona = Operation{Name: "persona", Method: "POST", PathTemplate: "/agent/persona"}
)

// Params are the query/path parameters of a single call.
type Params map[string]string

// Fingerprint derives the cache key for an operation and its parameters.
// url.Values.Encode sorts by key, so two logically identical requests
// fingerprint identically regardless of parameter order.
func Fingerprint(op Operation, params Params) string {
	if len(params) == 0 {
		return op.Name
	}
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return op.Name + "?" + values.Encode()
}

// path expands the operation's path template with the "id" parameter.
// The expanded segment is escaped so a hostile id cannot rewrite the path.
func (op Operation) path(params Params) string {
	if !strings.Contains(op.PathTemplate, "{id}") {
		return op.PathTemplate
	}
	return strings.Replace(op.PathTemplate, "{id}", url.PathEscape(params["id"]), 1)
}

// queryParams returns the parameters that belong in the query string,
// excluding any consumed by the path template.
func (op Operation) queryParams(params Params) url.Values {
	values := url.Values{}
	for k, v := range params {
		if k == "id" && strings.Contains(op.PathTemplate, "{id}") {
			continue
		}
		values.Set(k, v)
	}
	return values
}
