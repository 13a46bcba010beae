// Package models defines the resource types returned by the SelfLayer
// API and the decoding helpers shared by the client.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Profile represents the account that owns the knowledge base.
type Profile struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	FullName       string `json:"full_name"`
	Occupation     string `json:"occupation,omitempty"`
	PrimaryCompany string `json:"primary_company,omitempty"`
	KeySkills      string `json:"key_skills,omitempty"`
	MainGoals      string `json:"main_goals,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
	SafeMode       bool   `json:"safe_mode"`
	Email          string `json:"email,omitempty"`
}

// Greeting returns the personalized banner line shown at startup.
func (p Profile) Greeting() string {
	if p.FullName == "" {
		return "Welcome to SelfLayer!"
	}
	first := strings.Fields(p.FullName)[0]
	return fmt.Sprintf("Welcome back, %s!", first)
}

// Document is an uploaded file in the knowledge base.
type Document struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	Status    string `json:"status"`
	Summary   string `json:"summary,omitempty"`
	Keywords  string `json:"keywords,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Title derives a display title from the file name.
func (d Document) Title() string {
	name := d.FileName
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.TrimSpace(name)
}

// Note is a free-form text entry in the knowledge base.
type Note struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	Status          string `json:"status"`
	ProcessingError string `json:"processing_error,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// Preview returns at most max characters of the note content.
func (n Note) Preview(max int) string {
	if len(n.Content) <= max {
		return n.Content
	}
	if max <= 3 {
		return n.Content[:max]
	}
	return n.Content[:max-3] + "..."
}

// Integration is a connected external account (Gmail, Drive, ...).
type Integration struct {
	ID                 string   `json:"id"`
	Provider           string   `json:"provider"`
	DisplayName        string   `json:"display_name"`
	AccountIdentifier  string   `json:"account_identifier"`
	IsDefault          bool     `json:"is_default"`
	Scopes             []string `json:"scopes,omitempty"`
	CreatedAt          string   `json:"created_at"`
	IsSyncEnabled      bool     `json:"is_sync_enabled"`
	IsRetrievalEnabled bool     `json:"is_retrieval_enabled"`
	SyncStatus         string   `json:"sync_status"`
	LastSyncedAt       string   `json:"last_synced_at,omitempty"`
	LastSyncError      string   `json:"last_sync_error,omitempty"`
	Summary            string   `json:"summary,omitempty"`
}

// Notification is a server-side event addressed to the user.
type Notification struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Type     string `json:"type"`
	Read     bool   `json:"read"`
	Datetime string `json:"datetime"`
}

// Automation is a stored task that runs manually, on a cron schedule,
// or on a trigger.
type Automation struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Prompt         string `json:"prompt"`
	Type           string `json:"type"`
	TriggerSlug    string `json:"trigger_slug,omitempty"`
	CronSchedule   string `json:"cron_schedule,omitempty"`
	IsEnabled      bool   `json:"is_enabled"`
	LastRunAt      string `json:"last_run_at,omitempty"`
	LastRunStatus  string `json:"last_run_status,omitempty"`
	LastRunMessage string `json:"last_run_message,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// ScheduleDisplay returns a human-readable description of when the
// automation runs.
func (a Automation) ScheduleDisplay() string {
	switch {
	case a.Type == "manual":
		return "Manual"
	case a.Type == "trigger" && a.TriggerSlug != "":
		return "Trigger: " + strings.ReplaceAll(a.TriggerSlug, "_", " ")
	case a.Type == "cron" && a.CronSchedule != "":
		return "Cron: " + a.CronSchedule
	default:
		return "Unknown"
	}
}

// SearchResult is the aggregate response of a knowledge search.
type SearchResult struct {
	GraphResults        []map[string]interface{} `json:"graph_results,omitempty"`
	GraphRelationships  []map[string]interface{} `json:"graph_relationships,omitempty"`
	DocumentSummaries   []map[string]interface{} `json:"document_summaries,omitempty"`
	SourceChunks        []map[string]interface{} `json:"source_chunks,omitempty"`
	ConversationHistory []map[string]interface{} `json:"conversation_history,omitempty"`
	Insights            []map[string]interface{} `json:"honcho_insights,omitempty"`
}

// TotalResults counts results across all sections.
func (s SearchResult) TotalResults() int {
	return len(s.GraphResults) + len(s.DocumentSummaries) + len(s.SourceChunks) +
		len(s.ConversationHistory) + len(s.Insights)
}

// SurfaceResult is a proactively surfaced memory.
type SurfaceResult struct {
	Intent  string `json:"intent"`
	Content string `json:"content"`
}

// PersonaProfile identifies the person a persona briefing is about.
type PersonaProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
}

// ProposedAction is a follow-up suggested by the persona agent.
type ProposedAction struct {
	ShortDisplay     string                 `json:"short_display"`
	ExecutionPayload map[string]interface{} `json:"execution_payload,omitempty"`
}

// PersonaBriefing is the relationship micro-summary the persona agent
// produces for a contact.
type PersonaBriefing struct {
	RMS             string           `json:"rms"`
	Profile         PersonaProfile   `json:"profile"`
	ProposedActions []ProposedAction `json:"proposed_actions,omitempty"`
}

// DecodeObject unmarshals a single resource, tolerating a {"data": ...}
// envelope around it. The envelope is checked first because unknown
// fields are silently ignored when decoding the bare form.
func DecodeObject[T any](payload []byte) (T, error) {
	var out T

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && len(wrapped.Data) > 0 {
		if err := json.Unmarshal(wrapped.Data, &out); err == nil {
			return out, nil
		}
	}

	if err := json.Unmarshal(payload, &out); err == nil {
		return out, nil
	}

	var zero T
	return zero, fmt.Errorf("response does not match expected schema")
}

// DecodeList unmarshals a resource collection. The API returns either a
// bare array or an object wrapping the array under one of the given
// keys (for example {"notes": [...]} or {"data": [...]}).
func DecodeList[T any](payload []byte, keys ...string) ([]T, error) {
	var items []T
	if err := json.Unmarshal(payload, &items); err == nil {
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(payload, &wrapper); err != nil {
		return nil, fmt.Errorf("response is neither an array nor an object")
	}

	keys = append(keys, "data", "items", "results")
	for _, key := range keys {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("field %q is not the expected array", key)
		}
		return items, nil
	}

	return nil, fmt.Errorf("no recognized collection field in response")
}
