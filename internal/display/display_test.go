package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/selflayer/selflayer-cli/internal/models"
)

func TestNotesListNumbering(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	notes := []models.Note{
		{ID: "n1", Title: "First", Content: "alpha", UpdatedAt: "2026-08-01T10:00:00Z"},
		{ID: "n2", Title: "Second", Content: "beta", UpdatedAt: "2026-08-02T10:00:00Z"},
	}
	r.NotesList(notes, 20)

	out := buf.String()
	// With an offset of 20 the display numbers continue from 21.
	if !strings.Contains(out, "21") || !strings.Contains(out, "22") {
		t.Errorf("offset numbering missing:\n%s", out)
	}
	if !strings.Contains(out, "First") || !strings.Contains(out, "Second") {
		t.Errorf("titles missing:\n%s", out)
	}
}

func TestEmptyListings(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	r.NotesList(nil, 0)
	r.DocumentsList(nil, 0)
	r.NotificationsList(nil, 0)
	r.IntegrationsList(nil)
	r.AutomationsList(nil)

	out := buf.String()
	if strings.Contains(out, "TITLE") {
		t.Errorf("empty listings printed table headers:\n%s", out)
	}
	if !strings.Contains(out, "No notes") || !strings.Contains(out, "No documents") {
		t.Errorf("empty-state hints missing:\n%s", out)
	}
}

func TestNotificationsUnreadCount(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	r.NotificationsList([]models.Notification{
		{ID: "1", Title: "a", Read: true, Datetime: "2026-08-01T10:00:00Z"},
		{ID: "2", Title: "b", Read: false, Datetime: "2026-08-01T11:00:00Z"},
		{ID: "3", Title: "c", Read: false, Datetime: "2026-08-01T12:00:00Z"},
	}, 0)

	if !strings.Contains(buf.String(), "3 notification(s), 2 unread") {
		t.Errorf("unread summary wrong:\n%s", buf.String())
	}
}

func TestMarkdownPlainFallback(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)
	r.Markdown("# Heading")
	if got := buf.String(); got != "# Heading\n" {
		t.Errorf("plain markdown output = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a very long string that keeps going", 10, "a very ..."},
		{"multi\nline", 20, "multi line"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestShortDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-08-25T09:30:00Z", "2026-08-25 09:30"},
		{"2026-08-25T09:30:00.123456Z", "2026-08-25 09:30"},
		{"", "-"},
		{"not a date", "not a date"},
	}
	for _, tt := range tests {
		if got := shortDate(tt.in); got != tt.want {
			t.Errorf("shortDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
