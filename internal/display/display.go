// Package display renders API resources and assistant responses for
// the terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"

	"github.com/selflayer/selflayer-cli/internal/models"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer writes formatted output. With Render enabled, assistant
// responses go through a markdown renderer; plain mode prints raw text
// and suits pipes and tests.
type Renderer struct {
	out      io.Writer
	render   bool
	markdown *glamour.TermRenderer
}

// New creates a Renderer writing to w.
func New(w io.Writer, render bool) *Renderer {
	r := &Renderer{out: w, render: render}
	if render {
		if tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		); err == nil {
			r.markdown = tr
		}
	}
	return r
}

// Markdown prints text, rendered as markdown when enabled.
func (r *Renderer) Markdown(text string) {
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(text); err == nil {
			fmt.Fprint(r.out, rendered)
			return
		}
	}
	fmt.Fprintln(r.out, text)
}

// Chunk prints a streaming fragment without any decoration. Markdown
// rendering of a partial response would garble it, so chunks always go
// out raw; the caller may re-render the full text at stream end.
func (r *Renderer) Chunk(text string) {
	fmt.Fprint(r.out, text)
}

// Newline prints an empty line.
func (r *Renderer) Newline() {
	fmt.Fprintln(r.out)
}

// Success prints a confirmation line.
func (r *Renderer) Success(msg string) {
	fmt.Fprintf(r.out, "✓ %s\n", msg)
}

// Error prints an error with a short title.
func (r *Renderer) Error(title, msg string) {
	fmt.Fprintf(r.out, "✗ %s: %s\n", title, msg)
}

// Info prints an informational line.
func (r *Renderer) Info(msg string) {
	fmt.Fprintln(r.out, msg)
}

// Clear wipes the screen. A no-op when output is not a terminal so
// piped output stays free of escape codes.
func (r *Renderer) Clear() {
	if f, ok := r.out.(*os.File); ok && isTerminal(f) {
		fmt.Fprint(r.out, "\033[2J\033[H")
	}
}

// Prompt prints a yes/no question without a newline.
func (r *Renderer) Prompt(question string) {
	fmt.Fprintf(r.out, "%s [y/N]: ", question)
}

// Spinner starts a progress spinner with the given label and returns a
// stop function. The spinner only animates when output goes to a
// terminal; otherwise the label is printed once.
func (r *Renderer) Spinner(label string) func() {
	if f, ok := r.out.(*os.File); ok && isTerminal(f) {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(f))
		s.Suffix = " " + label
		s.Start()
		return s.Stop
	}
	return func() {}
}

// ProfileCard prints the account profile.
func (r *Renderer) ProfileCard(p *models.Profile) {
	fmt.Fprintf(r.out, "%s\n\n", p.Greeting())
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", orDash(p.FullName))
	fmt.Fprintf(w, "Occupation:\t%s\n", orDash(p.Occupation))
	fmt.Fprintf(w, "Company:\t%s\n", orDash(p.PrimaryCompany))
	fmt.Fprintf(w, "Skills:\t%s\n", orDash(p.KeySkills))
	fmt.Fprintf(w, "Goals:\t%s\n", orDash(p.MainGoals))
	fmt.Fprintf(w, "Timezone:\t%s\n", orDash(p.Timezone))
	fmt.Fprintf(w, "Safe mode:\t%s\n", enabled(p.SafeMode))
	_ = w.Flush()
}

// DocumentsList prints a numbered document listing.
func (r *Renderer) DocumentsList(docs []models.Document, offset int) {
	if len(docs) == 0 {
		r.Info("No documents found. Upload files at selflayer.com to get started.")
		return
	}
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tSTATUS\tCREATED")
	for i, d := range docs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", offset+i+1, truncate(d.Title(), 40), d.Status, shortDate(d.CreatedAt))
	}
	_ = w.Flush()
	fmt.Fprintf(r.out, "\n%d document(s). /d <n> to view, /d delete <n> to remove, /more for the next page.\n", len(docs))
}

// DocumentCard prints full details of one document.
func (r *Renderer) DocumentCard(d *models.Document, index int) {
	fmt.Fprintf(r.out, "Document #%d: %s\n\n", index, d.Title())
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "File:\t%s\n", d.FileName)
	fmt.Fprintf(w, "Status:\t%s\n", d.Status)
	fmt.Fprintf(w, "Created:\t%s\n", shortDate(d.CreatedAt))
	fmt.Fprintf(w, "Keywords:\t%s\n", orDash(d.Keywords))
	_ = w.Flush()
	if d.Summary != "" {
		fmt.Fprintf(r.out, "\n%s\n", d.Summary)
	}
}

// NotesList prints a numbered note listing.
func (r *Renderer) NotesList(notes []models.Note, offset int) {
	if len(notes) == 0 {
		r.Info("No notes found. Create one with /n new \"Title\" \"Content\".")
		return
	}
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tPREVIEW\tUPDATED")
	for i, n := range notes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", offset+i+1, truncate(n.Title, 30), truncate(n.Preview(60), 60), shortDate(n.UpdatedAt))
	}
	_ = w.Flush()
	fmt.Fprintf(r.out, "\n%d note(s). /n <n> to view, /n delete <n> to remove, /more for the next page.\n", len(notes))
}

// NoteCard prints full details of one note.
func (r *Renderer) NoteCard(n *models.Note, index int) {
	fmt.Fprintf(r.out, "Note #%d: %s\n\n", index, n.Title)
	r.Markdown(n.Content)
	fmt.Fprintf(r.out, "\nCreated %s, updated %s\n", shortDate(n.CreatedAt), shortDate(n.UpdatedAt))
}

// SearchResults prints the sections of a knowledge search.
func (r *Renderer) SearchResults(result *models.SearchResult, query string) {
	total := result.TotalResults()
	if total == 0 {
		fmt.Fprintf(r.out, "No results for %q.\n", query)
		return
	}
	fmt.Fprintf(r.out, "%d result(s) for %q\n\n", total, query)

	sections := []struct {
		name  string
		items []map[string]interface{}
	}{
		{"Knowledge graph", result.GraphResults},
		{"Documents", result.DocumentSummaries},
		{"Sources", result.SourceChunks},
		{"Conversations", result.ConversationHistory},
		{"Insights", result.Insights},
	}
	for _, section := range sections {
		if len(section.items) == 0 {
			continue
		}
		fmt.Fprintf(r.out, "%s (%d)\n", section.name, len(section.items))
		for _, item := range section.items {
			fmt.Fprintf(r.out, "  - %s\n", truncate(itemSummary(item), 100))
		}
		fmt.Fprintln(r.out)
	}
}

// NotificationsList prints a numbered notification listing.
func (r *Renderer) NotificationsList(notifs []models.Notification, offset int) {
	if len(notifs) == 0 {
		r.Info("No notifications.")
		return
	}
	unread := 0
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\t\tTITLE\tMESSAGE\tWHEN")
	for i, n := range notifs {
		marker := " "
		if !n.Read {
			marker = "*"
			unread++
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", offset+i+1, marker, truncate(n.Title, 30), truncate(n.Message, 50), shortDate(n.Datetime))
	}
	_ = w.Flush()
	fmt.Fprintf(r.out, "\n%d notification(s), %d unread. /notifs read <n> or /notifs readall.\n", len(notifs), unread)
}

// IntegrationsList prints the connected integrations.
func (r *Renderer) IntegrationsList(integrations []models.Integration) {
	if len(integrations) == 0 {
		r.Info("No integrations connected. Use /i connect <provider>.")
		return
	}
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPROVIDER\tACCOUNT\tSYNC\tLAST SYNC")
	for i, in := range integrations {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, in.Provider, in.AccountIdentifier, in.SyncStatus, shortDate(in.LastSyncedAt))
	}
	_ = w.Flush()
	fmt.Fprintf(r.out, "\n%d connection(s). /i disconnect <n> to remove one.\n", len(integrations))
}

// AutomationsList prints the stored automations.
func (r *Renderer) AutomationsList(autos []models.Automation) {
	if len(autos) == 0 {
		r.Info("No automations configured.")
		return
	}
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tSCHEDULE\tENABLED\tLAST RUN")
	for i, a := range autos {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, truncate(a.Title, 30), a.ScheduleDisplay(), enabled(a.IsEnabled), shortDate(a.LastRunAt))
	}
	_ = w.Flush()
	fmt.Fprintf(r.out, "\n%d automation(s). /auto run <n>, /auto enable <n>, /auto disable <n>.\n", len(autos))
}

// PersonaBriefing prints a relationship micro-summary.
func (r *Renderer) PersonaBriefing(b *models.PersonaBriefing) {
	who := b.Profile.Name
	if b.Profile.Title != "" || b.Profile.Company != "" {
		who += " (" + strings.TrimSpace(strings.TrimPrefix(b.Profile.Title+" at "+b.Profile.Company, " at ")) + ")"
	}
	fmt.Fprintf(r.out, "Briefing: %s\n\n", who)
	r.Markdown(b.RMS)
	if len(b.ProposedActions) > 0 {
		fmt.Fprintln(r.out, "\nSuggested follow-ups:")
		for _, action := range b.ProposedActions {
			fmt.Fprintf(r.out, "  - %s\n", action.ShortDisplay)
		}
	}
}

// SurfaceResult prints a surfaced memory.
func (r *Renderer) SurfaceResult(result *models.SurfaceResult) {
	fmt.Fprintf(r.out, "Surfaced memory (%s)\n\n", result.Intent)
	r.Markdown(result.Content)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// shortDate trims an ISO timestamp to its date and minute.
func shortDate(iso string) string {
	if iso == "" {
		return "-"
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, iso); err == nil {
			return ts.Format("2006-01-02 15:04")
		}
	}
	return iso
}

// itemSummary picks the most descriptive field of an untyped search item.
func itemSummary(item map[string]interface{}) string {
	for _, key := range []string{"summary", "content", "text", "title", "name"} {
		if v, ok := item[key].(string); ok && v != "" {
			return v
		}
	}
	return fmt.Sprintf("%v", item)
}
