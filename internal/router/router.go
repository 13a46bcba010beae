// Package router parses slash commands, tracks the session state
// machine, and dispatches work to the API client.
package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/selflayer/selflayer-cli/internal/api"
	"github.com/selflayer/selflayer-cli/internal/auth"
	"github.com/selflayer/selflayer-cli/internal/config"
	"github.com/selflayer/selflayer-cli/internal/display"
	"github.com/selflayer/selflayer-cli/internal/logging"
	"github.com/selflayer/selflayer-cli/internal/models"
)

// State is the router's position in the session state machine.
type State int

const (
	// StateIdle means the router is waiting for the next command.
	StateIdle State = iota
	// StateAwaitingResponse means a buffered API call is in flight.
	StateAwaitingResponse
	// StateAwaitingConfirmation means a destructive action is pending
	// a yes/no answer; the next input is the answer, not a command.
	StateAwaitingConfirmation
	// StateStreaming means an ask response is being streamed.
	StateStreaming
)

// Service is the slice of the API client the router drives. Defined
// here so tests can substitute a fake.
type Service interface {
	Ask(ctx context.Context, query string) (*api.StreamSession, error)
	CancelActiveStream()
	Search(ctx context.Context, query string) (*models.SearchResult, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]models.Document, error)
	UploadDocument(ctx context.Context, fileName string, content []byte) error
	DeleteDocument(ctx context.Context, id string) error
	ListNotes(ctx context.Context, limit, offset int) ([]models.Note, error)
	CreateNote(ctx context.Context, title, content string) (*models.Note, error)
	UpdateNote(ctx context.Context, id, title, content string) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListNotifications(ctx context.Context, limit, offset int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	ListIntegrations(ctx context.Context) ([]models.Integration, error)
	ConnectIntegration(ctx context.Context, provider string) ([]byte, error)
	DisconnectIntegration(ctx context.Context, id string) error
	ListAutomations(ctx context.Context) ([]models.Automation, error)
	RunAutomation(ctx context.Context, id string) error
	ToggleAutomation(ctx context.Context, id string, enabled bool) error
	GetProfile(ctx context.Context) (*models.Profile, error)
	SurfaceMemory(ctx context.Context, partialText string) (*models.SurfaceResult, error)
	PersonaBriefing(ctx context.Context, email, name, company, title string) (*models.PersonaBriefing, error)
	InvalidateCache(prefix string) int
}

type pendingConfirm struct {
	prompt string
	run    func(ctx context.Context) error
}

// Router executes one command at a time against the client.
type Router struct {
	client Service
	ui     *display.Renderer
	cfg    *config.Config

	state   State
	listCtx *CommandContext
	pending *pendingConfirm
	quit    bool
}

// New creates a Router.
func New(client Service, ui *display.Renderer, cfg *config.Config) *Router {
	return &Router{
		client:  client,
		ui:      ui,
		cfg:     cfg,
		listCtx: NewCommandContext(),
	}
}

// State returns the current state.
func (r *Router) State() State {
	return r.state
}

// ShouldQuit reports whether /quit has been executed.
func (r *Router) ShouldQuit() bool {
	return r.quit
}

// Interrupt cancels an in-flight stream, if any. Safe to call from a
// signal handler goroutine.
func (r *Router) Interrupt() {
	r.client.CancelActiveStream()
}

// Execute runs one line of user input through the state machine.
func (r *Router) Execute(ctx context.Context, input string) {
	input = strings.TrimSpace(input)

	// A pending confirmation consumes whatever comes next, including an
	// empty line (which counts as no).
	if r.state == StateAwaitingConfirmation {
		r.handleConfirmation(ctx, input)
		return
	}

	if input == "" {
		return
	}

	args := splitArgs(input)
	command := strings.ToLower(args[0])
	args = args[1:]

	switch command {
	case "/help", "help", "/h":
		r.printHelp()
	case "/key", "key", "/k":
		r.cmdKey(args)
	case "/ask", "ask", "/a":
		r.cmdAsk(ctx, strings.Join(args, " "))
	case "/search", "search", "/s":
		r.cmdSearch(ctx, strings.Join(args, " "))
	case "/documents", "documents", "/d":
		r.cmdDocuments(ctx, args)
	case "/notes", "notes", "/n":
		r.cmdNotes(ctx, args)
	case "/notifications", "notifications", "/notifs":
		r.cmdNotifications(ctx, args)
	case "/integrations", "integrations", "/i":
		r.cmdIntegrations(ctx, args)
	case "/automations", "automations", "/auto":
		r.cmdAutomations(ctx, args)
	case "/rms", "rms", "/r":
		r.cmdPersona(ctx, args, rawRemainder(input))
	case "/profile", "profile":
		r.cmdProfile(ctx)
	case "/surface", "surface":
		r.cmdSurface(ctx, strings.Join(args, " "))
	case "/more", "more", "/m":
		r.cmdMore(ctx)
	case "/clear", "clear", "/c":
		r.cmdClear()
	case "/quit", "/exit", "quit", "exit", "/q":
		r.quit = true
	default:
		r.ui.Error("Unknown command", command+". Type /help for available commands")
	}
}

// handleConfirmation consumes the answer to a pending destructive
// action. Only an explicit yes executes; no or an empty line cancels
// with zero side effects; anything else re-prompts.
func (r *Router) handleConfirmation(ctx context.Context, input string) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		pending := r.pending
		r.pending = nil
		r.state = StateIdle
		if err := pending.run(ctx); err != nil {
			r.showError(err)
		}
	case "", "n", "no":
		r.pending = nil
		r.state = StateIdle
		r.ui.Info("Cancelled.")
	default:
		r.ui.Prompt(r.pending.prompt)
	}
}

// confirm parks a destructive action until the user answers.
func (r *Router) confirm(prompt string, run func(ctx context.Context) error) {
	r.pending = &pendingConfirm{prompt: prompt, run: run}
	r.state = StateAwaitingConfirmation
	r.ui.Prompt(prompt)
}

func (r *Router) printHelp() {
	r.ui.Info(`Commands:
  /ask <question>        (/a)       Ask the assistant. Ctrl+C interrupts the stream.
  /search <query>        (/s)       Search the knowledge base.
  /documents             (/d)       List documents. /d new <path> uploads,
                                    /d <n> views, /d delete <n> removes.
  /notes                 (/n)       List notes. /n new "Title" "Content", /n <n>,
                                    /n edit <n> "Content", /n delete <n>.
  /notifications         (/notifs)  List notifications. read <n>, clear.
  /integrations          (/i)       List integrations. connect <provider>, disconnect <n>.
  /automations           (/auto)    List automations. run <n>, on <n>, off <n>.
  /rms <email|name>      (/r)       Relationship briefing. Quote a "Company" name.
  /profile                          Show your profile.
  /surface [text]                   Surface a memory.
  /more                  (/m)       Next page of the last listing.
  /key set|clear|status  (/k)       Manage the API key.
  /clear                 (/c)       Clear the screen and session context.
  /quit                  (/q)       Exit.`)
}

func (r *Router) cmdKey(args []string) {
	if len(args) == 0 {
		args = []string{"status"}
	}
	switch args[0] {
	case "set":
		if len(args) < 2 {
			r.ui.Error("Usage", "/key set <sl_live_... or sl_test_...>")
			return
		}
		if err := auth.SaveKey(args[1]); err != nil {
			r.ui.Error("Key error", err.Error())
			return
		}
		r.ui.Success("API key saved.")
	case "clear":
		if err := auth.DeleteKey(); err != nil {
			r.ui.Error("Key error", err.Error())
			return
		}
		r.ui.Success("API key removed.")
	case "status":
		key := auth.LoadKey()
		if key == "" {
			r.ui.Info("No API key configured. Use /key set <key> or SELFLAYER_API_KEY.")
			return
		}
		source := "file"
		if auth.FromEnv() {
			source = "environment"
		}
		r.ui.Info(fmt.Sprintf("API key: %s (from %s)", auth.MaskKey(key), source))
	default:
		r.ui.Error("Usage", "/key set <key> | /key clear | /key status")
	}
}

func (r *Router) cmdAsk(ctx context.Context, query string) {
	if query == "" {
		r.ui.Error("Usage", "/ask <question>")
		return
	}

	r.state = StateAwaitingResponse
	session, err := r.client.Ask(ctx, query)
	if err != nil {
		r.state = StateIdle
		r.showError(err)
		return
	}

	r.state = StateStreaming
	defer func() { r.state = StateIdle }()

	for {
		chunk, err := session.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.ui.Newline()
			if apiErr, ok := api.AsAPIError(err); ok && apiErr.Kind == api.KindStreamInterrupted {
				r.ui.Info("(interrupted)")
				logging.Debug("stream interrupted", logging.Fields{"partial_bytes": len(apiErr.Partial)})
			} else {
				r.showError(err)
			}
			return
		}
		r.ui.Chunk(chunk)
	}
	r.ui.Newline()
}

func (r *Router) cmdSearch(ctx context.Context, query string) {
	if query == "" {
		r.ui.Error("Usage", "/search <query>")
		return
	}
	result, err := runWithSpinner(r, "Searching...", func() (*models.SearchResult, error) {
		return r.client.Search(ctx, query)
	})
	if err != nil {
		r.showError(err)
		return
	}
	r.ui.SearchResults(result, query)
}

func (r *Router) cmdDocuments(ctx context.Context, args []string) {
	switch {
	case len(args) == 0:
		r.listDocuments(ctx, 0)
	case args[0] == "new" && len(args) > 1:
		r.uploadDocument(ctx, args[1])
	case args[0] == "delete" && len(args) > 1:
		number, ok := r.parseNumber(args[1])
		if !ok {
			return
		}
		item, err := r.listCtx.Resolve(ListDocuments, number)
		if err != nil {
			r.showError(err)
			return
		}
		r.confirm(fmt.Sprintf("Delete document %q?", item.Label), func(ctx context.Context) error {
			if err := r.client.DeleteDocument(ctx, item.ID); err != nil {
				return err
			}
			r.ui.Success(fmt.Sprintf("Document %q deleted.", item.Label))
			return nil
		})
	case isNumber(args[0]):
		r.viewDocument(ctx, args[0])
	default:
		r.ui.Error("Usage", "/d, /d new <path>, /d <n>, /d delete <n>")
	}
}

// uploadDocument reads a local file and sends it for ingestion. File
// problems are reported locally; no request goes out for them.
func (r *Router) uploadDocument(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		r.ui.Error("File error", "file not found: "+path)
		return
	}
	if info.IsDir() {
		r.ui.Error("File error", "not a file: "+path)
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		r.ui.Error("File error", err.Error())
		return
	}

	name := filepath.Base(path)
	_, err = runWithSpinner(r, "Uploading "+name+"...", func() (struct{}, error) {
		return struct{}{}, r.client.UploadDocument(ctx, name, content)
	})
	if err != nil {
		r.showError(err)
		return
	}
	r.ui.Success(fmt.Sprintf("Document %q uploaded and is being processed.", name))
	r.listDocuments(ctx, 0)
}

func (r *Router) listDocuments(ctx context.Context, offset int) {
	docs, err := runWithSpinner(r, "Loading documents...", func() ([]models.Document, error) {
		return r.client.ListDocuments(ctx, r.cfg.PageSize, offset)
	})
	if err != nil {
		r.showError(err)
		return
	}
	if offset > 0 && len(docs) == 0 {
		r.ui.Info("No more documents.")
		return
	}
	items := make([]Item, len(docs))
	for i, d := range docs {
		items[i] = Item{ID: d.ID, Label: d.Title()}
	}
	r.listCtx.SetListing(ListDocuments, items, offset)
	r.listCtx.SetOffset(ListDocuments, offset)
	r.ui.DocumentsList(docs, offset)
}

func (r *Router) viewDocument(ctx context.Context, arg string) {
	number, ok := r.parseNumber(arg)
	if !ok {
		return
	}
	item, err := r.listCtx.Resolve(ListDocuments, number)
	if err != nil {
		r.showError(err)
		return
	}
	offset := r.listCtx.Offset(ListDocuments)
	docs, err := r.client.ListDocuments(ctx, r.cfg.PageSize, offset)
	if err != nil {
		r.showError(err)
		return
	}
	for _, d := range docs {
		if d.ID == item.ID {
			r.ui.DocumentCard(&d, number)
			return
		}
	}
	r.ui.Error("Document not found", "it may have been deleted. Use /d to refresh")
}

func (r *Router) cmdNotes(ctx context.Context, args []string) {
	switch {
	case len(args) == 0:
		r.listNotes(ctx, 0)
	case args[0] == "new":
		if len(args) < 3 {
			r.ui.Error("Usage", `/n new "Title" "Content"`)
			return
		}
		note, err := runWithSpinner(r, "Creating note...", func() (*models.Note, error) {
			return r.client.CreateNote(ctx, args[1], strings.Join(args[2:], " "))
		})
		if err != nil {
			r.showError(err)
			return
		}
		r.ui.Success(fmt.Sprintf("Note %q created.", note.Title))
	case args[0] == "edit":
		if len(args) < 3 {
			r.ui.Error("Usage", `/n edit <n> "New content"`)
			return
		}
		number, ok := r.parseNumber(args[1])
		if !ok {
			return
		}
		item, err := r.listCtx.Resolve(ListNotes, number)
		if err != nil {
			r.showError(err)
			return
		}
		content := strings.Join(args[2:], " ")
		if _, err := r.client.UpdateNote(ctx, item.ID, "", content); err != nil {
			r.showError(err)
			return
		}
		r.ui.Success(fmt.Sprintf("Note %q updated.", item.Label))
	case args[0] == "delete" && len(args) > 1:
		number, ok := r.parseNumber(args[1])
		if !ok {
			return
		}
		item, err := r.listCtx.Resolve(ListNotes, number)
		if err != nil {
			r.showError(err)
			return
		}
		r.confirm(fmt.Sprintf("Delete note %q?", item.Label), func(ctx context.Context) error {
			if err := r.client.DeleteNote(ctx, item.ID); err != nil {
				return err
			}
			r.ui.Success(fmt.Sprintf("Note %q deleted.", item.Label))
			return nil
		})
	case isNumber(args[0]):
		r.viewNote(ctx, args[0])
	default:
		r.ui.Error("Usage", `/n, /n new "Title" "Content", /n <n>, /n edit <n> "Content", /n delete <n>`)
	}
}

func (r *Router) listNotes(ctx context.Context, offset int) {
	notes, err := runWithSpinner(r, "Loading notes...", func() ([]models.Note, error) {
		return r.client.ListNotes(ctx, r.cfg.PageSize, offset)
	})
	if err != nil {
		r.showError(err)
		return
	}
	if offset > 0 && len(notes) == 0 {
		r.ui.Info("No more notes.")
		return
	}
	items := make([]Item, len(notes))
	for i, n := range notes {
		items[i] = Item{ID: n.ID, Label: n.Title}
	}
	r.listCtx.SetListing(ListNotes, items, offset)
	r.listCtx.SetOffset(ListNotes, offset)
	r.ui.NotesList(notes, offset)
}

func (r *Router) viewNote(ctx context.Context, arg string) {
	number, ok := r.parseNumber(arg)
	if !ok {
		return
	}
	item, err := r.listCtx.Resolve(ListNotes, number)
	if err != nil {
		r.showError(err)
		return
	}
	offset := r.listCtx.Offset(ListNotes)
	notes, err := r.client.ListNotes(ctx, r.cfg.PageSize, offset)
	if err != nil {
		r.showError(err)
		return
	}
	for _, n := range notes {
		if n.ID == item.ID {
			r.ui.NoteCard(&n, number)
			return
		}
	}
	r.ui.Error("Note not found", "it may have been deleted. Use /n to refresh")
}

func (r *Router) cmdNotifications(ctx context.Context, args []string) {
	switch {
	case len(args) == 0:
		r.listNotifications(ctx, 0)
	case args[0] == "read" && len(args) > 1:
		number, ok := r.parseNumber(args[1])
		if !ok {
			return
		}
		item, err := r.listCtx.Resolve(ListNotifications, number)
		if err != nil {
			r.showError(err)
			return
		}
		if err := r.client.MarkNotificationRead(ctx, item.ID); err != nil {
			r.showError(err)
			return
		}
		r.ui.Success("Notification marked read.")
	case args[0] == "clear" || args[0] == "readall":
		if err := r.client.MarkAllNotificationsRead(ctx); err != nil {
			r.showError(err)
			return
		}
		r.ui.Success("All notifications marked read.")
	default:
		r.ui.Error("Usage", "/notifs, /notifs read <n>, /notifs clear")
	}
}

func (r *Router) listNotifications(ctx context.Context, offset int) {
	notifs, err := runWithSpinner(r, "Loading notifications...", func() ([]models.Notification, error) {
		return r.client.ListNotifications(ctx, r.cfg.PageSize, offset)
	})
	if err != nil {
		r.showError(err)
		return
	}
	if offset > 0 && len(notifs) == 0 {
		r.ui.Info("No more notifications.")
		return
	}
	items := make([]Item, len(notifs))
	for i, n := range notifs {
		items[i] = Item{ID: n.ID, Label: n.Title}
	}
	r.listCtx.SetListing(ListNotifications, items, offset)
	r.listCtx.SetOffset(ListNotifications, offset)
	r.ui.NotificationsList(notifs, offset)
}

func (r *Router) cmdIntegrations(ctx context.Context, args []string) {
	switch {
	case len(args) == 0:
		integrations, err := runWithSpinner(r, "Loading integrations...", func() ([]models.Integration, error) {
			return r.client.ListIntegrations(ctx)
		})
		if err != nil {
			r.showError(err)
			return
		}
		items := make([]Item, len(integrations))
		for i, in := range integrations {
			items[i] = Item{ID: in.ID, Label: in.DisplayName}
		}
		r.listCtx.SetListing(ListIntegrations, items, 0)
		r.ui.IntegrationsList(integrations)
	case args[0] == "connect" && len(args) > 1:
		payload, err := r.client.ConnectIntegration(ctx, strings.ToLower(args[1]))
		if err != nil {
			r.showError(err)
			return
		}
		r.ui.Success("Connection started. Follow the link to authorize:")
		r.ui.Info(string(payload))
	case args[0] == "disconnect" && len(args) > 1:
		number, ok := r.parseNumber(args[1])
		if !ok {
			return
		}
		item, err := r.listCtx.Resolve(ListIntegrations, number)
		if err != nil {
			r.showError(err)
			return
		}
		r.confirm(fmt.Sprintf("Disconnect %q?", item.Label), func(ctx context.Context) error {
			if err := r.client.DisconnectIntegration(ctx, item.ID); err != nil {
				return err
			}
			r.ui.Success(fmt.Sprintf("%q disconnected.", item.Label))
			return nil
		})
	default:
		r.ui.Error("Usage", "/i, /i connect <provider>, /i disconnect <n>")
	}
}

func (r *Router) cmdAutomations(ctx context.Context, args []string) {
	switch {
	case len(args) == 0:
		autos, err := runWithSpinner(r, "Loading automations...", func() ([]models.Automation, error) {
			return r.client.ListAutomations(ctx)
		})
		if err != nil {
			r.showError(err)
			return
		}
		items := make([]Item, len(autos))
		for i, a := range autos {
			items[i] = Item{ID: a.ID, Label: a.Title}
		}
		r.listCtx.SetListing(ListAutomations, items, 0)
		r.ui.AutomationsList(autos)
	case (args[0] == "run" || args[0] == "on" || args[0] == "off" ||
		args[0] == "enable" || args[0] == "disable") && len(args) > 1:
		number, ok := r.parseNumber(args[1])
		if !ok {
			return
		}
		item, err := r.listCtx.Resolve(ListAutomations, number)
		if err != nil {
			r.showError(err)
			return
		}
		switch args[0] {
		case "run":
			if err := r.client.RunAutomation(ctx, item.ID); err != nil {
				r.showError(err)
				return
			}
			r.ui.Success(fmt.Sprintf("Automation %q started.", item.Label))
		case "on", "enable":
			if err := r.client.ToggleAutomation(ctx, item.ID, true); err != nil {
				r.showError(err)
				return
			}
			r.ui.Success(fmt.Sprintf("Automation %q enabled.", item.Label))
		case "off", "disable":
			if err := r.client.ToggleAutomation(ctx, item.ID, false); err != nil {
				r.showError(err)
				return
			}
			r.ui.Success(fmt.Sprintf("Automation %q disabled.", item.Label))
		}
	default:
		r.ui.Error("Usage", "/auto, /auto run <n>, /auto on <n>, /auto off <n>")
	}
}

// cmdPersona builds a relationship briefing. An argument containing @
// is an email, a quoted argument is a company, anything else a name.
// raw is the unsplit remainder so the quoting survives splitArgs.
func (r *Router) cmdPersona(ctx context.Context, args []string, raw string) {
	if len(args) == 0 {
		r.ui.Error("Usage", `/rms <email>, /rms <name...>, or /rms "Company"`)
		return
	}
	var email, name, company string
	switch {
	case strings.Contains(args[0], "@"):
		email = args[0]
	case strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) > 1:
		company = strings.Trim(raw, `"`)
	default:
		name = strings.Join(args, " ")
	}
	briefing, err := runWithSpinner(r, "Building briefing...", func() (*models.PersonaBriefing, error) {
		return r.client.PersonaBriefing(ctx, email, name, company, "")
	})
	if err != nil {
		r.showError(err)
		return
	}
	r.ui.PersonaBriefing(briefing)
}

func (r *Router) cmdProfile(ctx context.Context) {
	profile, err := runWithSpinner(r, "Loading profile...", func() (*models.Profile, error) {
		return r.client.GetProfile(ctx)
	})
	if err != nil {
		r.showError(err)
		return
	}
	r.ui.ProfileCard(profile)
}

func (r *Router) cmdSurface(ctx context.Context, partial string) {
	result, err := runWithSpinner(r, "Surfacing a memory...", func() (*models.SurfaceResult, error) {
		return r.client.SurfaceMemory(ctx, partial)
	})
	if err != nil {
		r.showError(err)
		return
	}
	r.ui.SurfaceResult(result)
}

// cmdMore fetches the next page of whichever paginated listing was
// shown last. The bare listing command resets to the first page.
func (r *Router) cmdMore(ctx context.Context) {
	kind := r.listCtx.ActiveKind()
	next := r.listCtx.Offset(kind) + r.cfg.PageSize
	switch kind {
	case ListDocuments:
		r.listDocuments(ctx, next)
	case ListNotes:
		r.listNotes(ctx, next)
	case ListNotifications:
		r.listNotifications(ctx, next)
	case ListIntegrations, ListAutomations:
		r.ui.Info("That listing is not paginated.")
	default:
		r.ui.Info("Nothing to page through. Run a listing command first.")
	}
}

func (r *Router) cmdClear() {
	r.ui.Clear()
	r.listCtx.Clear()
	r.client.InvalidateCache("")
}

// runWithSpinner runs fn behind a progress spinner while the router is
// in the awaiting-response state.
func runWithSpinner[T any](r *Router, label string, fn func() (T, error)) (T, error) {
	r.state = StateAwaitingResponse
	stop := r.ui.Spinner(label)
	result, err := fn()
	stop()
	r.state = StateIdle
	return result, err
}

func (r *Router) parseNumber(arg string) (int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		r.ui.Error("Invalid number", fmt.Sprintf("%q is not an item number", arg))
		return 0, false
	}
	return n, true
}

func isNumber(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

func (r *Router) showError(err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case api.KindAuth:
			r.ui.Error("Authentication", apiErr.Message)
		case api.KindValidation:
			r.ui.Error("Invalid input", apiErr.Message)
		case api.KindNotFound:
			r.ui.Error("Not found", apiErr.Message)
		case api.KindRateLimited:
			r.ui.Error("Rate limited", apiErr.Message)
		case api.KindTimeout:
			r.ui.Error("Timeout", apiErr.Message)
		default:
			r.ui.Error("Error", apiErr.Message)
		}
		return
	}
	r.ui.Error("Error", err.Error())
}

// rawRemainder returns everything after the command token, untouched.
func rawRemainder(input string) string {
	idx := strings.IndexAny(input, " \t")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(input[idx:])
}

// splitArgs splits a command line on whitespace, honoring double
// quotes so titles and contents can contain spaces.
func splitArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case !inQuotes && (r == ' ' || r == '\t'):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
