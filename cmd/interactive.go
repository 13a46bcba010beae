package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"

	"github.com/selflayer/selflayer-cli/internal/auth"
	"github.com/selflayer/selflayer-cli/internal/logging"
	"github.com/selflayer/selflayer-cli/internal/router"
)

// InteractiveSession holds the state for an interactive session.
type InteractiveSession struct {
	app      *App
	exitFlag bool
}

// completer provides auto-completion suggestions for slash commands.
// Suggestions are context-aware: typing a command followed by a space
// offers that command's subcommands.
func (s *InteractiveSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	text := d.TextBeforeCursor()
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	// Only show suggestions when input starts with "/"
	if !strings.HasPrefix(text, "/") {
		return []prompt.Suggest{}, startIndex, endIndex
	}

	textLower := strings.ToLower(text)

	if strings.HasPrefix(textLower, "/notes ") || strings.HasPrefix(textLower, "/n ") {
		suggestions := []prompt.Suggest{
			{Text: "new", Description: `Create a note: new "Title" "Content"`},
			{Text: "edit", Description: "Replace a note's content: edit <n> \"Content\""},
			{Text: "delete", Description: "Delete a note: delete <n>"},
		}
		return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
	}

	if strings.HasPrefix(textLower, "/documents ") || strings.HasPrefix(textLower, "/d ") {
		suggestions := []prompt.Suggest{
			{Text: "new", Description: "Upload a file: new <path>"},
			{Text: "delete", Description: "Delete a document: delete <n>"},
		}
		return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
	}

	if strings.HasPrefix(textLower, "/notifications ") || strings.HasPrefix(textLower, "/notifs ") {
		suggestions := []prompt.Suggest{
			{Text: "read", Description: "Mark one notification read: read <n>"},
			{Text: "clear", Description: "Mark all notifications read"},
		}
		return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
	}

	if strings.HasPrefix(textLower, "/integrations ") || strings.HasPrefix(textLower, "/i ") {
		suggestions := []prompt.Suggest{
			{Text: "connect", Description: "Connect a provider: connect <provider>"},
			{Text: "disconnect", Description: "Disconnect an integration: disconnect <n>"},
		}
		return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
	}

	if strings.HasPrefix(textLower, "/automations ") || strings.HasPrefix(textLower, "/auto ") {
		suggestions := []prompt.Suggest{
			{Text: "run", Description: "Run an automation now: run <n>"},
			{Text: "on", Description: "Enable an automation: on <n>"},
			{Text: "off", Description: "Disable an automation: off <n>"},
		}
		return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
	}

	if strings.HasPrefix(textLower, "/key ") || strings.HasPrefix(textLower, "/k ") {
		suggestions := []prompt.Suggest{
			{Text: "set", Description: "Store an API key"},
			{Text: "clear", Description: "Remove the stored API key"},
			{Text: "status", Description: "Show the configured key (masked)"},
		}
		return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
	}

	// Main command suggestions
	suggestions := []prompt.Suggest{
		// Most used commands first
		{Text: "/ask", Description: "Ask the assistant a question"},
		{Text: "/search", Description: "Search the knowledge base"},
		{Text: "/notes", Description: "List and manage notes"},
		{Text: "/documents", Description: "List and manage documents"},
		{Text: "/more", Description: "Next page of the last listing"},
		{Text: "/help", Description: "Show all available commands"},
		{Text: "/quit", Description: "Exit"},

		{Text: "/notifications", Description: "List notifications"},
		{Text: "/integrations", Description: "List connected integrations"},
		{Text: "/automations", Description: "List automations"},
		{Text: "/rms", Description: "Relationship briefing for a contact"},
		{Text: "/profile", Description: "Show your profile"},
		{Text: "/surface", Description: "Surface a memory"},
		{Text: "/key", Description: "Manage the API key"},
		{Text: "/clear", Description: "Clear the screen and session context"},

		// Aliases
		{Text: "/a", Description: "Ask (alias)"},
		{Text: "/s", Description: "Search (alias)"},
		{Text: "/n", Description: "Notes (alias)"},
		{Text: "/d", Description: "Documents (alias)"},
		{Text: "/m", Description: "More (alias)"},
		{Text: "/q", Description: "Quit (alias)"},
	}

	return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
}

// runInteractive starts the interactive session with a REPL interface.
// It prints a greeting, sets up command completion, and feeds each input
// line through the command router until the session is terminated.
func (app *App) runInteractive() {
	fmt.Println("SelfLayer - Interactive Session")
	fmt.Println("Type /help for commands, /quit or Ctrl+D to exit")
	fmt.Println("Commands auto-complete as you type")
	fmt.Println()

	app.greet()

	session := &InteractiveSession{app: app}

	// A SIGINT while an answer is streaming cancels the stream
	// instead of killing the session.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			app.router.Interrupt()
		}
	}()

	p := prompt.New(
		session.executor,
		prompt.WithCompleter(session.completer),
		prompt.WithPrefix("> "),
		prompt.WithTitle("SelfLayer"),
		prompt.WithPrefixTextColor(prompt.Green),
		// Suggestion box styling - better contrast and visibility
		prompt.WithSuggestionBGColor(prompt.DarkBlue),
		prompt.WithSuggestionTextColor(prompt.White),
		prompt.WithSelectedSuggestionBGColor(prompt.Cyan),
		prompt.WithSelectedSuggestionTextColor(prompt.Black),
		prompt.WithDescriptionBGColor(prompt.DarkBlue),
		prompt.WithDescriptionTextColor(prompt.LightGray),
		prompt.WithSelectedDescriptionBGColor(prompt.Cyan),
		prompt.WithSelectedDescriptionTextColor(prompt.Black),
		prompt.WithScrollbarBGColor(prompt.DarkGray),
		prompt.WithScrollbarThumbColor(prompt.White),
		prompt.WithMaxSuggestion(15),
		prompt.WithCompletionOnDown(),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return session.exitFlag || app.router.ShouldQuit()
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				if app.router.State() == router.StateStreaming {
					app.router.Interrupt()
					return false
				}
				fmt.Println("\nGoodbye!")
				session.exitFlag = true
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Println("Goodbye!")
					session.exitFlag = true
				}
				return false
			},
		}),
	)

	p.Run()
}

// executor handles the execution of each input line in the REPL.
func (s *InteractiveSession) executor(input string) {
	if s.exitFlag {
		return
	}
	s.app.router.Execute(context.Background(), input)
	if s.app.router.ShouldQuit() {
		fmt.Println("Goodbye!")
		s.exitFlag = true
	}
}

// greet fetches the profile and prints a personal greeting. Skipped
// quietly when no key is configured or the profile call fails; the
// session is still usable for /key and /help.
func (app *App) greet() {
	if !auth.HasKey() {
		app.ui.Info("No API key configured. Use /key set <key> or SELFLAYER_API_KEY.")
		fmt.Println()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.Timeout)
	defer cancel()

	profile, err := app.client.GetProfile(ctx)
	if err != nil {
		logging.Debug("startup profile fetch failed", logging.Fields{"error": err.Error()})
		return
	}
	app.ui.Info(profile.Greeting())
	fmt.Println()
}
