package cmd

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selflayer/selflayer-cli/internal/api"
	"github.com/selflayer/selflayer-cli/internal/auth"
	"github.com/selflayer/selflayer-cli/internal/config"
	"github.com/selflayer/selflayer-cli/internal/display"
	"github.com/selflayer/selflayer-cli/internal/logging"
	"github.com/selflayer/selflayer-cli/internal/router"
)

// App holds the application state
type App struct {
	cfg    *config.Config
	client *api.Client
	ui     *display.Renderer
	router *router.Router
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg: config.NewConfig(),
	}
}

// Execute runs the root command
func Execute() {
	app := NewApp()

	rootCmd := &cobra.Command{
		Use:   "selflayer [command...]",
		Short: "Terminal client for the SelfLayer knowledge assistant",
		Long: `SelfLayer CLI is a terminal client for the SelfLayer API: ask questions
against your knowledge base, search it, and manage notes, documents,
notifications, integrations and automations.

With no arguments it starts an interactive session. Arguments are run as a
single command and the program exits.

Examples:
  selflayer                              # Interactive session
  selflayer /ask "What did I read about Go generics?"
  selflayer /notes                       # List notes and exit
  selflayer --render=false /profile      # Plain-text output
  selflayer key set sl_live_...          # Store an API key`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.run(cmd, args)
		},
	}

	rootCmd.Flags().BoolVarP(&app.cfg.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&app.cfg.Render, "render", "r", true, "Render answers as markdown")
	rootCmd.Flags().StringVar(&app.cfg.BaseURL, "base-url", "", "API base URL (overrides config file and SELFLAYER_BASE_URL)")
	rootCmd.Flags().IntVar(&app.cfg.PageSize, "page-size", 0, "Items per listing page (1-100)")
	rootCmd.Flags().DurationVar(&app.cfg.Timeout, "timeout", 0, "Timeout for buffered API calls")

	// Add subcommands
	rootCmd.AddCommand(NewKeyCmd())
	rootCmd.AddCommand(NewInitCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (app *App) run(cmd *cobra.Command, args []string) {
	if app.cfg.Verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	// Validate config
	if err := app.cfg.Validate(); err != nil {
		display.New(os.Stderr, false).Error("Configuration", err.Error())
		os.Exit(1)
	}

	app.ui = display.New(os.Stdout, app.cfg.Render)
	app.client = api.NewClient(app.cfg, auth.LoadKey, logging.DefaultLogger)
	app.router = router.New(app.client, app.ui, app.cfg)

	// One-shot mode: run the arguments as a single command line
	if len(args) > 0 {
		app.runOnce(strings.Join(args, " "))
		return
	}

	app.runInteractive()
}

// runOnce executes one command line and exits. A bare query with no
// leading slash is treated as a question for the assistant.
func (app *App) runOnce(input string) {
	if !strings.HasPrefix(input, "/") {
		input = "/ask " + input
	}

	ctx := context.Background()
	app.router.Execute(ctx, input)

	// Destructive commands park a confirmation; read the answer from
	// stdin so `selflayer /n delete 2` still asks before deleting.
	// Unrecognized answers re-prompt; EOF counts as no.
	scanner := bufio.NewScanner(os.Stdin)
	for app.router.State() == router.StateAwaitingConfirmation {
		answer := ""
		if scanner.Scan() {
			answer = scanner.Text()
		}
		app.router.Execute(ctx, answer)
	}
}
