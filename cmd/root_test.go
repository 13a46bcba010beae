package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/selflayer/selflayer-cli/internal/api"
	"github.com/selflayer/selflayer-cli/internal/auth"
	"github.com/selflayer/selflayer-cli/internal/config"
	"github.com/selflayer/selflayer-cli/internal/display"
	"github.com/selflayer/selflayer-cli/internal/logging"
	"github.com/selflayer/selflayer-cli/internal/router"
)

// newTestApp wires a full App against a test server, capturing output
// in a buffer instead of stdout.
func newTestApp(t *testing.T, handler http.Handler) (*App, *bytes.Buffer) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home+"/.config")
	t.Setenv("SELFLAYER_API_KEY", "sl_test_apptest")

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.NewConfig()
	cfg.BaseURL = server.URL
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	var buf bytes.Buffer
	app := &App{cfg: cfg}
	app.ui = display.New(&buf, false)
	app.client = api.NewClient(cfg, auth.LoadKey, logging.DefaultLogger)
	app.router = router.New(app.client, app.ui, cfg)
	return app, &buf
}

func TestRunOnceProfile(t *testing.T) {
	app, buf := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data": {"id": "p1", "user_id": "u1", "full_name": "Ada Lovelace"}}`)
	}))

	app.runOnce("/profile")

	if !strings.Contains(buf.String(), "Ada Lovelace") {
		t.Errorf("output missing profile name:\n%s", buf.String())
	}
}

func TestRunOnceBareQueryBecomesAsk(t *testing.T) {
	app, buf := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exocortex/ask" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"content\": \"hello \"}\n\n")
		fmt.Fprint(w, "data: {\"content\": \"world\"}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))

	app.runOnce("what is up")

	if !strings.Contains(buf.String(), "hello world") {
		t.Errorf("output missing streamed answer:\n%s", buf.String())
	}
}

func TestRunOnceUnknownCommand(t *testing.T) {
	app, buf := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))

	app.runOnce("/bogus")

	if !strings.Contains(buf.String(), "/help") {
		t.Errorf("output missing help hint:\n%s", buf.String())
	}
}
