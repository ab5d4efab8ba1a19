// Package cli is the interactive terminal front end. It wires the credential
// store, the change watcher, the request gateway, and the session controller
// together and drives them from a small REPL.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"github.com/mindtrap/client/internal/api"
	"github.com/mindtrap/client/internal/config"
	"github.com/mindtrap/client/internal/credstore"
	"github.com/mindtrap/client/internal/gateway"
	"github.com/mindtrap/client/internal/logging"
	"github.com/mindtrap/client/internal/notify"
	"github.com/mindtrap/client/internal/routegate"
	"github.com/mindtrap/client/internal/session"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	watcher  *notify.Watcher
	sessions *session.Controller
	gate     *routegate.Gate
	backend  *api.Client
	reader   *bufio.Reader

	// path the user is "on"; the route gate decides whether they stay.
	currentPath string
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.NewNop()
	}

	db, err := credstore.Open(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	bus := notify.NewBus(log)
	store := credstore.NewSQLiteStore(db, bus, log)
	watcher := notify.NewWatcher(db, bus, c.WatchInterval, log)

	gw := gateway.New(c.BaseURL, store, log,
		gateway.WithHTTPClient(&http.Client{Timeout: c.HTTPTimeout}))

	sessions := session.NewController(gw, store, bus, log)

	return &App{
		config:      c,
		log:         log,
		db:          db,
		watcher:     watcher,
		sessions:    sessions,
		gate:        routegate.NewGate(sessions),
		backend:     api.NewClient(gw),
		reader:      bufio.NewReader(os.Stdin),
		currentPath: routegate.PathLanding,
	}, nil
}

// Run starts the storage watcher and blocks in the REPL until the user exits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	go a.watcher.Run(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

// Close releases the database handle and detaches the session controller.
func (a *App) Close() {
	a.sessions.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current().Authenticated()
}

// status builds the REPL prompt: the signed-in email (if any) and the
// current virtual path.
func (a *App) status() string {
	s := a.sessions.Current()
	who := "guest"
	if s.Authenticated() && s.Profile != nil && s.Profile.Email != "" {
		who = s.Profile.Email
	}
	return who + " " + a.currentPath
}
