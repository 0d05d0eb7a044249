package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/dmitrijs2005/dashgate/internal/client/client"
	"github.com/dmitrijs2005/dashgate/internal/client/config"
	"github.com/dmitrijs2005/dashgate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dashgate/internal/client/services"
	"github.com/dmitrijs2005/dashgate/internal/client/tokenstore"
	"github.com/dmitrijs2005/dashgate/internal/logging"
)

const appName = "dashgate"

// App is the interactive client: it owns the services and the terminal I/O.
type App struct {
	config *config.Config
	log    logging.Logger

	auth   services.AuthService
	guard  *services.SessionGuard
	policy *services.AdminAccessPolicy
	admin  services.PendingUserWorkflow

	// userName is shown in the prompt. It is display state only; access
	// decisions always go through guard and policy.
	userName string

	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB
}

// NewApp opens the token storage selected by c, builds the HTTP client for
// the configured API and wires the services on top of them.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	var (
		store tokenstore.Store
		db    *sql.DB
	)

	if c.Ephemeral {
		store = tokenstore.NewMemoryStore()
	} else {
		var err error
		db, err = client.InitDatabase(ctx, c.StoragePath)
		if err != nil {
			log.Error(ctx, "error initializing database", "path", c.StoragePath, "error", err)
			return nil, err
		}
		store = tokenstore.NewSQLiteStore(metadata.NewSQLiteRepository(db), log)
	}

	api, err := client.NewHTTPClient(client.Options{
		BaseURL:      c.BaseURL(),
		Timeout:      c.RequestTimeout,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Scopes:       c.Scopes,
		Logger:       log,
	})
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	a := newApp(c, api, store, log, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, api client.Client, store tokenstore.Store, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	auth := services.NewAuthService(api, store, log)
	guard := services.NewSessionGuard(auth, log)

	return &App{
		config: c,
		log:    log,
		auth:   auth,
		guard:  guard,
		policy: services.NewAdminAccessPolicy(guard, auth, log),
		admin:  services.NewPendingUserWorkflow(api, store),
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run prints the banner, routes the visitor once and then serves the REPL
// until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	figure.Write(a.out, figure.NewFigure(appName, "", true))
	a.println()
	a.println(fmt.Sprintf("API: %s (type 'help' for commands)", a.config.BaseURL()))

	_ = a.Home(ctx)

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// Close releases the local database, if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.guard.IsAuthenticated(ctx)
}

func (a *App) status() string {
	if a.userName == "" {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
