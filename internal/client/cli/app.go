package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
	"github.com/dmitrijs2005/taskkeeper/internal/client/session"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const onlineCheckInterval = 15 * time.Second

type App struct {
	config      *config.Config
	db          *sql.DB
	authService services.AuthService
	taskService services.TaskService
	logger      logging.Logger
	reader      *bufio.Reader
	out         io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the session cache and builds the services. Logs go to
// stderr so they do not mix with command output.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(api, metadata.NewSessionStore(db), session.New(), logger)
	ts := services.NewTaskService(api, as)

	return &App{
		config:      c,
		db:          db,
		authService: as,
		taskService: ts,
		logger:      logger,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run restores a cached session, starts the connectivity watcher and blocks
// in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to TaskKeeper CLI (type 'help' for commands)")
	a.restore(ctx)

	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) restore(ctx context.Context) {
	ok, err := a.authService.Restore(ctx)
	switch {
	case err != nil:
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, "Could not verify the saved session:", describeError(err))
	case ok:
		a.setMode(ModeOnline)
		id, _ := a.authService.WhoAmI()
		fmt.Fprintf(a.out, "Welcome back, %s\n", id.Email)
	default:
		a.setMode(ModeOnline)
	}
}

func (a *App) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	_, st := a.authService.WhoAmI()
	return st == session.Authenticated
}

func (a *App) getStatus() string {
	s := ""
	if id, st := a.authService.WhoAmI(); st == session.Authenticated {
		s = id.Email + " "
	} else if st == session.Expired {
		s = "expired "
	}
	if m := a.getMode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
