package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/client"
	"github.com/dmitrijs2005/gophvote/internal/client/config"
	"github.com/dmitrijs2005/gophvote/internal/client/projection"
	"github.com/dmitrijs2005/gophvote/internal/client/services"
	"github.com/dmitrijs2005/gophvote/internal/client/sessions"
	"github.com/dmitrijs2005/gophvote/internal/client/watcher"
	"github.com/dmitrijs2005/gophvote/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	authService    services.AuthService
	topicService   services.TopicService
	sessionService services.SessionService
	voteService    services.VoteService

	store   *sessions.Store
	board   *projection.Board
	hub     *watcher.Hub
	watcher *watcher.Watcher

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	mu       sync.Mutex
	mode     Mode
	userName string
}

// NewApp opens the local database and wires every component.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogFile, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.APIBaseURL)
	a := newApp(c, db, api, logger, time.Now)
	a.reader = bufio.NewReader(os.Stdin)
	a.out = os.Stdout
	return a, nil
}

func newApp(c *config.Config, db *sql.DB, api client.Client, logger logging.Logger, now func() time.Time) *App {
	store := sessions.NewStore(db, logger)
	board := projection.NewBoard(projection.WithClock(now))

	as := services.NewAuthService(api, db, now)
	ts := services.NewTopicService(api, as, store, board, now)
	ss := services.NewSessionService(api, as, store, board, logger, now)
	vs := services.NewVoteService(api, as, board)

	hub := watcher.NewHub()
	triggers := []watcher.Trigger{watcher.Resumed(), hub}
	if c.ChangePollInterval > 0 {
		triggers = append(triggers, sessions.NewChangeFeed(db, c.ChangePollInterval, logger))
	}
	w := watcher.New(store, board, ts, logger,
		watcher.WithInterval(c.WatchInterval),
		watcher.WithClock(now),
		watcher.WithTriggers(triggers...),
	)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		authService:    as,
		topicService:   ts,
		sessionService: ss,
		voteService:    vs,
		store:          store,
		board:          board,
		hub:            hub,
		watcher:        w,
		now:            now,
	}
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName != ""
}

// Run blocks in the REPL and releases every resource on return.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)
	a.Root(ctx)
}

func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.authService.Close(ctx), a.db.Close())
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
