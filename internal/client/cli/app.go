package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/safesend/internal/client/client"
	"github.com/dmitrijs2005/safesend/internal/client/config"
	"github.com/dmitrijs2005/safesend/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/safesend/internal/client/services"
	"github.com/dmitrijs2005/safesend/internal/client/wallet"
	"github.com/dmitrijs2005/safesend/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	auth       services.AuthService
	safeSend   services.SafeSendService
	onboarding services.OnboardingService
	prefs      services.PreferencesService

	wallet   *wallet.Wallet
	loggedIn bool

	mu   sync.Mutex
	mode Mode

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger, err := logging.NewWithWriter("slog", c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger = logger.With("module", "cli")

	db, err := client.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.LocalDBPath, "error", err)
		return nil, err
	}

	apiClient, err := client.NewSafeSendClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repo := metadata.NewSQLiteRepository(db)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		auth:   services.NewAuthService(apiClient),
		safeSend: services.NewSafeSendService(apiClient, services.Options{
			ReceiptTimeout: c.ReceiptTimeout,
			IndexedHistory: c.IndexedHistory,
		}),
		onboarding: services.NewOnboardingService(repo),
		prefs:      services.NewPreferencesService(repo),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.auth.Close(ctx)
		_ = a.db.Close()
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connection mode changed", "mode", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.auth.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
	} else {
		a.setMode(ctx, ModeOnline)
	}
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
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
