// Package server wires the ledger node together: storage, the pending
// transaction pool, the gRPC endpoint, the deposit index and the admin
// surface. It handles graceful shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/logging"
	"github.com/dmitrijs2005/safesend/internal/server/admin"
	"github.com/dmitrijs2005/safesend/internal/server/archive"
	"github.com/dmitrijs2005/safesend/internal/server/config"
	"github.com/dmitrijs2005/safesend/internal/server/indexer"
	"github.com/dmitrijs2005/safesend/internal/server/metrics"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/safesend/internal/server/services"
	"github.com/dmitrijs2005/safesend/internal/server/txpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/safesend/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	ledger   *services.LedgerService
	sessions *services.SessionService
	pool     *txpool.Pool
	index    *indexer.Index
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	archive  *archive.Archive
}

func NewApp(c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	params, err := c.LedgerParams()
	if err != nil {
		return nil, fmt.Errorf("ledger params: %w", err)
	}
	address, err := c.Ledger()
	if err != nil {
		return nil, fmt.Errorf("ledger address: %w", err)
	}
	engine, err := ledger.NewEngine(params, address)
	if err != nil {
		return nil, fmt.Errorf("ledger engine: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migrations: %w", err)
	}

	app := &App{
		config:   c,
		logger:   logger,
		db:       db,
		ledger:   services.NewLedgerService(db, rm, engine, logger),
		sessions: services.NewSessionService(db, rm, c),
		index:    indexer.New(logger),
		registry: prometheus.NewRegistry(),
	}

	app.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.metrics = metrics.New(app.registry)

	app.pool = txpool.New(params, app.ledger, app.ledger, c.PoolSize, logger)
	app.pool.AddObserver(app.metrics)
	app.pool.AddObserver(app.index)
	app.metrics.TrackPoolDepth(app.pool.Len)

	if c.S3Bucket != "" {
		client, err := archive.NewS3Client(context.Background(), archive.Settings{
			Region:    c.S3Region,
			Endpoint:  c.S3BaseEndpoint,
			AccessKey: c.S3RootUser,
			SecretKey: c.S3RootPassword,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		app.archive = archive.New(c.S3Bucket, client, c.PoolSize, logger)
		app.archive.OnResult(app.metrics.Archived)
		app.pool.AddObserver(app.archive)
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.ledger, app.pool, app.sessions, app.index, app.metrics, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) startAdminServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := admin.NewServer(app.config.AdminAddr, admin.NewRouter(app.db, app.registry), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

const tokenSweepInterval = time.Hour

func (app *App) sweepTokens(ctx context.Context) {
	ticker := time.NewTicker(tokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.sessions.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "refresh token sweep failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Debug(ctx, "expired refresh tokens purged", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	// the index must be complete before the endpoint serves ListDeposits
	if err := app.index.Replay(ctx, app.ledger); err != nil {
		app.logger.Error(ctx, "index replay failed", "error", err)
		app.close(ctx)
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.pool.Run(ctx)
	}()

	if app.archive != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.archive.Run(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweepTokens(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startAdminServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
	app.logger.Info(ctx, "App stopped")
}
