// Package server initializes and runs the credential service.
// It selects the account store, serves signup and login over HTTP,
// optionally exposes a gRPC health endpoint and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/campusdesk/campusdesk/internal/config"
	"github.com/campusdesk/campusdesk/internal/httpx"
	"github.com/campusdesk/campusdesk/internal/logging"
	"github.com/campusdesk/campusdesk/internal/server/auth"
	"github.com/campusdesk/campusdesk/internal/server/httpapi"
	"github.com/campusdesk/campusdesk/internal/server/repositories/repomanager"
	"github.com/campusdesk/campusdesk/internal/server/services"

	gs "github.com/campusdesk/campusdesk/internal/server/grpc"
)

// DefaultAddr is the credential service's listen address when none is configured.
const DefaultAddr = ":5003"

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
}

// NewApp opens the account store selected by c.DatabaseDSN and builds the
// services. Log output goes to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {

	logger := logging.New(c.LogLevel, c.LogFormat, w).With("service", "auth")

	secret, demo := c.SigningKey()
	if demo {
		logger.Warn(ctx, "no secret key configured, signing tokens with the demo key")
	}

	db, m, err := repomanager.FromDSN(ctx, c.DatabaseDSN, config.MemoryDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if db == nil {
		logger.Warn(ctx, "using in-memory account store, accounts are lost on restart")
	}

	issuer := auth.NewIssuer(secret, c.TokenValidityDuration)
	as := services.NewAccountService(db, m, issuer, c)

	return &App{config: c, logger: logger, db: db, accounts: as}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandler(app.accounts, app.logger)
	s := httpx.NewServer(app.config.HTTPAddr, httpx.Chain(h.Routes(), httpx.CORS()), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	var probe gs.Probe
	if app.db != nil {
		probe = app.db.PingContext
	}

	s := gs.NewHealthServer(app.config.HealthAddrGRPC, app.logger, probe, 10*time.Second)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or a
// server fails, then closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.HealthAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHealthServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
