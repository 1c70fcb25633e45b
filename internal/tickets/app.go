package tickets

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusdesk/campusdesk/internal/config"
	"github.com/campusdesk/campusdesk/internal/httpx"
	"github.com/campusdesk/campusdesk/internal/logging"
)

// DefaultAddr is the ticket service's listen address when none is configured.
const DefaultAddr = ":5002"

type App struct {
	config *config.Config
	logger logging.Logger
	store  Store
}

// NewApp opens the Badger store in c.TicketDataDir, or a memory store when
// it is empty. Log output goes to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger := logging.New(c.LogLevel, c.LogFormat, w).With("service", "tickets")

	var store Store
	if c.TicketDataDir == "" {
		logger.Warn(ctx, "using in-memory ticket store, tickets are lost on restart")
		store = NewMemoryStore()
	} else {
		bs, err := OpenBadgerStore(c.TicketDataDir, logger)
		if err != nil {
			return nil, err
		}
		store = bs
	}

	return &App{config: c, logger: logger, store: store}, nil
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

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	h := NewHandler(NewService(app.store), app.logger)
	s := httpx.NewServer(app.config.HTTPAddr, h.Routes(), app.logger)

	runErr := s.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, runErr.Error())
	}

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "store close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
