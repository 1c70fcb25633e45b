package gateway

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusdesk/campusdesk/internal/config"
	"github.com/campusdesk/campusdesk/internal/httpx"
	"github.com/campusdesk/campusdesk/internal/logging"
	"github.com/campusdesk/campusdesk/internal/server/auth"
)

// DefaultAddr is the gateway's listen address when none is configured.
const DefaultAddr = ":5000"

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler http.Handler
}

// NewApp wires the route table, forwarder and metrics from c. Log output
// goes to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) *App {
	logger := logging.New(c.LogLevel, c.LogFormat, w).With("service", "gateway")

	metrics := NewMetrics()
	forwarder := NewForwarder(&http.Client{}, c.UpstreamTimeout, logger, metrics)

	var opts Options
	if c.RequireChatToken {
		secret, demo := c.SigningKey()
		if demo {
			logger.Warn(ctx, "no secret key configured, verifying chat tokens with the demo key")
		}
		opts.ChatVerifier = auth.NewIssuer(secret, c.TokenValidityDuration)
	}

	routes := DefaultRoutes(c.AuthServiceURL, c.ReplyServiceURL)
	for _, rt := range routes {
		logger.Info(ctx, "route registered", "route", rt.Name, "pattern", rt.Pattern, "upstream", rt.Upstream)
	}

	return &App{
		config:  c,
		logger:  logger,
		handler: NewRouter(routes, forwarder, metrics, opts, logger),
	}
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

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	s := httpx.NewServer(app.config.HTTPAddr, app.handler, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
