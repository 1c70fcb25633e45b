package gateway

import (
	"net/http"

	"github.com/campusdesk/campusdesk/internal/httpx"
	"github.com/campusdesk/campusdesk/internal/logging"
)

// Options selects the gateway's optional behaviour.
type Options struct {
	// ChatVerifier, when set, guards the chat route with RequireBearer.
	ChatVerifier TokenVerifier
}

// NewRouter builds the gateway handler: the route table, health and metrics
// endpoints wrapped in CORS, request ID, access log and panic recovery.
func NewRouter(routes []Route, f *Forwarder, m *Metrics, opts Options, l logging.Logger) http.Handler {
	mux := http.NewServeMux()

	for _, rt := range routes {
		h := f.Handler(rt)
		if rt.Name == RouteChat && opts.ChatVerifier != nil {
			h = RequireBearer(opts.ChatVerifier, l)(h)
		}
		mux.Handle(rt.Pattern, h)
	}

	mux.HandleFunc("GET /healthz", httpx.Health("gateway"))
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Not found.")
	})

	return httpx.Chain(mux,
		httpx.CORS(),
		httpx.RequestID(),
		httpx.AccessLog(l),
		httpx.Recover(l),
	)
}
