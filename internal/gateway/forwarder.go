package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/httpx"
	"github.com/campusdesk/campusdesk/internal/logging"
	"github.com/campusdesk/campusdesk/internal/netx"
)

const (
	msgBodyTooLarge = "Request body too large."
	msgInvalidBody  = "Invalid request body."
)

// Forwarder posts request bodies to a route's upstream, one attempt per
// request, and writes the translated result.
type Forwarder struct {
	client  *http.Client
	timeout time.Duration
	logger  logging.Logger
	metrics *Metrics
}

func NewForwarder(client *http.Client, timeout time.Duration, l logging.Logger, m *Metrics) *Forwarder {
	if client == nil {
		client = &http.Client{}
	}
	return &Forwarder{
		client:  client,
		timeout: timeout,
		logger:  l.With("module", "forwarder"),
		metrics: m,
	}
}

// Call sends body to rt.Upstream. Transport failures and timeouts wrap
// common.ErrUpstreamUnreachable; error statuses come back as *UpstreamError.
// The call is not cancelled when ctx is, only when the timeout expires.
func (f *Forwarder) Call(ctx context.Context, rt Route, contentType string, body []byte) (*netx.Response, error) {
	callCtx := context.WithoutCancel(ctx)
	if f.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, f.timeout)
		defer cancel()
	}

	header := http.Header{}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		header.Set(common.RequestIDHeaderName, id)
	}

	resp, err := netx.Post(callCtx, f.client, rt.Upstream, contentType, body, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnreachable, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Header: resp.Header, Body: resp.Body}
	}
	return resp, nil
}

// Handler returns the http.Handler serving rt.
func (f *Forwarder) Handler(rt Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, common.MaxRequestBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httpx.WriteError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
				return
			}
			httpx.WriteError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/json"
		}

		start := time.Now()
		resp, err := f.Call(ctx, rt, contentType, body)
		elapsed := time.Since(start)

		var upstreamErr *UpstreamError
		switch {
		case err == nil:
			f.record(rt.Name, OutcomeSuccess, elapsed)
			writeMirrored(w, resp.StatusCode, resp.Header, resp.Body)

		case errors.As(err, &upstreamErr):
			f.record(rt.Name, OutcomeUpstreamErr, elapsed)
			f.logger.Warn(ctx, "upstream returned error", "route", rt.Name, "status", upstreamErr.StatusCode)
			if upstreamErr.JSONBody() {
				writeMirrored(w, upstreamErr.StatusCode, upstreamErr.Header, upstreamErr.Body)
				return
			}
			httpx.WriteError(w, upstreamErr.StatusCode, rt.FailureMessage)

		default:
			f.record(rt.Name, OutcomeUnreachable, elapsed)
			f.logger.Error(ctx, "upstream call failed", "route", rt.Name, "upstream", rt.Upstream, "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, rt.FailureMessage)
		}
	})
}

func (f *Forwarder) record(route, outcome string, elapsed time.Duration) {
	if f.metrics != nil {
		f.metrics.observe(route, outcome, elapsed)
	}
}

func writeMirrored(w http.ResponseWriter, status int, header http.Header, body []byte) {
	ct := header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
