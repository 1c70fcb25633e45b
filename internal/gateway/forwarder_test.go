package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwarder_MirrorsStatusAndJSONBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"created", http.StatusCreated, `{"token":"t","user":{"id":"1"}}`},
		{"ok", http.StatusOK, `{"reply":"hello"}`},
		{"conflict", http.StatusConflict, `{"error":"x"}`},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid email or password."}`},
		{"bad request", http.StatusBadRequest, `{"error":"Email and password are required."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := upstream(t, tt.status, "application/json", tt.body)
			h, _ := newTestRouter(up.URL, up.URL, time.Second, Options{})

			rr := post(h, "/api/auth/login", `{"email":"a","password":"b"}`, nil)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.body, rr.Body.String())
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}

func TestForwarder_NonJSONErrorBodyIsReplaced(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		status      int
		contentType string
		body        string
		wantMsg     string
	}{
		{"html 502 on chat", "/api/chat", http.StatusBadGateway, "text/html", "<html>Bad Gateway</html>", "Chatbot service unavailable"},
		{"empty 500 on signup", "/api/auth/signup", http.StatusInternalServerError, "", "", "Auth signup failed"},
		{"stack trace on login", "/api/auth/login", http.StatusInternalServerError, "text/plain", "panic: at main.go:12", "Auth login failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := upstream(t, tt.status, tt.contentType, tt.body)
			h, _ := newTestRouter(up.URL, up.URL, time.Second, Options{})

			rr := post(h, tt.path, `{}`, nil)

			assert.Equal(t, tt.status, rr.Code)
			assert.JSONEq(t, `{"error":"`+tt.wantMsg+`"}`, rr.Body.String())
		})
	}
}

func TestForwarder_UnreachableUpstream(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	h, _ := newTestRouter(deadURL, deadURL, time.Second, Options{})

	rr := post(h, "/api/auth/signup", `{"name":"a","email":"b","password":"c"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Auth signup failed"}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "refused")
	assert.NotContains(t, rr.Body.String(), "127.0.0.1")
}

func TestForwarder_TimeoutIsUnreachable(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	h, _ := newTestRouter(slow.URL, slow.URL, 50*time.Millisecond, Options{})

	start := time.Now()
	rr := post(h, "/api/chat", `{"message":"hi"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Chatbot service unavailable"}`, rr.Body.String())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestForwarder_ForwardsBodyAndRequestID(t *testing.T) {
	var gotBody, gotReqID, gotCT, gotPath, gotAuth string
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotReqID = r.Header.Get(common.RequestIDHeaderName)
		gotCT = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reply":"ok"}`))
	}))
	defer up.Close()

	h, _ := newTestRouter(up.URL, up.URL, time.Second, Options{})

	hdr := http.Header{}
	hdr.Set(common.RequestIDHeaderName, "req-42")
	hdr.Set("Authorization", "Bearer secret")
	rr := post(h, "/api/chat", `{"message":"hello"}`, hdr)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/chat", gotPath)
	assert.Equal(t, `{"message":"hello"}`, gotBody)
	assert.Equal(t, "req-42", gotReqID)
	assert.Equal(t, "application/json", gotCT)
	assert.Empty(t, gotAuth, "only Content-Type and X-Request-ID are forwarded")
	assert.Equal(t, "req-42", rr.Header().Get(common.RequestIDHeaderName))
}

func TestForwarder_ClientCancelDoesNotAbortUpstream(t *testing.T) {
	var completed atomic.Bool
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(30 * time.Millisecond)
		if r.Context().Err() == nil {
			completed.Store(true)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer up.Close()

	f := NewForwarder(&http.Client{}, time.Second, nopLogger{}, nil)
	rt := DefaultRoutes(up.URL, up.URL)[0]

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := f.Call(ctx, rt, "application/json", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, completed.Load())
}

func TestForwarder_CallErrors(t *testing.T) {
	up := upstream(t, http.StatusConflict, "application/json", `{"error":"x"}`)
	f := NewForwarder(nil, time.Second, nopLogger{}, nil)
	rt := DefaultRoutes(up.URL, up.URL)[0]

	_, err := f.Call(logging.WithRequestID(context.Background(), "r"), rt, "application/json", []byte(`{}`))

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusConflict, ue.StatusCode)
	assert.True(t, ue.JSONBody())

	rt.Upstream = "http://127.0.0.1:1/signup"
	_, err = f.Call(context.Background(), rt, "application/json", []byte(`{}`))
	assert.ErrorIs(t, err, common.ErrUpstreamUnreachable)
}

func TestForwarder_RejectsOversizedBody(t *testing.T) {
	var called atomic.Bool
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	}))
	defer up.Close()

	h, _ := newTestRouter(up.URL, up.URL, time.Second, Options{})

	big := strings.Repeat("a", common.MaxRequestBodyBytes+1)
	rr := post(h, "/api/chat", big, nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.False(t, called.Load())
}

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON([]byte(` {"a":1} `)))
	assert.True(t, isJSON([]byte(`[]`)))
	assert.False(t, isJSON(nil))
	assert.False(t, isJSON([]byte("  ")))
	assert.False(t, isJSON([]byte("<html></html>")))
}
