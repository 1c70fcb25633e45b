package netx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPost(t *testing.T) {
	body := []byte(`{"email":"ada@campus.edu"}`)

	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT, gotMethod, gotReqID string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotReqID = r.Header.Get("X-Request-ID")
			b, _ := io.ReadAll(r.Body)
			_ = r.Body.Close()
			gotBody = b
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer ts.Close()

		hdr := http.Header{}
		hdr.Set("X-Request-ID", "req-1")
		resp, err := Post(context.Background(), ts.Client(), ts.URL+"/login", "application/json", body, hdr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotMethod != http.MethodPost {
			t.Fatalf("method = %q, want POST", gotMethod)
		}
		if gotCT != "application/json" {
			t.Fatalf("Content-Type = %q, want application/json", gotCT)
		}
		if gotReqID != "req-1" {
			t.Fatalf("X-Request-ID = %q, want req-1", gotReqID)
		}
		if !bytes.Equal(gotBody, body) {
			t.Fatalf("body = %q, want %q", string(gotBody), string(body))
		}
		if resp.StatusCode != http.StatusOK || string(resp.Body) != `{"ok":true}` {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, resp.Body)
		}
		if resp.Header.Get("Content-Type") != "application/json" {
			t.Fatalf("response Content-Type = %q", resp.Header.Get("Content-Type"))
		}
	})

	t.Run("non-2xx is a response, not an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"x"}`))
		}))
		defer ts.Close()

		resp, err := Post(context.Background(), ts.Client(), ts.URL, "application/json", body, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusConflict || string(resp.Body) != `{"error":"x"}` {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, resp.Body)
		}
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		_, err := Post(context.Background(), http.DefaultClient, url, "application/json", body, nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !isNetOpError(err) && !strings.Contains(err.Error(), "connect") {
			t.Fatalf("got wrong kind of error: %v", err)
		}
	})

	t.Run("context deadline", func(t *testing.T) {
		release := make(chan struct{})
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer ts.Close()
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := Post(ctx, ts.Client(), ts.URL, "application/json", body, nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	})

	t.Run("bad url", func(t *testing.T) {
		if _, err := Post(context.Background(), http.DefaultClient, "://nope", "", nil, nil); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

type netOpErrorLike interface {
	error
	Timeout() bool
	Temporary() bool
}

func isNetOpError(err error) bool {
	var target netOpErrorLike
	return errors.As(err, &target)
}
