// Package netx performs single outbound HTTP calls on behalf of the gateway.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// MaxResponseBytes caps how much of an upstream response body is read.
const MaxResponseBytes = 10 << 20

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Post sends body to url with a single attempt and reads the whole response.
// Any status code is returned as a Response; only transport failures
// (refused connection, DNS, timeout, reset, truncated body) are errors.
func Post(ctx context.Context, client *http.Client, url, contentType string, body []byte, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(b) > MaxResponseBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxResponseBytes)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: b}, nil
}
