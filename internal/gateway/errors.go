package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// UpstreamError is an upstream response with an error status.
type UpstreamError struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
}

// JSONBody reports whether the upstream body is a JSON document that may be
// passed to the client as is.
func (e *UpstreamError) JSONBody() bool {
	return isJSON(e.Body)
}

func isJSON(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && json.Valid(b)
}
