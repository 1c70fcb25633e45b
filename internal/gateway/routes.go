// Package gateway is the public entry point of campusdesk. It forwards a
// fixed set of routes to the credential and reply services and translates
// their failures into stable JSON responses.
package gateway

import "strings"

// Route binds a public path to one upstream endpoint.
type Route struct {
	// Name labels the route in logs and metrics.
	Name string
	// Pattern is the ServeMux pattern, method included.
	Pattern string
	// Upstream is the absolute URL the body is posted to.
	Upstream string
	// FailureMessage replaces upstream error bodies that are not JSON.
	FailureMessage string
}

// Route names.
const (
	RouteSignup = "signup"
	RouteLogin  = "login"
	RouteChat   = "chat"
)

// DefaultRoutes returns the route table for the given upstream base URLs.
func DefaultRoutes(authURL, replyURL string) []Route {
	return []Route{
		{
			Name:           RouteSignup,
			Pattern:        "POST /api/auth/signup",
			Upstream:       joinURL(authURL, "/signup"),
			FailureMessage: "Auth signup failed",
		},
		{
			Name:           RouteLogin,
			Pattern:        "POST /api/auth/login",
			Upstream:       joinURL(authURL, "/login"),
			FailureMessage: "Auth login failed",
		},
		{
			Name:           RouteChat,
			Pattern:        "POST /api/chat",
			Upstream:       joinURL(replyURL, "/chat"),
			FailureMessage: "Chatbot service unavailable",
		},
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
