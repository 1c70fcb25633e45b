package common

const (
	// RequestIDHeaderName carries the request ID between services.
	RequestIDHeaderName = "X-Request-ID"

	// AuthorizationHeaderName carries the bearer token.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "

	// MaxRequestBodyBytes caps request bodies accepted by every service.
	MaxRequestBodyBytes = 1 << 20
)
