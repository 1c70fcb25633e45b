// Package common defines sentinel errors and constants shared by the
// credential service, the gateway and the ticket service. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorValidation         = errors.New("validation error")
	ErrorDuplicateAccount   = errors.New("account already exists")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Gateway errors.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
)
