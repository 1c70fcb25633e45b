// Package httpapi exposes the credential service over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/httpx"
	"github.com/campusdesk/campusdesk/internal/logging"
	"github.com/campusdesk/campusdesk/internal/server/models"
	"github.com/campusdesk/campusdesk/internal/server/services"
)

// Client-facing messages. Internal details never reach the response body.
const (
	msgSignupFieldsRequired = "Name, email and password are required."
	msgLoginFieldsRequired  = "Email and password are required."
	msgPasswordTooLong      = "Password must be at most 72 bytes."
	msgDuplicateAccount     = "User with this email already exists."
	msgInvalidCredentials   = "Invalid email or password."
	msgInvalidBody          = "Invalid request body."
	msgSignupFailed         = "Signup failed."
	msgLoginFailed          = "Login failed."
)

// AccountService is the subset of services.AccountService used by the handlers.
type AccountService interface {
	Signup(ctx context.Context, name, email, password, roleHint string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
}

type Handler struct {
	accounts AccountService
	logger   logging.Logger
}

func NewHandler(accounts AccountService, l logging.Logger) *Handler {
	return &Handler{accounts: accounts, logger: l.With("module", "http_api")}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string               `json:"token"`
	User  models.PublicAccount `json:"user"`
}

// Routes returns the credential service's handler with its middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signup", h.Signup)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /healthz", httpx.Health("auth"))
	mux.HandleFunc("GET /{$}", httpx.Health("auth"))

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.AccessLog(h.logger),
		httpx.Recover(h.logger),
	)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req signupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	session, err := h.accounts.Signup(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordTooLong):
			httpx.WriteError(w, http.StatusBadRequest, msgPasswordTooLong)
		case errors.Is(err, common.ErrorValidation):
			httpx.WriteError(w, http.StatusBadRequest, msgSignupFieldsRequired)
		case errors.Is(err, common.ErrorDuplicateAccount):
			httpx.WriteError(w, http.StatusConflict, msgDuplicateAccount)
		default:
			h.logger.Error(ctx, "signup failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, msgSignupFailed)
		}
		return
	}

	h.logger.Info(ctx, "Account created", "account_id", session.Account.ID, "role", string(session.Account.Role))
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{Token: session.Token, User: session.Account.Public()})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	session, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			httpx.WriteError(w, http.StatusBadRequest, msgLoginFieldsRequired)
		case errors.Is(err, common.ErrorInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)
		default:
			h.logger.Error(ctx, "login failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, msgLoginFailed)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Token: session.Token, User: session.Account.Public()})
}
