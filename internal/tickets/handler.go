package tickets

import (
	"errors"
	"net/http"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/httpx"
	"github.com/campusdesk/campusdesk/internal/logging"
)

const (
	msgMessageRequired = "message is required"
	msgTicketNotFound  = "Ticket not found"
	msgInvalidBody     = "Invalid request body."
	msgInternal        = "Internal server error."
)

type Handler struct {
	service *Service
	logger  logging.Logger
}

func NewHandler(s *Service, l logging.Logger) *Handler {
	return &Handler{service: s, logger: l.With("module", "tickets_api")}
}

type createRequest struct {
	Message   string `json:"message"`
	StudentID string `json:"studentId"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// Routes returns the ticket service's handler with its middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tickets", h.Create)
	mux.HandleFunc("GET /tickets", h.List)
	mux.HandleFunc("PATCH /tickets/{id}", h.UpdateStatus)
	mux.HandleFunc("GET /healthz", httpx.Health("tickets"))

	return httpx.Chain(mux,
		httpx.CORS(),
		httpx.RequestID(),
		httpx.AccessLog(h.logger),
		httpx.Recover(h.logger),
	)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	t, err := h.service.Open(ctx, req.Message, req.StudentID)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			httpx.WriteError(w, http.StatusBadRequest, msgMessageRequired)
			return
		}
		h.logger.Error(ctx, "create ticket failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.logger.Info(ctx, "Ticket opened", "ticket_id", t.ID)
	httpx.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "list tickets failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req statusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	t, err := h.service.SetStatus(ctx, r.PathValue("id"), req.Status)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			httpx.WriteError(w, http.StatusNotFound, msgTicketNotFound)
			return
		}
		h.logger.Error(ctx, "update ticket failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, t)
}
