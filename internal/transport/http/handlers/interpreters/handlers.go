package interpretershandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"staffing/internal/domain/audit"
	"staffing/internal/domain/auth"
	"staffing/internal/domain/interpreters"
	"staffing/internal/transport/http/api"
	"staffing/internal/transport/http/middleware"
	"staffing/internal/transport/http/shared"
)

type InterpreterService interface {
	List(ctx context.Context, filter interpreters.ListFilter, limit, offset int) ([]interpreters.Interpreter, int, error)
	Get(ctx context.Context, id string) (interpreters.Interpreter, error)
	Create(ctx context.Context, i interpreters.Interpreter) (string, error)
	Update(ctx context.Context, id string, i interpreters.Interpreter) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Service InterpreterService
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service InterpreterService, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/interpreters", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermInterpretersRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermInterpretersWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermInterpretersRead, h.Perms)).Get("/{interpreterID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermInterpretersWrite, h.Perms)).Put("/{interpreterID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermInterpretersWrite, h.Perms)).Delete("/{interpreterID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := shared.ParsePagination(r, shared.DefaultPageSize, shared.MaxPageSize)
	activeOnly, _ := strconv.ParseBool(query.Get("active"))
	filter := interpreters.ListFilter{Search: query.Get("q"), Language: query.Get("language"), ActiveOnly: activeOnly}

	items, total, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "interpreter_list_failed", "failed to list interpreters", middleware.GetRequestID(r.Context()))
		return
	}
	if items == nil {
		items = []interpreters.Interpreter{}
	}
	shared.WriteTotal(w, total)
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.Get(r.Context(), chi.URLParam(r, "interpreterID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, payload *interpreters.Interpreter) bool {
	requestID := middleware.GetRequestID(r.Context())
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	return !v.Reject(w, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	payload := interpreters.Interpreter{Active: true}
	if !h.decode(w, r, &payload) {
		return
	}
	id, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "interpreter_create_failed", "failed to create interpreter", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "interpreter.create", id, nil, payload)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "interpreterID")
	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	payload := before
	if !h.decode(w, r, &payload) {
		return
	}
	if err := h.Service.Update(r.Context(), id, payload); err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, "interpreter.update", id, before, payload)
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "interpreterID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, "interpreter.delete", id, nil, nil)
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, action, id string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, "interpreter", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, interpreters.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "interpreter not found", requestID)
	case errors.Is(err, interpreters.ErrInUse):
		api.Fail(w, http.StatusConflict, "interpreter_in_use", err.Error(), requestID)
	default:
		slog.Warn("interpreter request failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "interpreter_failed", "interpreter request failed", requestID)
	}
}
