package facilitieshandler

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
	"staffing/internal/domain/facilities"
	"staffing/internal/transport/http/api"
	"staffing/internal/transport/http/middleware"
	"staffing/internal/transport/http/shared"
)

type FacilityService interface {
	List(ctx context.Context, filter facilities.ListFilter, limit, offset int) ([]facilities.Facility, int, error)
	Get(ctx context.Context, id string) (facilities.Facility, error)
	Create(ctx context.Context, f facilities.Facility) (string, error)
	Update(ctx context.Context, id string, f facilities.Facility) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Service FacilityService
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service FacilityService, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/facilities", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermFacilitiesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermFacilitiesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermFacilitiesRead, h.Perms)).Get("/{facilityID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermFacilitiesWrite, h.Perms)).Put("/{facilityID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermFacilitiesWrite, h.Perms)).Delete("/{facilityID}", h.handleDelete)
	})
}

func (h *Handler) record(r *http.Request, action, id string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, "facility", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, shared.DefaultPageSize, shared.MaxPageSize)
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))
	filter := facilities.ListFilter{Search: r.URL.Query().Get("q"), ActiveOnly: activeOnly}

	items, total, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "facility_list_failed", "failed to list facilities", middleware.GetRequestID(r.Context()))
		return
	}
	if items == nil {
		items = []facilities.Facility{}
	}
	shared.WriteTotal(w, total)
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.Get(r.Context(), chi.URLParam(r, "facilityID"))
	if err != nil {
		failLookup(w, r, err)
		return
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

// decodeFacility reads the body over defaults, so absent fields keep their default.
func decodeFacility(w http.ResponseWriter, r *http.Request, defaults facilities.Facility) (facilities.Facility, bool) {
	requestID := middleware.GetRequestID(r.Context())
	payload := defaults
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return facilities.Facility{}, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return facilities.Facility{}, false
	}
	return payload, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeFacility(w, r, facilities.Facility{Active: true})
	if !ok {
		return
	}
	id, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "facility_create_failed", "failed to create facility", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "facility.create", id, nil, payload)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "facilityID")
	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		failLookup(w, r, err)
		return
	}
	payload, ok := decodeFacility(w, r, before)
	if !ok {
		return
	}
	if err := h.Service.Update(r.Context(), id, payload); err != nil {
		failLookup(w, r, err)
		return
	}
	h.record(r, "facility.update", id, before, payload)
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "facilityID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, facilities.ErrInUse) {
			api.Fail(w, http.StatusConflict, "facility_in_use", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		failLookup(w, r, err)
		return
	}
	h.record(r, "facility.delete", id, nil, nil)
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func failLookup(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, facilities.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "facility not found", middleware.GetRequestID(r.Context()))
		return
	}
	slog.Warn("facility request failed", "err", err)
	api.Fail(w, http.StatusInternalServerError, "facility_failed", "facility request failed", middleware.GetRequestID(r.Context()))
}
