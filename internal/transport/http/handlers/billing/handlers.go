package billinghandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffing/internal/domain/audit"
	"staffing/internal/domain/auth"
	"staffing/internal/domain/billing"
	"staffing/internal/transport/http/api"
	"staffing/internal/transport/http/middleware"
	"staffing/internal/transport/http/shared"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type BillingService interface {
	ListInvoices(ctx context.Context, filter billing.ListFilter, limit, offset int) ([]billing.Invoice, int, error)
	GetInvoice(ctx context.Context, id string) (billing.Invoice, error)
	SetInvoiceStatus(ctx context.Context, id, status string) (billing.Invoice, error)
	ListPayables(ctx context.Context, filter billing.ListFilter, limit, offset int) ([]billing.Payable, int, error)
	SetPayableStatus(ctx context.Context, id, status string) (billing.Payable, error)
	ExportInvoices(ctx context.Context, filter billing.ListFilter) ([]byte, error)
	ExportPayables(ctx context.Context, filter billing.ListFilter) ([]byte, error)
}

type Handler struct {
	Service BillingService
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service BillingService, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermBillingRead, h.Perms)
	write := middleware.RequirePermission(auth.PermBillingWrite, h.Perms)
	r.Route("/invoices", func(r chi.Router) {
		r.With(read).Get("/", h.handleListInvoices)
		r.With(read).Get("/export", h.handleExportInvoices)
		r.With(read).Get("/{invoiceID}", h.handleGetInvoice)
		r.With(write).Post("/{invoiceID}/status", h.handleInvoiceStatus)
	})
	r.Route("/payables", func(r chi.Router) {
		r.With(read).Get("/", h.handleListPayables)
		r.With(read).Get("/export", h.handleExportPayables)
		r.With(write).Post("/{payableID}/status", h.handlePayableStatus)
	})
}

// listFilter reads status, party and issue-date range. partyParam is
// facilityId for invoices and interpreterId for payables.
func listFilter(w http.ResponseWriter, r *http.Request, statuses []string, partyParam string) (billing.ListFilter, bool) {
	query := r.URL.Query()
	v := shared.NewValidator()
	v.Enum("status", query.Get("status"), statuses, "must be one of: "+strings.Join(statuses, ", "))
	from, to := v.DateRange(r)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return billing.ListFilter{}, false
	}
	return billing.ListFilter{
		Status:  strings.ToLower(strings.TrimSpace(query.Get("status"))),
		PartyID: strings.TrimSpace(query.Get(partyParam)),
		From:    from,
		To:      to,
	}, true
}

func (h *Handler) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	filter, ok := listFilter(w, r, billing.InvoiceStatuses, "facilityId")
	if !ok {
		return
	}
	page := shared.ParsePagination(r, shared.DefaultPageSize, shared.MaxPageSize)
	items, total, err := h.Service.ListInvoices(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "invoice_list_failed", "failed to list invoices", requestID)
		return
	}
	if items == nil {
		items = []billing.Invoice{}
	}
	shared.WriteTotal(w, total)
	api.Success(w, items, requestID)
}

func (h *Handler) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.GetInvoice(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, inv, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportInvoices(w http.ResponseWriter, r *http.Request) {
	filter, ok := listFilter(w, r, billing.InvoiceStatuses, "facilityId")
	if !ok {
		return
	}
	body, err := h.Service.ExportInvoices(r.Context(), filter)
	if err != nil {
		slog.Warn("invoice export failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export invoices", middleware.GetRequestID(r.Context()))
		return
	}
	api.Attachment(w, xlsxContentType, "invoices.xlsx", body)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func decodeStatus(w http.ResponseWriter, r *http.Request, statuses []string) (string, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return "", false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	v.Enum("status", payload.Status, statuses, "must be one of: "+strings.Join(statuses, ", "))
	if v.Reject(w, requestID) {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(payload.Status)), true
}

func (h *Handler) handleInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invoiceID")
	status, ok := decodeStatus(w, r, billing.InvoiceStatuses)
	if !ok {
		return
	}
	inv, err := h.Service.SetInvoiceStatus(r.Context(), id, status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, "invoice.status", "invoice", id, map[string]string{"status": inv.Status})
	api.Success(w, inv, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPayables(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	filter, ok := listFilter(w, r, billing.PayableStatuses, "interpreterId")
	if !ok {
		return
	}
	page := shared.ParsePagination(r, shared.DefaultPageSize, shared.MaxPageSize)
	items, total, err := h.Service.ListPayables(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payable_list_failed", "failed to list payables", requestID)
		return
	}
	if items == nil {
		items = []billing.Payable{}
	}
	shared.WriteTotal(w, total)
	api.Success(w, items, requestID)
}

func (h *Handler) handleExportPayables(w http.ResponseWriter, r *http.Request) {
	filter, ok := listFilter(w, r, billing.PayableStatuses, "interpreterId")
	if !ok {
		return
	}
	body, err := h.Service.ExportPayables(r.Context(), filter)
	if err != nil {
		slog.Warn("payable export failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export payables", middleware.GetRequestID(r.Context()))
		return
	}
	api.Attachment(w, xlsxContentType, "payables.xlsx", body)
}

func (h *Handler) handlePayableStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "payableID")
	status, ok := decodeStatus(w, r, billing.PayableStatuses)
	if !ok {
		return
	}
	p, err := h.Service.SetPayableStatus(r.Context(), id, status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, "payable.status", "payable", id, map[string]string{"status": p.Status})
	api.Success(w, p, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, action, entityType, id string, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, entityType, id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, billing.ErrInvoiceNotFound), errors.Is(err, billing.ErrPayableNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, billing.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), requestID)
	default:
		slog.Warn("billing request failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "billing_failed", "billing request failed", requestID)
	}
}
