package settingshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffing/internal/domain/audit"
	"staffing/internal/domain/auth"
	"staffing/internal/domain/settings"
	"staffing/internal/transport/http/api"
	"staffing/internal/transport/http/middleware"
	"staffing/internal/transport/http/shared"
)

type SettingsService interface {
	MileageRate(ctx context.Context) float64
	SetMileageRate(ctx context.Context, rate float64) error
}

type Handler struct {
	Service SettingsService
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service SettingsService, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.With(middleware.RequireAnyPermission(h.Perms, auth.PermJobsRead, auth.PermBillingRead)).Get("/mileage-rate", h.handleGetMileageRate)
		r.With(middleware.RequirePermission(auth.PermSettingsWrite, h.Perms)).Put("/mileage-rate", h.handleSetMileageRate)
	})
}

type mileageRate struct {
	Rate *float64 `json:"rate" validate:"required,gte=0,lte=100"`
}

func (h *Handler) handleGetMileageRate(w http.ResponseWriter, r *http.Request) {
	rate := h.Service.MileageRate(r.Context())
	api.Success(w, mileageRate{Rate: &rate}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetMileageRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload mileageRate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	before := h.Service.MileageRate(r.Context())
	if err := h.Service.SetMileageRate(r.Context(), *payload.Rate); err != nil {
		if errors.Is(err, settings.ErrInvalidValue) {
			shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "rate", Reason: err.Error()}})
			return
		}
		slog.Warn("set mileage rate failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "settings_update_failed", "failed to update setting", requestID)
		return
	}

	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, "settings.mileage_rate", "setting", settings.KeyDefaultMileageRate, requestID, shared.ClientIP(r), mileageRate{Rate: &before}, payload); err != nil {
		slog.Warn("audit settings.mileage_rate failed", "err", err)
	}
	api.Success(w, payload, requestID)
}
