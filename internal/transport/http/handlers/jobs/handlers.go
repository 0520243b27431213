package jobshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"staffing/internal/domain/audit"
	"staffing/internal/domain/auth"
	"staffing/internal/domain/billing"
	"staffing/internal/domain/facilities"
	"staffing/internal/domain/interpreters"
	"staffing/internal/domain/jobs"
	"staffing/internal/domain/rates"
	"staffing/internal/transport/http/api"
	"staffing/internal/transport/http/middleware"
	"staffing/internal/transport/http/shared"
)

type JobService interface {
	List(ctx context.Context, filter jobs.ListFilter, limit, offset int) ([]jobs.Job, int, error)
	Get(ctx context.Context, id string) (jobs.Job, error)
	Create(ctx context.Context, job jobs.Job) (jobs.Priced, error)
	Update(ctx context.Context, id string, job jobs.Job) (jobs.Priced, error)
	QuoteDraft(ctx context.Context, job jobs.Job) (jobs.Priced, error)
	Quote(ctx context.Context, id string) (jobs.Priced, error)
	Outreach(ctx context.Context, jobID string) ([]jobs.Outreach, error)
	StartOutreach(ctx context.Context, jobID string, interpreterIDs []string) ([]jobs.Outreach, error)
	RespondOutreach(ctx context.Context, jobID, outreachID string, accept bool) (jobs.Priced, error)
	Confirm(ctx context.Context, jobID, interpreterID string) (jobs.Priced, error)
	Cancel(ctx context.Context, jobID string) (jobs.Job, error)
}

type BillingGenerator interface {
	GenerateForJob(ctx context.Context, jobID string) (billing.Generated, error)
}

type Handler struct {
	Service     JobService
	Billing     BillingGenerator
	Perms       middleware.PermissionStore
	Audit       audit.Recorder
	Idempotency middleware.IdempotencyKeys
}

func NewHandler(service JobService, billingSvc BillingGenerator, perms middleware.PermissionStore, auditSvc audit.Recorder, idempotency middleware.IdempotencyKeys) *Handler {
	return &Handler{Service: service, Billing: billingSvc, Perms: perms, Audit: auditSvc, Idempotency: idempotency}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermJobsRead, h.Perms)
	write := middleware.RequirePermission(auth.PermJobsWrite, h.Perms)
	r.Route("/jobs", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(write).Post("/", h.handleCreate)
		r.With(read).Post("/quote", h.handleQuoteDraft)
		r.With(read).Get("/{jobID}", h.handleGet)
		r.With(write).Put("/{jobID}", h.handleUpdate)
		r.With(read).Get("/{jobID}/quote", h.handleQuote)
		r.With(read).Get("/{jobID}/outreach", h.handleListOutreach)
		r.With(write).Post("/{jobID}/outreach", h.handleStartOutreach)
		r.With(write).Post("/{jobID}/outreach/{outreachID}/respond", h.handleRespondOutreach)
		r.With(write).Post("/{jobID}/confirm", h.handleConfirm)
		r.With(write).Post("/{jobID}/cancel", h.handleCancel)
		r.With(middleware.RequirePermission(auth.PermBillingWrite, h.Perms)).Post("/{jobID}/billing", h.handleGenerateBilling)
	})
}

// amount is a fee or distance field. Forms may send it as a string such as
// "$1,250.50"; text that is not a number counts as 0.
type amount float64

func (a *amount) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*a = amount(rates.ParseAmount(text))
		return nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*a = amount(value)
	return nil
}

type jobRequest struct {
	FacilityID       string           `json:"facilityId" validate:"required"`
	InterpreterID    string           `json:"interpreterId"`
	Language         string           `json:"language" validate:"max=60"`
	Trilingual       bool             `json:"trilingual"`
	TrilingualUplift amount           `json:"trilingualUplift" validate:"gte=0"`
	JobDate          string           `json:"jobDate"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime"`
	MinimumHours     *float64         `json:"minimumHours" validate:"omitempty,gte=0,lte=24"`
	FacilityRates    rates.PartyRates `json:"facilityRates"`
	InterpreterRates rates.PartyRates `json:"interpreterRates"`
	Mileage          amount           `json:"mileage" validate:"gte=0"`
	TravelTimeHours  amount           `json:"travelTimeHours" validate:"gte=0,lte=24"`
	Parking          amount           `json:"parking" validate:"gte=0"`
	Tolls            amount           `json:"tolls" validate:"gte=0"`
	MiscFee          amount           `json:"miscFee" validate:"gte=0"`
	Notes            string           `json:"notes" validate:"max=2000"`
}

func (p jobRequest) toJob(date time.Time) jobs.Job {
	return jobs.Job{
		FacilityID:       strings.TrimSpace(p.FacilityID),
		InterpreterID:    strings.TrimSpace(p.InterpreterID),
		Language:         p.Language,
		Trilingual:       p.Trilingual,
		TrilingualUplift: float64(p.TrilingualUplift),
		Date:             date,
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		MinimumHours:     p.MinimumHours,
		FacilityRates:    p.FacilityRates,
		InterpreterRates: p.InterpreterRates,
		Mileage:          float64(p.Mileage),
		TravelTimeHours:  float64(p.TravelTimeHours),
		Parking:          float64(p.Parking),
		Tolls:            float64(p.Tolls),
		MiscFee:          float64(p.MiscFee),
		Notes:            p.Notes,
	}
}

// decodeJob parses and validates a job body. The date is optional for previews.
func decodeJob(w http.ResponseWriter, r *http.Request, requireDate bool) (jobs.Job, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload jobRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return jobs.Job{}, false
	}

	v := shared.NewValidator()
	v.Struct(payload)
	v.Clock("startTime", payload.StartTime)
	v.Clock("endTime", payload.EndTime)
	var date time.Time
	if requireDate || payload.JobDate != "" {
		date, _ = v.Date("jobDate", payload.JobDate)
	}
	if v.Reject(w, requestID) {
		return jobs.Job{}, false
	}
	return payload.toJob(date), true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	v := shared.NewValidator()
	v.Enum("status", query.Get("status"), jobs.Statuses, "must be a known job status")
	from, to := v.DateRange(r)
	if v.Reject(w, requestID) {
		return
	}

	page := shared.ParsePagination(r, shared.DefaultPageSize, shared.MaxPageSize)
	filter := jobs.ListFilter{
		Status:        strings.ToLower(query.Get("status")),
		FacilityID:    query.Get("facilityId"),
		InterpreterID: query.Get("interpreterId"),
		From:          from,
		To:            to,
	}
	items, total, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_list_failed", "failed to list jobs", requestID)
		return
	}
	if items == nil {
		items = []jobs.Job{}
	}
	shared.WriteTotal(w, total)
	api.Success(w, items, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	job, err := h.Service.Get(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, job, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	job, ok := decodeJob(w, r, true)
	if !ok {
		return
	}
	priced, err := h.Service.Create(r.Context(), job)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, "job.create", priced.Job.ID, nil, priced.Job)
	api.Created(w, priced, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")
	job, ok := decodeJob(w, r, true)
	if !ok {
		return
	}
	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	priced, err := h.Service.Update(r.Context(), id, job)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, "job.update", id, before, priced.Job)
	api.Success(w, priced, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleQuoteDraft(w http.ResponseWriter, r *http.Request) {
	job, ok := decodeJob(w, r, false)
	if !ok {
		return
	}
	priced, err := h.Service.QuoteDraft(r.Context(), job)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, priced, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	priced, err := h.Service.Quote(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, priced, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListOutreach(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Service.Outreach(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if offers == nil {
		offers = []jobs.Outreach{}
	}
	api.Success(w, offers, middleware.GetRequestID(r.Context()))
}

type outreachRequest struct {
	InterpreterIDs []string `json:"interpreterIds" validate:"required,min=1,max=50,dive,required"`
}

func (h *Handler) handleStartOutreach(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	jobID := chi.URLParam(r, "jobID")
	var payload outreachRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	offers, err := h.Service.StartOutreach(r.Context(), jobID, payload.InterpreterIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, "job.outreach", jobID, nil, payload)
	api.Success(w, offers, requestID)
}

type respondRequest struct {
	Accept bool `json:"accept"`
}

func (h *Handler) handleRespondOutreach(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	outreachID := chi.URLParam(r, "outreachID")
	var payload respondRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	priced, err := h.Service.RespondOutreach(r.Context(), jobID, outreachID, payload.Accept)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	action := "job.outreach.decline"
	if payload.Accept {
		action = "job.outreach.accept"
	}
	h.record(r, action, jobID, nil, map[string]string{"outreachId": outreachID, "status": priced.Job.Status})
	api.Success(w, priced, middleware.GetRequestID(r.Context()))
}

type confirmRequest struct {
	InterpreterID string `json:"interpreterId"`
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	var payload confirmRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	priced, err := h.Service.Confirm(r.Context(), jobID, strings.TrimSpace(payload.InterpreterID))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, "job.confirm", jobID, nil, priced.Job)
	api.Success(w, priced, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, err := h.Service.Cancel(r.Context(), jobID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, "job.cancel", jobID, nil, map[string]string{"status": job.Status})
	api.Success(w, job, middleware.GetRequestID(r.Context()))
}

const billingEndpoint = "jobs.billing"

// handleGenerateBilling bills a confirmed job. A repeated Idempotency-Key
// replays the first response instead of failing on the billed job.
func (h *Handler) handleGenerateBilling(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	jobID := chi.URLParam(r, "jobID")

	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash([]byte(jobID))
	if idempotencyKey != "" && h.Idempotency != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, billingEndpoint, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", err.Error(), requestID)
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Success(w, json.RawMessage(stored), requestID)
			return
		}
	}

	generated, err := h.Billing.GenerateForJob(r.Context(), jobID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, "job.billing", jobID, nil, map[string]any{
		"invoiceId": generated.Invoice.ID,
		"payableId": generated.Payable.ID,
		"invoice":   generated.Invoice.Amount,
		"payable":   generated.Payable.Amount,
	})

	if idempotencyKey != "" && h.Idempotency != nil {
		if payload, err := json.Marshal(generated); err != nil {
			slog.Warn("billing response marshal failed", "err", err)
		} else if err := h.Idempotency.Save(r.Context(), user.UserID, billingEndpoint, idempotencyKey, requestHash, payload); err != nil {
			slog.Warn("idempotency save failed", "err", err)
		}
	}
	api.Created(w, generated, requestID)
}

func (h *Handler) record(r *http.Request, action, id string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, "job", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, jobs.ErrNotFound), errors.Is(err, jobs.ErrOutreachNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, rates.ErrInvalidTimeFormat), errors.Is(err, rates.ErrZeroDuration):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "endTime", Reason: err.Error()}})
	case errors.Is(err, facilities.ErrNotFound), errors.Is(err, interpreters.ErrNotFound),
		errors.Is(err, jobs.ErrFacilityInactive), errors.Is(err, jobs.ErrInterpreterBusy),
		errors.Is(err, jobs.ErrNoInterpreter), errors.Is(err, billing.ErrNoInterpreter):
		api.Fail(w, http.StatusUnprocessableEntity, "job_unprocessable", err.Error(), requestID)
	case errors.Is(err, jobs.ErrInvalidTransition), errors.Is(err, jobs.ErrStatusConflict),
		errors.Is(err, jobs.ErrLocked), errors.Is(err, billing.ErrNotBillable), errors.Is(err, billing.ErrAlreadyBilled):
		api.Fail(w, http.StatusConflict, "job_conflict", err.Error(), requestID)
	default:
		slog.Warn("job request failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "job_failed", "job request failed", requestID)
	}
}
