package interpretershandler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"staffing/internal/domain/auth"
	"staffing/internal/domain/interpreters"
	"staffing/internal/transport/http/middleware"
)

type allowAll struct{}

func (allowAll) HasPermission(context.Context, string, string) (bool, error) { return true, nil }

type denyAll struct{}

func (denyAll) HasPermission(context.Context, string, string) (bool, error) { return false, nil }

type noAudit struct{}

func (noAudit) Record(context.Context, string, string, string, string, string, string, any, any) error {
	return nil
}

type fakeService struct {
	filter  interpreters.ListFilter
	created interpreters.Interpreter
	items   map[string]interpreters.Interpreter
}

func (f *fakeService) List(_ context.Context, filter interpreters.ListFilter, _, _ int) ([]interpreters.Interpreter, int, error) {
	f.filter = filter
	return nil, 0, nil
}

func (f *fakeService) Get(_ context.Context, id string) (interpreters.Interpreter, error) {
	item, ok := f.items[id]
	if !ok {
		return interpreters.Interpreter{}, interpreters.ErrNotFound
	}
	return item, nil
}

func (f *fakeService) Create(_ context.Context, item interpreters.Interpreter) (string, error) {
	f.created = item
	return "i-new", nil
}

func (f *fakeService) Update(context.Context, string, interpreters.Interpreter) error { return nil }

func (f *fakeService) Delete(context.Context, string) error { return interpreters.ErrInUse }

func serve(perms middleware.PermissionStore, svc *fakeService, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(svc, perms, noAudit{}).RegisterRoutes(r)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", RoleID: "r1"}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListPassesFilter(t *testing.T) {
	svc := &fakeService{}
	rec := serve(allowAll{}, svc, httptest.NewRequest(http.MethodGet, "/interpreters?language=Spanish&active=true&q=ana", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.filter.Language != "Spanish" || !svc.filter.ActiveOnly || svc.filter.Search != "ana" {
		t.Fatalf("unexpected filter: %+v", svc.filter)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"data":[]`)) {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
}

func TestCreateInterpreter(t *testing.T) {
	svc := &fakeService{}
	body := `{"firstName":"Ana","lastName":"Ruiz","languages":["Spanish","Portuguese"],"businessRate":45,"afterHoursRate":60}`
	rec := serve(allowAll{}, svc, httptest.NewRequest(http.MethodPost, "/interpreters", bytes.NewBufferString(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !svc.created.Active || len(svc.created.Languages) != 2 {
		t.Fatalf("unexpected interpreter: %+v", svc.created)
	}
}

func TestCreateRequiresNames(t *testing.T) {
	rec := serve(allowAll{}, &fakeService{}, httptest.NewRequest(http.MethodPost, "/interpreters", bytes.NewBufferString(`{"languages":[""]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPermissionDenied(t *testing.T) {
	rec := serve(denyAll{}, &fakeService{}, httptest.NewRequest(http.MethodGet, "/interpreters", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestDeleteInUse(t *testing.T) {
	rec := serve(allowAll{}, &fakeService{}, httptest.NewRequest(http.MethodDelete, "/interpreters/i1", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
