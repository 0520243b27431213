package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"staffing/internal/domain/auth"
	"staffing/internal/transport/http/middleware"
)

type stubLogin struct {
	email, password string
}

func (s stubLogin) Login(_ context.Context, email, password string) (string, auth.AuthUser, error) {
	if email != s.email || password != s.password {
		return "", auth.AuthUser{}, auth.ErrInvalidCredentials
	}
	return "signed", auth.AuthUser{ID: "u1", Email: email, RoleName: auth.RoleAdmin}, nil
}

func TestHandleLogin(t *testing.T) {
	h := NewHandler(stubLogin{email: "admin@example.com", password: "secret"})

	cases := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"email":"admin@example.com","password":"secret"}`, http.StatusOK},
		{"wrong password", `{"email":"admin@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"missing fields", `{"email":"not-an-email"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(tc.body)))
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d (%s)", tc.name, tc.want, rec.Code, rec.Body.String())
		}
	}
}

func TestHandleLoginReturnsToken(t *testing.T) {
	h := NewHandler(stubLogin{email: "admin@example.com", password: "secret"})
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"email":"admin@example.com","password":"secret"}`)))

	var env struct {
		Data struct {
			Token string            `json:"token"`
			User  map[string]string `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Token != "signed" || env.Data.User["role"] != auth.RoleAdmin {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
}

func TestHandleMe(t *testing.T) {
	h := NewHandler(stubLogin{})
	rec := httptest.NewRecorder()
	h.HandleMe(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", RoleName: auth.RoleBilling}))
	rec = httptest.NewRecorder()
	h.HandleMe(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
