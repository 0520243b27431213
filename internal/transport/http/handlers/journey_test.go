package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"staffing/internal/app/server"
	"staffing/internal/domain/jobs"
	"staffing/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func newTestServer(t *testing.T) (*httptest.Server, config.Config) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:         dbURL,
		JWTSecret:           "test-secret",
		TokenTTL:            time.Hour,
		Environment:         "test",
		SeedAdminEmail:      "admin@test.local",
		SeedAdminPassword:   "ChangeMe123!",
		RunMigrations:       true,
		RunSeed:             true,
		MigrationsDir:       "../../../../migrations",
		MaxBodyBytes:        1048576,
		RateLimitPerMinute:  1000,
		MetricsEnabled:      true,
		DefaultMileageRate:  0.70,
		DefaultMinimumHours: 2,
		InvoiceDueDays:      30,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts, cfg
}

func TestJobToBillingJourney(t *testing.T) {
	ts, cfg := newTestServer(t)
	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	suffix := time.Now().UnixNano()

	facilityID := createdID(t, do(t, client, http.MethodPost, ts.URL+"/api/v1/facilities", token, map[string]any{
		"name":           fmt.Sprintf("Journey Clinic %d", suffix),
		"businessRate":   100,
		"afterHoursRate": 150,
		"mileageRate":    0.6,
	}, http.StatusCreated))

	interpreterID := createdID(t, do(t, client, http.MethodPost, ts.URL+"/api/v1/interpreters", token, map[string]any{
		"firstName":      "Journey",
		"lastName":       fmt.Sprintf("Interpreter %d", suffix),
		"languages":      []string{"Spanish"},
		"businessRate":   40,
		"afterHoursRate": 60,
	}, http.StatusCreated))

	resp := do(t, client, http.MethodPost, ts.URL+"/api/v1/jobs", token, map[string]any{
		"facilityId":    facilityID,
		"interpreterId": interpreterID,
		"language":      "Spanish",
		"jobDate":       "2026-03-02",
		"startTime":     "07:00",
		"endTime":       "18:00",
		"mileage":       20,
	}, http.StatusCreated)
	var priced jobs.Priced
	decode(t, resp, &priced)
	if priced.Job.Status != jobs.StatusConfirmed {
		t.Fatalf("expected confirmed job, got %s", priced.Job.Status)
	}
	if priced.Job.Totals.FacilityBillableTotal != 1212 {
		t.Fatalf("expected facility total 1212, got %v", priced.Job.Totals.FacilityBillableTotal)
	}

	billingURL := ts.URL + "/api/v1/jobs/" + priced.Job.ID + "/billing"
	resp = doWithHeaders(t, client, http.MethodPost, billingURL, token, nil, map[string]string{"Idempotency-Key": "journey-1"}, http.StatusCreated)
	var generated struct {
		Invoice struct {
			ID     string  `json:"id"`
			Amount float64 `json:"amount"`
			Status string  `json:"status"`
		} `json:"invoice"`
		Payable struct {
			ID     string  `json:"id"`
			Amount float64 `json:"amount"`
		} `json:"payable"`
	}
	decode(t, resp, &generated)
	if generated.Invoice.Amount != 1212 {
		t.Fatalf("expected invoice 1212, got %v", generated.Invoice.Amount)
	}
	if generated.Payable.Amount != priced.Job.Totals.InterpreterBillableTotal {
		t.Fatalf("expected payable %v, got %v", priced.Job.Totals.InterpreterBillableTotal, generated.Payable.Amount)
	}

	doWithHeaders(t, client, http.MethodPost, billingURL, token, nil, map[string]string{"Idempotency-Key": "journey-1"}, http.StatusOK)
	do(t, client, http.MethodPost, billingURL, token, nil, http.StatusConflict)

	do(t, client, http.MethodPut, ts.URL+"/api/v1/jobs/"+priced.Job.ID, token, map[string]any{
		"facilityId": facilityID,
		"jobDate":    "2026-03-02",
		"startTime":  "07:00",
		"endTime":    "19:00",
	}, http.StatusConflict)

	do(t, client, http.MethodPost, ts.URL+"/api/v1/invoices/"+generated.Invoice.ID+"/status", token, map[string]any{"status": "sent"}, http.StatusOK)
	do(t, client, http.MethodPost, ts.URL+"/api/v1/invoices/"+generated.Invoice.ID+"/status", token, map[string]any{"status": "draft"}, http.StatusConflict)
	do(t, client, http.MethodPost, ts.URL+"/api/v1/payables/"+generated.Payable.ID+"/status", token, map[string]any{"status": "paid"}, http.StatusOK)

	var events []map[string]any
	decode(t, do(t, client, http.MethodGet, ts.URL+"/api/v1/audit?entityType=job&entityId="+priced.Job.ID, token, nil, http.StatusOK), &events)
	if len(events) < 2 {
		t.Fatalf("expected create and billing audit events, got %d", len(events))
	}
}

func TestOutreachDeclineReturnsJobToPending(t *testing.T) {
	ts, cfg := newTestServer(t)
	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	suffix := time.Now().UnixNano()

	facilityID := createdID(t, do(t, client, http.MethodPost, ts.URL+"/api/v1/facilities", token, map[string]any{
		"name":         fmt.Sprintf("Outreach Clinic %d", suffix),
		"businessRate": 90,
	}, http.StatusCreated))
	interpreterID := createdID(t, do(t, client, http.MethodPost, ts.URL+"/api/v1/interpreters", token, map[string]any{
		"firstName": "Outreach",
		"lastName":  fmt.Sprintf("Interpreter %d", suffix),
		"languages": []string{"ASL"},
	}, http.StatusCreated))

	var priced jobs.Priced
	decode(t, do(t, client, http.MethodPost, ts.URL+"/api/v1/jobs", token, map[string]any{
		"facilityId": facilityID,
		"language":   "ASL",
		"jobDate":    "2026-04-01",
		"startTime":  "09:00",
		"endTime":    "10:00",
	}, http.StatusCreated), &priced)
	if priced.Job.Status != jobs.StatusPending {
		t.Fatalf("expected pending job, got %s", priced.Job.Status)
	}

	var offers []jobs.Outreach
	decode(t, do(t, client, http.MethodPost, ts.URL+"/api/v1/jobs/"+priced.Job.ID+"/outreach", token, map[string]any{
		"interpreterIds": []string{interpreterID},
	}, http.StatusOK), &offers)
	if len(offers) != 1 {
		t.Fatalf("expected one offer, got %d", len(offers))
	}

	decode(t, do(t, client, http.MethodPost, ts.URL+"/api/v1/jobs/"+priced.Job.ID+"/outreach/"+offers[0].ID+"/respond", token, map[string]any{
		"accept": false,
	}, http.StatusOK), &priced)
	if priced.Job.Status != jobs.StatusPending {
		t.Fatalf("expected job back to pending, got %s", priced.Job.Status)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := do(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var payload map[string]any
	decode(t, resp, &payload)
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func createdID(t *testing.T, resp envelope) string {
	t.Helper()
	var payload struct {
		ID string `json:"id"`
	}
	decode(t, resp, &payload)
	if payload.ID == "" {
		t.Fatal("expected id in response")
	}
	return payload.ID
}

func decode(t *testing.T, resp envelope, into any) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, into); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}

func do(t *testing.T, client *http.Client, method, url, token string, body any, want int) envelope {
	t.Helper()
	return doWithHeaders(t, client, method, url, token, body, nil, want)
}

func doWithHeaders(t *testing.T, client *http.Client, method, url, token string, body any, headers map[string]string, want int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}
