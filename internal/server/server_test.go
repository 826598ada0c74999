package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	return NewHandler(zap.NewNop(), 0, "test")
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleSimulate(t *testing.T) {
	handler := newTestHandler()

	recorder := postJSON(t, handler, "/api/simulate",
		`{"principal": 12000, "termMonths": 24, "monthlyPayment": 5000, "rates": [0.0]}`)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200; body: %s", recorder.Code, recorder.Body.String())
	}

	var resp simulateResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.PaidOff {
		t.Error("expected paidOff = true")
	}
	if resp.PayoffMonths != 24 {
		t.Errorf("payoffMonths = %d, expected 24", resp.PayoffMonths)
	}
	if !resp.CapExceeded {
		t.Error("expected capExceeded = true for a payment far above the minimum")
	}
	if resp.TotalInterest != 0 {
		t.Errorf("totalInterest = %v, expected 0 for a zero-rate loan", resp.TotalInterest)
	}
	if resp.BenchmarkPayment != 500 {
		t.Errorf("benchmarkPayment = %v, expected 500", resp.BenchmarkPayment)
	}

	months := resp.PayoffMonths
	if len(resp.Chart.Years) != months || len(resp.Chart.Interest) != months ||
		len(resp.Chart.Payment) != months || len(resp.Chart.Balance) != months {
		t.Errorf("chart series lengths %d/%d/%d/%d, expected %d each",
			len(resp.Chart.Years), len(resp.Chart.Interest), len(resp.Chart.Payment), len(resp.Chart.Balance), months)
	}
	if resp.Chart.Years[0] <= 0 || resp.Chart.Years[months-1] != 2.0 {
		t.Errorf("chart years = [%v ... %v], expected elapsed years ending at 2.0",
			resp.Chart.Years[0], resp.Chart.Years[months-1])
	}
	if resp.Chart.Balance[months-1] != 0 {
		t.Errorf("final chart balance = %v, expected 0", resp.Chart.Balance[months-1])
	}
}

func TestHandleSimulateInfeasible(t *testing.T) {
	handler := newTestHandler()

	recorder := postJSON(t, handler, "/api/simulate",
		`{"principal": 10000, "termMonths": 12, "monthlyPayment": 10, "rates": [1.0]}`)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, expected 422; body: %s", recorder.Code, recorder.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Month != 1 {
		t.Errorf("month = %d, expected 1", resp.Month)
	}
	if resp.Shortfall < 823 || resp.Shortfall > 824 {
		t.Errorf("shortfall = %v, expected around 823.33", resp.Shortfall)
	}
	if resp.InterestDue < 833 || resp.InterestDue > 834 {
		t.Errorf("interestDue = %v, expected around 833.33", resp.InterestDue)
	}
	if resp.BenchmarkPayment < 1349 || resp.BenchmarkPayment > 1351 {
		t.Errorf("benchmarkPayment = %v, expected around 1349.96", resp.BenchmarkPayment)
	}
	if resp.Error == "" {
		t.Error("expected a non-empty error message")
	}
}

func TestHandleSimulateInvalidInput(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{"negative principal", `{"principal": -1, "termMonths": 300, "monthlyPayment": 1000, "rates": [0.05]}`},
		{"zero term", `{"principal": 100000, "termMonths": 0, "monthlyPayment": 1000, "rates": [0.05]}`},
		{"empty rates", `{"principal": 100000, "termMonths": 300, "monthlyPayment": 1000, "rates": []}`},
		{"malformed body", `{"principal": `},
		{"unknown field", `{"principal": 100000, "termMonths": 300, "monthlyPayment": 1000, "rates": [0.05], "extra": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, handler, "/api/simulate", tt.body)
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected 400; body: %s", recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestHandleSimulateMethodNotAllowed(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/simulate", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, expected 405", recorder.Code)
	}
}

func TestHandleSimulateBodyTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 64, "test")

	large := `{"principal": 100000, "termMonths": 300, "monthlyPayment": 1000, "rates": [` +
		strings.Repeat("0.05,", 200) + `0.05]}`
	recorder := postJSON(t, handler, "/api/simulate", large)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400 for an oversized body", recorder.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", recorder.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "test" {
		t.Errorf("version = %q, expected %q", resp["version"], "test")
	}
}

func TestHandleExport(t *testing.T) {
	handler := newTestHandler()

	recorder := postJSON(t, handler, "/api/export",
		`{"principal": 250000, "termMonths": 300, "monthlyPayment": 1600, "rates": [0.045, 0.051]}`)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200; body: %s", recorder.Code, recorder.Body.String())
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "application/x-yaml" {
		t.Errorf("Content-Type = %q, expected application/x-yaml", contentType)
	}

	body := recorder.Body.String()
	for _, fragment := range []string{"principal: 250000", "termmonths: 300", "monthlypayment: 1600"} {
		if !strings.Contains(body, fragment) {
			t.Errorf("export body missing %q:\n%s", fragment, body)
		}
	}
}

func TestStaticIndexServed(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Overpay Forecast") {
		t.Error("index page does not contain the expected title")
	}
}
