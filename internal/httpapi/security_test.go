package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taaza/backend/internal/domain"
)

func TestCSRF_RequiredOnMutations(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	token := loginAs(t, handler, "admin", "admin123")

	payload, _ := json.Marshal(domain.BillSubmitRequest{
		Items:         []domain.LineItem{{Name: "Egg Tray", Qty: 1, AmountPaise: 9000}},
		PaymentMethod: "cash",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without CSRF token, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestCSRF_InvalidTokenRejected(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	token := loginAs(t, handler, "admin", "admin123")

	payload, _ := json.Marshal(domain.BillSubmitRequest{
		Items:         []domain.LineItem{{Name: "Egg Tray", Qty: 1, AmountPaise: 9000}},
		PaymentMethod: "cash",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", "deadbeef")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with bogus CSRF token, got %d", rec.Code)
	}
}

func TestCSRF_LoginAndCheckoutExempt(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	// Login works without a CSRF token.
	loginAs(t, handler, "admin", "admin123")

	// Checkout works without a CSRF token too.
	payload, _ := json.Marshal(domain.CheckoutRequest{
		Customer: "Priya",
		Phone:    "9123456780",
		Items:    []domain.LineItem{{Name: "Chicken Wings", Qty: 1, AmountPaise: 15000}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected checkout to bypass CSRF, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestCSRF_TokenValidAcrossHourBoundary(t *testing.T) {
	api := newTestAPI(t)

	prevBucket := time.Now().UTC().Truncate(time.Hour).Unix() - 3600
	token := api.csrfTokenForHour(prevBucket)

	if !api.validateCSRFToken(token) {
		t.Fatalf("token from previous hour bucket must still validate")
	}

	stale := api.csrfTokenForHour(prevBucket - 3600)
	if api.validateCSRFToken(stale) {
		t.Fatalf("token older than two buckets must be rejected")
	}
}

func TestSecurityHeaders(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	for header, want := range map[string]string{
		"X-Content-Type-Options":      "nosniff",
		"X-Frame-Options":             "DENY",
		"Referrer-Policy":             "strict-origin-when-cross-origin",
		"Access-Control-Allow-Origin": "*",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Fatalf("header %s: expected %q, got %q", header, want, got)
		}
	}
}

func TestPreflightRequest(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/billing/submit", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
}

func TestAttemptLimiter_WindowExpiry(t *testing.T) {
	limiter := newAttemptLimiter(2, 50*time.Millisecond)

	if !limiter.Allow("10.0.0.1") || !limiter.Allow("10.0.0.1") {
		t.Fatalf("first two attempts must pass")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatalf("third attempt inside window must be blocked")
	}
	// A different key keeps its own attempt count.
	if !limiter.Allow("10.0.0.2") {
		t.Fatalf("other client must not be affected")
	}

	time.Sleep(60 * time.Millisecond)
	if !limiter.Allow("10.0.0.1") {
		t.Fatalf("attempt after window expiry must pass")
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "203.0.113.9:5412"
	if got := clientKey(req); got != "203.0.113.9" {
		t.Fatalf("expected bare IP, got %q", got)
	}

	req.RemoteAddr = "[2001:db8::1]:443"
	if got := clientKey(req); got != "2001:db8::1" {
		t.Fatalf("expected bare IPv6, got %q", got)
	}
}
