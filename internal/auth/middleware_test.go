// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler(gotCaller *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotCaller = CallerID(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateJWTMode(t *testing.T) {
	jm := testJWTManager(t, time.Hour)
	m := NewMiddleware(jm, "jwt", 5, time.Minute)

	token, _, err := jm.GenerateToken("user-1", "maya@example.com", "client")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		cookie     *http.Cookie
		wantStatus int
		wantCaller string
	}{
		{"bearer token", "Bearer " + token, nil, http.StatusOK, "user-1"},
		{"cookie fallback", "", &http.Cookie{Name: "token", Value: token}, http.StatusOK, "user-1"},
		{"missing credentials", "", nil, http.StatusUnauthorized, ""},
		{"malformed header", "Token " + token, nil, http.StatusUnauthorized, ""},
		{"invalid token", "Bearer junk", nil, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var caller string
			handler := m.Authenticate(okHandler(&caller))

			req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if caller != tt.wantCaller {
				t.Errorf("caller = %q, want %q", caller, tt.wantCaller)
			}
		})
	}
}

func TestAuthenticateNoneMode(t *testing.T) {
	m := NewMiddleware(nil, "none", 5, time.Minute)

	var caller string
	handler := m.Authenticate(okHandler(&caller))

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req.Header.Set("X-User-ID", "dev-user-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if caller != "dev-user-7" {
		t.Errorf("caller = %q, want %q", caller, "dev-user-7")
	}
}

func TestLoginRateLimit(t *testing.T) {
	m := NewMiddleware(nil, "none", 2, time.Minute)

	handler := m.LoginRateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d status = %d, want 200", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}
