package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestPreflightAdmitsAPIKeyHeader(t *testing.T) {
	is := is.New(t)

	r := New("safety-monitor")
	r.Post("/api/v0/collect", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v0/collect", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-API-Key")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	is.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
	is.True(strings.Contains(strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "x-api-key"))
}

func TestPreflightRejectsDisallowedMethod(t *testing.T) {
	is := is.New(t)

	r := New("safety-monitor")
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	is.Equal("", w.Header().Get("Access-Control-Allow-Methods"))
}
