package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/medias-pipeline-go/internal/api_context"
	"github.com/go-chi/chi/v5"
)

func TestWithJobName(t *testing.T) {
	mw := WithJobName()

	tests := []struct {
		name           string
		paramValue     string // what chi.URLParam(r, "name") returns
		wantStatus     int
		expectNextCall bool // if the next handler should run
	}{
		{"missing param", "", http.StatusBadRequest, false},
		{"backslash", `a\b.mp4`, http.StatusBadRequest, false},
		{"too long", strings.Repeat("a", 513), http.StatusBadRequest, false},
		{"happy path", "upload-42.mp4", http.StatusNoContent, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// dummy handler that records if it's called
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if name, ok := api_context.JobNameFromContext(r.Context()); ok {
					w.Header().Set("X-Job", name)
				}
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest("GET", "/any", nil)
			// inject chi URLParam
			rctx := chi.NewRouteContext()
			if tc.paramValue != "" {
				rctx.URLParams.Add("name", tc.paramValue)
			}
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rec := httptest.NewRecorder()

			// call middleware
			handler := mw(next)
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if nextCalled != tc.expectNextCall {
				t.Errorf("nextCalled = %v; want %v", nextCalled, tc.expectNextCall)
			}
			if tc.expectNextCall {
				got := rec.Header().Get("X-Job")
				if got != tc.paramValue {
					t.Errorf("name in context = %q; want %q", got, tc.paramValue)
				}
			}
		})
	}
}
