package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"outer", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("expected %v, got %v", want, order)
		}
	}
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS("https://soc.example")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/alerts", nil))

	if called {
		t.Error("preflight should not reach the handler")
	}
	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://soc.example" {
		t.Errorf("Expected origin header https://soc.example, got %q", got)
	}
}

type recordedRequest struct {
	method, path, status string
}

type fakeRecorder struct {
	requests []recordedRequest
	inFlight int
}

func (f *fakeRecorder) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	f.requests = append(f.requests, recordedRequest{method, path, status})
}
func (f *fakeRecorder) IncHTTPRequestsInFlight() { f.inFlight++ }
func (f *fakeRecorder) DecHTTPRequestsInFlight() { f.inFlight-- }

func TestMetricsUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/view/{alertId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := &fakeRecorder{}
	h := Metrics(rec)(mux)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/view/42", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nowhere", nil))

	if len(rec.requests) != 2 {
		t.Fatalf("expected 2 recorded requests, got %d", len(rec.requests))
	}
	if got := rec.requests[0]; got != (recordedRequest{"GET", "GET /api/view/{alertId}", "418"}) {
		t.Errorf("unexpected first request %+v", got)
	}
	if got := rec.requests[1]; got.path != "unmatched" || got.status != "404" {
		t.Errorf("unexpected second request %+v", got)
	}
	if rec.inFlight != 0 {
		t.Errorf("expected in-flight gauge back at 0, got %d", rec.inFlight)
	}
}
