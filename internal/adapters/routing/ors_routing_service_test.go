package routing

import (
	"context"
	"courier-slot-service/internal/domain"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type memGeocodeCache struct {
	mu sync.Mutex
	m  map[string]domain.Coordinates
}

func (c *memGeocodeCache) GetMany(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]domain.Coordinates)
	for _, a := range addresses {
		if v, ok := c.m[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

type fakeORS struct {
	geocodeCalls atomic.Int64
	matrixCalls  atomic.Int64
	failMatrix   atomic.Int64 // number of 503s to return before succeeding
	matrixStatus int
}

func (f *fakeORS) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		f.geocodeCalls.Add(1)
		if r.Header.Get("Authorization") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("boundary.country") != "MX" {
			t.Errorf("expected boundary.country=MX, got %q", r.URL.Query().Get("boundary.country"))
		}

		text := r.URL.Query().Get("text")
		if text == "nowhere" {
			_, _ = w.Write([]byte(`{"features":[]}`))
			return
		}

		lon := -99.13
		if strings.Contains(text, "Balderas") {
			lon = -99.15
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"features": []any{
				map[string]any{"geometry": map[string]any{"coordinates": []float64{lon, 19.43}}},
			},
		})
	})

	mux.HandleFunc("/v2/matrix/driving-car", func(w http.ResponseWriter, r *http.Request) {
		f.matrixCalls.Add(1)
		if f.failMatrix.Load() > 0 {
			f.failMatrix.Add(-1)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if f.matrixStatus != 0 {
			w.WriteHeader(f.matrixStatus)
			_, _ = w.Write([]byte(`{"error":"bad request"}`))
			return
		}

		var req matrixRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Locations) != 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"durations":[[1234.4]]}`))
	})

	return mux
}

func newTestService(t *testing.T, f *fakeORS, gc *memGeocodeCache) *ORSRoutingService {
	t.Helper()

	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	opts := ORSOptions{
		BaseURL:       srv.URL,
		Country:       "MX",
		RatePerMinute: 6000,
		HTTPClient:    srv.Client(),
	}
	if gc != nil {
		opts.GeocodeCache = gc
	}

	svc, err := NewORSRoutingService("test-key", opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.backoff = time.Millisecond
	return svc
}

func TestORSRoutingServiceTravelSeconds(t *testing.T) {
	f := &fakeORS{}
	gc := &memGeocodeCache{m: map[string]domain.Coordinates{}}
	svc := newTestService(t, f, gc)
	ctx := context.Background()

	s, err := svc.TravelSeconds(ctx, "Zócalo, Ciudad de México", "Balderas,  Ciudad de México")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != 1234 {
		t.Fatalf("expected 1234 seconds, got %d", s)
	}
	if got := f.geocodeCalls.Load(); got != 2 {
		t.Fatalf("expected 2 geocode calls, got %d", got)
	}

	if _, ok := gc.m["Balderas, Ciudad de México"]; !ok {
		t.Fatal("expected geocode result to be cached under the collapsed address")
	}

	if _, err := svc.TravelSeconds(ctx, "Balderas, Ciudad de México", "Zócalo, Ciudad de México"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.geocodeCalls.Load(); got != 2 {
		t.Fatalf("expected cached coordinates to be reused, got %d geocode calls", got)
	}
}

func TestORSRoutingServiceRetriesTransientFailures(t *testing.T) {
	f := &fakeORS{}
	f.failMatrix.Store(2)
	svc := newTestService(t, f, nil)

	s, err := svc.TravelSeconds(context.Background(), "Zócalo", "Balderas")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != 1234 {
		t.Fatalf("expected 1234 seconds, got %d", s)
	}
	if got := f.matrixCalls.Load(); got != 3 {
		t.Fatalf("expected 3 matrix attempts, got %d", got)
	}
}

func TestORSRoutingServiceDoesNotRetryClientErrors(t *testing.T) {
	f := &fakeORS{matrixStatus: http.StatusBadRequest}
	svc := newTestService(t, f, nil)

	_, err := svc.TravelSeconds(context.Background(), "Zócalo", "Balderas")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := f.matrixCalls.Load(); got != 1 {
		t.Fatalf("expected a single matrix attempt, got %d", got)
	}
}

func TestORSRoutingServiceErrors(t *testing.T) {
	svc := newTestService(t, &fakeORS{}, nil)
	ctx := context.Background()

	if _, err := svc.TravelSeconds(ctx, "  ", "Balderas"); err == nil {
		t.Fatal("expected error for empty origin")
	}
	if _, err := svc.TravelSeconds(ctx, "nowhere", "Balderas"); err == nil {
		t.Fatal("expected error when geocoding finds nothing")
	}

	if _, err := NewORSRoutingService("", ORSOptions{}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestMockRoutingService(t *testing.T) {
	m := NewMockRoutingService([]MockPair{{From: "a", To: "b", Seconds: 60}})

	if s, err := m.TravelSeconds(context.Background(), "a", "b"); err != nil || s != 60 {
		t.Fatalf("expected 60, got %d %v", s, err)
	}
	if _, err := m.TravelSeconds(context.Background(), "b", "a"); err == nil {
		t.Fatal("pairs are directed")
	}
	if m.Calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", m.Calls())
	}
}
