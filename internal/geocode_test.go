package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *Logger {
	return &Logger{level: LevelError, console: io.Discard}
}

func geocodeServer(t *testing.T, requests *int64, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(requests, 1)
		if r.URL.Query().Get("addressdetails") != "1" {
			t.Error("expected addressdetails=1 in request")
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLocationResolver_ComposesName(t *testing.T) {
	var requests int64
	srv := geocodeServer(t, &requests,
		`{"address":{"city":"New York","country":"United States"}}`, http.StatusOK)

	geo := NewNominatimClient(srv.URL, "mediasort-test", time.Second)
	r := NewLocationResolver(geo, NewLimiter(0), testLogger())

	got := r.Resolve(context.Background(), &Coordinate{Lat: 40.7128, Lon: -74.0060})
	if got != "New_York_United_States" {
		t.Errorf("expected New_York_United_States, got %s", got)
	}
}

func TestLocationResolver_FieldPriority(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"town before county", `{"address":{"town":"Ely","county":"Cambridgeshire","country":"United Kingdom"}}`, "Ely_United_Kingdom"},
		{"state as last resort", `{"address":{"state":"Bavaria","country":"Germany"}}`, "Bavaria_Germany"},
		{"missing country", `{"address":{"village":"Oia"}}`, "Oia_Unknown"},
		{"missing place", `{"address":{"country":"Iceland"}}`, "Unknown_Iceland"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var requests int64
			srv := geocodeServer(t, &requests, tc.body, http.StatusOK)
			geo := NewNominatimClient(srv.URL, "mediasort-test", time.Second)
			r := NewLocationResolver(geo, NewLimiter(0), testLogger())

			got := r.Resolve(context.Background(), &Coordinate{Lat: 1, Lon: 2})
			if got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestLocationResolver_CacheReuse(t *testing.T) {
	var requests int64
	srv := geocodeServer(t, &requests,
		`{"address":{"city":"Lisbon","country":"Portugal"}}`, http.StatusOK)

	geo := NewNominatimClient(srv.URL, "mediasort-test", time.Second)
	r := NewLocationResolver(geo, NewLimiter(0), testLogger())

	// Both coordinates round to the same 3-decimal key.
	first := r.Resolve(context.Background(), &Coordinate{Lat: 38.72231, Lon: -9.13933})
	second := r.Resolve(context.Background(), &Coordinate{Lat: 38.72242, Lon: -9.13940})

	if first != second {
		t.Errorf("expected identical names, got %s and %s", first, second)
	}
	if n := atomic.LoadInt64(&requests); n != 1 {
		t.Errorf("expected exactly 1 external lookup, got %d", n)
	}
}

func TestLocationResolver_FailureCachedAsSentinel(t *testing.T) {
	var requests int64
	srv := geocodeServer(t, &requests, `oops`, http.StatusInternalServerError)

	geo := NewNominatimClient(srv.URL, "mediasort-test", time.Second)
	r := NewLocationResolver(geo, NewLimiter(0), testLogger())

	coord := &Coordinate{Lat: 10.1234, Lon: 20.5678}
	if got := r.Resolve(context.Background(), coord); got != UnknownLocation {
		t.Errorf("expected %s, got %s", UnknownLocation, got)
	}
	// Second resolve must hit the cached sentinel, not the service.
	if got := r.Resolve(context.Background(), coord); got != UnknownLocation {
		t.Errorf("expected %s, got %s", UnknownLocation, got)
	}
	if n := atomic.LoadInt64(&requests); n != 1 {
		t.Errorf("expected failure to be cached after 1 lookup, got %d", n)
	}
}

func TestLocationResolver_NilCoordinate(t *testing.T) {
	var requests int64
	srv := geocodeServer(t, &requests, `{}`, http.StatusOK)

	geo := NewNominatimClient(srv.URL, "mediasort-test", time.Second)
	r := NewLocationResolver(geo, NewLimiter(0), testLogger())

	if got := r.Resolve(context.Background(), nil); got != UnknownLocation {
		t.Errorf("expected %s, got %s", UnknownLocation, got)
	}
	if n := atomic.LoadInt64(&requests); n != 0 {
		t.Errorf("expected no external lookup, got %d", n)
	}
}

func TestLimiter_PacesCalls(t *testing.T) {
	l := NewLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("three calls finished in %v, expected at least 100ms", elapsed)
	}
}

func TestLimiter_Canceled(t *testing.T) {
	l := NewLimiter(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	// First call takes the free slot; the second would wait an hour.
	if err := l.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("expected a context error")
	}
}

func TestSanitizeComponent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"New York", "New_York"},
		{"Washington, D.C.", "Washington_D.C."},
		{"", "Unknown"},
	}
	for _, tc := range cases {
		if got := sanitizeComponent(tc.in); got != tc.want {
			t.Errorf("sanitizeComponent(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
