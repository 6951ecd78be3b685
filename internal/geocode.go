package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// UnknownLocation is the sentinel used whenever no place name can be resolved.
const UnknownLocation = "Unknown_Location"

// Address holds the components of a reverse-geocoding result we care about.
type Address struct {
	City          string
	Town          string
	Village       string
	Suburb        string
	Neighbourhood string
	County        string
	State         string
	Country       string
}

// Geocoder resolves a coordinate to address components.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*Address, error)
}

// NominatimClient talks to the OpenStreetMap Nominatim reverse endpoint.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

type nominatimResponse struct {
	Address struct {
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		County        string `json:"county"`
		State         string `json:"state"`
		Country       string `json:"country"`
	} `json:"address"`
}

func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (*Address, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned status: %d", resp.StatusCode)
	}

	var result nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	return &Address{
		City:          result.Address.City,
		Town:          result.Address.Town,
		Village:       result.Address.Village,
		Suburb:        result.Address.Suburb,
		Neighbourhood: result.Address.Neighbourhood,
		County:        result.Address.County,
		State:         result.Address.State,
		Country:       result.Address.Country,
	}, nil
}

// Limiter paces calls to the geocoding service. Each Wait reserves the next
// available slot, so concurrent callers are serialized one interval apart.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	wait := l.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	l.next = now.Add(wait + l.interval)
	l.mu.Unlock()

	if wait == 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LocationResolver turns coordinates into folder-safe place names, caching
// results under a 3-decimal rounded key (~111m grid) so nearby shots share
// one lookup. Failures are cached too: a coordinate is never retried against
// the service within a run.
type LocationResolver struct {
	geo     Geocoder
	limiter *Limiter
	log     *Logger

	mu    sync.Mutex
	cache map[string]string
}

func NewLocationResolver(geo Geocoder, limiter *Limiter, log *Logger) *LocationResolver {
	return &LocationResolver{
		geo:     geo,
		limiter: limiter,
		log:     log,
		cache:   make(map[string]string),
	}
}

// Resolve returns the place name for coord, or Unknown_Location when coord is
// nil or the lookup fails. The cache is consulted before any network work.
func (r *LocationResolver) Resolve(ctx context.Context, coord *Coordinate) string {
	if coord == nil {
		return UnknownLocation
	}

	key := fmt.Sprintf("%.3f,%.3f", coord.Lat, coord.Lon)

	r.mu.Lock()
	if name, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return name
	}
	r.mu.Unlock()

	name := UnknownLocation
	if err := r.limiter.Wait(ctx); err != nil {
		r.log.Debug("geocode lookup canceled for (%.5f, %.5f): %v", coord.Lat, coord.Lon, err)
	} else if addr, err := r.geo.ReverseGeocode(ctx, coord.Lat, coord.Lon); err != nil {
		r.log.Warning("geocode failed for (%.5f, %.5f): %v", coord.Lat, coord.Lon, err)
	} else {
		name = composeLocationName(addr)
	}

	// First writer wins: keep an entry stored by a concurrent lookup.
	r.mu.Lock()
	if existing, ok := r.cache[key]; ok {
		name = existing
	} else {
		r.cache[key] = name
	}
	r.mu.Unlock()

	return name
}

// composeLocationName picks the most specific city-like field, combines it
// with the country, and makes the result folder-safe.
func composeLocationName(addr *Address) string {
	place := firstNonEmpty(
		addr.City,
		addr.Town,
		addr.Village,
		addr.Suburb,
		addr.Neighbourhood,
		addr.County,
		addr.State,
	)
	return sanitizeComponent(place) + "_" + sanitizeComponent(addr.Country)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func sanitizeComponent(s string) string {
	if s == "" {
		return "Unknown"
	}
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, ",", "")
}
