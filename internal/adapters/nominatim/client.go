// internal/adapters/nominatim/client.go
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tripzy/internal/adapters/observability"
	"tripzy/internal/domain"
)

const userAgent = "tripzy/1.0"

// Nearby place search: at most 20 hits, default 5 km viewbox.
const (
	placeSearchLimit     = 20
	defaultPlaceRadiusM  = 5000
	metersPerDegreeOfLat = 111320
)

// Client talks to a Nominatim-compatible geocoding endpoint. Nominatim's
// usage policy caps anonymous clients at 1 request/second, enforced here
// client-side.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps float64) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type searchResult struct {
	Lat         string          `json:"lat"`
	Lon         string          `json:"lon"`
	DisplayName string          `json:"display_name"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Address     json.RawMessage `json:"address"`
}

// Forward resolves a free-text query to its single best match.
func (c *Client) Forward(ctx context.Context, query string) (domain.ResolvedLocation, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")

	var results []searchResult
	if err := c.get(ctx, "/search", q, &results); err != nil {
		return domain.ResolvedLocation{}, err
	}
	if len(results) == 0 {
		return domain.ResolvedLocation{}, fmt.Errorf("geocode %q: %w", query, domain.ErrNotFound)
	}
	return toLocation(query, results[0])
}

// Reverse resolves coordinates to a display address.
func (c *Client) Reverse(ctx context.Context, pt domain.GeoPoint) (domain.ResolvedLocation, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(pt.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(pt.Lon, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	var result searchResult
	if err := c.get(ctx, "/reverse", q, &result); err != nil {
		return domain.ResolvedLocation{}, err
	}
	if result.DisplayName == "" {
		return domain.ResolvedLocation{}, fmt.Errorf("reverse geocode: %w", domain.ErrNotFound)
	}
	loc, err := toLocation(result.DisplayName, result)
	if err != nil {
		// reverse responses may omit lat/lon; the caller already has them
		loc = domain.ResolvedLocation{Name: result.DisplayName, Address: result.DisplayName, Point: pt}
	}
	return loc, nil
}

// SearchPlaces finds up to 20 places matching the query. With a center
// point the search is bounded to a viewbox of radiusM meters around it;
// without one it runs unbounded.
func (c *Client) SearchPlaces(ctx context.Context, query string, near *domain.GeoPoint, radiusM int) ([]domain.Place, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(placeSearchLimit))
	q.Set("addressdetails", "1")
	if near != nil {
		if radiusM <= 0 {
			radiusM = defaultPlaceRadiusM
		}
		q.Set("bounded", "1")
		q.Set("viewbox", viewbox(*near, radiusM))
	}

	var results []searchResult
	if err := c.get(ctx, "/search", q, &results); err != nil {
		return nil, err
	}
	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue // entry without usable coordinates
		}
		places = append(places, domain.Place{
			Name:     r.DisplayName,
			Point:    domain.GeoPoint{Lat: lat, Lon: lon},
			Type:     r.Type,
			Category: r.Category,
			Address:  r.Address,
		})
	}
	return places, nil
}

// viewbox renders the min_lon,min_lat,max_lon,max_lat box radiusM meters
// around pt, shrinking longitude degrees by latitude.
func viewbox(pt domain.GeoPoint, radiusM int) string {
	latDelta := float64(radiusM) / metersPerDegreeOfLat
	lonDelta := float64(radiusM) / (metersPerDegreeOfLat * math.Cos(pt.Lat*math.Pi/180))
	return fmt.Sprintf("%f,%f,%f,%f",
		pt.Lon-lonDelta, pt.Lat-latDelta, pt.Lon+lonDelta, pt.Lat+latDelta)
}

func toLocation(name string, r searchResult) (domain.ResolvedLocation, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return domain.ResolvedLocation{}, fmt.Errorf("geocode: bad latitude %q: %w", r.Lat, domain.ErrProvider)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return domain.ResolvedLocation{}, fmt.Errorf("geocode: bad longitude %q: %w", r.Lon, domain.ErrProvider)
	}
	return domain.ResolvedLocation{
		Name:    name,
		Address: r.DisplayName,
		Point:   domain.GeoPoint{Lat: lat, Lon: lon},
		RawJSON: r.Address,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.ObserveExternal("nominatim", path, 0, time.Since(start))
		return fmt.Errorf("nominatim %s: %v: %w", path, err, domain.ErrProvider)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("nominatim", path, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("nominatim %s: status %d: %s: %w", path, resp.StatusCode, strings.TrimSpace(string(b)), domain.ErrProvider)
	}
}
