// internal/adapters/amadeus/client.go
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"tripzy/internal/adapters/observability"
	"tripzy/internal/domain"
)

// tokenSafetyMargin is subtracted from the provider's expires_in so we
// never present a token that dies mid-request.
const tokenSafetyMargin = 60 * time.Second

// Client talks to the Amadeus self-service APIs (hotel list + offers).
// The OAuth2 client-credentials token is the only state shared across
// requests; refresh is lazy and single-flight.
type Client struct {
	base   string
	hc     *http.Client
	key    string
	secret string
	rl     *rate.Limiter

	mu      sync.Mutex
	token   string
	expires time.Time
	sf      singleflight.Group

	now func() time.Time
}

func New(base, key, secret string, rps int) (*Client, error) {
	if key == "" || secret == "" {
		return nil, fmt.Errorf("amadeus: api key and secret are required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		hc:     &http.Client{Timeout: 20 * time.Second},
		key:    key,
		secret: secret,
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
		now:    time.Now,
	}, nil
}

// ---- token ----

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a cached token, refreshing when absent or within the
// safety margin of expiry. Concurrent callers share one refresh.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && c.now().Before(c.expires) {
		t := c.token
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sf.Do("token", func() (any, error) {
		// re-check: a just-finished flight may have filled the cache
		c.mu.Lock()
		if c.token != "" && c.now().Before(c.expires) {
			t := c.token
			c.mu.Unlock()
			return t, nil
		}
		c.mu.Unlock()
		return c.refreshToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) refreshToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.key)
	form.Set("client_secret", c.secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		observability.ObserveExternal("amadeus", "/security/oauth2/token", 0, time.Since(start))
		return "", fmt.Errorf("amadeus token: %v: %w", err, domain.ErrAuth)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("amadeus", "/security/oauth2/token", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("amadeus token: status %d: %w", resp.StatusCode, domain.ErrAuth)
	}
	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("amadeus token: decode: %v: %w", err, domain.ErrAuth)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("amadeus token: empty access_token: %w", domain.ErrAuth)
	}

	c.mu.Lock()
	c.token = tr.AccessToken
	c.expires = c.now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenSafetyMargin)
	c.mu.Unlock()
	return tr.AccessToken, nil
}

// ---- hotel list ----

type hotelListResponse struct {
	Data []struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
		GeoCode struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"geoCode"`
		Distance *struct {
			Value float64 `json:"value"`
		} `json:"distance"`
	} `json:"data"`
}

// SearchByCity lists hotels around a city center by IATA city code.
func (c *Client) SearchByCity(ctx context.Context, cityCode string, radiusKm int) ([]domain.Hotel, error) {
	q := url.Values{}
	q.Set("cityCode", cityCode)
	q.Set("radius", strconv.Itoa(radiusKm))
	q.Set("radiusUnit", "KM")
	q.Set("hotelSource", "ALL")

	var out hotelListResponse
	if err := c.get(ctx, "/reference-data/locations/hotels/by-city", q, &out); err != nil {
		return nil, err
	}

	hotels := make([]domain.Hotel, 0, len(out.Data))
	for _, h := range out.Data {
		hotel := domain.Hotel{
			ID:    h.HotelID,
			Name:  h.Name,
			Point: domain.GeoPoint{Lat: h.GeoCode.Latitude, Lon: h.GeoCode.Longitude},
		}
		if h.Distance != nil {
			d := h.Distance.Value
			hotel.DistanceKm = &d
		}
		hotels = append(hotels, hotel)
	}
	return hotels, nil
}

// ---- offers ----

type offersResponse struct {
	Data []struct {
		Hotel struct {
			HotelID string `json:"hotelId"`
			Name    string `json:"name"`
		} `json:"hotel"`
		Offers []struct {
			ID       string `json:"id"`
			CheckIn  string `json:"checkInDate"`
			CheckOut string `json:"checkOutDate"`
			Room     struct {
				Type string `json:"type"`
			} `json:"room"`
			Price struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
				Base     string `json:"base"`
			} `json:"price"`
			Policies json.RawMessage `json:"policies"`
		} `json:"offers"`
	} `json:"data"`
}

// Offers fetches priced offers for the given hotel ids and stay.
func (c *Client) Offers(ctx context.Context, hotelIDs []string, stay domain.StaySearch, roomQuantity int) ([]domain.HotelOffers, error) {
	q := url.Values{}
	q.Set("hotelIds", strings.Join(hotelIDs, ","))
	q.Set("checkInDate", stay.CheckIn)
	q.Set("checkOutDate", stay.CheckOut)
	q.Set("adults", strconv.Itoa(stay.Adults))
	q.Set("roomQuantity", strconv.Itoa(roomQuantity))
	q.Set("currency", "USD")

	var out offersResponse
	if err := c.get(ctx, "/shopping/hotel-offers", q, &out); err != nil {
		return nil, err
	}

	res := make([]domain.HotelOffers, 0, len(out.Data))
	for _, h := range out.Data {
		ho := domain.HotelOffers{HotelID: h.Hotel.HotelID, Name: h.Hotel.Name}
		for _, o := range h.Offers {
			ho.Offers = append(ho.Offers, domain.Offer{
				ID:       o.ID,
				CheckIn:  o.CheckIn,
				CheckOut: o.CheckOut,
				RoomType: o.Room.Type,
				Price: domain.OfferPrice{
					Total:    o.Price.Total,
					Currency: o.Price.Currency,
					Base:     o.Price.Base,
				},
				Policies: o.Policies,
			})
		}
		res = append(res, ho)
	}
	return res, nil
}

// ---- internals ----

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.ObserveExternal("amadeus", path, 0, time.Since(start))
		return fmt.Errorf("amadeus %s: %v: %w", path, err, domain.ErrProvider)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("amadeus", path, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		// token revoked server-side; drop the cache so the next call refreshes
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		return fmt.Errorf("amadeus %s: status %d: %w", path, resp.StatusCode, domain.ErrAuth)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("amadeus %s: status %d: %s: %w", path, resp.StatusCode, strings.TrimSpace(string(b)), domain.ErrProvider)
	}
}
