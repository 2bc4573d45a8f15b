// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tripzy/internal/app"
	"tripzy/internal/domain"
)

// maxBatchLocations bounds batch geocoding at the boundary; the resolver
// itself assumes the bound is already enforced.
const maxBatchLocations = 10

var dateRx = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Handlers struct {
	Geo      *app.GeoService
	Trip     *app.TripService
	Lodging  *app.LodgingService
	Itin     *app.ItineraryService
	Cache    domain.Cache
	CacheTTL int // seconds, for lodging-search responses
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/map/geocode", h.geocode)
	s.mux.Get("/v1/map/reverse-geocode", h.reverseGeocode)
	s.mux.Get("/v1/map/search", h.searchPlaces)
	s.mux.Get("/v1/map/distance", h.distance)
	s.mux.Get("/v1/map/hotels", h.searchHotels)
	s.mux.Get("/v1/map/hotel-offers", h.hotelOffers)
	s.mux.Post("/v1/map/geocode-batch", h.geocodeBatch)
	s.mux.Post("/v1/map/route", h.planRoute)
	s.mux.Post("/v1/map/hotels-by-destination", h.hotelsByDestination)

	s.mux.Post("/v1/itineraries", h.saveItinerary)
	s.mux.Get("/v1/itineraries", h.listItineraries)
	s.mux.Get("/v1/itineraries/{id}", h.getItinerary)
}

// ---- error/status plumbing ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy to HTTP statuses. Provider
// internals and credentials stay server-side.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrAuth):
		writeProblem(w, http.StatusBadGateway, "Upstream Authentication Failed", "lodging provider rejected our credentials")
	case errors.Is(err, domain.ErrProvider):
		writeProblem(w, http.StatusBadGateway, "Upstream Failure", "external provider failed")
	case errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusGatewayTimeout, "Timeout", "request deadline exceeded")
	case errors.Is(err, context.Canceled):
		writeProblem(w, http.StatusGatewayTimeout, "Canceled", "request canceled")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- request shapes ----

// locationInput accepts either a bare string query or an object with an
// optional city code and optional coordinates, and normalizes it into the
// tagged descriptor the resolver works on.
type locationInput struct {
	d domain.LocationDescriptor
}

func (l *locationInput) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		l.d = domain.TextDescriptor(text)
		return nil
	}
	var obj struct {
		Name        string           `json:"name"`
		Address     string           `json:"address"`
		CityCode    *string          `json:"cityCode"`
		Coordinates *domain.GeoPoint `json:"coordinates"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Coordinates != nil {
		l.d = domain.ResolvedDescriptor(domain.ResolvedLocation{
			Name:     obj.Name,
			Address:  obj.Address,
			Point:    *obj.Coordinates,
			CityCode: obj.CityCode,
		})
		return nil
	}
	l.d = domain.PartialDescriptor(obj.Name, obj.CityCode)
	return nil
}

func descriptors(in []locationInput) ([]domain.LocationDescriptor, error) {
	out := make([]domain.LocationDescriptor, len(in))
	for i, l := range in {
		if l.d.Kind != domain.KindResolved && l.d.Query() == "" {
			return nil, fmt.Errorf("location %d: %w: name or text is required", i, domain.ErrValidation)
		}
		if l.d.Kind == domain.KindResolved && !l.d.Location.Point.Valid() {
			return nil, fmt.Errorf("location %d: %w: coordinates out of range", i, domain.ErrValidation)
		}
		out[i] = l.d
	}
	return out, nil
}

func parseStay(checkIn, checkOut, adultsStr string) (domain.StaySearch, error) {
	if !dateRx.MatchString(checkIn) || !dateRx.MatchString(checkOut) {
		return domain.StaySearch{}, fmt.Errorf("%w: dates must be YYYY-MM-DD", domain.ErrValidation)
	}
	adults := 1
	if adultsStr != "" {
		n, err := strconv.Atoi(adultsStr)
		if err != nil || n <= 0 || n > 9 {
			return domain.StaySearch{}, fmt.Errorf("%w: adults must be 1-9", domain.ErrValidation)
		}
		adults = n
	}
	return domain.StaySearch{CheckIn: checkIn, CheckOut: checkOut, Adults: adults}, nil
}

func parseCoord(s, name string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s must be a number in [%g,%g]", domain.ErrValidation, name, lo, hi)
	}
	return v, nil
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

// ---- map handlers ----

func (h *Handlers) geocode(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "address is required")
		return
	}
	loc, err := h.Geo.Resolve(r.Context(), domain.TextDescriptor(address))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (h *Handlers) reverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, err := parseCoord(r.URL.Query().Get("lat"), "lat", -90, 90)
	if err != nil {
		writeError(w, err)
		return
	}
	lon, err := parseCoord(r.URL.Query().Get("lon"), "lon", -180, 180)
	if err != nil {
		writeError(w, err)
		return
	}
	addr, err := h.Geo.ReverseResolve(r.Context(), domain.GeoPoint{Lat: lat, Lon: lon})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"displayName": addr})
}

func (h *Handlers) searchPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "query is required")
		return
	}
	var near *domain.GeoPoint
	if q.Get("lat") != "" || q.Get("lon") != "" {
		lat, err := parseCoord(q.Get("lat"), "lat", -90, 90)
		if err != nil {
			writeError(w, err)
			return
		}
		lon, err := parseCoord(q.Get("lon"), "lon", -180, 180)
		if err != nil {
			writeError(w, err)
			return
		}
		near = &domain.GeoPoint{Lat: lat, Lon: lon}
	}
	radius := 0 // meters; the client applies its default
	if rs := q.Get("radius"); rs != "" {
		n, err := strconv.Atoi(rs)
		if err != nil || n <= 0 || n > 50000 {
			writeProblem(w, http.StatusBadRequest, "Invalid Request", "radius must be 1-50000 meters")
			return
		}
		radius = n
	}
	places, err := h.Geo.SearchPlaces(r.Context(), query, near, radius)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": places, "count": len(places)})
}

func (h *Handlers) distance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat1, err := parseCoord(q.Get("lat1"), "lat1", -90, 90)
	if err != nil {
		writeError(w, err)
		return
	}
	lon1, err := parseCoord(q.Get("lon1"), "lon1", -180, 180)
	if err != nil {
		writeError(w, err)
		return
	}
	lat2, err := parseCoord(q.Get("lat2"), "lat2", -90, 90)
	if err != nil {
		writeError(w, err)
		return
	}
	lon2, err := parseCoord(q.Get("lon2"), "lon2", -180, 180)
	if err != nil {
		writeError(w, err)
		return
	}
	d := app.Haversine(domain.GeoPoint{Lat: lat1, Lon: lon1}, domain.GeoPoint{Lat: lat2, Lon: lon2})
	writeJSON(w, http.StatusOK, map[string]any{"distance": round2(d), "unit": "kilometers"})
}

func (h *Handlers) geocodeBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Locations []locationInput `json:"locations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if len(body.Locations) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "locations array is required")
		return
	}
	if len(body.Locations) > maxBatchLocations {
		writeProblem(w, http.StatusBadRequest, "Invalid Request",
			fmt.Sprintf("maximum %d locations allowed per request", maxBatchLocations))
		return
	}
	ds, err := descriptors(body.Locations)
	if err != nil {
		writeError(w, err)
		return
	}
	resolved, err := h.Geo.ResolveAll(r.Context(), ds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": resolved, "count": len(resolved)})
}

func (h *Handlers) planRoute(w http.ResponseWriter, r *http.Request) {
	var body struct {
		InitialLocation *locationInput  `json:"initialLocation"`
		Destinations    []locationInput `json:"destinations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if body.InitialLocation == nil || len(body.Destinations) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "initialLocation and destinations are required")
		return
	}
	if len(body.Destinations) > maxBatchLocations {
		writeProblem(w, http.StatusBadRequest, "Invalid Request",
			fmt.Sprintf("maximum %d destinations allowed per request", maxBatchLocations))
		return
	}
	all, err := descriptors(append([]locationInput{*body.InitialLocation}, body.Destinations...))
	if err != nil {
		writeError(w, err)
		return
	}
	plan, err := h.Trip.PlanRoute(r.Context(), all[0], all[1:])
	if err != nil {
		writeError(w, err)
		return
	}
	plan.TotalKm = round2(plan.TotalKm)
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cityCode := strings.ToUpper(q.Get("cityCode"))
	if cityCode == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "cityCode is required")
		return
	}
	stay, err := parseStay(q.Get("checkInDate"), q.Get("checkOutDate"), q.Get("adults"))
	if err != nil {
		writeError(w, err)
		return
	}

	// short-TTL response cache at the boundary; the core stays cache-free
	key := fmt.Sprintf("hotels:%s:%s:%s:%d", cityCode, stay.CheckIn, stay.CheckOut, stay.Adults)
	var results []domain.LodgingResult
	if h.Cache != nil {
		if ok, _ := h.Cache.Get(r.Context(), key, &results); ok {
			writeJSON(w, http.StatusOK, map[string]any{"data": results, "count": len(results)})
			return
		}
	}

	results, err = h.Lodging.Aggregate(r.Context(),
		[]domain.Destination{{Name: cityCode, CityCode: &cityCode}}, stay)
	if err != nil {
		writeError(w, err)
		return
	}
	// single-destination request: surface its fail-soft entry as a real failure
	if len(results) == 1 && results[0].Err != "" {
		writeProblem(w, http.StatusBadGateway, "Upstream Failure", "lodging search failed")
		return
	}
	if h.Cache != nil {
		_ = h.Cache.Set(r.Context(), key, results, h.CacheTTL)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": results, "count": len(results)})
}

func (h *Handlers) hotelOffers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	idsParam := q.Get("hotelIds")
	if idsParam == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "hotelIds is required")
		return
	}
	var ids []string
	for _, id := range strings.Split(idsParam, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	stay, err := parseStay(q.Get("checkInDate"), q.Get("checkOutDate"), q.Get("adults"))
	if err != nil {
		writeError(w, err)
		return
	}
	rooms := 1
	if rq := q.Get("roomQuantity"); rq != "" {
		n, err := strconv.Atoi(rq)
		if err != nil || n <= 0 || n > 9 {
			writeProblem(w, http.StatusBadRequest, "Invalid Request", "roomQuantity must be 1-9")
			return
		}
		rooms = n
	}
	offers, err := h.Lodging.Offers(r.Context(), ids, stay, rooms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": offers, "count": len(offers)})
}

func (h *Handlers) hotelsByDestination(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Destinations []domain.Destination `json:"destinations"`
		CheckInDate  string               `json:"checkInDate"`
		CheckOutDate string               `json:"checkOutDate"`
		Adults       int                  `json:"adults"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if len(body.Destinations) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "destinations array is required")
		return
	}
	if !dateRx.MatchString(body.CheckInDate) || !dateRx.MatchString(body.CheckOutDate) {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "dates must be YYYY-MM-DD")
		return
	}
	adults := body.Adults
	if adults <= 0 {
		adults = 1
	}
	results, err := h.Lodging.Aggregate(r.Context(), body.Destinations,
		domain.StaySearch{CheckIn: body.CheckInDate, CheckOut: body.CheckOutDate, Adults: adults})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": results, "count": len(results)})
}

// ---- itinerary handlers ----

func (h *Handlers) saveItinerary(w http.ResponseWriter, r *http.Request) {
	var it domain.Itinerary
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if (it.StartDate != "" && !dateRx.MatchString(it.StartDate)) ||
		(it.EndDate != "" && !dateRx.MatchString(it.EndDate)) {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "dates must be YYYY-MM-DD")
		return
	}
	id, err := h.Itin.Save(r.Context(), it)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handlers) listItineraries(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		limit, _ = strconv.Atoi(ls)
	}
	items, err := h.Itin.List(r.Context(), userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handlers) getItinerary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "id must be a number")
		return
	}
	it, err := h.Itin.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(it)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getItinerary body")
	}
}
