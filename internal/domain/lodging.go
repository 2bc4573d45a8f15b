package domain

// Hotel is a single property returned by a lodging search.
type Hotel struct {
	ID         string   `json:"hotelId"`
	Name       string   `json:"name"`
	Point      GeoPoint `json:"coordinates"`
	DistanceKm *float64 `json:"distance,omitempty"` // from city center, when reported
}

// OfferPrice carries provider-reported figures verbatim; no conversion.
type OfferPrice struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
	Base     string `json:"base,omitempty"`
}

// Offer is a single bookable rate for a hotel and date range.
type Offer struct {
	ID       string     `json:"id"`
	CheckIn  string     `json:"checkInDate"`  // YYYY-MM-DD
	CheckOut string     `json:"checkOutDate"` // YYYY-MM-DD
	RoomType string     `json:"roomType,omitempty"`
	Price    OfferPrice `json:"price"`
	Policies []byte     `json:"-"` // raw provider policies payload
}

// HotelOffers groups priced offers under one hotel.
type HotelOffers struct {
	HotelID string  `json:"hotelId"`
	Name    string  `json:"name"`
	Offers  []Offer `json:"offers"`
}

// Destination is the aggregator's per-item input: a display name plus an
// optional IATA city code. Items without a city code are skipped.
type Destination struct {
	Name     string  `json:"name"`
	CityCode *string `json:"cityCode,omitempty"`
}

// LodgingResult is one destination's slice of the aggregation. Err is set
// when that destination's provider call failed; siblings are unaffected.
type LodgingResult struct {
	Destination string  `json:"destination"`
	CityCode    string  `json:"cityCode"`
	Hotels      []Hotel `json:"hotels,omitempty"`
	Err         string  `json:"error,omitempty"`
}

// StaySearch is the validated date/occupancy envelope for lodging queries.
// CheckIn/CheckOut are YYYY-MM-DD, validated at the boundary.
type StaySearch struct {
	CheckIn  string
	CheckOut string
	Adults   int
}
