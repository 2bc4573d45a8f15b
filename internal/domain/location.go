package domain

import "encoding/json"

// GeoPoint is a WGS84 coordinate pair in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies inside the WGS84 envelope.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// ResolvedLocation is the canonical geocoded form of a location.
type ResolvedLocation struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"` // provider display address
	Point    GeoPoint `json:"coordinates"`
	CityCode *string  `json:"cityCode,omitempty"` // IATA city code, when known
	RawJSON  []byte   `json:"-"`                  // full provider payload
}

// Place is a single point-of-interest hit from a nearby search
// (restaurants, hotels, attractions).
type Place struct {
	Name     string          `json:"name"`
	Point    GeoPoint        `json:"coordinates"`
	Type     string          `json:"type,omitempty"`
	Category string          `json:"category,omitempty"`
	Address  json.RawMessage `json:"address,omitempty"`
}

// DescriptorKind tags the resolution state of a LocationDescriptor.
type DescriptorKind int

const (
	// KindText is a free-form query that must be forward-geocoded.
	KindText DescriptorKind = iota
	// KindPartial has a name (and maybe a city code) but no coordinates.
	KindPartial
	// KindResolved already carries coordinates; resolution is a no-op.
	KindResolved
)

// LocationDescriptor is a tagged union over the three input shapes the
// planner accepts: raw text, a partial record, or an already resolved
// location. Immutable once submitted.
type LocationDescriptor struct {
	Kind     DescriptorKind
	Text     string            // KindText query
	Name     string            // KindPartial display name
	CityCode *string           // optional, KindPartial/KindResolved
	Location *ResolvedLocation // KindResolved payload
}

func TextDescriptor(q string) LocationDescriptor {
	return LocationDescriptor{Kind: KindText, Text: q}
}

func PartialDescriptor(name string, cityCode *string) LocationDescriptor {
	return LocationDescriptor{Kind: KindPartial, Name: name, CityCode: cityCode}
}

func ResolvedDescriptor(loc ResolvedLocation) LocationDescriptor {
	return LocationDescriptor{Kind: KindResolved, Name: loc.Name, CityCode: loc.CityCode, Location: &loc}
}

// Query returns the text to send to the geocoding provider.
func (d LocationDescriptor) Query() string {
	if d.Kind == KindText {
		return d.Text
	}
	return d.Name
}
