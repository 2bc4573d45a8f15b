package domain

import "time"

// Itinerary is a saved trip skeleton. The per-day breakdown is stored as a
// JSON document alongside the indexed header columns.
type Itinerary struct {
	ID          int64          `json:"id"`
	UserID      string         `json:"userId"`
	Title       string         `json:"title"`
	Destination string         `json:"destination"`
	StartDate   string         `json:"startDate"` // YYYY-MM-DD
	EndDate     string         `json:"endDate"`   // YYYY-MM-DD
	Budget      float64        `json:"budget"`
	Days        []ItineraryDay `json:"days,omitempty"`
	TotalCost   float64        `json:"totalCost"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type ItineraryDay struct {
	Day           int            `json:"day"`
	Date          string         `json:"date"`
	Activities    []Activity     `json:"activities,omitempty"`
	Accommodation *Accommodation `json:"accommodation,omitempty"`
	Meals         []Meal         `json:"meals,omitempty"`
}

type Activity struct {
	Time     string  `json:"time,omitempty"`
	Activity string  `json:"activity"`
	Location string  `json:"location,omitempty"`
	Cost     float64 `json:"cost"`
	Notes    string  `json:"notes,omitempty"`
}

type Accommodation struct {
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	Cost    float64 `json:"cost"`
}

type Meal struct {
	Type       string  `json:"type"` // breakfast|lunch|dinner
	Restaurant string  `json:"restaurant,omitempty"`
	Cost       float64 `json:"cost"`
}
