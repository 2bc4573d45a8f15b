package domain

// DistanceMatrix is a square table of pairwise distances in kilometers.
// Row/column i corresponds to index i of the point list it was built from;
// it is symmetric with a zero diagonal and never mutated after construction.
type DistanceMatrix [][]float64

func (m DistanceMatrix) Size() int { return len(m) }

func (m DistanceMatrix) At(i, j int) float64 { return m[i][j] }

// Route is a visiting order over matrix indices: a permutation starting at
// a fixed index, plus the summed length of its consecutive hops. Open path,
// no return leg to the start.
type Route struct {
	Order   []int   `json:"order"`
	TotalKm float64 `json:"totalDistanceKm"`
}

// TripPlan is the terminal artifact of multi-destination planning.
type TripPlan struct {
	Locations []ResolvedLocation `json:"originalLocations"` // input order
	Order     []int              `json:"optimizedOrder"`
	Ordered   []ResolvedLocation `json:"optimizedLocations"` // Locations permuted by Order
	TotalKm   float64            `json:"totalDistanceKm"`
}
