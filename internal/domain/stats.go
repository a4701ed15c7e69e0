package domain

// YearStats aggregates flights and distance for one calendar year.
type YearStats struct {
	Year       int     `json:"year"`
	Flights    int     `json:"flights"`
	DistanceKm float64 `json:"distanceKm"`
}

// MonthStats aggregates flights and distance for one (year, month) bucket.
// Month is 1-based (January = 1).
type MonthStats struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Flights    int     `json:"flights"`
	DistanceKm float64 `json:"distanceKm"`
}

// FlightRecord describes a single superlative leg (longest or shortest).
type FlightRecord struct {
	DepartureIata string  `json:"departureIata"`
	DepartureCity string  `json:"departureCity"`
	ArrivalIata   string  `json:"arrivalIata"`
	ArrivalCity   string  `json:"arrivalCity"`
	DistanceKm    float64 `json:"distanceKm"`
}

// AirportVisitCount counts how often an airport appears across all legs.
// Departure and arrival occurrences count independently, so an airport used
// as both ends of a layover counts twice.
type AirportVisitCount struct {
	AirportID  int64  `json:"airportId"`
	IataCode   string `json:"iataCode"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Country    string `json:"country"`
	VisitCount int    `json:"visitCount"`
}

// RouteCount counts flights over an unordered airport pair: A→B and B→A are
// the same route. The From/To fields describe the direction of the first leg
// seen for the pair; DistanceKm is the distance of the most recently seen leg.
type RouteCount struct {
	FromAirportID int64   `json:"fromAirportId"`
	FromIataCode  string  `json:"fromIataCode"`
	FromCity      string  `json:"fromCity"`
	ToAirportID   int64   `json:"toAirportId"`
	ToIataCode    string  `json:"toIataCode"`
	ToCity        string  `json:"toCity"`
	Count         int     `json:"count"`
	DistanceKm    float64 `json:"distanceKm"`
}

// FlightStats is the full statistics structure computed over every stored
// journey. Empty collections yield zero totals, empty slices, and nil record
// pointers — never an error.
type FlightStats struct {
	TotalFlights    int     `json:"totalFlights"`
	TotalJourneys   int     `json:"totalJourneys"`
	TotalDistanceKm float64 `json:"totalDistanceKm"`

	ByYear         []YearStats  `json:"byYear"`
	ByMonth        []MonthStats `json:"byMonth"`
	StrongestYear  *YearStats   `json:"strongestYear"`
	StrongestMonth *MonthStats  `json:"strongestMonth"`

	LongestFlight       *FlightRecord       `json:"longestFlight"`
	ShortestFlight      *FlightRecord       `json:"shortestFlight"`
	MostVisitedAirports []AirportVisitCount `json:"mostVisitedAirports"`
	MostCommonRoutes    []RouteCount        `json:"mostCommonRoutes"`

	UniqueAirports   int      `json:"uniqueAirports"`
	UniqueCountries  int      `json:"uniqueCountries"`
	CountriesVisited []string `json:"countriesVisited"`

	EarthCircumferences  float64 `json:"earthCircumferences"`
	MoonDistancePercent  float64 `json:"moonDistancePercent"`
	EstimatedFlightHours float64 `json:"estimatedFlightHours"`
	WalkingYears         float64 `json:"walkingYears"`
}
