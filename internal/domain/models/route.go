package models

// Route is one scheduled service out of the hub: an origin-destination pair
// at a specific departure time. The (RouteFrom, RouteTo, DepartureTime)
// triple is unique in the catalog.
type Route struct {
	ID            int64   `json:"id"`
	RouteFrom     string  `json:"route_from"`
	RouteTo       string  `json:"route_to"`
	DepartureTime string  `json:"departure_time"` // HH:MM
	Duration      string  `json:"duration"`       // H:MM
	Capacity      int     `json:"capacity"`
	Price         float64 `json:"price"` // per seat
}

// TripOption is a passenger-facing search result: one bookable departure
// with its derived arrival time.
type TripOption struct {
	RouteFrom     string  `json:"route_from"`
	RouteTo       string  `json:"route_to"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Duration      string  `json:"duration"`
	Capacity      int     `json:"capacity"`
	Price         float64 `json:"price"`
}
