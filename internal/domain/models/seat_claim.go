package models

// SeatClaim reserves exactly one seat on one trip instance for one travel
// date. The store enforces that at most one claim exists per
// (travel_date, route_from, route_to, departure_time, seat_code).
type SeatClaim struct {
	ID            int64  `json:"id"`
	TravelDate    string `json:"travel_date"` // YYYY-MM-DD
	RouteFrom     string `json:"route_from"`
	RouteTo       string `json:"route_to"`
	DepartureTime string `json:"departure_time"`
	SeatCode      string `json:"seat_code"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	CitizenID     string `json:"citizen_id"`
	Email         string `json:"email"`
	TicketNo      string `json:"ticket_no"`
}

// Passenger carries the identity attached to every claim of one booking.
type Passenger struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	CitizenID string `json:"citizen_id"`
	Email     string `json:"email"`
}

// TripKey identifies a trip instance together with a travel date.
type TripKey struct {
	TravelDate    string `json:"travel_date"`
	RouteFrom     string `json:"route_from"`
	RouteTo       string `json:"route_to"`
	DepartureTime string `json:"departure_time"`
}
