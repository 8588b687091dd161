package models

import "busline/internal/domain"

// Booking is the admin-facing summary of one purchase: one row per ticket
// number, covering one or more seat claims.
type Booking struct {
	ID           int64         `json:"id"`
	TicketNo     string        `json:"ticket_no"`
	CustomerName string        `json:"customer_name"`
	RouteFrom    string        `json:"route_from"`
	RouteTo      string        `json:"route_to"`
	TravelDate   string        `json:"travel_date"`
	Status       domain.Status `json:"status"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email"`
	CitizenID    string        `json:"citizen_id"`
	SeatList     string        `json:"seat_list"` // comma-joined seat codes
	Price        float64       `json:"price"`     // subtotal, excl. VAT
	VAT          float64       `json:"vat"`
	SlipPath     string        `json:"slip_path"`
	DepTime      string        `json:"dep_time"`
	ArrTime      string        `json:"arr_time"`
	CreatedAt    string        `json:"created_at,omitempty"`
}

// Total returns the amount due including VAT.
func (b Booking) Total() float64 {
	return b.Price + b.VAT
}
