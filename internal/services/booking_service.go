package services

import (
	"database/sql"
	"fmt"
	"sort"

	intconfig "busline/internal/config"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"
)

// defaultTickets backs services constructed without an explicit generator.
var defaultTickets = NewTicketNumbers()

// BookingService owns the passenger flow: trip search, seat availability and
// the transactional multi-seat claim commit.
type BookingService struct {
	RouteRepo   repositories.RouteRepo
	SeatRepo    repositories.SeatClaimRepo
	BookingRepo repositories.BookingRepo
	Tickets     *TicketNumbers
	Hub         string
	DB          *sql.DB
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) routes() repositories.RouteRepo {
	if s.RouteRepo.DB != nil {
		return s.RouteRepo
	}
	return repositories.RouteRepo{DB: s.db()}
}

func (s BookingService) seats() repositories.SeatClaimRepo {
	if s.SeatRepo.DB != nil {
		return s.SeatRepo
	}
	return repositories.SeatClaimRepo{DB: s.db()}
}

func (s BookingService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

func (s BookingService) tickets() *TicketNumbers {
	if s.Tickets != nil {
		return s.Tickets
	}
	return defaultTickets
}

// SeatLayout generates the cabin seat codes for a capacity: four seats per
// row (A-D), rows numbered from 1. Capacity 40 yields 1A through 10D.
func SeatLayout(capacity int) []string {
	letters := []string{"A", "B", "C", "D"}
	out := make([]string, 0, capacity)
	for i := 0; i < capacity; i++ {
		out = append(out, fmt.Sprintf("%d%s", i/4+1, letters[i%4]))
	}
	return out
}

// SearchTrips lists the bookable departures to a destination, with arrival
// times derived from departure + duration.
func (s BookingService) SearchTrips(dest string) ([]models.TripOption, error) {
	if dest == "" {
		return nil, domain.ValidationError{Field: "dest", Msg: "destination is required"}
	}
	routes, err := s.routes().ListByPair(s.Hub, dest)
	if err != nil {
		return nil, err
	}
	out := make([]models.TripOption, 0, len(routes))
	for _, rt := range routes {
		arr, err := utils.ArrivalTime(rt.DepartureTime, rt.Duration)
		if err != nil {
			arr = ""
		}
		out = append(out, models.TripOption{
			RouteFrom:     rt.RouteFrom,
			RouteTo:       rt.RouteTo,
			DepartureTime: rt.DepartureTime,
			ArrivalTime:   arr,
			Duration:      rt.Duration,
			Capacity:      rt.Capacity,
			Price:         rt.Price,
		})
	}
	return out, nil
}

// ClaimedSeats returns the seat codes held for a trip instance. Missing trips
// simply yield an empty set.
func (s BookingService) ClaimedSeats(travelDate, dest, departureTime string) ([]string, error) {
	if _, err := utils.ParseDate(travelDate); err != nil {
		return nil, domain.ValidationError{Field: "travel_date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	key := models.TripKey{
		TravelDate:    travelDate,
		RouteFrom:     s.Hub,
		RouteTo:       dest,
		DepartureTime: departureTime,
	}
	taken, err := s.seats().ClaimedSeats(nil, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(taken))
	for seat := range taken {
		out = append(out, seat)
	}
	sort.Strings(out)
	return out, nil
}

// FreeSeats returns the cabin layout minus claimed seats. An unknown trip has
// no bookable seats.
func (s BookingService) FreeSeats(travelDate, dest, departureTime string) ([]string, error) {
	route, err := s.routes().GetTrip(s.Hub, dest, departureTime)
	if err != nil {
		if domain.IsNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}
	claimed, err := s.ClaimedSeats(travelDate, dest, departureTime)
	if err != nil {
		return nil, err
	}
	takenSet := make(map[string]struct{}, len(claimed))
	for _, seat := range claimed {
		takenSet[seat] = struct{}{}
	}
	out := []string{}
	for _, seat := range SeatLayout(route.Capacity) {
		if _, taken := takenSet[seat]; !taken {
			out = append(out, seat)
		}
	}
	return out, nil
}

// CommitRequest is one booking attempt: a candidate seat set for one trip
// instance plus the passenger identity and payment slip reference.
type CommitRequest struct {
	TravelDate    string           `json:"travel_date"`
	Dest          string           `json:"dest"`
	DepartureTime string           `json:"departure_time"`
	Seats         []string         `json:"seats"`
	Passenger     models.Passenger `json:"passenger"`
	SlipPath      string           `json:"slip_path"`
}

func (req CommitRequest) validate() error {
	if _, err := utils.ParseDate(req.TravelDate); err != nil {
		return domain.ValidationError{Field: "travel_date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	if req.Dest == "" {
		return domain.ValidationError{Field: "dest", Msg: "destination is required"}
	}
	if !utils.ValidHHMM(req.DepartureTime) {
		return domain.ValidationError{Field: "departure_time", Msg: "expected HH:MM"}
	}
	if len(utils.CleanSeatCodes(req.Seats)) == 0 {
		return domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
	}
	p := req.Passenger
	if p.FirstName == "" || p.LastName == "" {
		return domain.ValidationError{Field: "passenger", Msg: "first and last name are required"}
	}
	if p.Phone == "" {
		return domain.ValidationError{Field: "phone", Msg: "phone is required"}
	}
	if p.CitizenID == "" {
		return domain.ValidationError{Field: "citizen_id", Msg: "citizen id is required"}
	}
	return nil
}

// CommitBooking atomically claims every requested seat and writes the
// booking summary, all under one generated ticket number. Availability is
// re-checked inside the transaction, but the composite unique key on
// seat_claims is the authoritative conflict signal: if any seat was taken by
// a concurrent writer, the whole commit rolls back and the error names the
// unavailable seats.
func (s BookingService) CommitBooking(req CommitRequest) (models.Booking, error) {
	if err := req.validate(); err != nil {
		return models.Booking{}, err
	}

	route, err := s.routes().GetTrip(s.Hub, req.Dest, req.DepartureTime)
	if err != nil {
		return models.Booking{}, err
	}
	arrTime, err := utils.ArrivalTime(route.DepartureTime, route.Duration)
	if err != nil {
		arrTime = ""
	}

	seats := utils.CleanSeatCodes(req.Seats)
	key := models.TripKey{
		TravelDate:    req.TravelDate,
		RouteFrom:     s.Hub,
		RouteTo:       req.Dest,
		DepartureTime: req.DepartureTime,
	}

	ticketNo, err := s.tickets().Next(s.bookings().TicketExists)
	if err != nil {
		return models.Booking{}, err
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.StorageError{Op: "booking commit", Err: err}
	}
	defer tx.Rollback()

	// Early feedback before touching the ledger; the unique key still decides.
	taken, err := s.seats().ClaimedSeats(tx, key)
	if err != nil {
		return models.Booking{}, err
	}
	if conflicts := intersectSeats(seats, taken); len(conflicts) > 0 {
		return models.Booking{}, domain.SeatConflictError{Seats: conflicts}
	}

	subtotal := route.Price * float64(len(seats))
	booking := models.Booking{
		TicketNo:     ticketNo,
		CustomerName: utils.NormalizeSpace(req.Passenger.FirstName + " " + req.Passenger.LastName),
		RouteFrom:    s.Hub,
		RouteTo:      req.Dest,
		TravelDate:   req.TravelDate,
		Status:       domain.StatusPending,
		Phone:        req.Passenger.Phone,
		Email:        req.Passenger.Email,
		CitizenID:    req.Passenger.CitizenID,
		SeatList:     utils.JoinSeatList(seats),
		Price:        subtotal,
		VAT:          utils.VATAmount(subtotal),
		SlipPath:     req.SlipPath,
		DepTime:      route.DepartureTime,
		ArrTime:      arrTime,
	}

	if _, err := s.bookings().Insert(tx, booking); err != nil {
		return models.Booking{}, err
	}

	for _, seat := range seats {
		claim := models.SeatClaim{
			TravelDate:    key.TravelDate,
			RouteFrom:     key.RouteFrom,
			RouteTo:       key.RouteTo,
			DepartureTime: key.DepartureTime,
			SeatCode:      seat,
			FirstName:     req.Passenger.FirstName,
			LastName:      req.Passenger.LastName,
			Phone:         req.Passenger.Phone,
			CitizenID:     req.Passenger.CitizenID,
			Email:         req.Passenger.Email,
			TicketNo:      ticketNo,
		}
		if err := s.seats().InsertClaim(tx, claim); err != nil {
			if _, ok := domain.IsSeatConflict(err); ok {
				// Name every seat the winner took, not just the first.
				if nowTaken, qerr := s.seats().ClaimedSeats(tx, key); qerr == nil {
					if conflicts := intersectSeats(seats, nowTaken); len(conflicts) > 0 {
						return models.Booking{}, domain.SeatConflictError{Seats: conflicts}
					}
				}
			}
			return models.Booking{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.StorageError{Op: "booking commit", Err: err}
	}

	utils.LogEvent("", "booking", "commit",
		fmt.Sprintf("ticket_no=%s trip=%s->%s %s %s seats=%d", ticketNo, s.Hub, req.Dest, req.TravelDate, req.DepartureTime, len(seats)))

	return booking, nil
}

// GetBooking fetches one summary together with its seat claims.
func (s BookingService) GetBooking(ticketNo string) (models.Booking, []models.SeatClaim, error) {
	booking, err := s.bookings().GetByTicket(ticketNo)
	if err != nil {
		return models.Booking{}, nil, err
	}
	claims, err := s.seats().ListByTicket(ticketNo)
	if err != nil {
		return models.Booking{}, nil, err
	}
	return booking, claims, nil
}

func intersectSeats(requested []string, taken map[string]struct{}) []string {
	out := []string{}
	for _, seat := range requested {
		if _, held := taken[seat]; held {
			out = append(out, seat)
		}
	}
	return out
}
