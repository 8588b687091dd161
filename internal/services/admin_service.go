package services

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "busline/internal/config"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"
)

// AdminService owns the console operations: trip management, the booking
// status workflow and user listing.
type AdminService struct {
	RouteRepo   repositories.RouteRepo
	SeatRepo    repositories.SeatClaimRepo
	BookingRepo repositories.BookingRepo
	UserRepo    repositories.UserRepo
	Hub         string
	DB          *sql.DB
}

func (s AdminService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s AdminService) routes() repositories.RouteRepo {
	if s.RouteRepo.DB != nil {
		return s.RouteRepo
	}
	return repositories.RouteRepo{DB: s.db()}
}

func (s AdminService) seats() repositories.SeatClaimRepo {
	if s.SeatRepo.DB != nil {
		return s.SeatRepo
	}
	return repositories.SeatClaimRepo{DB: s.db()}
}

func (s AdminService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

func (s AdminService) users() repositories.UserRepo {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepo{DB: s.db()}
}

// AddRoute validates and schedules a new trip. Duplicate (origin, dest,
// departure time) triples are rejected by the catalog's unique key.
func (s AdminService) AddRoute(dest, departureTime, duration string, capacity int, price float64) (models.Route, error) {
	dest = utils.NormalizeSpace(dest)
	if dest == "" {
		return models.Route{}, domain.ValidationError{Field: "route_to", Msg: "destination is required"}
	}
	if strings.EqualFold(dest, s.Hub) {
		return models.Route{}, domain.ValidationError{Field: "route_to", Msg: "destination must differ from the hub"}
	}
	if !utils.ValidHHMM(departureTime) {
		return models.Route{}, domain.ValidationError{Field: "departure_time", Msg: "expected HH:MM"}
	}
	if _, err := utils.ParseClockMinutes(duration); err != nil {
		return models.Route{}, domain.ValidationError{Field: "duration", Msg: "expected H:MM", Err: err}
	}
	if capacity <= 0 {
		return models.Route{}, domain.ValidationError{Field: "capacity", Msg: "must be a positive number"}
	}
	if price < 0 {
		return models.Route{}, domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}

	route := models.Route{
		RouteFrom:     s.Hub,
		RouteTo:       dest,
		DepartureTime: strings.TrimSpace(departureTime),
		Duration:      strings.TrimSpace(duration),
		Capacity:      capacity,
		Price:         price,
	}
	id, err := s.routes().Insert(route)
	if err != nil {
		return models.Route{}, err
	}
	route.ID = id
	utils.LogEvent("", "admin", "add_route", fmt.Sprintf("%s -> %s at %s", route.RouteFrom, route.RouteTo, route.DepartureTime))
	return route, nil
}

// ListRoutes returns the catalog for the hub.
func (s AdminService) ListRoutes() ([]models.Route, error) {
	return s.routes().ListByOrigin(s.Hub)
}

// DeleteRouteResult reports how many rows each store table lost so the
// operator can confirm the cascade did what was expected.
type DeleteRouteResult struct {
	SummaryRows int64 `json:"summary_rows_removed"`
	SeatRows    int64 `json:"seat_rows_removed"`
	RouteRows   int64 `json:"route_rows_removed"`
}

// DeleteRoute removes an origin-destination pair and cascade-deletes every
// booking summary and seat claim referencing it, all in one transaction.
// Destructive and non-reversible; callers confirm before invoking.
func (s AdminService) DeleteRoute(dest string) (DeleteRouteResult, error) {
	dest = utils.NormalizeSpace(dest)
	if dest == "" {
		return DeleteRouteResult{}, domain.ValidationError{Field: "route_to", Msg: "destination is required"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return DeleteRouteResult{}, domain.StorageError{Op: "route delete", Err: err}
	}
	defer tx.Rollback()

	var res DeleteRouteResult
	// Claims go first: bookings(ticket_no) is their FK parent.
	if res.SeatRows, err = s.seats().DeleteByRoutePair(tx, s.Hub, dest); err != nil {
		return DeleteRouteResult{}, err
	}
	if res.SummaryRows, err = s.bookings().DeleteByRoutePair(tx, s.Hub, dest); err != nil {
		return DeleteRouteResult{}, err
	}
	if res.RouteRows, err = s.routes().DeleteByPair(tx, s.Hub, dest); err != nil {
		return DeleteRouteResult{}, err
	}
	if res.RouteRows == 0 && res.SummaryRows == 0 && res.SeatRows == 0 {
		return DeleteRouteResult{}, domain.NotFoundError{Resource: "route"}
	}

	if err := tx.Commit(); err != nil {
		return DeleteRouteResult{}, domain.StorageError{Op: "route delete", Err: err}
	}

	utils.LogEvent("", "admin", "delete_route",
		fmt.Sprintf("%s -> %s routes=%d summaries=%d seats=%d", s.Hub, dest, res.RouteRows, res.SummaryRows, res.SeatRows))
	return res, nil
}

// SetBookingStatus drives the admin workflow on one booking.
//
// confirmed is only reachable from pending; re-confirming rewrites the same
// status. cancelled releases the ticket's seat claims in the same
// transaction, claims first: if the release fails the status write never
// happens, because a cancelled ticket with phantom-held seats is the worse
// inconsistency.
func (s AdminService) SetBookingStatus(ticketNo string, status domain.Status) (models.Booking, error) {
	ticketNo = strings.TrimSpace(ticketNo)
	if ticketNo == "" {
		return models.Booking{}, domain.ValidationError{Field: "ticket_no", Msg: "ticket number is required"}
	}
	if status != domain.StatusConfirmed && status != domain.StatusCancelled {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "must be confirmed or cancelled"}
	}

	booking, err := s.bookings().GetByTicket(ticketNo)
	if err != nil {
		return models.Booking{}, err
	}

	if status == domain.StatusConfirmed && booking.Status == domain.StatusCancelled {
		return models.Booking{}, domain.ConflictError{
			Resource: "booking",
			Msg:      "a cancelled booking cannot be confirmed",
		}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.StorageError{Op: "status transition", Err: err}
	}
	defer tx.Rollback()

	released := int64(0)
	if status == domain.StatusCancelled {
		if released, err = s.seats().DeleteByTicket(tx, ticketNo); err != nil {
			return models.Booking{}, err
		}
	}
	if _, err := s.bookings().UpdateStatus(tx, ticketNo, status); err != nil {
		return models.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.StorageError{Op: "status transition", Err: err}
	}

	booking.Status = status
	utils.LogEvent("", "admin", "set_status",
		fmt.Sprintf("ticket_no=%s status=%s seats_released=%d", ticketNo, status, released))
	return booking, nil
}

// SearchBookings filters summaries by keyword for the console table.
func (s AdminService) SearchBookings(keyword string) ([]models.Booking, error) {
	return s.bookings().Search(strings.TrimSpace(keyword))
}

// ListUsers returns every account for the console listing.
func (s AdminService) ListUsers() ([]models.User, error) {
	return s.users().List()
}
