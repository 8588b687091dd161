package repositories

import (
	"database/sql"

	intconfig "busline/internal/config"
	"busline/internal/domain"
	"busline/internal/domain/models"
)

type SeatClaimRepo struct {
	DB *sql.DB
}

func (r SeatClaimRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ClaimedSeats returns the seat codes already held for a trip instance on a
// travel date. Read-only; an empty set is a valid answer for unknown trips.
func (r SeatClaimRepo) ClaimedSeats(q DBTX, key models.TripKey) (map[string]struct{}, error) {
	if q == nil {
		q = r.db()
	}
	rows, err := q.Query(`
		SELECT seat_code
		FROM seat_claims
		WHERE travel_date = ?
		  AND route_from = ?
		  AND route_to = ?
		  AND departure_time = ?
	`, key.TravelDate, key.RouteFrom, key.RouteTo, key.DepartureTime)
	if err != nil {
		return nil, domain.StorageError{Op: "claimed seats", Err: err}
	}
	defer rows.Close()

	out := map[string]struct{}{}
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return out, err
		}
		out[seat] = struct{}{}
	}
	return out, rows.Err()
}

// InsertClaim writes one seat claim. A unique violation on the composite key
// means the seat was taken by a concurrent booking; the caller decides how to
// surface the full conflicting set.
func (r SeatClaimRepo) InsertClaim(q DBTX, c models.SeatClaim) error {
	if q == nil {
		q = r.db()
	}
	_, err := q.Exec(`
		INSERT INTO seat_claims (
			travel_date, route_from, route_to, departure_time, seat_code,
			first_name, last_name, phone, citizen_id, email, ticket_no
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.TravelDate, c.RouteFrom, c.RouteTo, c.DepartureTime, c.SeatCode,
		c.FirstName, c.LastName, c.Phone, c.CitizenID, c.Email, c.TicketNo,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.SeatConflictError{Seats: []string{c.SeatCode}, Err: err}
		}
		if isBusy(err) {
			return domain.ConflictError{Resource: "seat ledger", Msg: "store is busy, try again", Err: err}
		}
		return domain.StorageError{Op: "seat claim insert", Err: err}
	}
	return nil
}

// ListByTicket returns the claims of one booking, ordered by seat code.
func (r SeatClaimRepo) ListByTicket(ticketNo string) ([]models.SeatClaim, error) {
	rows, err := r.db().Query(`
		SELECT id, travel_date, route_from, route_to, departure_time, seat_code,
		       first_name, last_name, phone, citizen_id, COALESCE(email, ''), ticket_no
		FROM seat_claims
		WHERE ticket_no = ?
		ORDER BY seat_code ASC
	`, ticketNo)
	if err != nil {
		return nil, domain.StorageError{Op: "claims by ticket", Err: err}
	}
	defer rows.Close()

	out := []models.SeatClaim{}
	for rows.Next() {
		var c models.SeatClaim
		if err := rows.Scan(&c.ID, &c.TravelDate, &c.RouteFrom, &c.RouteTo, &c.DepartureTime,
			&c.SeatCode, &c.FirstName, &c.LastName, &c.Phone, &c.CitizenID, &c.Email, &c.TicketNo); err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteByTicket releases every seat of one booking. Used by cancellation,
// which must run this before the status write in the same transaction.
func (r SeatClaimRepo) DeleteByTicket(q DBTX, ticketNo string) (int64, error) {
	if q == nil {
		q = r.db()
	}
	res, err := q.Exec(`DELETE FROM seat_claims WHERE ticket_no = ?`, ticketNo)
	if err != nil {
		return 0, domain.StorageError{Op: "seat release", Err: err}
	}
	return res.RowsAffected()
}

// DeleteByRoutePair removes every claim referencing an origin-destination
// pair, part of the route deletion cascade.
func (r SeatClaimRepo) DeleteByRoutePair(q DBTX, origin, dest string) (int64, error) {
	if q == nil {
		q = r.db()
	}
	res, err := q.Exec(`DELETE FROM seat_claims WHERE route_from = ? AND route_to = ?`, origin, dest)
	if err != nil {
		return 0, domain.StorageError{Op: "seat cascade delete", Err: err}
	}
	return res.RowsAffected()
}

// CountsByTrip aggregates claimed-seat counts per exact trip instance for one
// travel date, keyed as route_from|route_to|departure_time.
func (r SeatClaimRepo) CountsByTrip(travelDate string) (map[[3]string]int, error) {
	rows, err := r.db().Query(`
		SELECT route_from, route_to, departure_time, COUNT(*)
		FROM seat_claims
		WHERE travel_date = ?
		GROUP BY route_from, route_to, departure_time
	`, travelDate)
	if err != nil {
		return nil, domain.StorageError{Op: "seat counts", Err: err}
	}
	defer rows.Close()

	out := map[[3]string]int{}
	for rows.Next() {
		var from, to, dep string
		var n int
		if err := rows.Scan(&from, &to, &dep, &n); err != nil {
			return out, err
		}
		out[[3]string{from, to, dep}] = n
	}
	return out, rows.Err()
}
