package repositories

import (
	"database/sql"
	"errors"

	intconfig "busline/internal/config"
	intdb "busline/internal/db"
	"busline/internal/domain"
	"busline/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `
	id, ticket_no, customer_name, route_from, route_to, travel_date, status,
	COALESCE(phone, ''), COALESCE(email, ''), COALESCE(citizen_id, ''),
	COALESCE(seat_list, ''), price, COALESCE(vat, price * 0.07),
	COALESCE(slip_path, ''), COALESCE(dep_time, ''), COALESCE(arr_time, ''),
	COALESCE(created_at, '')`

func scanBooking(scan func(dest ...any) error) (models.Booking, error) {
	var b models.Booking
	err := scan(
		&b.ID, &b.TicketNo, &b.CustomerName, &b.RouteFrom, &b.RouteTo, &b.TravelDate, &b.Status,
		&b.Phone, &b.Email, &b.CitizenID,
		&b.SeatList, &b.Price, &b.VAT,
		&b.SlipPath, &b.DepTime, &b.ArrTime,
		&b.CreatedAt,
	)
	return b, err
}

// Insert writes the summary row of one purchase. Ticket numbers are unique,
// so a duplicate insert surfaces as a conflict.
func (r BookingRepo) Insert(q DBTX, b models.Booking) (int64, error) {
	if q == nil {
		q = r.db()
	}
	res, err := q.Exec(`
		INSERT INTO bookings (
			ticket_no, customer_name, route_from, route_to, travel_date, status,
			phone, email, citizen_id, seat_list, price, vat, slip_path, dep_time, arr_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.TicketNo, b.CustomerName, b.RouteFrom, b.RouteTo, b.TravelDate, string(b.Status),
		intdb.NullIfEmpty(b.Phone), intdb.NullIfEmpty(b.Email), intdb.NullIfEmpty(b.CitizenID),
		b.SeatList, b.Price, b.VAT, intdb.NullIfEmpty(b.SlipPath), b.DepTime, b.ArrTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ConflictError{Resource: "booking", Msg: "ticket number already issued", Err: err}
		}
		if isBusy(err) {
			return 0, domain.ConflictError{Resource: "booking", Msg: "store is busy, try again", Err: err}
		}
		return 0, domain.StorageError{Op: "booking insert", Err: err}
	}
	return res.LastInsertId()
}

// GetByTicket fetches one booking summary by ticket number.
func (r BookingRepo) GetByTicket(ticketNo string) (models.Booking, error) {
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE ticket_no = ? LIMIT 1`, ticketNo)
	b, err := scanBooking(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, domain.StorageError{Op: "booking lookup", Err: err}
	}
	return b, nil
}

// TicketExists reports whether a ticket number was already issued. The
// generator consults this so numbers stay unique across restarts, not just
// within the running process.
func (r BookingRepo) TicketExists(ticketNo string) (bool, error) {
	var one int
	err := r.db().QueryRow(`SELECT 1 FROM bookings WHERE ticket_no = ? LIMIT 1`, ticketNo).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.StorageError{Op: "ticket lookup", Err: err}
	}
	return true, nil
}

// UpdateStatus rewrites the workflow status of one booking and returns the
// number of rows touched (0 means the ticket does not exist).
func (r BookingRepo) UpdateStatus(q DBTX, ticketNo string, status domain.Status) (int64, error) {
	if q == nil {
		q = r.db()
	}
	res, err := q.Exec(`UPDATE bookings SET status = ? WHERE ticket_no = ?`, string(status), ticketNo)
	if err != nil {
		return 0, domain.StorageError{Op: "status update", Err: err}
	}
	return res.RowsAffected()
}

// Search matches a keyword against ticket number, customer, route, date and
// status, newest first. An empty keyword lists everything.
func (r BookingRepo) Search(keyword string) ([]models.Booking, error) {
	kw := "%" + keyword + "%"
	rows, err := r.db().Query(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE ticket_no LIKE ? OR customer_name LIKE ?
		   OR (route_from || ' - ' || route_to) LIKE ?
		   OR travel_date LIKE ? OR status LIKE ?
		ORDER BY travel_date DESC, id DESC
	`, kw, kw, kw, kw, kw)
	if err != nil {
		return nil, domain.StorageError{Op: "booking search", Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListActiveByDate returns the non-cancelled bookings of one travel date,
// the input set for daily statistics.
func (r BookingRepo) ListActiveByDate(travelDate string) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE travel_date = ? AND status <> ?
	`, travelDate, string(domain.StatusCancelled))
	if err != nil {
		return nil, domain.StorageError{Op: "bookings by date", Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteByRoutePair removes every summary referencing an origin-destination
// pair, part of the route deletion cascade.
func (r BookingRepo) DeleteByRoutePair(q DBTX, origin, dest string) (int64, error) {
	if q == nil {
		q = r.db()
	}
	res, err := q.Exec(`DELETE FROM bookings WHERE route_from = ? AND route_to = ?`, origin, dest)
	if err != nil {
		return 0, domain.StorageError{Op: "booking cascade delete", Err: err}
	}
	return res.RowsAffected()
}
