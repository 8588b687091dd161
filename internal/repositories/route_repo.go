package repositories

import (
	"database/sql"
	"errors"

	intconfig "busline/internal/config"
	"busline/internal/domain"
	"busline/internal/domain/models"
)

type RouteRepo struct {
	DB *sql.DB
}

func (r RouteRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Insert adds a scheduled service to the catalog. The composite unique key
// on (route_from, route_to, departure_time) rejects duplicate trips.
func (r RouteRepo) Insert(route models.Route) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO routes (route_from, route_to, departure_time, duration, capacity, price)
		VALUES (?, ?, ?, ?, ?, ?)
	`, route.RouteFrom, route.RouteTo, route.DepartureTime, route.Duration, route.Capacity, route.Price)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ConflictError{
				Resource: "route",
				Msg:      "this trip is already scheduled (same route and departure time)",
				Err:      err,
			}
		}
		return 0, domain.StorageError{Op: "route insert", Err: err}
	}
	return res.LastInsertId()
}

// ListByOrigin returns every catalog entry out of an origin, ordered for
// stable display.
func (r RouteRepo) ListByOrigin(origin string) ([]models.Route, error) {
	rows, err := r.db().Query(`
		SELECT id, route_from, route_to, departure_time, duration, capacity, price
		FROM routes
		WHERE route_from = ?
		ORDER BY route_to ASC, departure_time ASC
	`, origin)
	if err != nil {
		return nil, domain.StorageError{Op: "route list", Err: err}
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(&rt.ID, &rt.RouteFrom, &rt.RouteTo, &rt.DepartureTime, &rt.Duration, &rt.Capacity, &rt.Price); err != nil {
			return out, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// ListByPair returns the departures of one origin-destination pair.
func (r RouteRepo) ListByPair(origin, dest string) ([]models.Route, error) {
	rows, err := r.db().Query(`
		SELECT id, route_from, route_to, departure_time, duration, capacity, price
		FROM routes
		WHERE route_from = ? AND route_to = ?
		ORDER BY departure_time ASC
	`, origin, dest)
	if err != nil {
		return nil, domain.StorageError{Op: "route list", Err: err}
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(&rt.ID, &rt.RouteFrom, &rt.RouteTo, &rt.DepartureTime, &rt.Duration, &rt.Capacity, &rt.Price); err != nil {
			return out, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// GetTrip fetches one exact trip instance from the catalog.
func (r RouteRepo) GetTrip(origin, dest, departureTime string) (models.Route, error) {
	var rt models.Route
	err := r.db().QueryRow(`
		SELECT id, route_from, route_to, departure_time, duration, capacity, price
		FROM routes
		WHERE route_from = ? AND route_to = ? AND departure_time = ?
		LIMIT 1
	`, origin, dest, departureTime).Scan(&rt.ID, &rt.RouteFrom, &rt.RouteTo, &rt.DepartureTime, &rt.Duration, &rt.Capacity, &rt.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Route{}, domain.NotFoundError{Resource: "trip", Err: err}
		}
		return models.Route{}, domain.StorageError{Op: "trip lookup", Err: err}
	}
	return rt, nil
}

// ListAll returns the full catalog, used by daily statistics to price in
// routes with zero bookings.
func (r RouteRepo) ListAll() ([]models.Route, error) {
	rows, err := r.db().Query(`
		SELECT id, route_from, route_to, departure_time, duration, capacity, price
		FROM routes
		ORDER BY route_from ASC, route_to ASC, departure_time ASC
	`)
	if err != nil {
		return nil, domain.StorageError{Op: "route list", Err: err}
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(&rt.ID, &rt.RouteFrom, &rt.RouteTo, &rt.DepartureTime, &rt.Duration, &rt.Capacity, &rt.Price); err != nil {
			return out, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// DeleteByPair removes every departure of an origin-destination pair,
// returning the number of catalog rows removed. Runs on the caller's handle
// so route deletion cascades inside one transaction.
func (r RouteRepo) DeleteByPair(q DBTX, origin, dest string) (int64, error) {
	res, err := q.Exec(`DELETE FROM routes WHERE route_from = ? AND route_to = ?`, origin, dest)
	if err != nil {
		return 0, domain.StorageError{Op: "route delete", Err: err}
	}
	return res.RowsAffected()
}
