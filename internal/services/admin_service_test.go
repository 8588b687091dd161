package services

import (
	"errors"
	"testing"

	"busline/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func bookingRows(ticket string, status domain.Status) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "ticket_no", "customer_name", "route_from", "route_to", "travel_date", "status",
		"phone", "email", "citizen_id", "seat_list", "price", "vat", "slip_path", "dep_time", "arr_time", "created_at",
	}).AddRow(
		1, ticket, "Nok Chaiya", "Khon Kaen", "Udon Thani", "2026-01-10", string(status),
		"0801234567", "nok@example.com", "1234567890123", "1A, 1B", 200.0, 14.0, "", "09:00", "10:00", "",
	)
}

func TestSetBookingStatusConfirm(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE ticket_no").
		WithArgs("12345678").
		WillReturnRows(bookingRows("12345678", domain.StatusPending))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("confirmed", "12345678").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := AdminService{Hub: "Khon Kaen", DB: db}
	booking, err := svc.SetBookingStatus("12345678", domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if booking.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", booking.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Cancellation releases the ticket's seat claims and rewrites the status in
// one transaction, claims first.
func TestSetBookingStatusCancelReleasesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE ticket_no").
		WillReturnRows(bookingRows("12345678", domain.StatusConfirmed))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM seat_claims WHERE ticket_no").
		WithArgs("12345678").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("cancelled", "12345678").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := AdminService{Hub: "Khon Kaen", DB: db}
	booking, err := svc.SetBookingStatus("12345678", domain.StatusCancelled)
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if booking.Status != domain.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", booking.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A failed seat release blocks the status write entirely: a cancelled ticket
// with phantom-held seats is the inconsistency the ordering exists to avoid.
func TestSetBookingStatusCancelReleaseFailureBlocksWrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE ticket_no").
		WillReturnRows(bookingRows("12345678", domain.StatusPending))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM seat_claims WHERE ticket_no").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	svc := AdminService{Hub: "Khon Kaen", DB: db}
	if _, err := svc.SetBookingStatus("12345678", domain.StatusCancelled); !domain.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("status write must not run after a failed release: %v", err)
	}
}

func TestSetBookingStatusConfirmAfterCancelRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE ticket_no").
		WillReturnRows(bookingRows("12345678", domain.StatusCancelled))

	svc := AdminService{Hub: "Khon Kaen", DB: db}
	if _, err := svc.SetBookingStatus("12345678", domain.StatusConfirmed); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSetBookingStatusUnknownTicket(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE ticket_no").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	svc := AdminService{Hub: "Khon Kaen", DB: db}
	_, err = svc.SetBookingStatus("00000000", domain.StatusConfirmed)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRouteReturnsCascadeCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM seat_claims WHERE route_from").
		WithArgs("Khon Kaen", "Udon Thani").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("DELETE FROM bookings WHERE route_from").
		WithArgs("Khon Kaen", "Udon Thani").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM routes WHERE route_from").
		WithArgs("Khon Kaen", "Udon Thani").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	svc := AdminService{Hub: "Khon Kaen", DB: db}
	res, err := svc.DeleteRoute("Udon Thani")
	if err != nil {
		t.Fatalf("delete route error: %v", err)
	}
	if res.SeatRows != 5 || res.SummaryRows != 3 || res.RouteRows != 2 {
		t.Fatalf("cascade counts = %+v, want seats=5 summaries=3 routes=2", res)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteRouteUnknownPair(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM seat_claims WHERE route_from").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM bookings WHERE route_from").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM routes WHERE route_from").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	svc := AdminService{Hub: "Khon Kaen", DB: db}
	if _, err := svc.DeleteRoute("Nowhere"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddRouteValidation(t *testing.T) {
	svc := AdminService{Hub: "Khon Kaen"}

	cases := []struct {
		name     string
		dest     string
		depTime  string
		duration string
		capacity int
		price    float64
	}{
		{"empty dest", "", "09:00", "1:00", 40, 100},
		{"dest equals hub", "khon kaen", "09:00", "1:00", 40, 100},
		{"bad time", "Udon Thani", "25:70", "1:00", 40, 100},
		{"bad duration", "Udon Thani", "09:00", "soon", 40, 100},
		{"zero capacity", "Udon Thani", "09:00", "1:00", 0, 100},
		{"negative price", "Udon Thani", "09:00", "1:00", 40, -1},
	}
	for _, tc := range cases {
		if _, err := svc.AddRoute(tc.dest, tc.depTime, tc.duration, tc.capacity, tc.price); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestAddRouteDuplicateSchedule(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO routes").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: routes.route_from, routes.route_to, routes.departure_time"))

	svc := AdminService{Hub: "Khon Kaen", DB: db}
	if _, err := svc.AddRoute("Udon Thani", "09:00", "1:00", 40, 100); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAddRouteSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO routes").
		WithArgs("Khon Kaen", "Udon Thani", "09:00", "1:00", 40, 100.0).
		WillReturnResult(sqlmock.NewResult(7, 1))

	svc := AdminService{Hub: "Khon Kaen", DB: db}
	route, err := svc.AddRoute("Udon Thani", "09:00", "1:00", 40, 100)
	if err != nil {
		t.Fatalf("add route error: %v", err)
	}
	if route.ID != 7 || route.RouteFrom != "Khon Kaen" || route.RouteTo != "Udon Thani" {
		t.Fatalf("unexpected route: %+v", route)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
