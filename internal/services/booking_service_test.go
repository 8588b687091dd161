package services

import (
	"errors"
	"regexp"
	"testing"

	"busline/internal/domain"
	"busline/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func testPassenger() models.Passenger {
	return models.Passenger{
		FirstName: "Nok",
		LastName:  "Chaiya",
		Phone:     "0801234567",
		CitizenID: "1234567890123",
		Email:     "nok@example.com",
	}
}

func routeRow(capacity int, price float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "route_from", "route_to", "departure_time", "duration", "capacity", "price"}).
		AddRow(1, "Khon Kaen", "Udon Thani", "09:00", "1:00", capacity, price)
}

func TestCommitBookingTwoSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM routes WHERE route_from").
		WithArgs("Khon Kaen", "Udon Thani", "09:00").
		WillReturnRows(routeRow(40, 100))
	mock.ExpectQuery("SELECT 1 FROM bookings WHERE ticket_no").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_code FROM seat_claims").
		WithArgs("2026-01-10", "Khon Kaen", "Udon Thani", "09:00").
		WillReturnRows(sqlmock.NewRows([]string{"seat_code"}))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO seat_claims").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO seat_claims").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	svc := BookingService{Hub: "Khon Kaen", DB: db, Tickets: NewTicketNumbers()}
	booking, err := svc.CommitBooking(CommitRequest{
		TravelDate:    "2026-01-10",
		Dest:          "Udon Thani",
		DepartureTime: "09:00",
		Seats:         []string{"1A", "1B"},
		Passenger:     testPassenger(),
	})
	if err != nil {
		t.Fatalf("commit error: %v", err)
	}

	if !regexp.MustCompile(`^[1-9][0-9]{7}$`).MatchString(booking.TicketNo) {
		t.Fatalf("ticket number %q is not 8 digits with a non-zero lead", booking.TicketNo)
	}
	if booking.Status != domain.StatusPending {
		t.Fatalf("new booking status = %s, want pending", booking.Status)
	}
	if booking.Price != 200 {
		t.Fatalf("subtotal = %v, want 200", booking.Price)
	}
	if booking.VAT != 14.00 {
		t.Fatalf("vat = %v, want 14.00", booking.VAT)
	}
	if booking.SeatList != "1A, 1B" {
		t.Fatalf("seat list = %q, want %q", booking.SeatList, "1A, 1B")
	}
	if booking.ArrTime != "10:00" {
		t.Fatalf("arrival = %q, want 10:00 (09:00 + 1:00)", booking.ArrTime)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommitBookingPreCheckConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM routes WHERE route_from").
		WillReturnRows(routeRow(40, 100))
	mock.ExpectQuery("SELECT 1 FROM bookings WHERE ticket_no").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_code FROM seat_claims").
		WillReturnRows(sqlmock.NewRows([]string{"seat_code"}).AddRow("1A"))
	mock.ExpectRollback()

	svc := BookingService{Hub: "Khon Kaen", DB: db, Tickets: NewTicketNumbers()}
	_, err = svc.CommitBooking(CommitRequest{
		TravelDate:    "2026-01-10",
		Dest:          "Udon Thani",
		DepartureTime: "09:00",
		Seats:         []string{"1A"},
		Passenger:     testPassenger(),
	})

	sc, ok := domain.IsSeatConflict(err)
	if !ok {
		t.Fatalf("expected seat conflict, got %v", err)
	}
	if len(sc.Seats) != 1 || sc.Seats[0] != "1A" {
		t.Fatalf("conflict names seats %v, want [1A]", sc.Seats)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A second writer claims a seat between the in-transaction pre-check and the
// insert. The unique key fires, the whole multi-seat commit rolls back, and
// the error names every seat the winner took.
func TestCommitBookingRaceLosesWholeCommit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM routes WHERE route_from").
		WillReturnRows(routeRow(40, 100))
	mock.ExpectQuery("SELECT 1 FROM bookings WHERE ticket_no").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_code FROM seat_claims").
		WillReturnRows(sqlmock.NewRows([]string{"seat_code"}))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO seat_claims").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: seat_claims.travel_date, seat_claims.route_from, seat_claims.route_to, seat_claims.departure_time, seat_claims.seat_code"))
	mock.ExpectQuery("SELECT seat_code FROM seat_claims").
		WillReturnRows(sqlmock.NewRows([]string{"seat_code"}).AddRow("1A").AddRow("1B"))
	mock.ExpectRollback()

	svc := BookingService{Hub: "Khon Kaen", DB: db, Tickets: NewTicketNumbers()}
	_, err = svc.CommitBooking(CommitRequest{
		TravelDate:    "2026-01-10",
		Dest:          "Udon Thani",
		DepartureTime: "09:00",
		Seats:         []string{"1A", "1B"},
		Passenger:     testPassenger(),
	})

	sc, ok := domain.IsSeatConflict(err)
	if !ok {
		t.Fatalf("expected seat conflict, got %v", err)
	}
	if len(sc.Seats) != 2 || sc.Seats[0] != "1A" || sc.Seats[1] != "1B" {
		t.Fatalf("conflict names seats %v, want [1A 1B]", sc.Seats)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommitBookingValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	base := CommitRequest{
		TravelDate:    "2026-01-10",
		Dest:          "Udon Thani",
		DepartureTime: "09:00",
		Seats:         []string{"1A"},
		Passenger:     testPassenger(),
	}

	cases := []struct {
		name   string
		mutate func(*CommitRequest)
	}{
		{"bad date", func(r *CommitRequest) { r.TravelDate = "10/01/2026" }},
		{"empty dest", func(r *CommitRequest) { r.Dest = "" }},
		{"bad time", func(r *CommitRequest) { r.DepartureTime = "9 am" }},
		{"no seats", func(r *CommitRequest) { r.Seats = []string{" ", ""} }},
		{"no name", func(r *CommitRequest) { r.Passenger.FirstName = "" }},
		{"no phone", func(r *CommitRequest) { r.Passenger.Phone = "" }},
		{"no citizen id", func(r *CommitRequest) { r.Passenger.CitizenID = "" }},
	}

	svc := BookingService{Hub: "Khon Kaen", DB: db, Tickets: NewTicketNumbers()}
	for _, tc := range cases {
		req := base
		req.Seats = append([]string{}, base.Seats...)
		tc.mutate(&req)
		if _, err := svc.CommitBooking(req); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestFreeSeatsExcludesClaimed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM routes WHERE route_from").
		WillReturnRows(routeRow(8, 100))
	mock.ExpectQuery("SELECT seat_code FROM seat_claims").
		WillReturnRows(sqlmock.NewRows([]string{"seat_code"}).AddRow("1A").AddRow("2D"))

	svc := BookingService{Hub: "Khon Kaen", DB: db}
	free, err := svc.FreeSeats("2026-01-10", "Udon Thani", "09:00")
	if err != nil {
		t.Fatalf("free seats error: %v", err)
	}
	if len(free) != 6 {
		t.Fatalf("free seat count = %d, want 6", len(free))
	}
	for _, seat := range free {
		if seat == "1A" || seat == "2D" {
			t.Fatalf("claimed seat %s listed as free", seat)
		}
	}
}

func TestFreeSeatsUnknownTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM routes WHERE route_from").
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_from", "route_to", "departure_time", "duration", "capacity", "price"}))

	svc := BookingService{Hub: "Khon Kaen", DB: db}
	free, err := svc.FreeSeats("2026-01-10", "Nowhere", "09:00")
	if err != nil {
		t.Fatalf("unknown trip should not error, got %v", err)
	}
	if len(free) != 0 {
		t.Fatalf("unknown trip has %d free seats, want 0", len(free))
	}
}

// An unparseable duration leaves the arrival blank, the same sentinel the
// commit path stores; render layers substitute their own placeholder.
func TestSearchTripsMalformedDurationBlanksArrival(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM routes WHERE route_from").
		WithArgs("Khon Kaen", "Udon Thani").
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_from", "route_to", "departure_time", "duration", "capacity", "price"}).
			AddRow(1, "Khon Kaen", "Udon Thani", "09:00", "unknown", 40, 100.0))

	svc := BookingService{Hub: "Khon Kaen", DB: db}
	trips, err := svc.SearchTrips("Udon Thani")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(trips) != 1 || trips[0].ArrivalTime != "" {
		t.Fatalf("trips = %+v, want one result with empty arrival", trips)
	}
}

func TestSeatLayout(t *testing.T) {
	seats := SeatLayout(40)
	if len(seats) != 40 {
		t.Fatalf("layout size = %d, want 40", len(seats))
	}
	if seats[0] != "1A" || seats[3] != "1D" || seats[4] != "2A" || seats[39] != "10D" {
		t.Fatalf("unexpected layout corners: %v %v %v %v", seats[0], seats[3], seats[4], seats[39])
	}
}
