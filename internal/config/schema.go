package config

import (
	"database/sql"
	"fmt"
	"log"

	intdb "busline/internal/db"

	"golang.org/x/crypto/bcrypt"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user',
	phone TEXT,
	email TEXT,
	created_at TEXT DEFAULT (DATETIME('now'))
);

CREATE TABLE IF NOT EXISTS routes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	route_from TEXT NOT NULL,
	route_to TEXT NOT NULL,
	departure_time TEXT NOT NULL,
	duration TEXT NOT NULL DEFAULT '1:00',
	capacity INTEGER NOT NULL DEFAULT 40,
	price REAL NOT NULL DEFAULT 100,
	UNIQUE(route_from, route_to, departure_time)
);

CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ticket_no TEXT UNIQUE NOT NULL,
	customer_name TEXT NOT NULL,
	route_from TEXT NOT NULL,
	route_to TEXT NOT NULL,
	travel_date TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	phone TEXT,
	email TEXT,
	citizen_id TEXT,
	seat_list TEXT,
	price REAL NOT NULL DEFAULT 0,
	vat REAL NOT NULL DEFAULT 0,
	slip_path TEXT,
	dep_time TEXT,
	arr_time TEXT,
	created_at TEXT DEFAULT (DATETIME('now'))
);

CREATE TABLE IF NOT EXISTS seat_claims (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	travel_date TEXT NOT NULL,
	route_from TEXT NOT NULL,
	route_to TEXT NOT NULL,
	departure_time TEXT NOT NULL,
	seat_code TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	phone TEXT NOT NULL,
	citizen_id TEXT NOT NULL,
	email TEXT,
	ticket_no TEXT NOT NULL REFERENCES bookings(ticket_no) ON DELETE CASCADE,
	created_at TEXT DEFAULT (DATETIME('now')),
	UNIQUE(travel_date, route_from, route_to, departure_time, seat_code)
);

CREATE INDEX IF NOT EXISTS idx_seat_claims_ticket ON seat_claims(ticket_no);
CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(travel_date);
`

// InitSchema creates the store tables when missing and applies the small
// column migrations older store files may need. The seat_claims composite
// unique key is the reservation-of-record constraint: concurrent claims of
// the same seat resolve here, not in application code.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db not connected")
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	migrateColumn(db, "bookings", "slip_path", "TEXT")
	migrateColumn(db, "bookings", "citizen_id", "TEXT")
	migrateColumn(db, "routes", "price", "REAL NOT NULL DEFAULT 100")

	return seedAdmin(db)
}

// migrateColumn adds a column when an older store file lacks it.
func migrateColumn(db *sql.DB, table, column, typ string) {
	if intdb.HasColumn(db, table, column) {
		return
	}
	if _, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, typ)); err != nil {
		log.Printf("migration warning: add %s.%s: %v", table, column, err)
	}
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE username = 'admin'`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Admin1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO users(username, password_hash, role, email) VALUES(?,?,?,?)`,
		"admin", string(hash), "admin", "admin@busline.local",
	)
	return err
}
