package repositories

import (
	"database/sql"
	"errors"

	intconfig "busline/internal/config"
	intdb "busline/internal/db"
	"busline/internal/domain"
	"busline/internal/domain/models"
)

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepo) GetByUsername(username string) (models.User, error) {
	var u models.User
	err := r.db().QueryRow(`
		SELECT id, username, password_hash, role, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(created_at, '')
		FROM users
		WHERE username = ?
		LIMIT 1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Phone, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.User{}, domain.StorageError{Op: "user lookup", Err: err}
	}
	return u, nil
}

func (r UserRepo) Insert(u models.User) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (username, password_hash, role, phone, email)
		VALUES (?, ?, ?, ?, ?)
	`, u.Username, u.PasswordHash, u.Role, intdb.NullIfEmpty(u.Phone), intdb.NullIfEmpty(u.Email))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ConflictError{Resource: "user", Msg: "username already registered", Err: err}
		}
		return 0, domain.StorageError{Op: "user insert", Err: err}
	}
	return res.LastInsertId()
}

// List returns every account, admins first, for the admin console listing.
func (r UserRepo) List() ([]models.User, error) {
	rows, err := r.db().Query(`
		SELECT id, username, role, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(created_at, '')
		FROM users
		ORDER BY role DESC, username ASC
	`)
	if err != nil {
		return nil, domain.StorageError{Op: "user list", Err: err}
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.Phone, &u.Email, &u.CreatedAt); err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdatePassword resets the hash for a username+email pair, the
// forgot-password flow. Returns rows affected (0 means no matching account).
func (r UserRepo) UpdatePassword(username, email, passwordHash string) (int64, error) {
	res, err := r.db().Exec(`
		UPDATE users SET password_hash = ? WHERE username = ? AND email = ?
	`, passwordHash, username, email)
	if err != nil {
		return 0, domain.StorageError{Op: "password update", Err: err}
	}
	return res.RowsAffected()
}
