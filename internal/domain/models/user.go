package models

// User is an account in the admin store. PasswordHash never leaves the
// repository layer in API responses.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	CreatedAt    string `json:"created_at,omitempty"`
}
