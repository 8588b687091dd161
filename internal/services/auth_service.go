package services

import (
	"database/sql"
	"strings"
	"unicode"

	intconfig "busline/internal/config"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo repositories.UserRepo
	DB       *sql.DB
}

func (s AuthService) users() repositories.UserRepo {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	db := s.DB
	if db == nil {
		db = intconfig.DB
	}
	return repositories.UserRepo{DB: db}
}

// ValidPassword enforces the signup policy: at least 9 characters with at
// least one uppercase letter.
func ValidPassword(p string) bool {
	if len(p) < 9 {
		return false
	}
	for _, r := range p {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// Register creates a regular user account.
func (s AuthService) Register(username, email, phone, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return models.User{}, domain.ValidationError{Field: "username", Msg: "username is required"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "a valid email is required"}
	}
	if !ValidPassword(password) {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "at least 9 characters with 1 uppercase letter"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "password hashing failed", Err: err}
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Phone:        strings.TrimSpace(phone),
		Email:        email,
	}
	id, err := s.users().Insert(user)
	if err != nil {
		return models.User{}, err
	}
	user.ID = id
	user.PasswordHash = ""
	utils.LogEvent("", "auth", "register", "username="+username)
	return user, nil
}

// Authenticate checks the credentials. Missing users and wrong passwords
// produce the same error so login failures do not leak which part was wrong.
func (s AuthService) Authenticate(username, password string) (models.User, error) {
	invalid := domain.ValidationError{Field: "credentials", Msg: "invalid username or password"}

	user, err := s.users().GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, invalid
		}
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, invalid
	}
	user.PasswordHash = ""
	return user, nil
}

// ResetPassword sets a new password for a matching username+email pair.
func (s AuthService) ResetPassword(username, email, newPassword string) error {
	if !ValidPassword(newPassword) {
		return domain.ValidationError{Field: "password", Msg: "at least 9 characters with 1 uppercase letter"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.InternalError{Msg: "password hashing failed", Err: err}
	}
	n, err := s.users().UpdatePassword(strings.TrimSpace(username), strings.TrimSpace(email), string(hash))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "account"}
	}
	utils.LogEvent("", "auth", "reset_password", "username="+username)
	return nil
}
