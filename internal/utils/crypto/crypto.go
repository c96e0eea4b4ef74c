// Package crypto holds the password hashing and strength rules shared
// by the auth service and the request validator.
package crypto

import (
	"errors"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordStrength is returned when a password fails the strength rule.
var ErrPasswordStrength = errors.New("password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, and one digit")

// HashPassword hashes a password using bcrypt with the given cost.
// The cost comes from config so tests can run with a cheap one.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a password against its bcrypt hash.
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// IsStrong reports whether a password meets the minimum strength rule:
// at least 8 characters with one upper, one lower and one digit.
func IsStrong(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasUpper && hasLower && hasDigit
}

func cryptoPasswordRule(fl validator.FieldLevel) bool {
	return IsStrong(fl.Field().String())
}

// RegisterPasswordValidator registers the "password" validation tag so
// request structs can declare `validate:"password"`.
func RegisterPasswordValidator(v *validator.Validate) error {
	if err := v.RegisterValidation("password", cryptoPasswordRule); err != nil {
		return ErrPasswordStrength
	}
	return nil
}
