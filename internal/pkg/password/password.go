package password

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const cost = 12

// ErrWeakPassword is returned when a password misses one of the character classes.
var ErrWeakPassword = errors.New("password must contain upper and lower case letters and a digit")

// Hash hashes password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Verify compares password with hash
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckStrength rejects passwords without an upper case letter, a lower case letter and a digit.
// Length is enforced by request validation.
func CheckStrength(password string) error {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrWeakPassword
	}
	return nil
}
