package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost; matches the salt rounds existing hashes were created with
const hashCost = 10

// PasswordPolicy requires MinLength characters drawn from letters, digits and
// Symbols, with at least one symbol.
type PasswordPolicy struct {
	MinLength int
	Symbols   string
	Message   string
}

var (
	CompanyPasswordPolicy = PasswordPolicy{
		MinLength: 8,
		Symbols:   "!@#$%^&*",
		Message:   "Password must be at least 8 characters and contain at least one special character.",
	}
	UserPasswordPolicy = PasswordPolicy{
		MinLength: 8,
		Symbols:   "@#$!%*?&",
		Message:   "Password must be at least 8 characters long and contain at least one special character",
	}
)

func (p PasswordPolicy) Allows(password string) bool {
	if len(password) < p.MinLength {
		return false
	}
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(p.Symbols, r):
		default:
			return false
		}
	}
	return strings.ContainsAny(password, p.Symbols)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash. A mismatch is not an
// error; only a malformed hash is.
func ComparePassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
