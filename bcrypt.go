package mindlit

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	if err != nil {
		// Hashing only fails on infrastructure problems (cost out of range,
		// resource exhaustion). Callers must treat this as fatal, not retryable.
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	return string(h), nil
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to compare password and hash")
	}
	return nil
}
