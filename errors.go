package mindlit

import (
	"github.com/goliatone/go-errors"
)

// TextCodeInvalidCredential is the only code the API presents for a rejected
// credential. Malformed, bad-signature, and expired tokens all collapse into
// it; the distinction stays server side.
const TextCodeInvalidCredential = "INVALID_CREDENTIAL"

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword covers both unknown identifiers and wrong
// passwords so login responses cannot be used to probe for accounts.
var ErrMismatchedHashAndPassword = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredential).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString guards hashing of empty secrets
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_VALUE").
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a session token is past its expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredential).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a session token cannot be parsed
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredential).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignatureInvalid is returned when the signature check fails
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredential).
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateIdentity is returned when username or email is already taken
var ErrDuplicateIdentity = errors.New("username or email already registered", errors.CategoryConflict).
	WithTextCode("DUPLICATE_IDENTITY").
	WithCode(errors.CodeConflict)

// IsAuthRejection reports whether err represents a rejected credential,
// regardless of which verification step failed.
func IsAuthRejection(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryAuth
	}
	return false
}

// IsConflict reports whether err represents a uniqueness conflict
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryConflict
	}
	return false
}
