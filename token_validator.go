package mindlit

import (
	"github.com/mindlit/mindlit/middleware/jwtware"
)

// NewGateValidator bridges a TokenService to the middleware's mirrored
// TokenValidator interface. The claim types are structurally identical; the
// bridge exists only because the two packages define the interfaces
// independently.
func NewGateValidator(service TokenService) jwtware.TokenValidator {
	return gateValidator{service: service}
}

type gateValidator struct {
	service TokenService
}

var _ jwtware.TokenValidator = (*gateValidator)(nil)

// Validate satisfies the jwtware.TokenValidator interface
func (v gateValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.service.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
