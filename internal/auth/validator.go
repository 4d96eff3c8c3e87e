package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/historisense/portal/internal/domain"
)

// Validator inspects a bearer token's expiry claim without contacting the
// issuing server. The portal holds no signing key; the backend is
// authoritative and the portal only ever reads the exp claim, so the payload
// is decoded unverified.
type Validator struct {
	now func() time.Time
}

// NewValidator builds a validator using the wall clock.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorAt builds a validator with an injected clock for deterministic checks.
func NewValidatorAt(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Claims decodes the token payload and returns its expiry claim.
func (v *Validator) Claims(token string) (domain.TokenClaims, error) {
	if token == "" {
		return domain.TokenClaims{}, errors.New("empty token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return domain.TokenClaims{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return domain.TokenClaims{}, err
	}
	if exp == nil {
		return domain.TokenClaims{}, errors.New("token missing exp claim")
	}
	return domain.TokenClaims{ExpiresAt: exp.Unix()}, nil
}

// IsExpired reports whether the token is expired. Every failure to decode the
// token or its exp claim counts as expired, so the check fails closed and
// never panics. A token whose exp equals the current second is treated as
// expired; the boundary is deliberately conservative.
func (v *Validator) IsExpired(token string) bool {
	claims, err := v.Claims(token)
	if err != nil {
		return true
	}
	return claims.ExpiresAt <= v.now().Unix()
}
