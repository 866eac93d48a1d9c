package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RS256Verifier validates ID tokens signed with RS256 against a KeySet.
type RS256Verifier struct {
	keys    *KeySet
	project string
	leeway  time.Duration
	now     func() time.Time
}

// NewVerifierRS256 creates a verifier expecting tokens issued for project.
func NewVerifierRS256(keys *KeySet, project string) *RS256Verifier {
	return &RS256Verifier{keys: keys, project: project, leeway: DefaultLeeway, now: time.Now}
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *RS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKID
		}

		pub, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
		}
		return pub, nil
	})
	switch {
	case errors.Is(err, ErrUnknownKID):
		return Claims{}, err
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(Issuer(v.project)); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience([]string{v.project}); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateSubject(); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateTimes(v.now(), v.leeway); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

// WithClock replaces the verifier's time source; tests use it to age tokens.
func (v *RS256Verifier) WithClock(now func() time.Time) *RS256Verifier {
	v.now = now
	return v
}
