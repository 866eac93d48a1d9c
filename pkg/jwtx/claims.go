package jwtx

import (
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IDTokenTTL is how long an ID token stays valid. Firebase uses one hour
// and the local provider mirrors that.
const IDTokenTTL = time.Hour

// IssuerPrefix is the issuer prefix of Firebase ID tokens; the project id
// completes it.
const IssuerPrefix = "https://securetoken.google.com/"

// FirebaseInfo is the "firebase" claim object.
type FirebaseInfo struct {
	SignInProvider string              `json:"sign_in_provider,omitempty"`
	Identities     map[string][]string `json:"identities,omitempty"`
}

// Claims are the ID-token claims we rely on. The shape follows Firebase
// Authentication so tokens from both providers decode the same way.
type Claims struct {
	jwt.RegisteredClaims

	UserID        string        `json:"user_id,omitempty"`
	Email         string        `json:"email,omitempty"`
	EmailVerified bool          `json:"email_verified,omitempty"`
	AuthTime      int64         `json:"auth_time,omitempty"`
	Firebase      *FirebaseInfo `json:"firebase,omitempty"`
}

// Issuer returns the expected issuer for project.
func Issuer(project string) string {
	return IssuerPrefix + project
}

// NewIDClaims builds the claims of a freshly minted ID token for an email
// link sign-in.
func NewIDClaims(project, uid, email string, authTime, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer(project),
			Subject:   uid,
			Audience:  jwt.ClaimStrings{project},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(IDTokenTTL)),
		},
		UserID:        uid,
		Email:         email,
		EmailVerified: true,
		AuthTime:      authTime.Unix(),
		Firebase: &FirebaseInfo{
			SignInProvider: "emailLink",
			Identities:     map[string][]string{"email": {email}},
		},
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateSubject enforces the Firebase subject rules: non-empty and at
// most 128 characters.
func (c *Claims) ValidateSubject() error {
	if strings.TrimSpace(c.Subject) == "" || len(c.Subject) > 128 {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateTimes checks exp, and that iat and auth_time are not in the
// future, allowing leeway for clock skew.
func (c *Claims) ValidateTimes(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil || now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.IssuedAt != nil && now.Add(leeway).Before(c.IssuedAt.Time) {
		return ErrNotYetValid
	}
	if c.AuthTime != 0 && now.Add(leeway).Before(time.Unix(c.AuthTime, 0)) {
		return ErrNotYetValid
	}
	return nil
}

// AsMap flattens the claims into the loose map handlers see.
func (c *Claims) AsMap() map[string]any {
	m := map[string]any{
		"iss":            c.Issuer,
		"sub":            c.Subject,
		"aud":            []string(c.Audience),
		"user_id":        c.UserID,
		"email":          c.Email,
		"email_verified": c.EmailVerified,
		"auth_time":      c.AuthTime,
	}
	if c.IssuedAt != nil {
		m["iat"] = c.IssuedAt.Unix()
	}
	if c.ExpiresAt != nil {
		m["exp"] = c.ExpiresAt.Unix()
	}
	if c.Firebase != nil {
		m["firebase"] = map[string]any{
			"sign_in_provider": c.Firebase.SignInProvider,
			"identities":       c.Firebase.Identities,
		}
	}
	return m
}
