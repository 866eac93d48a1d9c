package gate

import (
	"net/http"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
)

const (
	BearerCookie  = "idToken"
	RefreshCookie = "refreshToken"

	// RefreshMaxAge is one year in seconds.
	RefreshMaxAge = 31536000
)

// CredentialPair is what the browser presented. Presence of a bearer says
// nothing about its validity.
type CredentialPair struct {
	Bearer  string
	Refresh string
}

func (p CredentialPair) Anonymous() bool {
	return p.Bearer == "" && p.Refresh == ""
}

// ReadPair reads both session cookies. Empty cookies count as absent.
func ReadPair(r *http.Request) CredentialPair {
	var p CredentialPair
	if c, err := r.Cookie(BearerCookie); err == nil {
		p.Bearer = c.Value
	}
	if c, err := r.Cookie(RefreshCookie); err == nil {
		p.Refresh = c.Value
	}
	return p
}

// WritePair stores a bundle. The bearer lives as long as the provider says;
// the refresh token for a year.
func WritePair(w http.ResponseWriter, b identity.TokenBundle) {
	http.SetCookie(w, sessionCookie(BearerCookie, b.IDToken, b.ExpiresIn))
	http.SetCookie(w, sessionCookie(RefreshCookie, b.RefreshToken, RefreshMaxAge))
}

// ClearPair deletes both cookies.
func ClearPair(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie(BearerCookie, "", -1))
	http.SetCookie(w, sessionCookie(RefreshCookie, "", -1))
}

func sessionCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
