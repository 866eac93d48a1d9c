// Package identity defines the contract between the notes application and
// the service that owns user accounts: verifying ID tokens, exchanging
// refresh tokens, revoking sessions and the email-link sign-in flow.
//
// Implementations live in the firebase and local subpackages. Callers get a
// Provider injected at startup; nothing in this package keeps global state.
package identity

import "context"

// Identity is who a verified bearer token belongs to. It lives for one
// request and is never persisted.
type Identity struct {
	UserID string
	Email  string
	Claims map[string]any
}

// TokenBundle is what the provider hands back after a refresh or a
// completed sign-in. It goes straight into cookies.
type TokenBundle struct {
	IDToken      string
	RefreshToken string
	// ExpiresIn is the bearer lifetime in seconds.
	ExpiresIn int
}

// Provider is the identity service as the rest of the application sees it.
// Every method is a potential network call and honours ctx.
type Provider interface {
	// Verify checks a bearer ID token. Failures are VerificationFailed or
	// ProviderUnavailable.
	Verify(ctx context.Context, idToken string) (*Identity, error)

	// Refresh exchanges a refresh token for a new bundle. Failures are
	// RefreshFailed or ProviderUnavailable.
	Refresh(ctx context.Context, refreshToken string) (*TokenBundle, error)

	// RevokeAll invalidates every refresh token of userID.
	RevokeAll(ctx context.Context, userID string) error

	// CreateSignInLink asks the provider for an email sign-in link that
	// continues at continueURL. The returned link carries an oobCode query
	// parameter.
	CreateSignInLink(ctx context.Context, email, continueURL string) (string, error)

	// SignInWithEmailLink completes a sign-in with the code from a link.
	SignInWithEmailLink(ctx context.Context, email, oobCode string) (*TokenBundle, error)
}

// StatusProber is implemented by providers that can report on their
// backing document store.
type StatusProber interface {
	// DocumentStoreOK reads the well-known health document.
	DocumentStoreOK(ctx context.Context) (bool, error)
}

// ReadinessChecker is implemented by providers that can tell whether they
// are able to serve requests right now.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}
