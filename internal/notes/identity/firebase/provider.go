// Package firebase talks to Firebase Authentication and Firestore over
// their REST APIs.
//
// Public calls (token refresh, completing an email-link sign-in) use the
// web API key. Admin calls (creating sign-in links, revoking sessions,
// reading Firestore) use an OAuth2 client built from a service-account key.
// ID tokens are verified locally against Google's published JWKS with
// go-oidc.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Google endpoints. Config fields override them for tests.
const (
	DefaultSecureTokenURL     = "https://securetoken.googleapis.com"
	DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com"
	DefaultFirestoreURL       = "https://firestore.googleapis.com"
	DefaultJWKSURL            = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	DefaultTimeout            = 10 * time.Second
)

// Scopes requested for the service-account client.
var Scopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/identitytoolkit",
	"https://www.googleapis.com/auth/datastore",
}

type Config struct {
	ProjectID string
	WebAPIKey string

	// CredentialsJSON is a service-account key file. Either it or
	// TokenSource is required for admin calls.
	CredentialsJSON []byte
	TokenSource     oauth2.TokenSource

	// Timeout bounds every outbound call.
	Timeout time.Duration
	// HTTPClient is the base transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	SecureTokenURL     string
	IdentityToolkitURL string
	FirestoreURL       string
	JWKSURL            string

	Logger *slog.Logger
}

// Provider implements identity.Provider against Firebase.
type Provider struct {
	cfg      Config
	log      *slog.Logger
	public   *http.Client
	admin    *http.Client
	verifier *oidc.IDTokenVerifier
}

var (
	_ identity.Provider         = (*Provider)(nil)
	_ identity.StatusProber     = (*Provider)(nil)
	_ identity.ReadinessChecker = (*Provider)(nil)
)

// New builds the provider. ctx scopes the background JWKS fetches and the
// credential refreshes, so it should live as long as the provider does.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firebase: project id is required")
	}
	if cfg.WebAPIKey == "" {
		return nil, errors.New("firebase: web API key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.SecureTokenURL = orDefault(cfg.SecureTokenURL, DefaultSecureTokenURL)
	cfg.IdentityToolkitURL = orDefault(cfg.IdentityToolkitURL, DefaultIdentityToolkitURL)
	cfg.FirestoreURL = orDefault(cfg.FirestoreURL, DefaultFirestoreURL)
	cfg.JWKSURL = orDefault(cfg.JWKSURL, DefaultJWKSURL)

	base := cfg.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	public := &http.Client{Transport: base.Transport, Timeout: cfg.Timeout}

	ts := cfg.TokenSource
	if ts == nil {
		if len(cfg.CredentialsJSON) == 0 {
			return nil, errors.New("firebase: service account credentials are required")
		}
		creds, err := google.CredentialsFromJSON(ctx, cfg.CredentialsJSON, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("firebase: load service account: %w", err)
		}
		ts = creds.TokenSource
	}

	clientCtx := context.WithValue(ctx, oauth2.HTTPClient, public)
	admin := oauth2.NewClient(clientCtx, ts)
	admin.Timeout = cfg.Timeout

	keySet := oidc.NewRemoteKeySet(oidc.ClientContext(ctx, public), cfg.JWKSURL)
	verifier := oidc.NewVerifier(jwtx.Issuer(cfg.ProjectID), keySet, &oidc.Config{
		ClientID:             cfg.ProjectID,
		SupportedSigningAlgs: []string{oidc.RS256},
	})

	return &Provider{
		cfg:      cfg,
		log:      slogx.OrDiscard(cfg.Logger).With("component", "identity.firebase"),
		public:   public,
		admin:    admin,
		verifier: verifier,
	}, nil
}

// Verify checks signature, issuer, audience and expiry with go-oidc, then
// applies the Firebase-specific subject and auth_time rules.
func (p *Provider) Verify(ctx context.Context, idToken string) (*identity.Identity, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, identity.Errorf(identity.KindVerificationFailed, "verify", "empty token")
	}

	tok, err := p.verifier.Verify(ctx, idToken)
	if err != nil {
		if ctx.Err() != nil {
			return nil, identity.Wrap(identity.KindProviderUnavailable, "verify", err)
		}
		return nil, identity.Wrap(identity.KindVerificationFailed, "verify", err)
	}

	var claims jwtx.Claims
	if err := tok.Claims(&claims); err != nil {
		return nil, identity.Wrap(identity.KindVerificationFailed, "verify", err)
	}
	if err := claims.ValidateSubject(); err != nil {
		return nil, identity.Wrap(identity.KindVerificationFailed, "verify", err)
	}
	if claims.AuthTime != 0 && time.Unix(claims.AuthTime, 0).After(time.Now().Add(jwtx.DefaultLeeway)) {
		return nil, identity.Errorf(identity.KindVerificationFailed, "verify", "auth_time in the future")
	}

	raw := make(map[string]any)
	_ = tok.Claims(&raw)

	return &identity.Identity{
		UserID: tok.Subject,
		Email:  claims.Email,
		Claims: raw,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return strings.TrimRight(v, "/")
}
