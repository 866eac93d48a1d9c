// Package local is an in-process identity provider for development and
// tests. It mints RS256 ID tokens shaped like Firebase ones, keeps users,
// refresh tokens and sign-in codes in memory, and loses everything on
// restart.
package local

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
	"github.com/aussiebroadwan/notes/pkg/cryptox"
	"github.com/aussiebroadwan/notes/pkg/idx"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/aussiebroadwan/notes/pkg/limitx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultProjectID  = "notes-local"
	DefaultCodeTTL    = time.Hour
	DefaultRefreshTTL = 365 * 24 * time.Hour
)

// DefaultLinkLimit throttles sign-in links per email address.
var DefaultLinkLimit = limitx.Config{Events: 5, Window: time.Hour, Burst: 3}

type Config struct {
	ProjectID  string
	CodeTTL    time.Duration
	RefreshTTL time.Duration
	LinkLimit  limitx.Config
	// AuthorizedDomains lists the hosts sign-in links may continue to.
	// localhost is always allowed. Empty allows any host.
	AuthorizedDomains []string
	Logger            *slog.Logger
	// Now is the provider clock. Defaults to time.Now.
	Now func() time.Time
}

type user struct {
	id         string
	email      string
	validSince time.Time
}

type refreshRecord struct {
	userID    string
	issuedAt  time.Time
	expiresAt time.Time
}

type codeRecord struct {
	email     string
	expiresAt time.Time
}

// Provider implements identity.Provider and identity.StatusProber.
type Provider struct {
	cfg      Config
	log      *slog.Logger
	signer   jwtx.Signer
	keys     *jwtx.KeySet
	verifier *jwtx.RS256Verifier
	links    *limitx.Keyed

	mu      sync.Mutex
	byEmail map[string]*user
	byID    map[string]*user
	refresh map[string]refreshRecord // fingerprint -> record
	codes   map[string]codeRecord    // fingerprint -> record
}

var (
	_ identity.Provider         = (*Provider)(nil)
	_ identity.StatusProber     = (*Provider)(nil)
	_ identity.ReadinessChecker = (*Provider)(nil)
)

// New creates a provider with a fresh signing key.
func New(cfg Config) (*Provider, error) {
	if cfg.ProjectID == "" {
		cfg.ProjectID = DefaultProjectID
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = DefaultCodeTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.LinkLimit.Events <= 0 {
		cfg.LinkLimit = DefaultLinkLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	pemKey, err := cryptox.GenerateRSAKey(2048)
	if err != nil {
		return nil, fmt.Errorf("local identity: %w", err)
	}
	signer, err := jwtx.NewSignerRS256(idx.New().String(), pemKey)
	if err != nil {
		return nil, fmt.Errorf("local identity: %w", err)
	}
	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("local identity: %w", err)
	}

	return &Provider{
		cfg:      cfg,
		log:      slogx.OrDiscard(cfg.Logger).With("component", "identity.local"),
		signer:   signer,
		keys:     keys,
		verifier: jwtx.NewVerifierRS256(keys, cfg.ProjectID).WithClock(cfg.Now),
		links:    limitx.NewKeyed(cfg.LinkLimit),
		byEmail:  make(map[string]*user),
		byID:     make(map[string]*user),
		refresh:  make(map[string]refreshRecord),
		codes:    make(map[string]codeRecord),
	}, nil
}

// ProjectID is the audience of minted tokens.
func (p *Provider) ProjectID() string { return p.cfg.ProjectID }

// JWKS publishes the verification key, in the same format Google serves
// for Firebase ID tokens.
func (p *Provider) JWKS() jwtx.JWKS { return p.keys.PublicJWKS() }

func (p *Provider) Verify(ctx context.Context, idToken string) (*identity.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, identity.Wrap(identity.KindProviderUnavailable, "verify", err)
	}

	claims, err := p.verifier.Verify(idToken)
	if err != nil {
		return nil, identity.Wrap(identity.KindVerificationFailed, "verify", err)
	}

	return &identity.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Claims: claims.AsMap(),
	}, nil
}

// Refresh mints a new ID token. Like Firebase, the refresh token itself
// is long-lived and handed back unchanged, so concurrent refreshes with the
// same token all succeed.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*identity.TokenBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, identity.Wrap(identity.KindProviderUnavailable, "refresh", err)
	}

	now := p.cfg.Now()

	p.mu.Lock()
	rec, ok := p.refresh[cryptox.FingerprintToken(refreshToken)]
	var u *user
	var validSince time.Time
	if ok {
		if u = p.byID[rec.userID]; u != nil {
			validSince = u.validSince
		}
	}
	p.mu.Unlock()

	switch {
	case !ok || refreshToken == "":
		return nil, &identity.Error{Kind: identity.KindRefreshFailed, Op: "refresh", Code: "INVALID_REFRESH_TOKEN"}
	case now.After(rec.expiresAt):
		return nil, &identity.Error{Kind: identity.KindRefreshFailed, Op: "refresh", Code: "TOKEN_EXPIRED"}
	case u == nil:
		return nil, &identity.Error{Kind: identity.KindRefreshFailed, Op: "refresh", Code: "USER_NOT_FOUND"}
	case rec.issuedAt.Before(validSince):
		return nil, &identity.Error{Kind: identity.KindRefreshFailed, Op: "refresh", Code: "TOKEN_EXPIRED"}
	}

	idToken, err := p.mint(u, rec.issuedAt, now)
	if err != nil {
		return nil, identity.Wrap(identity.KindProviderUnavailable, "refresh", err)
	}

	return &identity.TokenBundle{
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(jwtx.IDTokenTTL.Seconds()),
	}, nil
}

// RevokeAll drops every refresh token of userID and moves its validSince
// forward, mirroring the Firebase admin call.
func (p *Provider) RevokeAll(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return identity.Wrap(identity.KindProviderUnavailable, "revokeAll", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.byID[userID]
	if !ok {
		return &identity.Error{Kind: identity.KindRevocationFailed, Op: "revokeAll", Code: "USER_NOT_FOUND"}
	}

	// validSince has second precision, as in Firebase.
	u.validSince = p.cfg.Now().Truncate(time.Second)
	for fp, rec := range p.refresh {
		if rec.userID == userID {
			delete(p.refresh, fp)
		}
	}

	p.log.Info("revoked refresh tokens", "user_id", userID)
	return nil
}

func (p *Provider) CreateSignInLink(ctx context.Context, email, continueURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", identity.Wrap(identity.KindProviderUnavailable, "createSignInLink", err)
	}

	email = normaliseEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", &identity.Error{Kind: identity.KindLinkRejected, Op: "createSignInLink", Code: "INVALID_EMAIL"}
	}
	cu, err := url.ParseRequestURI(continueURL)
	if err != nil {
		return "", &identity.Error{Kind: identity.KindLinkRejected, Op: "createSignInLink", Code: "INVALID_CONTINUE_URI", Err: err}
	}
	if !p.authorizedDomain(cu.Hostname()) {
		p.log.Warn("sign-in link for unauthorized domain", "domain", cu.Hostname())
		return "", &identity.Error{Kind: identity.KindLinkRejected, Op: "createSignInLink", Code: "UNAUTHORIZED_DOMAIN"}
	}
	if ok, _ := p.links.Allow(email); !ok {
		return "", &identity.Error{Kind: identity.KindLinkRejected, Op: "createSignInLink", Code: "QUOTA_EXCEEDED"}
	}

	code, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", identity.Wrap(identity.KindProviderUnavailable, "createSignInLink", err)
	}

	p.mu.Lock()
	p.codes[cryptox.FingerprintToken(code)] = codeRecord{
		email:     email,
		expiresAt: p.cfg.Now().Add(p.cfg.CodeTTL),
	}
	p.mu.Unlock()

	q := url.Values{}
	q.Set("mode", "signIn")
	q.Set("oobCode", code)
	q.Set("continueUrl", continueURL)
	q.Set("lang", "en")
	return "https://" + p.cfg.ProjectID + ".firebaseapp.com/__/auth/action?" + q.Encode(), nil
}

func (p *Provider) authorizedDomain(host string) bool {
	if len(p.cfg.AuthorizedDomains) == 0 || host == "localhost" {
		return true
	}
	for _, d := range p.cfg.AuthorizedDomains {
		if strings.EqualFold(d, host) {
			return true
		}
	}
	return false
}

// SignInWithEmailLink consumes a code. Codes are single use; a code issued
// for one address cannot sign in another.
func (p *Provider) SignInWithEmailLink(ctx context.Context, email, oobCode string) (*identity.TokenBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, identity.Wrap(identity.KindProviderUnavailable, "signInWithEmailLink", err)
	}

	email = normaliseEmail(email)
	now := p.cfg.Now()
	fp := cryptox.FingerprintToken(oobCode)

	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.codes[fp]
	switch {
	case !ok || oobCode == "":
		return nil, &identity.Error{Kind: identity.KindSignInFailed, Op: "signInWithEmailLink", Code: "INVALID_OOB_CODE"}
	case now.After(rec.expiresAt):
		delete(p.codes, fp)
		return nil, &identity.Error{Kind: identity.KindSignInFailed, Op: "signInWithEmailLink", Code: "EXPIRED_OOB_CODE"}
	case rec.email != email:
		return nil, &identity.Error{Kind: identity.KindSignInFailed, Op: "signInWithEmailLink", Code: "INVALID_EMAIL"}
	}
	delete(p.codes, fp)

	u, ok := p.byEmail[email]
	if !ok {
		u = &user{id: idx.New().String(), email: email}
		p.byEmail[email] = u
		p.byID[u.id] = u
		p.log.Info("created user", "user_id", u.id)
	}

	idToken, err := p.mint(u, now, now)
	if err != nil {
		return nil, identity.Wrap(identity.KindProviderUnavailable, "signInWithEmailLink", err)
	}

	refreshToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, identity.Wrap(identity.KindProviderUnavailable, "signInWithEmailLink", err)
	}
	p.refresh[cryptox.FingerprintToken(refreshToken)] = refreshRecord{
		userID:    u.id,
		issuedAt:  now,
		expiresAt: now.Add(p.cfg.RefreshTTL),
	}

	return &identity.TokenBundle{
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(jwtx.IDTokenTTL.Seconds()),
	}, nil
}

// Ready reports whether the signing key is loaded.
func (p *Provider) Ready(context.Context) error {
	if !p.keys.IsReady() {
		return identity.Errorf(identity.KindProviderUnavailable, "ready", "no signing key")
	}
	return nil
}

// DocumentStoreOK always succeeds; there is no document store behind the
// local provider.
func (p *Provider) DocumentStoreOK(context.Context) (bool, error) {
	return true, nil
}

// Sweep forgets expired codes, refresh tokens and idle link limiters.
func (p *Provider) Sweep(ctx context.Context) (int, error) {
	now := p.cfg.Now()
	removed := 0

	p.mu.Lock()
	for fp, rec := range p.codes {
		if now.After(rec.expiresAt) {
			delete(p.codes, fp)
			removed++
		}
	}
	for fp, rec := range p.refresh {
		if now.After(rec.expiresAt) {
			delete(p.refresh, fp)
			removed++
		}
	}
	p.mu.Unlock()

	removed += p.links.Sweep()
	return removed, ctx.Err()
}

func (p *Provider) mint(u *user, authTime, now time.Time) (string, error) {
	return p.signer.Sign(jwtx.NewIDClaims(p.cfg.ProjectID, u.id, u.email, authTime, now))
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
