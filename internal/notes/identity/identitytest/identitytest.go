// Package identitytest provides identity.Provider doubles for tests.
package identitytest

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
	"github.com/aussiebroadwan/notes/internal/notes/identity/local"
	"github.com/stretchr/testify/require"
)

// Fake is a programmable provider. Nil funcs fail with ProviderUnavailable.
// Calls are counted so tests can assert on ordering and on calls that must
// not happen.
type Fake struct {
	VerifyFunc     func(ctx context.Context, idToken string) (*identity.Identity, error)
	RefreshFunc    func(ctx context.Context, refreshToken string) (*identity.TokenBundle, error)
	RevokeAllFunc  func(ctx context.Context, userID string) error
	CreateLinkFunc func(ctx context.Context, email, continueURL string) (string, error)
	SignInFunc     func(ctx context.Context, email, oobCode string) (*identity.TokenBundle, error)
	DocStoreFunc   func(ctx context.Context) (bool, error)
	// ReadyFunc is the exception: nil means ready.
	ReadyFunc func(ctx context.Context) error

	VerifyCalls    atomic.Int32
	RefreshCalls   atomic.Int32
	RevokeAllCalls atomic.Int32
	LinkCalls      atomic.Int32
	SignInCalls    atomic.Int32

	mu    sync.Mutex
	trace []string
}

var (
	_ identity.Provider         = (*Fake)(nil)
	_ identity.StatusProber     = (*Fake)(nil)
	_ identity.ReadinessChecker = (*Fake)(nil)
)

// Trace lists the provider operations in call order.
func (f *Fake) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *Fake) record(op string) {
	f.mu.Lock()
	f.trace = append(f.trace, op)
	f.mu.Unlock()
}

func unavailable(op string) error {
	return &identity.Error{Kind: identity.KindProviderUnavailable, Op: op}
}

func (f *Fake) Verify(ctx context.Context, idToken string) (*identity.Identity, error) {
	f.VerifyCalls.Add(1)
	f.record("verify:" + idToken)
	if f.VerifyFunc == nil {
		return nil, unavailable("verify")
	}
	return f.VerifyFunc(ctx, idToken)
}

func (f *Fake) Refresh(ctx context.Context, refreshToken string) (*identity.TokenBundle, error) {
	f.RefreshCalls.Add(1)
	f.record("refresh:" + refreshToken)
	if f.RefreshFunc == nil {
		return nil, unavailable("refresh")
	}
	return f.RefreshFunc(ctx, refreshToken)
}

func (f *Fake) RevokeAll(ctx context.Context, userID string) error {
	f.RevokeAllCalls.Add(1)
	f.record("revokeAll:" + userID)
	if f.RevokeAllFunc == nil {
		return unavailable("revokeAll")
	}
	return f.RevokeAllFunc(ctx, userID)
}

func (f *Fake) CreateSignInLink(ctx context.Context, email, continueURL string) (string, error) {
	f.LinkCalls.Add(1)
	f.record("createSignInLink:" + email)
	if f.CreateLinkFunc == nil {
		return "", unavailable("createSignInLink")
	}
	return f.CreateLinkFunc(ctx, email, continueURL)
}

func (f *Fake) SignInWithEmailLink(ctx context.Context, email, oobCode string) (*identity.TokenBundle, error) {
	f.SignInCalls.Add(1)
	f.record("signInWithEmailLink:" + email)
	if f.SignInFunc == nil {
		return nil, unavailable("signInWithEmailLink")
	}
	return f.SignInFunc(ctx, email, oobCode)
}

func (f *Fake) DocumentStoreOK(ctx context.Context) (bool, error) {
	if f.DocStoreFunc == nil {
		return false, unavailable("documentStore")
	}
	return f.DocStoreFunc(ctx)
}

func (f *Fake) Ready(ctx context.Context) error {
	if f.ReadyFunc == nil {
		return nil
	}
	return f.ReadyFunc(ctx)
}

// AcceptToken returns a VerifyFunc that accepts exactly token as userID.
func AcceptToken(token, userID string) func(context.Context, string) (*identity.Identity, error) {
	return func(_ context.Context, got string) (*identity.Identity, error) {
		if got != token {
			return nil, &identity.Error{Kind: identity.KindVerificationFailed, Op: "verify"}
		}
		return &identity.Identity{UserID: userID, Claims: map[string]any{"user_id": userID}}, nil
	}
}

// NewLocal returns a local provider suitable for tests.
func NewLocal(t testing.TB) *local.Provider {
	t.Helper()
	p, err := local.New(local.Config{ProjectID: "notes-test"})
	require.NoError(t, err)
	return p
}

// SignIn walks the email link flow against p and returns the session.
func SignIn(t testing.TB, p identity.Provider, email string) *identity.TokenBundle {
	t.Helper()
	ctx := context.Background()

	link, err := p.CreateSignInLink(ctx, email, "https://notes.test/auth/link/")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	code := u.Query().Get("oobCode")
	require.NotEmpty(t, code)

	bundle, err := p.SignInWithEmailLink(ctx, email, code)
	require.NoError(t, err)
	return bundle
}
