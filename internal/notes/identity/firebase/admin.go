package firebase

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
)

func (p *Provider) projectPath(suffix string) string {
	return p.cfg.IdentityToolkitURL + "/v1/projects/" + url.PathEscape(p.cfg.ProjectID) + suffix
}

type oobRequest struct {
	RequestType        string `json:"requestType"`
	Email              string `json:"email"`
	ContinueURL        string `json:"continueUrl"`
	CanHandleCodeInApp bool   `json:"canHandleCodeInApp"`
	ReturnOOBLink      bool   `json:"returnOobLink"`
}

type oobResponse struct {
	Email   string `json:"email"`
	OOBLink string `json:"oobLink"`
}

// CreateSignInLink asks Firebase for an email sign-in link without having
// Firebase send it; delivery is ours.
func (p *Provider) CreateSignInLink(ctx context.Context, email, continueURL string) (string, error) {
	var out oobResponse
	err := postJSON(ctx, p.admin, p.projectPath("/accounts:sendOobCode"), oobRequest{
		RequestType:        "EMAIL_SIGNIN",
		Email:              email,
		ContinueURL:        continueURL,
		CanHandleCodeInApp: true,
		ReturnOOBLink:      true,
	}, &out, "createSignInLink", identity.KindLinkRejected)
	if err != nil {
		return "", err
	}
	if out.OOBLink == "" {
		return "", identity.Errorf(identity.KindLinkRejected, "createSignInLink", "missing oobLink")
	}
	return out.OOBLink, nil
}

type updateRequest struct {
	LocalID    string `json:"localId"`
	ValidSince string `json:"validSince"`
}

// RevokeAll moves the user's validSince to now, which invalidates every
// refresh token issued before it.
func (p *Provider) RevokeAll(ctx context.Context, userID string) error {
	err := postJSON(ctx, p.admin, p.projectPath("/accounts:update"), updateRequest{
		LocalID:    userID,
		ValidSince: strconv.FormatInt(time.Now().Unix(), 10),
	}, nil, "revokeAll", identity.KindRevocationFailed)
	if err != nil {
		return err
	}
	p.log.Info("revoked refresh tokens", "user_id", userID)
	return nil
}

type firestoreDoc struct {
	Fields map[string]struct {
		BooleanValue *bool `json:"booleanValue"`
	} `json:"fields"`
}

// DocumentStoreOK reads document ok/0 and reports its boolean field "ok".
func (p *Provider) DocumentStoreOK(ctx context.Context) (bool, error) {
	endpoint := p.cfg.FirestoreURL + "/v1/projects/" + url.PathEscape(p.cfg.ProjectID) +
		"/databases/(default)/documents/ok/0"

	var doc firestoreDoc
	if err := getJSON(ctx, p.admin, endpoint, &doc, "documentStore", identity.KindProviderUnavailable); err != nil {
		return false, err
	}

	f, ok := doc.Fields["ok"]
	return ok && f.BooleanValue != nil && *f.BooleanValue, nil
}

// Ready fetches Google's signing keys. Verification of every request
// depends on them.
func (p *Provider) Ready(ctx context.Context) error {
	var jwks struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := getJSON(ctx, p.public, p.cfg.JWKSURL, &jwks, "ready", identity.KindProviderUnavailable); err != nil {
		return err
	}
	if len(jwks.Keys) == 0 {
		return identity.Errorf(identity.KindProviderUnavailable, "ready", "no signing keys published")
	}
	return nil
}
