package firebase

import (
	"context"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
)

// seconds decodes expiry fields Google sends as either "3600" or 3600.
type seconds int

func (s *seconds) UnmarshalJSON(b []byte) error {
	str := strings.Trim(string(b), `"`)
	if str == "" || str == "null" {
		*s = 0
		return nil
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return err
	}
	*s = seconds(v)
	return nil
}

type refreshRequest struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	IDToken      string  `json:"id_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    seconds `json:"expires_in"`
	UserID       string  `json:"user_id"`
}

// Refresh exchanges a refresh token at the Secure Token API.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*identity.TokenBundle, error) {
	var out refreshResponse
	err := postJSON(ctx, p.public,
		p.withKey(p.cfg.SecureTokenURL, "/v1/token"),
		refreshRequest{GrantType: "refresh_token", RefreshToken: refreshToken},
		&out, "refresh", identity.KindRefreshFailed,
	)
	if err != nil {
		return nil, err
	}
	if out.IDToken == "" || out.RefreshToken == "" {
		return nil, identity.Errorf(identity.KindRefreshFailed, "refresh", "incomplete token response")
	}

	return &identity.TokenBundle{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    int(out.ExpiresIn),
	}, nil
}

type signInRequest struct {
	Email   string `json:"email"`
	OOBCode string `json:"oobCode"`
}

type signInResponse struct {
	IDToken      string  `json:"idToken"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresIn    seconds `json:"expiresIn"`
	Email        string  `json:"email"`
	LocalID      string  `json:"localId"`
	IsNewUser    bool    `json:"isNewUser"`
}

// SignInWithEmailLink completes the email-link flow at the Identity Toolkit.
func (p *Provider) SignInWithEmailLink(ctx context.Context, email, oobCode string) (*identity.TokenBundle, error) {
	var out signInResponse
	err := postJSON(ctx, p.public,
		p.withKey(p.cfg.IdentityToolkitURL, "/v1/accounts:signInWithEmailLink"),
		signInRequest{Email: email, OOBCode: oobCode},
		&out, "signInWithEmailLink", identity.KindSignInFailed,
	)
	if err != nil {
		return nil, err
	}
	if out.IDToken == "" {
		return nil, identity.Errorf(identity.KindSignInFailed, "signInWithEmailLink", "missing idToken")
	}
	if out.IsNewUser {
		p.log.Info("new user signed in", "user_id", out.LocalID)
	}

	return &identity.TokenBundle{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    int(out.ExpiresIn),
	}, nil
}
