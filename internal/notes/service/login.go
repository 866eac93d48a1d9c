package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
	"github.com/aussiebroadwan/notes/internal/notes/mail"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// LoginLinkSubject is the subject line of the sign-in email.
const LoginLinkSubject = "Login Link"

// LinkPath is where emailed sign-in links land.
const LinkPath = "/auth/link/"

var ErrLinkInvalid = errors.New("sign-in link is invalid or expired")

// IssueResult is what the login form shows after a submission.
//
// RateLimited covers provider rejection and delivery failure alike; the
// form tells the user to try again later in both cases.
type IssueResult struct {
	LinkSent    bool
	RateLimited bool
}

type LoginService struct {
	Provider identity.Provider
	Mail     mail.Sender
}

// Issue asks the provider for a sign-in link, rewrites it onto our own
// origin and emails it. origin is scheme://host without a trailing slash.
func (s *LoginService) Issue(ctx context.Context, email, origin string) IssueResult {
	log := slogx.FromContext(ctx)
	origin = strings.TrimRight(origin, "/")

	link, err := s.Provider.CreateSignInLink(ctx, email, origin+LinkPath)
	if err != nil {
		log.Warn("sign-in link rejected",
			slog.String("kind", identity.KindOf(err).String()),
			slog.Any("error", err),
		)
		return IssueResult{RateLimited: true}
	}

	code, err := oobCode(link)
	if err != nil {
		log.Error("provider link has no oobCode", slog.Any("error", err))
		return IssueResult{RateLimited: true}
	}

	msg := mail.Message{
		To:      email,
		Subject: LoginLinkSubject,
		Body:    SignInURL(origin, email, code),
	}
	if err := s.Mail.Send(ctx, msg); err != nil {
		log.Error("failed to send sign-in email", slog.Any("error", err))
		return IssueResult{RateLimited: true}
	}

	log.Info("sign-in link sent")
	return IssueResult{LinkSent: true}
}

// Confirm completes sign-in with the code from an emailed link.
func (s *LoginService) Confirm(ctx context.Context, email, code string) (*identity.TokenBundle, error) {
	bundle, err := s.Provider.SignInWithEmailLink(ctx, email, code)
	if err != nil {
		slogx.FromContext(ctx).Info("sign-in link exchange failed",
			slog.String("kind", identity.KindOf(err).String()),
			slog.Any("error", err),
		)
		return nil, ErrLinkInvalid
	}
	return bundle, nil
}

// SignInURL is the same-origin link put in the email.
func SignInURL(origin, email, code string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("oobCode", code)
	return strings.TrimRight(origin, "/") + LinkPath + "?" + q.Encode()
}

func oobCode(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	code := u.Query().Get("oobCode")
	if code == "" {
		return "", errors.New("missing oobCode")
	}
	return code, nil
}
