package gate

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
	"github.com/aussiebroadwan/notes/pkg/cryptox"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// InterstitialRenderer draws the continue page that links to destination.
type InterstitialRenderer interface {
	RenderContinue(w http.ResponseWriter, r *http.Request, destination string)
}

// Gate evaluates requests against the identity provider.
type Gate struct {
	Provider     identity.Provider
	Interstitial InterstitialRenderer
}

// New returns a gate. A nil renderer falls back to a bare continue page.
func New(p identity.Provider, r InterstitialRenderer) *Gate {
	if r == nil {
		r = plainInterstitial{}
	}
	return &Gate{Provider: p, Interstitial: r}
}

// Evaluate runs the gate state machine for r. It has no side effects
// besides provider calls; Middleware applies the decision.
func (g *Gate) Evaluate(ctx context.Context, r *http.Request) Decision {
	path := r.URL.Path
	c := Classify(r.Header, path)
	log := slogx.FromContext(ctx)

	if c.IsOpenPath {
		return Decision{Outcome: Forward, Reason: "open_path"}
	}

	if !c.IsCrossSite && path == ContinuePath {
		return Decision{
			Outcome:  RedirectHome,
			Status:   http.StatusTemporaryRedirect,
			Location: httpx.RequestOrigin(r) + "/",
			Reason:   "continue",
		}
	}
	if c.IsCrossSite {
		dest := r.URL.RequestURI()
		if path == ContinuePath || !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
			dest = "/"
		}
		return Decision{Outcome: ShowInterstitial, Status: http.StatusOK, Destination: dest, Reason: "cross_site"}
	}

	pair := ReadPair(r)
	if pair.Anonymous() {
		return anonymous(c, "no_credentials")
	}

	if pair.Bearer != "" {
		id, err := g.Provider.Verify(ctx, pair.Bearer)
		if err == nil {
			if c.IsAuthPath {
				return redirectHome("bearer_valid")
			}
			return Decision{Outcome: Forward, Identity: id, Reason: "bearer_valid"}
		}
		log.Debug("bearer rejected", "kind", identity.KindOf(err).String(), "err", err)
	}

	if pair.Refresh != "" {
		return g.refresh(ctx, c, pair.Refresh)
	}

	if ctx.Err() != nil {
		return Decision{Outcome: Abandon, Reason: "client_gone"}
	}
	return anonymous(c, "no_valid_credentials")
}

// refresh exchanges the refresh token. On a non-auth path the new bearer
// must verify before it is accepted; there is no second attempt.
func (g *Gate) refresh(ctx context.Context, c Classification, token string) Decision {
	log := slogx.FromContext(ctx).With("refresh_fp", cryptox.ShortFingerprint(token))

	bundle, err := g.Provider.Refresh(ctx, token)
	if err != nil {
		if ctx.Err() != nil {
			return Decision{Outcome: Abandon, Reason: "client_gone"}
		}
		log.Info("refresh failed", "kind", identity.KindOf(err).String(), "err", err)
		return refreshFailed("refresh_failed")
	}

	if c.IsAuthPath {
		return redirectHome("refreshed")
	}

	id, err := g.Provider.Verify(ctx, bundle.IDToken)
	if err != nil {
		if ctx.Err() != nil {
			return Decision{Outcome: Abandon, Reason: "client_gone"}
		}
		log.Warn("refreshed bearer rejected", "kind", identity.KindOf(err).String(), "err", err)
		return refreshFailed("refreshed_bearer_invalid")
	}

	if ctx.Err() != nil {
		return Decision{Outcome: Abandon, Reason: "client_gone"}
	}

	log.Debug("session refreshed", "user_id", id.UserID)
	return Decision{Outcome: Forward, Identity: id, SetCookies: bundle, Reason: "refreshed"}
}

func anonymous(c Classification, reason string) Decision {
	if c.IsAuthPath {
		return Decision{Outcome: ShowLoginFormPage, Reason: reason}
	}
	return Decision{
		Outcome:  RedirectToLogin,
		Status:   http.StatusTemporaryRedirect,
		Location: LoginPath,
		Reason:   reason,
	}
}

func redirectHome(reason string) Decision {
	return Decision{Outcome: RedirectHome, Status: http.StatusSeeOther, Location: "/", Reason: reason}
}

func refreshFailed(reason string) Decision {
	return Decision{
		Outcome:      RedirectToLogin,
		Status:       http.StatusSeeOther,
		Location:     LoginPath,
		ClearCookies: true,
		Reason:       reason,
	}
}

// Middleware applies Evaluate's decision. Forwarded requests carry the
// resolved identity in their context.
func (g *Gate) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Evaluate(r.Context(), r)
			slogx.FromContext(r.Context()).Debug("gate decision",
				"outcome", d.Outcome.String(),
				"reason", d.Reason,
			)

			switch d.Outcome {
			case Forward, ShowLoginFormPage:
				ctx := r.Context()
				if d.Identity != nil {
					ctx = identity.WithIdentity(ctx, d.Identity)
					ctx = httpx.WithUserID(ctx, d.Identity.UserID)
					ctx = slogx.WithUserID(ctx, d.Identity.UserID)
				}
				if d.SetCookies != nil {
					httpx.NoCache(w)
					WritePair(w, *d.SetCookies)
				}
				next.ServeHTTP(w, r.WithContext(ctx))

			case RedirectToLogin, RedirectHome:
				httpx.NoCache(w)
				if d.ClearCookies {
					ClearPair(w)
				}
				http.Redirect(w, r, d.Location, d.Status)

			case ShowInterstitial:
				httpx.NoCache(w)
				g.Interstitial.RenderContinue(w, r, d.Destination)

			case Abandon:
			}
		})
	}
}

var plainContinue = template.Must(template.New("continue").Parse(
	`<!doctype html><html><head><meta charset="utf-8"><title>Continue</title></head>` +
		`<body><p><a href="{{.}}">Continue</a></p></body></html>`,
))

type plainInterstitial struct{}

func (plainInterstitial) RenderContinue(w http.ResponseWriter, _ *http.Request, destination string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = plainContinue.Execute(w, destination)
}
