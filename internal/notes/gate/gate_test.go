package gate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aussiebroadwan/notes/internal/notes/gate"
	"github.com/aussiebroadwan/notes/internal/notes/identity"
	"github.com/aussiebroadwan/notes/internal/notes/identity/identitytest"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type forwarded struct {
	called bool
	id     *identity.Identity
	userID string
}

func (f *forwarded) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.called = true
		f.id, _ = identity.FromContext(r.Context())
		f.userID, _ = httpx.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

type request struct {
	method  string
	path    string
	site    string
	bearer  string
	refresh string
}

func (q request) build() *http.Request {
	method := q.method
	if method == "" {
		method = http.MethodGet
	}
	r := httptest.NewRequest(method, "http://notes.test"+q.path, nil)
	if q.site != "" {
		r.Header.Set("Sec-Fetch-Site", q.site)
	}
	if q.bearer != "" {
		r.AddCookie(&http.Cookie{Name: gate.BearerCookie, Value: q.bearer})
	}
	if q.refresh != "" {
		r.AddCookie(&http.Cookie{Name: gate.RefreshCookie, Value: q.refresh})
	}
	return r
}

func serve(g *gate.Gate, q request) (*httptest.ResponseRecorder, *forwarded) {
	f := &forwarded{}
	rec := httptest.NewRecorder()
	g.Middleware()(f.handler()).ServeHTTP(rec, q.build())
	return rec, f
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func validFake() *identitytest.Fake {
	return &identitytest.Fake{
		VerifyFunc: identitytest.AcceptToken("good-bearer", "uid-1"),
	}
}

func TestOpenPathsBypassEverything(t *testing.T) {
	paths := []string{
		"/favicon.ico", "/main.css", "/noto.ttf", "/auth/link/",
		"/continue/index.css", "/auth/logout/", "/error/index.css",
	}
	variants := []request{
		{site: "cross-site"},
		{},
		{site: "same-origin", bearer: "junk", refresh: "junk"},
	}

	for _, p := range paths {
		for _, v := range variants {
			fake := &identitytest.Fake{}
			v.path = p
			rec, f := serve(gate.New(fake, nil), v)

			require.True(t, f.called, "%s should be forwarded", p)
			require.Nil(t, f.id)
			require.Empty(t, rec.Result().Cookies())
			require.Zero(t, fake.VerifyCalls.Load())
			require.Zero(t, fake.RefreshCalls.Load())
		}
	}
}

func TestOpenPathMatchIsExact(t *testing.T) {
	for _, p := range []string{"/MAIN.CSS", "/main.css/", "/auth/link", "/auth/logout/x"} {
		require.False(t, gate.IsOpenPath(p), p)
	}
}

func TestCrossSiteShowsInterstitial(t *testing.T) {
	for _, site := range []string{"", "cross-site", "bogus", "Same-Origin"} {
		t.Run("site="+site, func(t *testing.T) {
			fake := validFake()
			rec, f := serve(gate.New(fake, nil), request{path: "/notes/", site: site, bearer: "good-bearer"})

			require.False(t, f.called)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, rec.Body.String(), `href="/notes/"`)
			require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			require.Zero(t, fake.VerifyCalls.Load(), "cookies are not consulted for cross-site requests")
		})
	}
}

func TestContinuePath(t *testing.T) {
	t.Run("trusted redirects home", func(t *testing.T) {
		for _, site := range []string{"same-origin", "same-site", "none"} {
			q := request{path: gate.ContinuePath, site: site}
			r := q.build()
			r.Header.Set("Origin", "https://notes.test")

			d := gate.New(&identitytest.Fake{}, nil).Evaluate(r.Context(), r)
			require.Equal(t, gate.RedirectHome, d.Outcome)
			require.Equal(t, "https://notes.test/", d.Location)
		}
	})

	t.Run("untrusted continues to root", func(t *testing.T) {
		q := request{path: gate.ContinuePath, site: "cross-site"}
		r := q.build()
		d := gate.New(&identitytest.Fake{}, nil).Evaluate(r.Context(), r)
		require.Equal(t, gate.ShowInterstitial, d.Outcome)
		require.Equal(t, "/", d.Destination)
	})
}

func TestValidBearerForwardsWithoutCookieChanges(t *testing.T) {
	fake := validFake()
	rec, f := serve(gate.New(fake, nil), request{path: "/notes/", site: "same-origin", bearer: "good-bearer", refresh: "rt"})

	require.True(t, f.called)
	require.NotNil(t, f.id)
	require.Equal(t, "uid-1", f.id.UserID)
	require.Equal(t, "uid-1", f.userID)
	require.Empty(t, rec.Result().Cookies())
	require.Zero(t, fake.RefreshCalls.Load(), "a valid bearer is never rotated")
}

func TestValidBearerOnAuthPathRedirectsHome(t *testing.T) {
	rec, f := serve(gate.New(validFake(), nil), request{path: "/auth/form/", site: "same-origin", bearer: "good-bearer"})

	require.False(t, f.called)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	require.Empty(t, rec.Result().Cookies())
}

func TestRefreshAcceptedSetsCookiesAndForwards(t *testing.T) {
	fake := &identitytest.Fake{
		VerifyFunc: identitytest.AcceptToken("fresh-bearer", "uid-2"),
		RefreshFunc: func(_ context.Context, rt string) (*identity.TokenBundle, error) {
			require.Equal(t, "rt-ok", rt)
			return &identity.TokenBundle{IDToken: "fresh-bearer", RefreshToken: "rt-next", ExpiresIn: 1800}, nil
		},
	}

	rec, f := serve(gate.New(fake, nil), request{path: "/notes/", site: "same-origin", bearer: "stale", refresh: "rt-ok"})

	require.True(t, f.called)
	require.Equal(t, "uid-2", f.id.UserID, "identity comes from the new bearer")
	require.Equal(t, []string{"verify:stale", "refresh:rt-ok", "verify:fresh-bearer"}, fake.Trace())

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 2)

	bearer := cookies[gate.BearerCookie]
	require.Equal(t, "fresh-bearer", bearer.Value)
	require.Equal(t, 1800, bearer.MaxAge)

	refresh := cookies[gate.RefreshCookie]
	require.Equal(t, "rt-next", refresh.Value)
	require.Equal(t, 31536000, refresh.MaxAge)

	for _, c := range cookies {
		require.True(t, c.HttpOnly)
		require.True(t, c.Secure)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
		require.Equal(t, "/", c.Path)
	}
}

func TestRefreshOnlyCookie(t *testing.T) {
	fake := &identitytest.Fake{
		VerifyFunc: identitytest.AcceptToken("fresh", "uid-3"),
		RefreshFunc: func(context.Context, string) (*identity.TokenBundle, error) {
			return &identity.TokenBundle{IDToken: "fresh", RefreshToken: "rt", ExpiresIn: 3600}, nil
		},
	}
	rec, f := serve(gate.New(fake, nil), request{path: "/", site: "none", refresh: "rt"})

	require.True(t, f.called)
	require.Equal(t, "uid-3", f.id.UserID)
	require.Len(t, rec.Result().Cookies(), 2)
	require.Equal(t, []string{"refresh:rt", "verify:fresh"}, fake.Trace())
}

func TestRefreshAcceptedOnAuthPathRedirectsHome(t *testing.T) {
	fake := &identitytest.Fake{
		RefreshFunc: func(context.Context, string) (*identity.TokenBundle, error) {
			return &identity.TokenBundle{IDToken: "fresh", RefreshToken: "rt", ExpiresIn: 3600}, nil
		},
	}
	rec, f := serve(gate.New(fake, nil), request{path: "/auth/form/", site: "same-origin", bearer: "stale", refresh: "rt"})

	require.False(t, f.called)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRefreshRejected(t *testing.T) {
	failures := map[string]func(context.Context, string) (*identity.TokenBundle, error){
		"rejected": func(context.Context, string) (*identity.TokenBundle, error) {
			return nil, &identity.Error{Kind: identity.KindRefreshFailed, Op: "refresh"}
		},
		"unavailable": nil,
	}

	for name, fn := range failures {
		t.Run(name, func(t *testing.T) {
			fake := &identitytest.Fake{VerifyFunc: identitytest.AcceptToken("nope", "x"), RefreshFunc: fn}
			rec, f := serve(gate.New(fake, nil), request{path: "/notes/", site: "same-origin", bearer: "stale", refresh: "rt"})

			require.False(t, f.called)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			require.Equal(t, gate.LoginPath, rec.Header().Get("Location"))

			cookies := cookiesByName(rec)
			require.Len(t, cookies, 2)
			for _, c := range cookies {
				require.Equal(t, -1, c.MaxAge)
				require.Empty(t, c.Value)
			}
		})
	}
}

func TestRefreshedBearerThatFailsVerification(t *testing.T) {
	fake := &identitytest.Fake{
		VerifyFunc: func(context.Context, string) (*identity.Identity, error) {
			return nil, &identity.Error{Kind: identity.KindVerificationFailed, Op: "verify"}
		},
		RefreshFunc: func(context.Context, string) (*identity.TokenBundle, error) {
			return &identity.TokenBundle{IDToken: "broken", RefreshToken: "rt", ExpiresIn: 3600}, nil
		},
	}
	rec, f := serve(gate.New(fake, nil), request{path: "/notes/", site: "same-origin", bearer: "stale", refresh: "rt"})

	require.False(t, f.called)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, int32(1), fake.RefreshCalls.Load(), "no retry after a bad refreshed bearer")
	for _, c := range rec.Result().Cookies() {
		require.Equal(t, -1, c.MaxAge)
	}
}

func TestNoCookies(t *testing.T) {
	t.Run("protected path redirects to login", func(t *testing.T) {
		rec, f := serve(gate.New(&identitytest.Fake{}, nil), request{path: "/notes/", site: "none"})
		require.False(t, f.called)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, gate.LoginPath, rec.Header().Get("Location"))
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("auth path forwards anonymously", func(t *testing.T) {
		rec, f := serve(gate.New(&identitytest.Fake{}, nil), request{path: "/auth/form/", site: "same-origin"})
		require.True(t, f.called)
		require.Nil(t, f.id)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestInvalidBearerWithoutRefresh(t *testing.T) {
	t.Run("protected path", func(t *testing.T) {
		rec, _ := serve(gate.New(&identitytest.Fake{}, nil), request{path: "/notes/", site: "same-origin", bearer: "stale"})
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, gate.LoginPath, rec.Header().Get("Location"))
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("auth path", func(t *testing.T) {
		_, f := serve(gate.New(&identitytest.Fake{}, nil), request{path: "/auth/form/", site: "same-origin", bearer: "stale"})
		require.True(t, f.called)
		require.Nil(t, f.id)
	})
}

func TestEvaluateIsRepeatable(t *testing.T) {
	g := gate.New(validFake(), nil)
	q := request{path: "/notes/", site: "same-origin", bearer: "good-bearer"}

	r1 := q.build()
	first := g.Evaluate(r1.Context(), r1)
	r2 := q.build()
	second := g.Evaluate(r2.Context(), r2)

	require.Equal(t, gate.Forward, first.Outcome)
	require.Equal(t, first.Outcome, second.Outcome)
	require.Nil(t, first.SetCookies)
	require.Nil(t, second.SetCookies)
	require.False(t, second.ClearCookies)
}

func TestCanceledAfterRefreshWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fake := &identitytest.Fake{
		VerifyFunc: identitytest.AcceptToken("fresh", "uid"),
		RefreshFunc: func(context.Context, string) (*identity.TokenBundle, error) {
			cancel()
			return &identity.TokenBundle{IDToken: "fresh", RefreshToken: "rt", ExpiresIn: 3600}, nil
		},
	}

	r := request{path: "/notes/", site: "same-origin", bearer: "stale", refresh: "rt"}.build().WithContext(ctx)
	rec := httptest.NewRecorder()
	f := &forwarded{}
	gate.New(fake, nil).Middleware()(f.handler()).ServeHTTP(rec, r)

	require.False(t, f.called)
	require.Empty(t, rec.Result().Cookies())
	require.Empty(t, rec.Header().Get("Location"))
}

func TestConcurrentRefreshWithSameToken(t *testing.T) {
	p := identitytest.NewLocal(t)
	bundle := identitytest.SignIn(t, p, "a@example.com")
	g := gate.New(p, nil)

	const n = 4
	var wg sync.WaitGroup
	results := make([]*httptest.ResponseRecorder, n)
	calls := make([]*forwarded, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], calls[i] = serve(g, request{path: "/notes/", site: "same-origin", bearer: "expired", refresh: bundle.RefreshToken})
		}()
	}
	wg.Wait()

	for i := range n {
		require.True(t, calls[i].called, "request %d", i)
		require.Len(t, results[i].Result().Cookies(), 2)
		require.Equal(t, bundle.RefreshToken, cookiesByName(results[i])[gate.RefreshCookie].Value)
	}
}

func TestEndToEndWithLocalProvider(t *testing.T) {
	p := identitytest.NewLocal(t)
	g := gate.New(p, nil)

	rec, _ := serve(g, request{path: "/notes/", site: "none"})
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "/auth/form/", rec.Header().Get("Location"))

	rec, _ = serve(g, request{path: "/notes/", site: "cross-site"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "/notes/"))

	bundle := identitytest.SignIn(t, p, "a@example.com")
	_, f := serve(g, request{path: "/notes/", site: "same-origin", bearer: bundle.IDToken})
	require.True(t, f.called)
	require.NotEmpty(t, f.id.UserID)
}

func TestInterstitialDestination(t *testing.T) {
	tests := map[string]string{
		"/notes/7/?tab=edit": "/notes/7/?tab=edit",
		"/continue/":         "/",
		"//evil.example/":    "/",
	}
	for target, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://notes.test/", nil)
		r.URL.Path = strings.SplitN(target, "?", 2)[0]
		if i := strings.Index(target, "?"); i >= 0 {
			r.URL.RawQuery = target[i+1:]
		}
		d := gate.New(&identitytest.Fake{}, nil).Evaluate(r.Context(), r)
		require.Equal(t, gate.ShowInterstitial, d.Outcome, target)
		require.Equal(t, want, d.Destination, target)
	}
}
