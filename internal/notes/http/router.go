package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/gate"
	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/internal/notes/web"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
	"github.com/klauspost/compress/gzhttp"

	_ "github.com/aussiebroadwan/notes/api/notes" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
//
// Requests to the probes go straight to their handlers. Everything else
// passes through the session gate before reaching Mux.
type Router struct {
	Mux         *http.ServeMux
	root        *http.ServeMux
	middlewares []httpx.Middleware

	gate         *gate.Gate
	pages        *web.Renderer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// PublicOrigin, when set, is the only origin sign-in links point at.
	PublicOrigin string

	LoginService  *service.LoginService
	LogoutService *service.LogoutService
	NoteService   *service.NoteService
	StatusService *service.StatusService
}

func NewRouter(g *gate.Gate, pages *web.Renderer, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		root:         http.NewServeMux(),
		gate:         g,
		pages:        pages,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       slogx.OrDiscard(logger),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		compress,
	}

	return r
}

func compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

func (r *Router) ApplyRoutes() {
	r.registerAssets()
	r.registerAuth()
	r.registerNotes()
	r.registerPages()
	r.registerSystem()

	r.Mux.Handle("GET /docs/", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.root.Handle("/", httpx.Chain(r.Mux, r.gate.Middleware()))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Notes API
//	@version		0.1.0
//	@description	Personal notes behind passwordless email-link sign-in.
//	@description
//	@description	Browser sessions live in the idToken and refreshToken cookies. Requests must
//	@description	carry Sec-Fetch-Site; cross-site requests get a continue page instead.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/notes
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						idToken
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.root, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAssets() {
	static := httpx.Chain(web.Static(), httpx.RateLimitByIP(httpx.PublicLimit))
	for _, p := range []string{"/main.css", "/continue/index.css", "/error/index.css", "/favicon.ico", "/noto.ttf"} {
		r.Mux.Handle("GET "+p, static)
	}
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		PublicOrigin:  r.PublicOrigin,
		LoginService:  r.LoginService,
		LogoutService: r.LogoutService,
		Pages:         r.pages,
	}

	r.Mux.Handle("GET /auth/form/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleForm),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Strict per IP+email: every accepted submission sends an email.
	r.Mux.Handle("POST /auth/form/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleFormPost),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email",
				httpx.OnLimited(http.HandlerFunc(h.HandleFormLimited)),
			),
		),
	)

	r.Mux.Handle("GET /auth/link/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleLink),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /auth/logout/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerNotes() {
	h := &NotesHandler{NoteService: r.NoteService, Pages: r.pages}
	toLogin := http.RedirectHandler(gate.LoginPath, http.StatusTemporaryRedirect)

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireUser(toLogin),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireUser(toLogin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /notes/{$}", read(h.HandleList))
	r.Mux.Handle("GET /notes/{uid}/{$}", read(h.HandleGet))
	r.Mux.Handle("POST /notes/create/{$}", write(h.HandleCreate))
	r.Mux.Handle("POST /notes/update/{$}", write(h.HandleUpdate))
}

func (r *Router) registerPages() {
	r.Mux.Handle("GET /{$}",
		httpx.Chain(http.HandlerFunc(r.handleHome),
			httpx.RequireUser(http.RedirectHandler(gate.LoginPath, http.StatusTemporaryRedirect)),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) handleHome(w http.ResponseWriter, req *http.Request) {
	httpx.NoCache(w)
	r.pages.Render(w, req, http.StatusOK, web.PageIndex, "Home", nil)
}

func (r *Router) registerSystem() {
	// Probes sit in front of the gate; orchestrators send no fetch metadata.
	r.root.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.root.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.StatusService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /status/{$}",
		httpx.Chain(StatusHandler(r.StatusService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
