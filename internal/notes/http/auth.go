package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/notes/internal/notes/gate"
	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/internal/notes/web"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// AuthHandler serves the sign-in form, the emailed link and logout.
type AuthHandler struct {
	PublicOrigin  string
	LoginService  *service.LoginService
	LogoutService *service.LogoutService
	Pages         *web.Renderer
}

func (h *AuthHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data *web.FormData) {
	httpx.NoCache(w)
	var d any
	if data != nil {
		d = *data
	}
	h.Pages.Render(w, r, status, web.PageAuthForm, "Sign in", d)
}

// HandleForm renders the empty sign-in form. The gate only lets anonymous
// users this far.
func (h *AuthHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, nil)
}

// HandleFormPost emails a sign-in link.
//
//	@Summary		Request a sign-in link
//	@Description	Emails a one-time sign-in link to the address. The link points back at this origin.
//	@Description	Provider refusal and delivery failure both re-render the form with a "too many requests" notice.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		html
//	@Param			email	formData	string	true	"Email address"
//	@Success		200		{string}	string	"Form page"
//	@Failure		422		{string}	string	"Error page"
//	@Failure		429		{string}	string	"Form page with too many requests notice"
//	@Router			/auth/form/ [post]
func (h *AuthHandler) HandleFormPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Pages.RenderError(w, r, http.StatusUnprocessableEntity, "invalid form data")
		return
	}

	form := loginForm{Email: strings.TrimSpace(r.PostFormValue("email"))}
	if err := validate.Struct(form); err != nil {
		h.Pages.RenderError(w, r, http.StatusUnprocessableEntity, validationReason(err))
		return
	}

	res := h.LoginService.Issue(r.Context(), form.Email, h.linkOrigin(r))
	h.renderForm(w, r, http.StatusOK, &web.FormData{Email: form.Email, TooManyRequests: res.RateLimited})
}

// linkOrigin is PublicOrigin when configured, else the origin of r. An
// Origin header naming another host is never used.
func (h *AuthHandler) linkOrigin(r *http.Request) string {
	if h.PublicOrigin != "" {
		return h.PublicOrigin
	}
	return httpx.RequestOrigin(r)
}

// HandleFormLimited answers a throttled form submission.
func (h *AuthHandler) HandleFormLimited(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	h.renderForm(w, r, http.StatusTooManyRequests, &web.FormData{Email: email, TooManyRequests: true})
}

// HandleLink completes sign-in from an emailed link.
//
//	@Summary		Complete email-link sign-in
//	@Description	Exchanges the code for a session, sets the idToken and refreshToken cookies and shows a continue page.
//	@Tags			Auth
//	@Produce		html
//	@Param			email	query		string	true	"Email address the link was sent to"
//	@Param			oobCode	query		string	true	"One-time code from the link"
//	@Success		200		{string}	string	"Continue page"
//	@Success		303		{string}	string	"Redirect to /auth/form/ when the code is rejected"
//	@Failure		422		{string}	string	"Error page"
//	@Router			/auth/link/ [get]
func (h *AuthHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := linkQuery{Email: strings.TrimSpace(q.Get("email")), OOBCode: q.Get("oobCode")}
	if err := validate.Struct(query); err != nil {
		h.Pages.RenderError(w, r, http.StatusUnprocessableEntity, validationReason(err))
		return
	}

	httpx.NoCache(w)
	bundle, err := h.LoginService.Confirm(r.Context(), query.Email, query.OOBCode)
	if err != nil {
		http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
		return
	}

	gate.WritePair(w, *bundle)
	slogx.FromContext(r.Context()).Info("signed in with email link")
	h.Pages.Render(w, r, http.StatusOK, web.PageContinue, "Signed in", web.ContinueData{
		Message: "You have been logged in successfully. Your email is " + query.Email + ".",
		URL:     "/",
	})
}

// HandleLogout clears the session, optionally revoking it everywhere.
//
//	@Summary		Log out
//	@Description	Clears both session cookies. "Logout from All Devices" also revokes every refresh token of the user, best effort.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Param			logout	formData	string	true	"Which sessions to end"	Enums(Logout from All Devices, Logout from This Device)
//	@Success		303		{string}	string	"Redirect to /auth/form/"
//	@Failure		422		{string}	string	"Error page"
//	@Router			/auth/logout/ [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Pages.RenderError(w, r, http.StatusUnprocessableEntity, "invalid form data")
		return
	}

	form := logoutForm{Logout: r.PostFormValue("logout")}
	if err := validate.Struct(form); err != nil {
		h.Pages.RenderError(w, r, http.StatusUnprocessableEntity, validationReason(err))
		return
	}

	pair := gate.ReadPair(r)
	h.LogoutService.Logout(r.Context(), pair.Bearer, form.Logout == LogoutAll)

	httpx.NoCache(w)
	gate.ClearPair(w)
	http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
}
