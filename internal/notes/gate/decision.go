package gate

import "github.com/aussiebroadwan/notes/internal/notes/identity"

// Outcome is the terminal state of one evaluation.
type Outcome int

const (
	// Forward passes the request on, with Identity when one was resolved.
	Forward Outcome = iota
	// ShowLoginFormPage forwards an anonymous request to the auth pages.
	ShowLoginFormPage
	// RedirectToLogin sends the browser to the sign-in form.
	RedirectToLogin
	// RedirectHome sends the browser to the home page.
	RedirectHome
	// ShowInterstitial answers a cross-site request with the continue page.
	ShowInterstitial
	// Abandon writes nothing; the client went away mid-evaluation.
	Abandon
)

func (o Outcome) String() string {
	switch o {
	case Forward:
		return "forward"
	case ShowLoginFormPage:
		return "show_login_form"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectHome:
		return "redirect_home"
	case ShowInterstitial:
		return "show_interstitial"
	case Abandon:
		return "abandon"
	default:
		return "unknown"
	}
}

// Decision is the gate's verdict for one request.
type Decision struct {
	Outcome Outcome
	// Status and Location are set for redirects.
	Status   int
	Location string
	// Destination is where the interstitial continues to.
	Destination string

	Identity     *identity.Identity
	SetCookies   *identity.TokenBundle
	ClearCookies bool

	// Reason is a short machine-readable label for logs.
	Reason string
}
