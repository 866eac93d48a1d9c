package notesdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to one notes deployment. It never follows redirects so
// callers can see where the gate sent them.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// FetchSite is sent as Sec-Fetch-Site. Defaults to "same-origin";
	// set "cross-site" to observe the interstitial.
	FetchSite string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		FetchSite: "same-origin",
	}
}

// NewSession wraps existing cookie values.
func (c *Client) NewSession(idToken, refreshToken string) *Session {
	return &Session{client: c, idToken: idToken, refreshToken: refreshToken}
}

// RequestLoginLink submits the sign-in form. The link arrives by email.
// The returned HTML is the re-rendered form.
func (c *Client) RequestLoginLink(ctx context.Context, email string) (string, error) {
	form := url.Values{"email": {email}}
	resp, err := c.doForm(ctx, "/auth/form/", form, nil)
	if err != nil {
		return "", err
	}
	return readBody(resp, http.StatusOK)
}

// OpenSignInLink follows an emailed link and returns the session it set.
// link may be absolute or a path with query.
func (c *Client) OpenSignInLink(ctx context.Context, link string) (*Session, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, http.MethodGet, u.RequestURI(), nil, nil, nil)
	if err != nil {
		return nil, err
	}

	s := &Session{client: c}
	s.absorb(resp)
	if _, err := readBody(resp, http.StatusOK); err != nil {
		return nil, err
	}
	if s.idToken == "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: "no session cookies set"}
	}
	return s, nil
}
