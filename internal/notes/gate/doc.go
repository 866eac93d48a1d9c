// Package gate decides, for every request, whether it reaches the
// application, and as whom.
//
// The decision runs in a fixed order: open paths, then cross-site
// classification, then the session cookies. A bearer token is always
// verified before a refresh is attempted, and a refresh never replaces a
// bearer that still verifies. Provider failures of any kind degrade to
// "no valid credential"; the gate itself never answers with a 5xx.
//
// # Security notes
//
// Cross-site detection relies on the Sec-Fetch-Site request header. When it
// is same-origin, same-site or none the request is trusted. Anything else,
// including a missing header, gets the interstitial continue page rather
// than a rejection: the user must click through before the session cookies
// are used. Browsers that do not send Fetch Metadata therefore always see
// the interstitial, and non-browser clients that omit the header can never
// reach protected pages. Cookies are SameSite=Strict as a second line.
//
// The gate keeps no state between requests. Two concurrent requests
// holding the same expired bearer each run their own refresh; the identity
// provider decides whether both succeed.
package gate
