package gate

import (
	"net/http"
	"strings"
)

// Paths with special meaning to the gate.
const (
	ContinuePath = "/continue/"
	LoginPath    = "/auth/form/"
	AuthPrefix   = "/auth/"
)

// openPaths bypass every check. Matching is exact and case-sensitive.
var openPaths = map[string]struct{}{
	"/favicon.ico":        {},
	"/main.css":           {},
	"/noto.ttf":           {},
	"/auth/link/":         {},
	"/continue/index.css": {},
	"/auth/logout/":       {},
	"/error/index.css":    {},
}

// trustedFetchSites are the Sec-Fetch-Site values that mark a request as
// initiated by us or directly by the user.
var trustedFetchSites = map[string]struct{}{
	"same-origin": {},
	"same-site":   {},
	"none":        {},
}

// Classification is derived per request and never stored.
type Classification struct {
	IsCrossSite bool
	IsAuthPath  bool
	IsOpenPath  bool
}

// Classify inspects the fetch metadata header and the request path.
func Classify(h http.Header, path string) Classification {
	_, open := openPaths[path]
	_, trusted := trustedFetchSites[h.Get("Sec-Fetch-Site")]
	return Classification{
		IsCrossSite: !trusted,
		IsAuthPath:  strings.HasPrefix(path, AuthPrefix),
		IsOpenPath:  open,
	}
}

// IsOpenPath reports whether path bypasses the gate.
func IsOpenPath(path string) bool {
	_, ok := openPaths[path]
	return ok
}
