package notesdk

import (
	"fmt"
	"net/http"
	"strings"
)

// APIError is any response the SDK did not expect.
type APIError struct {
	StatusCode int
	// Location is set for redirects.
	Location string
	Body     string
}

func (e *APIError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("notes: unexpected %d redirect to %s", e.StatusCode, e.Location)
	}
	return fmt.Sprintf("notes: unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsRedirectToLogin reports whether the application sent the caller to
// the sign-in form, i.e. the session is gone.
func (e *APIError) IsRedirectToLogin() bool {
	return e.StatusCode >= 300 && e.StatusCode < 400 && strings.HasSuffix(e.Location, "/auth/form/")
}

// IsNotFound reports a 404.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }
