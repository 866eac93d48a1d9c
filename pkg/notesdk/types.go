package notesdk

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	// Status is "ok" or "degraded"
	Status string `json:"status"`

	// Uptime is the process uptime (e.g. "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the build version
	Version string `json:"version,omitempty"`

	// Checks is only set by /readyz
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks is the per-dependency readiness result.
type HealthChecks struct {
	Database string `json:"database"`
	Identity string `json:"identity"`
}

// StatusResponse is returned by /status/.
type StatusResponse struct {
	// Firestore reports whether the health document in the provider's
	// document store says ok.
	Firestore bool `json:"firestore"`
}

// NoteResponse is returned by the note create and update endpoints.
type NoteResponse struct {
	Message string `json:"message"`
	NoteID  int64  `json:"note_id"`
}

// Cookie names used by the application.
const (
	BearerCookie  = "idToken"
	RefreshCookie = "refreshToken"
)
