package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/notesdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe. Always 200 while the process is running.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	notesdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get]
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, notesdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe covering the database and the identity provider.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	notesdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	notesdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get]
func ReadyzHandler(startTime time.Time, version string, status *service.StatusService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := status.Ready(r.Context())

		checks := &notesdk.HealthChecks{Database: "ok", Identity: "ok"}
		overall, code := "ok", http.StatusOK
		if res.Database != nil {
			checks.Database = "error: " + res.Database.Error()
		}
		if res.Identity != nil {
			checks.Identity = "error: " + res.Identity.Error()
		}
		if !res.OK() {
			overall, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, notesdk.HealthResponse{
			Status:  overall,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

// StatusHandler godoc
//
//	@Summary		Document store status
//	@Description	Reads the ok/0 health document from the provider's document store.
//	@Tags			Status
//	@Produce		json
//	@Success		200	{object}	notesdk.StatusResponse	"firestore"
//	@Security		CookieAuth
//	@Router			/status/ [get]
func StatusHandler(status *service.StatusService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, notesdk.StatusResponse{
			Firestore: status.DocumentStoreOK(r.Context()),
		})
	}
}
