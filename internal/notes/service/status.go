package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

type StatusService struct {
	Store store.Store
	// Prober is optional; without one the document store reports false.
	Prober identity.StatusProber
	// Identity is optional; without one the provider counts as ready.
	Identity identity.ReadinessChecker
}

// Readiness holds one error per dependency, nil when healthy.
type Readiness struct {
	Database error
	Identity error
}

func (r Readiness) OK() bool { return r.Database == nil && r.Identity == nil }

// DocumentStoreOK reports whether the provider's health document says ok.
// Every failure reads as false.
func (s *StatusService) DocumentStoreOK(ctx context.Context) bool {
	if s.Prober == nil {
		return false
	}
	ok, err := s.Prober.DocumentStoreOK(ctx)
	if err != nil {
		slogx.FromContext(ctx).Warn("document store probe failed", slog.Any("error", err))
		return false
	}
	return ok
}

// Ready checks the dependencies every request needs.
func (s *StatusService) Ready(ctx context.Context) Readiness {
	var r Readiness
	r.Database = s.Store.Ping(ctx)
	if r.Database == nil {
		// A reachable database without the notes table is not ready either.
		_, r.Database = s.Store.Notes().CountNotes(ctx)
	}
	if s.Identity != nil {
		r.Identity = s.Identity.Ready(ctx)
	}
	return r
}
