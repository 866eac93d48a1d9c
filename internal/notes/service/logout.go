package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

type LogoutService struct {
	Provider identity.Provider
}

// Logout revokes every refresh token of the bearer's user when revokeAll
// is set. It is best effort: failures are logged and swallowed, and the
// caller clears cookies regardless.
func (s *LogoutService) Logout(ctx context.Context, bearer string, revokeAll bool) {
	if !revokeAll {
		return
	}
	log := slogx.FromContext(ctx)

	if bearer == "" {
		log.Info("logout from all devices without a bearer token")
		return
	}

	id, err := s.Provider.Verify(ctx, bearer)
	if err != nil {
		log.Warn("logout: bearer rejected, nothing revoked",
			slog.String("kind", identity.KindOf(err).String()),
			slog.Any("error", err),
		)
		return
	}

	if err := s.Provider.RevokeAll(ctx, id.UserID); err != nil {
		log.Error("logout: revoke failed",
			slog.String("user_id", id.UserID),
			slog.String("kind", identity.KindOf(err).String()),
			slog.Any("error", err),
		)
		return
	}
	log.Info("revoked all sessions", slog.String("user_id", id.UserID))
}
