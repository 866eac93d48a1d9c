package notes_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	svc, cleanup := setupNotesContainer(t)
	defer cleanup()

	client := notesdk.NewClient(svc.BaseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Identity)
}

func TestGateRedirectsAndInterstitial(t *testing.T) {
	svc, cleanup := setupNotesContainer(t)
	defer cleanup()

	client := notesdk.NewClient(svc.BaseURL)
	client.FetchSite = "none"

	_, err := client.NewSession("", "").ListNotesPage(t.Context())
	var apiErr *notesdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusTemporaryRedirect, apiErr.StatusCode)
	require.True(t, apiErr.IsRedirectToLogin())

	client.FetchSite = "cross-site"
	html, err := client.NewSession("", "").ListNotesPage(t.Context())
	require.NoError(t, err)
	require.Contains(t, html, `href="/notes/"`)
}

func TestSignInAndNotes(t *testing.T) {
	svc, cleanup := setupNotesContainer(t)
	defer cleanup()
	ctx := t.Context()

	session := svc.signIn(t, "alice@example.com")

	created, err := session.CreateNote(ctx, "first note")
	require.NoError(t, err)
	require.Equal(t, "Note created successfully", created.Message)

	page, err := session.NotePage(ctx, created.NoteID)
	require.NoError(t, err)
	require.Contains(t, page, "first note")

	updated, err := session.UpdateNote(ctx, created.NoteID, "edited note")
	require.NoError(t, err)
	require.Equal(t, created.NoteID, updated.NoteID)

	list, err := session.ListNotesPage(ctx)
	require.NoError(t, err)
	require.Contains(t, list, "edited note")

	bob := svc.signIn(t, "bob@example.com")
	_, err = bob.NotePage(ctx, created.NoteID)
	var apiErr *notesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.True(t, apiErr.IsNotFound())
}

func TestRefreshWithOnlyRefreshToken(t *testing.T) {
	svc, cleanup := setupNotesContainer(t)
	defer cleanup()

	session := svc.signIn(t, "alice@example.com")
	_, refresh := session.Tokens()

	restored := notesdk.NewClient(svc.BaseURL).NewSession("", refresh)
	_, err := restored.ListNotesPage(t.Context())
	require.NoError(t, err)

	id, sameRefresh := restored.Tokens()
	require.NotEmpty(t, id)
	require.Equal(t, refresh, sameRefresh)
}

func TestLogoutFromAllDevices(t *testing.T) {
	svc, cleanup := setupNotesContainer(t)
	defer cleanup()
	ctx := t.Context()

	session := svc.signIn(t, "alice@example.com")
	_, refresh := session.Tokens()

	require.NoError(t, session.Logout(ctx, true))
	id, rt := session.Tokens()
	require.Empty(t, id)
	require.Empty(t, rt)

	_, err := notesdk.NewClient(svc.BaseURL).NewSession("", refresh).ListNotesPage(ctx)
	var apiErr *notesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.True(t, apiErr.IsRedirectToLogin())
}
