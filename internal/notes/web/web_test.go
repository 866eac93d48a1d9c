package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestRenderContinue(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()
	r.RenderContinue(rec, httptest.NewRequest(http.MethodGet, "/notes/", nil), "/notes/?a=1&b=2")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), `href="/notes/?a=1&amp;b=2"`)
}

func TestRenderEscapesUserContent(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()
	r.Render(rec, httptest.NewRequest(http.MethodGet, "/notes/", nil), http.StatusOK, PageNotes, "Your notes", NotesData{
		Timezone: "UTC",
		Notes:    []NoteView{{ID: 3, Note: "<script>alert(1)</script>", CreatedAt: "x"}},
	})

	body := rec.Body.String()
	require.NotContains(t, body, "<script>alert(1)</script>")
	require.Contains(t, body, "&lt;script&gt;")
	require.Contains(t, body, `href="/notes/3/"`)
}

func TestRenderAuthForm(t *testing.T) {
	r := newRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/auth/form/", nil)

	rec := httptest.NewRecorder()
	r.Render(rec, req, http.StatusOK, PageAuthForm, "Sign in", nil)
	require.NotContains(t, rec.Body.String(), "Too many requests")

	rec = httptest.NewRecorder()
	r.Render(rec, req, http.StatusOK, PageAuthForm, "Sign in", FormData{Email: "a@example.com", TooManyRequests: true})
	require.Contains(t, rec.Body.String(), "Too many requests")

	rec = httptest.NewRecorder()
	r.Render(rec, req, http.StatusOK, PageAuthForm, "Sign in", FormData{Email: "a@example.com"})
	require.Contains(t, rec.Body.String(), "A login link has been sent")
}

func TestRenderError(t *testing.T) {
	rec := httptest.NewRecorder()
	newRenderer(t).RenderError(rec, httptest.NewRequest(http.MethodPost, "/auth/form/", nil), http.StatusUnprocessableEntity, "value is not a valid email address")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "value is not a valid email address")
}

func TestRenderUnknownPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newRenderer(t).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing.html", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatic(t *testing.T) {
	h := Static()
	for _, p := range []string{"/main.css", "/continue/index.css", "/error/index.css"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		require.Equal(t, http.StatusOK, rec.Code, p)
		require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/css"), p)
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2025, 7, 4, 23, 30, 5, 0, time.UTC)

	require.Equal(t, "July 04, 2025 23:30:05", FormatTime(ts, Location("")))
	require.Equal(t, "July 05, 2025 09:30:05", FormatTime(ts, Location("Australia/Brisbane")))
	require.Equal(t, time.UTC, Location("Not/AZone"))
}
