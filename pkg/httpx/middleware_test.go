package httpx_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), nil, mw("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRequireUser(t *testing.T) {
	t.Run("passes with user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notes/", nil)
		req = req.WithContext(httpx.WithUserID(req.Context(), "uid-1"))
		rec := httptest.NewRecorder()

		httpx.RequireUser(nil)(okHandler()).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("401 without user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.RequireUser(nil)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("delegates to denied handler", func(t *testing.T) {
		denied := http.RedirectHandler("/auth/form/", http.StatusSeeOther)
		rec := httptest.NewRecorder()
		httpx.RequireUser(denied)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes/", nil))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/auth/form/", rec.Header().Get("Location"))
	})
}

func TestRequestOrigin(t *testing.T) {
	t.Run("origin header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://notes.example.com/auth/form/", nil)
		req.Header.Set("Origin", "https://notes.example.com/")
		require.Equal(t, "https://notes.example.com", httpx.RequestOrigin(req))
	})

	t.Run("origin for another host is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://notes.example.com/auth/form/", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("X-Forwarded-Proto", "https")
		require.Equal(t, "https://notes.example.com", httpx.RequestOrigin(req))
	})

	t.Run("forwarded proto", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://notes.example.com/continue/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		require.Equal(t, "https://notes.example.com", httpx.RequestOrigin(req))
	})

	t.Run("tls", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://notes.example.com/", nil)
		req.TLS = &tls.ConnectionState{}
		require.Equal(t, "https://notes.example.com", httpx.RequestOrigin(req))
	})
}
